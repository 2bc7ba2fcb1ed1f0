package gateway

import (
	models "Dilemma/models/postgres"
	"Dilemma/services/feed"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

// GormGateway stores rooms and participants in PostgreSQL.
type GormGateway struct {
	db   *gorm.DB
	feed feed.Feed
}

func NewGormGateway(db *gorm.DB, f feed.Feed) *GormGateway {
	if db == nil {
		panic("database connection cannot be nil for GormGateway")
	}
	return &GormGateway{
		// every operation is a single statement
		db:   db.Session(&gorm.Session{SkipDefaultTransaction: true}),
		feed: f,
	}
}

func (g *GormGateway) CreateRoom(ctx context.Context, code string) (*models.Room, error) {
	room := models.Room{RoomCode: code, IsActive: true}
	if err := g.db.WithContext(ctx).Create(&room).Error; err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrDuplicateCode
		}
		return nil, wrapStore("create room", err)
	}
	return &room, nil
}

func (g *GormGateway) GetRoomByCode(ctx context.Context, code string, activeOnly bool) (*models.Room, error) {
	var room models.Room
	tx := g.db.WithContext(ctx).Where("room_code = ?", code)
	if activeOnly {
		tx = tx.Where("is_active = ?", true)
	}
	if err := tx.First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, wrapStore(fmt.Sprintf("find room by code '%s'", code), err)
	}
	return &room, nil
}

func (g *GormGateway) RoomCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&models.Room{}).Where("room_code = ?", code).Count(&count).Error
	if err != nil {
		return false, wrapStore(fmt.Sprintf("count rooms by code '%s'", code), err)
	}
	return count > 0, nil
}

func (g *GormGateway) DeactivateRoom(ctx context.Context, roomID string) error {
	result := g.db.WithContext(ctx).Model(&models.Room{}).Where("id = ?", roomID).Update("is_active", false)
	if result.Error != nil {
		return wrapStore("deactivate room", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	g.publish(ctx, roomID)
	return nil
}

func (g *GormGateway) FindParticipant(ctx context.Context, roomID, sessionID string) (*models.Participant, error) {
	var participant models.Participant
	err := g.db.WithContext(ctx).
		Where("room_id = ? AND session_id = ?", roomID, sessionID).
		First(&participant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, wrapStore("find participant", err)
	}
	return &participant, nil
}

func (g *GormGateway) CreateParticipant(ctx context.Context, roomID, name, sessionID string) (*models.Participant, error) {
	participant := models.Participant{
		RoomID:    roomID,
		Name:      name,
		SessionID: sessionID,
	}
	if err := g.db.WithContext(ctx).Create(&participant).Error; err != nil {
		return nil, wrapStore("create participant", err)
	}
	g.publish(ctx, roomID)
	return &participant, nil
}

func (g *GormGateway) GetParticipant(ctx context.Context, participantID string) (*models.Participant, error) {
	var participant models.Participant
	if err := g.db.WithContext(ctx).Where("id = ?", participantID).First(&participant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, wrapStore("get participant", err)
	}
	return &participant, nil
}

func (g *GormGateway) SetChoice(ctx context.Context, participantID string, choice models.Choice, at time.Time) error {
	return g.updateChoice(ctx, participantID, map[string]interface{}{
		"choice":           string(choice),
		"choice_timestamp": at,
	})
}

func (g *GormGateway) SetChoiceIfUnset(ctx context.Context, participantID string, choice models.Choice, at time.Time) error {
	participant, err := g.GetParticipant(ctx, participantID)
	if err != nil {
		return err
	}
	result := g.db.WithContext(ctx).Model(&models.Participant{}).
		Where("id = ? AND choice IS NULL", participantID).
		Updates(map[string]interface{}{
			"choice":           string(choice),
			"choice_timestamp": at,
		})
	if result.Error != nil {
		return wrapStore("set choice", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrChoiceRecorded
	}
	g.publish(ctx, participant.RoomID)
	return nil
}

func (g *GormGateway) ClearChoice(ctx context.Context, participantID string) error {
	return g.updateChoice(ctx, participantID, map[string]interface{}{
		"choice":           nil,
		"choice_timestamp": nil,
	})
}

func (g *GormGateway) updateChoice(ctx context.Context, participantID string, values map[string]interface{}) error {
	participant, err := g.GetParticipant(ctx, participantID)
	if err != nil {
		return err
	}
	result := g.db.WithContext(ctx).Model(&models.Participant{}).Where("id = ?", participantID).Updates(values)
	if result.Error != nil {
		return wrapStore("update choice", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	g.publish(ctx, participant.RoomID)
	return nil
}

func (g *GormGateway) DeleteParticipant(ctx context.Context, participantID string) error {
	participant, err := g.GetParticipant(ctx, participantID)
	if err != nil {
		return err
	}
	result := g.db.WithContext(ctx).Where("id = ?", participantID).Delete(&models.Participant{})
	if result.Error != nil {
		return wrapStore("delete participant", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	g.publish(ctx, participant.RoomID)
	return nil
}

func (g *GormGateway) ListParticipants(ctx context.Context, roomID string) ([]models.Participant, error) {
	participants := []models.Participant{}
	err := g.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("joined_at asc").
		Find(&participants).Error
	if err != nil {
		return nil, wrapStore("list participants", err)
	}
	return participants, nil
}

func (g *GormGateway) SubscribeParticipantChanges(roomID string, onChange func()) (func(), error) {
	if g.feed == nil {
		return func() {}, nil
	}
	return g.feed.Subscribe(roomID, onChange)
}

// publish runs after the write committed; a lost notification only delays
// dashboards until the next change, so it is logged and not returned.
func (g *GormGateway) publish(ctx context.Context, roomID string) {
	if g.feed == nil {
		return
	}
	if err := g.feed.Publish(ctx, roomID); err != nil {
		logrus.WithError(err).WithField("room_id", roomID).Warn("[GATEWAY] Could not publish participant change")
	}
}
