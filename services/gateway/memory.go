package gateway

import (
	models "Dilemma/models/postgres"
	"Dilemma/services/feed"
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryGateway keeps rooms and participants in process memory. It backs
// the --store=memory mode and the flow tests, and enforces the same
// constraints as the PostgreSQL schema: unique room codes, and nothing on
// (room_id, session_id).
type MemoryGateway struct {
	mu           sync.RWMutex
	rooms        map[string]*models.Room
	participants map[string]*models.Participant
	feed         feed.Feed
	now          func() time.Time
}

func NewMemoryGateway(f feed.Feed) *MemoryGateway {
	return &MemoryGateway{
		rooms:        make(map[string]*models.Room),
		participants: make(map[string]*models.Participant),
		feed:         f,
		now:          time.Now,
	}
}

// WithClock replaces the clock used for created_at and joined_at.
func (g *MemoryGateway) WithClock(now func() time.Time) *MemoryGateway {
	g.now = now
	return g
}

func (g *MemoryGateway) CreateRoom(ctx context.Context, code string) (*models.Room, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, room := range g.rooms {
		if room.RoomCode == code {
			return nil, ErrDuplicateCode
		}
	}
	room := &models.Room{
		ID:        uuid.NewString(),
		RoomCode:  code,
		CreatedAt: g.now(),
		IsActive:  true,
	}
	g.rooms[room.ID] = room
	copied := *room
	return &copied, nil
}

func (g *MemoryGateway) GetRoomByCode(ctx context.Context, code string, activeOnly bool) (*models.Room, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for _, room := range g.rooms {
		if room.RoomCode != code {
			continue
		}
		if activeOnly && !room.IsActive {
			return nil, ErrNotFound
		}
		copied := *room
		return &copied, nil
	}
	return nil, ErrNotFound
}

func (g *MemoryGateway) RoomCodeExists(ctx context.Context, code string) (bool, error) {
	_, err := g.GetRoomByCode(ctx, code, false)
	if err == ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (g *MemoryGateway) DeactivateRoom(ctx context.Context, roomID string) error {
	g.mu.Lock()
	room, ok := g.rooms[roomID]
	if ok {
		room.IsActive = false
	}
	g.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	g.publish(ctx, roomID)
	return nil
}

func (g *MemoryGateway) FindParticipant(ctx context.Context, roomID, sessionID string) (*models.Participant, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for _, p := range g.participants {
		if p.RoomID == roomID && p.SessionID == sessionID {
			return copyParticipant(p), nil
		}
	}
	return nil, ErrNotFound
}

func (g *MemoryGateway) CreateParticipant(ctx context.Context, roomID, name, sessionID string) (*models.Participant, error) {
	g.mu.Lock()
	if _, ok := g.rooms[roomID]; !ok {
		g.mu.Unlock()
		return nil, wrapStore("create participant", ErrNotFound)
	}
	p := &models.Participant{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		Name:      name,
		SessionID: sessionID,
		JoinedAt:  g.now(),
	}
	g.participants[p.ID] = p
	created := copyParticipant(p)
	g.mu.Unlock()

	g.publish(ctx, roomID)
	return created, nil
}

func (g *MemoryGateway) GetParticipant(ctx context.Context, participantID string) (*models.Participant, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	p, ok := g.participants[participantID]
	if !ok {
		return nil, ErrNotFound
	}
	return copyParticipant(p), nil
}

func (g *MemoryGateway) SetChoice(ctx context.Context, participantID string, choice models.Choice, at time.Time) error {
	value := string(choice)
	return g.mutate(ctx, participantID, func(p *models.Participant) bool {
		p.Choice = &value
		p.ChoiceTimestamp = &at
		return true
	})
}

func (g *MemoryGateway) SetChoiceIfUnset(ctx context.Context, participantID string, choice models.Choice, at time.Time) error {
	value := string(choice)
	recorded := false
	err := g.mutate(ctx, participantID, func(p *models.Participant) bool {
		if p.Choice != nil {
			recorded = true
			return false
		}
		p.Choice = &value
		p.ChoiceTimestamp = &at
		return true
	})
	if err == nil && recorded {
		return ErrChoiceRecorded
	}
	return err
}

func (g *MemoryGateway) ClearChoice(ctx context.Context, participantID string) error {
	return g.mutate(ctx, participantID, func(p *models.Participant) bool {
		p.Choice = nil
		p.ChoiceTimestamp = nil
		return true
	})
}

// mutate applies a change under the lock; apply reports whether it wrote.
func (g *MemoryGateway) mutate(ctx context.Context, participantID string, apply func(p *models.Participant) bool) error {
	g.mu.Lock()
	p, ok := g.participants[participantID]
	changed := false
	var roomID string
	if ok {
		changed = apply(p)
		roomID = p.RoomID
	}
	g.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	if changed {
		g.publish(ctx, roomID)
	}
	return nil
}

func (g *MemoryGateway) DeleteParticipant(ctx context.Context, participantID string) error {
	g.mu.Lock()
	p, ok := g.participants[participantID]
	delete(g.participants, participantID)
	g.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	g.publish(ctx, p.RoomID)
	return nil
}

func (g *MemoryGateway) ListParticipants(ctx context.Context, roomID string) ([]models.Participant, error) {
	g.mu.RLock()
	participants := []models.Participant{}
	for _, p := range g.participants {
		if p.RoomID == roomID {
			participants = append(participants, *copyParticipant(p))
		}
	}
	g.mu.RUnlock()

	sort.SliceStable(participants, func(i, j int) bool {
		if participants[i].JoinedAt.Equal(participants[j].JoinedAt) {
			return participants[i].ID < participants[j].ID
		}
		return participants[i].JoinedAt.Before(participants[j].JoinedAt)
	})
	return participants, nil
}

func (g *MemoryGateway) SubscribeParticipantChanges(roomID string, onChange func()) (func(), error) {
	if g.feed == nil {
		return func() {}, nil
	}
	return g.feed.Subscribe(roomID, onChange)
}

func (g *MemoryGateway) publish(ctx context.Context, roomID string) {
	if g.feed != nil {
		_ = g.feed.Publish(ctx, roomID)
	}
}

func copyParticipant(p *models.Participant) *models.Participant {
	copied := *p
	if p.Choice != nil {
		choice := *p.Choice
		copied.Choice = &choice
	}
	if p.ChoiceTimestamp != nil {
		at := *p.ChoiceTimestamp
		copied.ChoiceTimestamp = &at
	}
	return &copied
}
