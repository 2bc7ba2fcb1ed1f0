package postgres

import (
	room_constants "Dilemma/constants/room"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Choice is the participant's decision. The zero value means no decision yet.
type Choice string

const (
	ChoiceUnset     Choice = ""
	ChoiceCooperate Choice = room_constants.CHOICE_COOPERATE
	ChoiceDefect    Choice = room_constants.CHOICE_DEFECT
)

// ParseChoice accepts only the two submittable values.
func ParseChoice(s string) (Choice, bool) {
	switch Choice(s) {
	case ChoiceCooperate, ChoiceDefect:
		return Choice(s), true
	}
	return ChoiceUnset, false
}

/*
 * 'Participant' is a device that joined a room. At most one row per
 * (room_id, session_id) is expected, but this is only checked before insert.
 */
type Participant struct {
	ID              string     `gorm:"primaryKey;type:uuid" json:"id"`
	RoomID          string     `gorm:"type:uuid;not null;index:idx_participants_room_id" json:"room_id"`
	Name            string     `gorm:"size:100;not null" json:"name"`
	SessionID       string     `gorm:"size:64;index:idx_participants_session" json:"-"`
	Choice          *string    `gorm:"size:20" json:"choice"`
	ChoiceTimestamp *time.Time `json:"choice_timestamp"`
	JoinedAt        time.Time  `gorm:"autoCreateTime;index:idx_participants_joined_at" json:"joined_at"`

	Room Room `gorm:"foreignKey:RoomID" json:"-"`
}

func (Participant) TableName() string {
	return "participants"
}

func (p *Participant) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// CurrentChoice returns the stored choice, ChoiceUnset for NULL.
func (p *Participant) CurrentChoice() Choice {
	if p.Choice == nil {
		return ChoiceUnset
	}
	return Choice(*p.Choice)
}

func (p *Participant) HasChoice() bool {
	return p.CurrentChoice() != ChoiceUnset
}
