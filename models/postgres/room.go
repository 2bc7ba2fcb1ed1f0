package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*
 * 'Room' is one run of the experiment. Rooms are never deleted, only
 * deactivated, and deactivation is terminal.
 */
type Room struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	RoomCode  string    `gorm:"column:room_code;size:6;not null;uniqueIndex:idx_rooms_code" json:"room_code"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	IsActive  bool      `gorm:"not null;index:idx_rooms_active" json:"is_active"`

	// Participants are removed with their room
	Participants []*Participant `gorm:"foreignKey:RoomID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func (Room) TableName() string {
	return "rooms"
}

// Ids are assigned on our side so the same rows can live in memory and in Postgres
func (r *Room) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
