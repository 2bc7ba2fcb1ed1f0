// Package gateway is the only way the flows reach persisted rooms and
// participants, and the realtime change feed.
package gateway

import (
	models "Dilemma/models/postgres"
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when the room or participant does not exist
	ErrNotFound = errors.New("gateway: record not found")
	// ErrDuplicateCode is returned when the room code is already taken
	ErrDuplicateCode = errors.New("gateway: duplicate room code")
	// ErrChoiceRecorded is returned by SetChoiceIfUnset when a choice is
	// already stored for the participant
	ErrChoiceRecorded = errors.New("gateway: choice already recorded")
	// ErrStore wraps every other failure of the underlying store
	ErrStore = errors.New("gateway: store failure")
)

type Gateway interface {
	CreateRoom(ctx context.Context, code string) (*models.Room, error)
	// GetRoomByCode looks a room up by its normalized code. With activeOnly
	// an inactive room is reported as ErrNotFound.
	GetRoomByCode(ctx context.Context, code string, activeOnly bool) (*models.Room, error)
	RoomCodeExists(ctx context.Context, code string) (bool, error)
	DeactivateRoom(ctx context.Context, roomID string) error

	FindParticipant(ctx context.Context, roomID, sessionID string) (*models.Participant, error)
	CreateParticipant(ctx context.Context, roomID, name, sessionID string) (*models.Participant, error)
	GetParticipant(ctx context.Context, participantID string) (*models.Participant, error)
	SetChoice(ctx context.Context, participantID string, choice models.Choice, at time.Time) error
	// SetChoiceIfUnset writes the choice only while none is stored; the
	// check and the write are one statement in the store.
	SetChoiceIfUnset(ctx context.Context, participantID string, choice models.Choice, at time.Time) error
	ClearChoice(ctx context.Context, participantID string) error
	DeleteParticipant(ctx context.Context, participantID string) error
	// ListParticipants returns the room's participants ordered by JoinedAt.
	ListParticipants(ctx context.Context, roomID string) ([]models.Participant, error)

	// SubscribeParticipantChanges calls onChange after any committed change
	// to the room's participants. Notifications may repeat or arrive out of
	// order; consumers re-read the full list every time.
	SubscribeParticipantChanges(roomID string, onChange func()) (unsubscribe func(), err error)
}

type storeError struct {
	op  string
	err error
}

func (e *storeError) Error() string {
	return "gateway: " + e.op + ": " + e.err.Error()
}

func (e *storeError) Unwrap() []error {
	return []error{ErrStore, e.err}
}

func wrapStore(op string, err error) error {
	return &storeError{op: op, err: err}
}
