// Package mocks holds testify mocks of the gateway for flow tests that need
// to assert which store calls happen.
package mocks

import (
	models "Dilemma/models/postgres"
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type Gateway struct {
	mock.Mock
}

func (m *Gateway) CreateRoom(ctx context.Context, code string) (*models.Room, error) {
	args := m.Called(ctx, code)
	room, _ := args.Get(0).(*models.Room)
	return room, args.Error(1)
}

func (m *Gateway) GetRoomByCode(ctx context.Context, code string, activeOnly bool) (*models.Room, error) {
	args := m.Called(ctx, code, activeOnly)
	room, _ := args.Get(0).(*models.Room)
	return room, args.Error(1)
}

func (m *Gateway) RoomCodeExists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *Gateway) DeactivateRoom(ctx context.Context, roomID string) error {
	return m.Called(ctx, roomID).Error(0)
}

func (m *Gateway) FindParticipant(ctx context.Context, roomID, sessionID string) (*models.Participant, error) {
	args := m.Called(ctx, roomID, sessionID)
	p, _ := args.Get(0).(*models.Participant)
	return p, args.Error(1)
}

func (m *Gateway) CreateParticipant(ctx context.Context, roomID, name, sessionID string) (*models.Participant, error) {
	args := m.Called(ctx, roomID, name, sessionID)
	p, _ := args.Get(0).(*models.Participant)
	return p, args.Error(1)
}

func (m *Gateway) GetParticipant(ctx context.Context, participantID string) (*models.Participant, error) {
	args := m.Called(ctx, participantID)
	p, _ := args.Get(0).(*models.Participant)
	return p, args.Error(1)
}

func (m *Gateway) SetChoice(ctx context.Context, participantID string, choice models.Choice, at time.Time) error {
	return m.Called(ctx, participantID, choice, at).Error(0)
}

func (m *Gateway) SetChoiceIfUnset(ctx context.Context, participantID string, choice models.Choice, at time.Time) error {
	return m.Called(ctx, participantID, choice, at).Error(0)
}

func (m *Gateway) ClearChoice(ctx context.Context, participantID string) error {
	return m.Called(ctx, participantID).Error(0)
}

func (m *Gateway) DeleteParticipant(ctx context.Context, participantID string) error {
	return m.Called(ctx, participantID).Error(0)
}

func (m *Gateway) ListParticipants(ctx context.Context, roomID string) ([]models.Participant, error) {
	args := m.Called(ctx, roomID)
	participants, _ := args.Get(0).([]models.Participant)
	return participants, args.Error(1)
}

func (m *Gateway) SubscribeParticipantChanges(roomID string, onChange func()) (func(), error) {
	args := m.Called(roomID, onChange)
	unsubscribe, _ := args.Get(0).(func())
	return unsubscribe, args.Error(1)
}
