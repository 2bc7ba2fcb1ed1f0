package flows

import (
	room_constants "Dilemma/constants/room"
	models "Dilemma/models/postgres"
	"Dilemma/services/apperr"
	"Dilemma/services/gateway"
	"Dilemma/services/roomcode"
	"Dilemma/services/session"
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

// CreateRoom allocates a fresh room code, inserts an active room and makes
// this browser its facilitator. A code that turns out taken at insert time
// counts as one more collision.
func (f *Flows) CreateRoom(ctx context.Context, sess session.Context) Outcome {
	var room *models.Room
	claim := func(ctx context.Context, code string) (bool, error) {
		taken, err := f.gw.RoomCodeExists(ctx, code)
		if err != nil || taken {
			return taken, err
		}
		created, err := f.gw.CreateRoom(ctx, code)
		if errors.Is(err, gateway.ErrDuplicateCode) {
			return true, nil
		}
		if err != nil {
			return false, err
		}
		room = created
		return false, nil
	}

	if _, err := roomcode.Unique(ctx, f.generateCode, claim, room_constants.MAX_ROOM_CODE_ATTEMPTS); err != nil {
		if errors.Is(err, roomcode.ErrExhausted) {
			logrus.Warn("[CREATE] No free room code after max attempts")
			return fail(session.ViewLanding, apperr.Conflict("could not allocate a room code, try again"))
		}
		logrus.WithError(err).Error("[CREATE] Could not create room")
		return fail(session.ViewLanding, apperr.Store("could not create room, try again", err))
	}

	log := logrus.WithFields(logrus.Fields{"room_id": room.ID, "room_code": room.RoomCode})
	session.SetAdmin(sess, session.Admin{RoomID: room.ID, RoomCode: room.RoomCode, Creator: true})
	if appErr := save(sess, log); appErr != nil {
		return fail(session.ViewLanding, appErr)
	}

	log.Info("[CREATE] Room created")
	return Outcome{View: session.ViewDashboard, Room: room}
}

// JoinRoom registers this browser as a participant of the active room
// with the given code.
func (f *Flows) JoinRoom(ctx context.Context, sess session.Context, name, code string) Outcome {
	name = strings.TrimSpace(name)
	code = roomcode.Normalize(code)

	if name == "" {
		return fail(session.ViewLanding, apperr.Validation("name is required"))
	}
	if utf8.RuneCountInString(name) > room_constants.MAX_NAME_LENGTH {
		return fail(session.ViewLanding, apperr.Validation("name must be at most 50 characters"))
	}
	if !roomcode.Valid(code) {
		return fail(session.ViewLanding, apperr.Validation("room code must be 6 letters or digits"))
	}

	room, err := f.gw.GetRoomByCode(ctx, code, true)
	if err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			return fail(session.ViewLanding, apperr.NotFound("room not found or inactive"))
		}
		return fail(session.ViewLanding, apperr.Store("could not look up room, try again", err))
	}

	sessionID := session.EnsureSessionID(sess)
	log := logrus.WithFields(logrus.Fields{"room_id": room.ID, "room_code": room.RoomCode})

	// Read then insert; two simultaneous joins from one browser can both pass.
	_, err = f.gw.FindParticipant(ctx, room.ID, sessionID)
	switch {
	case err == nil:
		return fail(session.ViewLanding, apperr.Conflict("you already joined this room"))
	case !errors.Is(err, gateway.ErrNotFound):
		return fail(session.ViewLanding, apperr.Store("could not join room, try again", err))
	}

	participant, err := f.gw.CreateParticipant(ctx, room.ID, name, sessionID)
	if err != nil {
		log.WithError(err).Error("[JOIN] Could not insert participant")
		return fail(session.ViewLanding, apperr.Store("could not join room, try again", err))
	}

	session.SetParticipant(sess, session.Participant{
		ID:       participant.ID,
		Name:     participant.Name,
		RoomCode: room.RoomCode,
		RoomID:   room.ID,
	})
	if appErr := save(sess, log); appErr != nil {
		return fail(session.ViewLanding, appErr)
	}

	log.WithField("participant_id", participant.ID).Info("[JOIN] Participant joined")
	return Outcome{View: session.ViewChoice, Room: room, Participant: participant}
}

// Resume reports the view a browser lands on when it opens the app.
func (f *Flows) Resume(sess session.Context) Outcome {
	return goTo(session.ResolveView(sess))
}
