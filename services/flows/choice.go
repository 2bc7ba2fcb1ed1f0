package flows

import (
	room_constants "Dilemma/constants/room"
	models "Dilemma/models/postgres"
	"Dilemma/services/apperr"
	"Dilemma/services/gateway"
	"Dilemma/services/session"
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// EnterChoice loads the participant's record. Whether a choice is already
// recorded comes from the store, never from the session.
func (f *Flows) EnterChoice(ctx context.Context, sess session.Context) Outcome {
	p, ok := session.ParticipantOf(sess)
	if !ok {
		return goTo(session.ViewLanding)
	}

	participant, err := f.gw.GetParticipant(ctx, p.ID)
	if err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			session.ClearParticipant(sess)
			if appErr := save(sess, logrus.WithField("participant_id", p.ID)); appErr != nil {
				return fail(session.ViewLanding, appErr)
			}
			return goTo(session.ViewLanding)
		}
		return fail(session.ViewChoice, apperr.Store("could not load your choice, try again", err))
	}
	return Outcome{View: session.ViewChoice, Participant: participant}
}

// SubmitChoice records cooperate or defect for the browser's participant.
// Submissions in flight at the same time share one store write: under the
// final policy any two for the participant do, so only one choice can win.
func (f *Flows) SubmitChoice(ctx context.Context, sess session.Context, raw string) Outcome {
	p, ok := session.ParticipantOf(sess)
	if !ok {
		return goTo(session.ViewLanding)
	}
	choice, ok := models.ParseChoice(raw)
	if !ok {
		return fail(session.ViewChoice, apperr.Validation("choice must be cooperate or defect"))
	}

	key := p.ID
	if f.policy.Choice != room_constants.CHOICE_POLICY_FINAL {
		key += "/" + string(choice)
	}
	// the write outlives the request that started it, others may share it
	shared := context.WithoutCancel(ctx)
	v, err, collapsed := f.submits.Do(key, func() (interface{}, error) {
		return f.submit(shared, p.ID, choice)
	})
	if collapsed {
		logrus.WithField("participant_id", p.ID).Debug("[CHOICE] Collapsed concurrent submission")
	}
	if err != nil {
		var appErr *apperr.Error
		if !errors.As(err, &appErr) {
			appErr = apperr.Store("could not save your choice, try again", err)
		}
		return fail(session.ViewChoice, appErr)
	}
	participant := v.(*models.Participant)
	if participant.CurrentChoice() != choice {
		return fail(session.ViewChoice, apperr.Conflict("your choice is already recorded"))
	}
	return Outcome{View: session.ViewChoice, Participant: participant}
}

func (f *Flows) submit(ctx context.Context, participantID string, choice models.Choice) (*models.Participant, error) {
	log := logrus.WithField("participant_id", participantID)

	participant, err := f.gw.GetParticipant(ctx, participantID)
	if err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			return nil, apperr.NotFound("you are no longer in this room")
		}
		return nil, apperr.Store("could not save your choice, try again", err)
	}
	if f.policy.Choice == room_constants.CHOICE_POLICY_FINAL && participant.HasChoice() {
		return nil, apperr.Conflict("your choice is already recorded")
	}

	at := f.now()
	write := f.gw.SetChoice
	if f.policy.Choice == room_constants.CHOICE_POLICY_FINAL {
		write = f.gw.SetChoiceIfUnset
	}
	if err := write(ctx, participantID, choice, at); err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			return nil, apperr.NotFound("you are no longer in this room")
		}
		if errors.Is(err, gateway.ErrChoiceRecorded) {
			return nil, apperr.Conflict("your choice is already recorded")
		}
		log.WithError(err).Error("[CHOICE] Could not store choice")
		return nil, apperr.Store("could not save your choice, try again", err)
	}

	value := string(choice)
	participant.Choice = &value
	participant.ChoiceTimestamp = &at
	log.WithField("choice", value).Info("[CHOICE] Choice recorded")
	return participant, nil
}

// ResetChoice returns the participant to unset. Only deployments running
// the resettable policy allow it.
func (f *Flows) ResetChoice(ctx context.Context, sess session.Context) Outcome {
	p, ok := session.ParticipantOf(sess)
	if !ok {
		return goTo(session.ViewLanding)
	}
	if f.policy.Choice != room_constants.CHOICE_POLICY_RESETTABLE {
		return fail(session.ViewChoice, apperr.Conflict("your choice is final"))
	}

	if err := f.gw.ClearChoice(ctx, p.ID); err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			return fail(session.ViewChoice, apperr.NotFound("you are no longer in this room"))
		}
		return fail(session.ViewChoice, apperr.Store("could not reset your choice, try again", err))
	}
	participant, err := f.gw.GetParticipant(ctx, p.ID)
	if err != nil {
		return fail(session.ViewChoice, apperr.Store("could not load your choice, try again", err))
	}
	logrus.WithField("participant_id", p.ID).Info("[CHOICE] Choice reset")
	return Outcome{View: session.ViewChoice, Participant: participant}
}

// LeaveRoom forgets the joined room on this browser. Under the delete
// policy the participant row goes first; if that fails nothing is cleared.
func (f *Flows) LeaveRoom(ctx context.Context, sess session.Context) Outcome {
	p, ok := session.ParticipantOf(sess)
	if !ok {
		return goTo(session.ViewLanding)
	}
	log := logrus.WithFields(logrus.Fields{"participant_id": p.ID, "room_code": p.RoomCode})

	if f.policy.Leave == room_constants.LEAVE_POLICY_DELETE {
		err := f.gw.DeleteParticipant(ctx, p.ID)
		if err != nil && !errors.Is(err, gateway.ErrNotFound) {
			log.WithError(err).Error("[LEAVE] Could not delete participant")
			return fail(session.ViewChoice, apperr.Store("could not leave the room, try again", err))
		}
	}

	session.ClearParticipant(sess)
	if appErr := save(sess, log); appErr != nil {
		return fail(session.ViewChoice, appErr)
	}
	log.Info("[LEAVE] Participant left")
	return goTo(session.ViewLanding)
}
