// Package flows holds the three user flows of a room: landing, participant
// choice and facilitator dashboard. Each operation takes the browser's
// session context, talks to the gateway and returns an Outcome naming the
// view the browser should show next.
package flows

import (
	room_constants "Dilemma/constants/room"
	models "Dilemma/models/postgres"
	"Dilemma/services/apperr"
	"Dilemma/services/gateway"
	"Dilemma/services/roomcode"
	"Dilemma/services/session"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Policy is fixed per deployment.
type Policy struct {
	// Choice is CHOICE_POLICY_FINAL or CHOICE_POLICY_RESETTABLE
	Choice string
	// Leave is LEAVE_POLICY_KEEP or LEAVE_POLICY_DELETE
	Leave string
}

func DefaultPolicy() Policy {
	return Policy{
		Choice: room_constants.CHOICE_POLICY_FINAL,
		Leave:  room_constants.LEAVE_POLICY_KEEP,
	}
}

func (p Policy) Validate() error {
	switch p.Choice {
	case room_constants.CHOICE_POLICY_FINAL, room_constants.CHOICE_POLICY_RESETTABLE:
	default:
		return fmt.Errorf("unknown choice policy '%s'", p.Choice)
	}
	switch p.Leave {
	case room_constants.LEAVE_POLICY_KEEP, room_constants.LEAVE_POLICY_DELETE:
	default:
		return fmt.Errorf("unknown leave policy '%s'", p.Leave)
	}
	return nil
}

// Outcome is the result of a flow operation. Err is nil on success; View
// is always set.
type Outcome struct {
	View        session.View
	Err         *apperr.Error
	Room        *models.Room
	Participant *models.Participant
	Snapshot    *Snapshot
}

func (o Outcome) Failed() bool {
	return o.Err != nil
}

func goTo(view session.View) Outcome {
	return Outcome{View: view}
}

func fail(view session.View, err *apperr.Error) Outcome {
	return Outcome{View: view, Err: err}
}

type Flows struct {
	gw           gateway.Gateway
	policy       Policy
	now          func() time.Time
	generateCode func() string
	submits      singleflight.Group
}

type Option func(*Flows)

// WithClock replaces the clock used for choice timestamps.
func WithClock(now func() time.Time) Option {
	return func(f *Flows) { f.now = now }
}

// WithCodeGenerator replaces roomcode.Generate.
func WithCodeGenerator(generate func() string) Option {
	return func(f *Flows) { f.generateCode = generate }
}

func New(gw gateway.Gateway, policy Policy, opts ...Option) *Flows {
	f := &Flows{
		gw:           gw,
		policy:       policy,
		now:          time.Now,
		generateCode: roomcode.Generate,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Flows) Policy() Policy {
	return f.policy
}

// save persists the session after a successful transition.
func save(sess session.Context, log *logrus.Entry) *apperr.Error {
	if err := sess.Save(); err != nil {
		log.WithError(err).Error("Could not save session")
		return apperr.Store("could not save your session, try again", err)
	}
	return nil
}
