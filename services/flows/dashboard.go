package flows

import (
	models "Dilemma/models/postgres"
	"Dilemma/services/apperr"
	"Dilemma/services/gateway"
	"Dilemma/services/roomcode"
	"Dilemma/services/session"
	"context"
	"errors"
	"math"
	"sync"

	"github.com/sirupsen/logrus"
)

type Stats struct {
	Total            int `json:"total"`
	CooperateCount   int `json:"cooperate_count"`
	DefectCount      int `json:"defect_count"`
	PendingCount     int `json:"pending_count"`
	CooperatePercent int `json:"cooperate_percent"`
	DefectPercent    int `json:"defect_percent"`
}

// Snapshot is one full read of a room's participants.
type Snapshot struct {
	RoomID       string               `json:"room_id"`
	Participants []models.Participant `json:"participants"`
	Stats        Stats                `json:"stats"`
}

// ComputeStats aggregates from scratch. Percentages round half away from
// zero and are 0 for an empty room.
func ComputeStats(participants []models.Participant) Stats {
	stats := Stats{Total: len(participants)}
	for i := range participants {
		switch participants[i].CurrentChoice() {
		case models.ChoiceCooperate:
			stats.CooperateCount++
		case models.ChoiceDefect:
			stats.DefectCount++
		default:
			stats.PendingCount++
		}
	}
	stats.CooperatePercent = percent(stats.CooperateCount, stats.Total)
	stats.DefectPercent = percent(stats.DefectCount, stats.Total)
	return stats
}

func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(n) / float64(total)))
}

// EnterDashboard resolves the facilitated room from the code parameter or
// the session, caches it on the session and returns its first snapshot.
func (f *Flows) EnterDashboard(ctx context.Context, sess session.Context, codeParam string) Outcome {
	admin, _ := session.AdminOf(sess)
	code := roomcode.Normalize(codeParam)
	if code == "" {
		code = admin.RoomCode
	}
	if code == "" {
		return goTo(session.ViewLanding)
	}
	if !roomcode.Valid(code) {
		return fail(session.ViewLanding, apperr.Validation("room code must be 6 letters or digits"))
	}

	room := &models.Room{ID: admin.RoomID, RoomCode: code}
	if admin.RoomID == "" || admin.RoomCode != code {
		found, err := f.gw.GetRoomByCode(ctx, code, false)
		if err != nil {
			if errors.Is(err, gateway.ErrNotFound) {
				if admin.RoomCode == code {
					session.ClearAdmin(sess)
					_ = save(sess, logrus.WithField("room_code", code))
				}
				return fail(session.ViewLanding, apperr.NotFound("room not found"))
			}
			return fail(session.ViewDashboard, apperr.Store("could not load the room, try again", err))
		}
		room = found

		if admin.RoomCode != code {
			// another room than the one created here
			session.ClearAdmin(sess)
		}
		session.SetAdmin(sess, session.Admin{RoomID: room.ID, RoomCode: room.RoomCode, Creator: admin.Creator && admin.RoomCode == code})
		if appErr := save(sess, logrus.WithField("room_code", code)); appErr != nil {
			return fail(session.ViewDashboard, appErr)
		}
	}

	snapshot, err := f.Snapshot(ctx, room.ID)
	if err != nil {
		return Outcome{View: session.ViewDashboard, Room: room, Err: apperr.Store("could not load participants, try again", err)}
	}
	return Outcome{View: session.ViewDashboard, Room: room, Snapshot: snapshot}
}

// Snapshot reads every participant of the room ordered by join time.
func (f *Flows) Snapshot(ctx context.Context, roomID string) (*Snapshot, error) {
	participants, err := f.gw.ListParticipants(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		RoomID:       roomID,
		Participants: participants,
		Stats:        ComputeStats(participants),
	}, nil
}

// latest orders overlapping fetches: a result older than one already
// delivered is dropped.
type latest struct {
	mu        sync.Mutex
	started   uint64
	delivered uint64
	stopped   bool
}

// begin returns the sequence number of a new fetch, ok=false once stopped.
func (l *latest) begin() (uint64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return 0, false
	}
	l.started++
	return l.started, true
}

// deliver runs fn under the lock unless seq is stale.
func (l *latest) deliver(seq uint64, fn func()) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped || seq < l.delivered {
		return false
	}
	l.delivered = seq
	fn()
	return true
}

func (l *latest) stop() {
	l.mu.Lock()
	l.stopped = true
	l.mu.Unlock()
}

// Watch delivers an initial snapshot and then a fresh one after every
// change notification for the room. onSnapshot is never called
// concurrently and must not call stop itself. The returned stop may be
// called more than once, and cancelling ctx stops the watch too.
func (f *Flows) Watch(ctx context.Context, roomID string, onSnapshot func(*Snapshot, error)) (func(), error) {
	order := &latest{}
	refresh := func() {
		seq, ok := order.begin()
		if !ok {
			return
		}
		snapshot, err := f.Snapshot(ctx, roomID)
		order.deliver(seq, func() { onSnapshot(snapshot, err) })
	}

	unsubscribe, err := f.gw.SubscribeParticipantChanges(roomID, refresh)
	if err != nil {
		return nil, err
	}

	done := make(chan struct{})
	var once sync.Once
	stop := func() {
		once.Do(func() {
			order.stop()
			unsubscribe()
			close(done)
		})
	}
	go func() {
		select {
		case <-ctx.Done():
			stop()
		case <-done:
		}
	}()

	refresh()
	return stop, nil
}

// CloseRoom deactivates the facilitated room once the facilitator has
// confirmed, then forgets it on this browser.
func (f *Flows) CloseRoom(ctx context.Context, sess session.Context, confirmed bool) Outcome {
	admin, ok := session.AdminOf(sess)
	if !ok {
		return goTo(session.ViewLanding)
	}
	if !confirmed {
		return fail(session.ViewDashboard, apperr.Validation("confirmation required"))
	}
	log := logrus.WithFields(logrus.Fields{"room_id": admin.RoomID, "room_code": admin.RoomCode})

	roomID := admin.RoomID
	if roomID == "" {
		room, err := f.gw.GetRoomByCode(ctx, admin.RoomCode, false)
		if err != nil && !errors.Is(err, gateway.ErrNotFound) {
			return fail(session.ViewDashboard, apperr.Store("could not close the room, try again", err))
		}
		if room != nil {
			roomID = room.ID
		}
	}

	if roomID != "" {
		err := f.gw.DeactivateRoom(ctx, roomID)
		if err != nil && !errors.Is(err, gateway.ErrNotFound) {
			log.WithError(err).Error("[CLOSE] Could not deactivate room")
			return fail(session.ViewDashboard, apperr.Store("could not close the room, try again", err))
		}
	}

	session.ClearAdmin(sess)
	if appErr := save(sess, log); appErr != nil {
		return fail(session.ViewDashboard, appErr)
	}
	log.Info("[CLOSE] Room closed")
	return goTo(session.ViewLanding)
}

// NewRoom forgets the facilitated room without closing it.
func (f *Flows) NewRoom(sess session.Context) Outcome {
	session.ClearAdmin(sess)
	if appErr := save(sess, logrus.NewEntry(logrus.StandardLogger())); appErr != nil {
		return fail(session.ViewDashboard, appErr)
	}
	return goTo(session.ViewLanding)
}
