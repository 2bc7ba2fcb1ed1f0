package feed

import (
	room_constants "Dilemma/constants/room"
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// PostgresFeed uses LISTEN/NOTIFY on a single channel; the payload is the
// room id. One listener connection serves every subscriber of the process.
type PostgresFeed struct {
	db       *sql.DB
	listener *pq.Listener
	reg      *registry
	done     chan struct{}
}

// NewPostgresFeed opens the listener connection with dsn and publishes
// through db.
func NewPostgresFeed(dsn string, db *sql.DB) (*PostgresFeed, error) {
	f := &PostgresFeed{
		db:   db,
		reg:  newRegistry(),
		done: make(chan struct{}),
	}
	f.listener = pq.NewListener(dsn, 2*time.Second, time.Minute, f.onEvent)
	if err := f.listener.Listen(room_constants.PARTICIPANTS_CHANNEL); err != nil {
		f.listener.Close()
		return nil, fmt.Errorf("listen on %s: %w", room_constants.PARTICIPANTS_CHANNEL, err)
	}
	go f.loop()
	logrus.WithField("channel", room_constants.PARTICIPANTS_CHANNEL).Info("[FEED] Listening for participant changes")
	return f, nil
}

func (f *PostgresFeed) onEvent(ev pq.ListenerEventType, err error) {
	switch ev {
	case pq.ListenerEventDisconnected:
		logrus.WithError(err).Warn("[FEED] Listener disconnected")
	case pq.ListenerEventConnectionAttemptFailed:
		logrus.WithError(err).Warn("[FEED] Listener reconnect attempt failed")
	case pq.ListenerEventReconnected:
		logrus.Info("[FEED] Listener reconnected")
	}
}

func (f *PostgresFeed) loop() {
	for {
		select {
		case n, ok := <-f.listener.Notify:
			if !ok {
				return
			}
			// nil after a reconnect: anything may have been missed
			if n == nil {
				f.reg.notifyAll()
				continue
			}
			f.reg.notify(n.Extra)
		case <-time.After(90 * time.Second):
			go func() {
				if err := f.listener.Ping(); err != nil {
					logrus.WithError(err).Warn("[FEED] Listener ping failed")
				}
			}()
		case <-f.done:
			return
		}
	}
}

func (f *PostgresFeed) Publish(ctx context.Context, roomID string) error {
	if _, err := f.db.ExecContext(ctx, "SELECT pg_notify($1, $2)", room_constants.PARTICIPANTS_CHANNEL, roomID); err != nil {
		return fmt.Errorf("pg_notify for room %s: %w", roomID, err)
	}
	return nil
}

func (f *PostgresFeed) Subscribe(roomID string, onChange func()) (func(), error) {
	return f.reg.add(roomID, onChange), nil
}

func (f *PostgresFeed) Close() error {
	close(f.done)
	f.reg.clear()
	return f.listener.Close()
}
