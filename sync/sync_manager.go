// Package sync keeps one live watch per room that has open dashboard
// streams and fans every fresh snapshot out to the attached sinks.
package sync

import (
	"Dilemma/services/flows"
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// Sink receives snapshots. It is called from the watch goroutine and must
// not block.
type Sink func(snapshot *flows.Snapshot)

// Watcher is satisfied by *flows.Flows.
type Watcher interface {
	Watch(ctx context.Context, roomID string, onSnapshot func(*flows.Snapshot, error)) (func(), error)
}

type roomWatch struct {
	mu    sync.Mutex
	sinks map[uint64]Sink
	last  *flows.Snapshot

	// ready is closed once Watch returned; stop and err are set before
	ready chan struct{}
	stop  func()
	err   error
}

// halt stops the watch, or arranges for it to stop once it has started.
func (rw *roomWatch) halt() {
	select {
	case <-rw.ready:
		if rw.stop != nil {
			rw.stop()
		}
	default:
		go func() {
			<-rw.ready
			if rw.stop != nil {
				rw.stop()
			}
		}()
	}
}

type SyncManager struct {
	ctx     context.Context
	watcher Watcher

	mu    sync.Mutex
	next  uint64
	rooms map[string]*roomWatch
}

// NewSyncManager creates a manager whose watches live until ctx is done
// or their last sink detaches.
func NewSyncManager(ctx context.Context, watcher Watcher) *SyncManager {
	return &SyncManager{
		ctx:     ctx,
		watcher: watcher,
		rooms:   make(map[string]*roomWatch),
	}
}

// Attach adds sink to the room's watch, starting the watch if this is the
// first sink. The sink gets the latest snapshot right away when one exists.
// The first snapshot is loaded outside the manager lock, so a slow room
// does not hold up the others. Sinks must not call Attach.
func (sm *SyncManager) Attach(roomID string, sink Sink) (func(), error) {
	sm.mu.Lock()
	sm.next++
	id := sm.next

	rw, exists := sm.rooms[roomID]
	if exists {
		rw.mu.Lock()
		rw.sinks[id] = sink
		last := rw.last
		rw.mu.Unlock()
		sm.mu.Unlock()

		<-rw.ready
		if rw.err != nil {
			return nil, rw.err
		}
		if last != nil {
			sink(last)
		}
		return sm.detacher(roomID, id), nil
	}

	rw = &roomWatch{sinks: map[uint64]Sink{id: sink}, ready: make(chan struct{})}
	sm.rooms[roomID] = rw
	sm.mu.Unlock()

	stop, err := sm.watcher.Watch(sm.ctx, roomID, rw.broadcast(roomID))
	if err != nil {
		sm.mu.Lock()
		if sm.rooms[roomID] == rw {
			delete(sm.rooms, roomID)
		}
		sm.mu.Unlock()
		rw.err = err
		close(rw.ready)
		return nil, err
	}
	rw.stop = stop
	close(rw.ready)

	logrus.WithField("room_id", roomID).Info("[SYNC] Started room watch")
	return sm.detacher(roomID, id), nil
}

func (rw *roomWatch) broadcast(roomID string) func(*flows.Snapshot, error) {
	return func(snapshot *flows.Snapshot, err error) {
		if err != nil {
			logrus.WithError(err).WithField("room_id", roomID).Warn("[SYNC] Could not refresh room")
			return
		}
		rw.mu.Lock()
		rw.last = snapshot
		sinks := make([]Sink, 0, len(rw.sinks))
		for _, sink := range rw.sinks {
			sinks = append(sinks, sink)
		}
		rw.mu.Unlock()

		for _, sink := range sinks {
			sink(snapshot)
		}
	}
}

func (sm *SyncManager) detacher(roomID string, id uint64) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			sm.mu.Lock()
			rw, ok := sm.rooms[roomID]
			if !ok {
				sm.mu.Unlock()
				return
			}
			rw.mu.Lock()
			delete(rw.sinks, id)
			empty := len(rw.sinks) == 0
			rw.mu.Unlock()
			if empty {
				delete(sm.rooms, roomID)
			}
			sm.mu.Unlock()

			if empty {
				rw.halt()
				logrus.WithField("room_id", roomID).Info("[SYNC] Stopped room watch")
			}
		})
	}
}

// Rooms is the number of rooms with a live watch.
func (sm *SyncManager) Rooms() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return len(sm.rooms)
}

// Close stops every watch. Sinks attached afterwards start new ones.
func (sm *SyncManager) Close() {
	sm.mu.Lock()
	rooms := sm.rooms
	sm.rooms = make(map[string]*roomWatch)
	sm.mu.Unlock()

	for _, rw := range rooms {
		rw.halt()
	}
}
