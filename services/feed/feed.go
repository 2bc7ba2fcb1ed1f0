// Package feed carries "participants of this room changed" notifications
// between the writers and the open dashboards. A notification never carries
// the change itself; subscribers re-read the room.
package feed

import (
	"context"
	"sync"
)

type Feed interface {
	// Publish announces a committed change to the room's participants.
	Publish(ctx context.Context, roomID string) error
	// Subscribe registers onChange for the room. The returned function
	// unsubscribes and may be called more than once.
	Subscribe(roomID string, onChange func()) (unsubscribe func(), err error)
	Close() error
}

// registry is the local fan-out shared by the memory and postgres feeds.
type registry struct {
	mu   sync.RWMutex
	next uint64
	subs map[string]map[uint64]func()
}

func newRegistry() *registry {
	return &registry{subs: make(map[string]map[uint64]func())}
}

func (r *registry) add(roomID string, onChange func()) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	id := r.next
	if r.subs[roomID] == nil {
		r.subs[roomID] = make(map[uint64]func())
	}
	r.subs[roomID][id] = onChange

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			delete(r.subs[roomID], id)
			if len(r.subs[roomID]) == 0 {
				delete(r.subs, roomID)
			}
		})
	}
}

// notify runs every callback of the room on its own goroutine so a slow
// subscriber never holds up the publisher.
func (r *registry) notify(roomID string) {
	r.mu.RLock()
	callbacks := make([]func(), 0, len(r.subs[roomID]))
	for _, fn := range r.subs[roomID] {
		callbacks = append(callbacks, fn)
	}
	r.mu.RUnlock()

	for _, fn := range callbacks {
		go fn()
	}
}

func (r *registry) notifyAll() {
	r.mu.RLock()
	rooms := make([]string, 0, len(r.subs))
	for roomID := range r.subs {
		rooms = append(rooms, roomID)
	}
	r.mu.RUnlock()

	for _, roomID := range rooms {
		r.notify(roomID)
	}
}

func (r *registry) count(roomID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs[roomID])
}

func (r *registry) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = make(map[string]map[uint64]func())
}
