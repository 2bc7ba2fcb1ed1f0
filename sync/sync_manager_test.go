package sync

import (
	"Dilemma/services/feed"
	"Dilemma/services/flows"
	"Dilemma/services/gateway"
	"Dilemma/services/session"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	total atomic.Int32
	calls atomic.Int32
}

func (c *counter) sink(snapshot *flows.Snapshot) {
	c.total.Store(int32(snapshot.Stats.Total))
	c.calls.Add(1)
}

func TestSyncManagerSharesOneWatchPerRoom(t *testing.T) {
	ctx := context.Background()
	f := feed.NewMemoryFeed()
	gw := gateway.NewMemoryGateway(f)
	fl := flows.New(gw, flows.DefaultPolicy())
	room, err := gw.CreateRoom(ctx, "AB12CD")
	require.NoError(t, err)

	sm := NewSyncManager(ctx, fl)

	var first, second counter
	detachFirst, err := sm.Attach(room.ID, first.sink)
	require.NoError(t, err)
	detachSecond, err := sm.Attach(room.ID, second.sink)
	require.NoError(t, err)

	assert.Equal(t, 1, sm.Rooms())
	assert.Equal(t, 1, f.Subscribers(room.ID))
	// the second sink is served from the cached snapshot
	assert.Equal(t, int32(1), second.calls.Load())

	out := fl.JoinRoom(ctx, session.NewMemoryContext(), "Alice", "AB12CD")
	require.Nil(t, out.Err)

	require.Eventually(t, func() bool {
		return first.total.Load() == 1 && second.total.Load() == 1
	}, time.Second, 5*time.Millisecond)

	detachFirst()
	detachFirst()
	assert.Equal(t, 1, f.Subscribers(room.ID))

	detachSecond()
	assert.Equal(t, 0, sm.Rooms())
	assert.Equal(t, 0, f.Subscribers(room.ID))
}

func TestSyncManagerClose(t *testing.T) {
	ctx := context.Background()
	f := feed.NewMemoryFeed()
	gw := gateway.NewMemoryGateway(f)
	room, _ := gw.CreateRoom(ctx, "AB12CD")

	sm := NewSyncManager(ctx, flows.New(gw, flows.DefaultPolicy()))
	var c counter
	detach, err := sm.Attach(room.ID, c.sink)
	require.NoError(t, err)

	sm.Close()
	assert.Equal(t, 0, f.Subscribers(room.ID))
	detach()
}

// gatedWatcher holds the first snapshot of the "slow" room until released.
type gatedWatcher struct {
	started chan struct{}
	release chan struct{}
	stops   atomic.Int32
	err     error
}

func (w *gatedWatcher) Watch(ctx context.Context, roomID string, onSnapshot func(*flows.Snapshot, error)) (func(), error) {
	if w.err != nil {
		return nil, w.err
	}
	if roomID == "slow" {
		close(w.started)
		<-w.release
	}
	onSnapshot(&flows.Snapshot{RoomID: roomID}, nil)
	return func() { w.stops.Add(1) }, nil
}

func TestSyncManagerSlowRoomDoesNotBlockOthers(t *testing.T) {
	w := &gatedWatcher{started: make(chan struct{}), release: make(chan struct{})}
	sm := NewSyncManager(context.Background(), w)

	var slow, fast counter
	slowDone := make(chan func())
	go func() {
		detach, err := sm.Attach("slow", slow.sink)
		assert.NoError(t, err)
		slowDone <- detach
	}()
	<-w.started

	fastDone := make(chan struct{})
	go func() {
		defer close(fastDone)
		detach, err := sm.Attach("fast", fast.sink)
		assert.NoError(t, err)
		detach()
	}()
	select {
	case <-fastDone:
	case <-time.After(time.Second):
		t.Fatal("attach to another room waited for the slow room")
	}
	assert.Equal(t, int32(1), fast.calls.Load())
	assert.Equal(t, 1, sm.Rooms())

	close(w.release)
	detachSlow := <-slowDone
	assert.Equal(t, int32(1), slow.calls.Load())

	detachSlow()
	assert.Equal(t, 0, sm.Rooms())
	assert.Equal(t, int32(2), w.stops.Load())
}

func TestSyncManagerWatchFailure(t *testing.T) {
	w := &gatedWatcher{err: errors.New("connection refused")}
	sm := NewSyncManager(context.Background(), w)

	var c counter
	_, err := sm.Attach("room-1", c.sink)
	assert.Error(t, err)
	assert.Equal(t, 0, sm.Rooms())
	assert.Equal(t, int32(0), c.calls.Load())
}
