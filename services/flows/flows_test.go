package flows

import (
	room_constants "Dilemma/constants/room"
	"Dilemma/services/feed"
	"Dilemma/services/gateway"
	"Dilemma/services/session"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testClock = time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

type env struct {
	flows *Flows
	gw    *gateway.MemoryGateway
	feed  *feed.MemoryFeed
}

func newEnv(t *testing.T, policy Policy, opts ...Option) *env {
	t.Helper()
	require.NoError(t, policy.Validate())
	f := feed.NewMemoryFeed()
	gw := gateway.NewMemoryGateway(f)
	opts = append([]Option{WithClock(func() time.Time { return testClock })}, opts...)
	return &env{flows: New(gw, policy, opts...), gw: gw, feed: f}
}

// sequence hands out codes in order and counts the calls.
type sequence struct {
	mu    sync.Mutex
	codes []string
	calls int
}

func newSequence(codes ...string) *sequence {
	return &sequence{codes: codes}
}

func (s *sequence) next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	code := s.codes[s.calls%len(s.codes)]
	s.calls++
	return code
}

func (s *sequence) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// joined returns a participant session already in a fresh room.
func (e *env) joined(t *testing.T, code, name string) *session.MemoryContext {
	t.Helper()
	ctx := context.Background()
	if _, err := e.gw.GetRoomByCode(ctx, code, false); err != nil {
		_, err := e.gw.CreateRoom(ctx, code)
		require.NoError(t, err)
	}
	sess := session.NewMemoryContext()
	out := e.flows.JoinRoom(ctx, sess, name, code)
	require.Nil(t, out.Err)
	return sess
}

func TestPolicyValidate(t *testing.T) {
	require.NoError(t, DefaultPolicy().Validate())
	require.NoError(t, Policy{Choice: room_constants.CHOICE_POLICY_RESETTABLE, Leave: room_constants.LEAVE_POLICY_DELETE}.Validate())
	require.Error(t, Policy{Choice: "sometimes", Leave: room_constants.LEAVE_POLICY_KEEP}.Validate())
	require.Error(t, Policy{Choice: room_constants.CHOICE_POLICY_FINAL, Leave: "both"}.Validate())
}
