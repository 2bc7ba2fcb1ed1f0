package feed

import (
	"Dilemma/services/redis"
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRedisFeed(t *testing.T) {
	rc, err := redis.InitRedis("localhost:6379", 0)
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	defer redis.CloseRedis(rc)

	f := NewRedisFeed(rc)
	var calls atomic.Int32
	unsubscribe, err := f.Subscribe("feed_test_room", func() { calls.Add(1) })
	require.NoError(t, err)

	require.NoError(t, f.Publish(context.Background(), "feed_test_room"))
	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	unsubscribe()
	unsubscribe()
}
