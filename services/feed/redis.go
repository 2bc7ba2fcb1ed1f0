package feed

import (
	"Dilemma/services/redis"
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// RedisFeed publishes on one Pub/Sub channel per room, so several server
// processes sharing a Redis can serve the same dashboards.
type RedisFeed struct {
	rc *redis.RedisClient
}

func NewRedisFeed(rc *redis.RedisClient) *RedisFeed {
	return &RedisFeed{rc: rc}
}

func (f *RedisFeed) Publish(ctx context.Context, roomID string) error {
	return f.rc.PublishRoomChange(ctx, roomID)
}

func (f *RedisFeed) Subscribe(roomID string, onChange func()) (func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	pubsub, err := f.rc.SubscribeRoomChanges(ctx, roomID)
	if err != nil {
		cancel()
		return nil, err
	}

	go func() {
		for range pubsub.Channel() {
			onChange()
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			if err := pubsub.Close(); err != nil {
				logrus.WithError(err).WithField("room_id", roomID).Warn("[FEED] Error closing Redis subscription")
			}
		})
	}, nil
}

func (f *RedisFeed) Close() error {
	return nil
}
