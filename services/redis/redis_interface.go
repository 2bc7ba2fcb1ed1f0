package redis

import (
	redis_utils "Dilemma/services/redis/utils"
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisClient handles Redis operations
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient creates a new Redis client instance. Addr is either a
// plain host:port or a redis:// URL.
func NewRedisClient(Addr string, DB int) (*RedisClient, error) {
	var client *redis.Client
	if strings.Contains(Addr, "://") {
		opt, err := redis.ParseURL(Addr)
		if err != nil {
			return nil, fmt.Errorf("error parsing Redis URL: %w", err)
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: Addr,
			DB:   DB,
		})
	}
	return &RedisClient{client: client}, nil
}

// PublishRoomChange announces that the participants of a room changed
// Channel format: "dilemma:room:{id}:participants"
func (rc *RedisClient) PublishRoomChange(ctx context.Context, roomID string) error {
	channel := redis_utils.FormatRoomParticipantsChannel(roomID)
	if err := rc.client.Publish(ctx, channel, roomID).Err(); err != nil {
		return fmt.Errorf("error publishing room change: %w", err)
	}
	return nil
}

// SubscribeRoomChanges opens a subscription on the room's channel and waits
// for Redis to confirm it, so no publish after return is missed.
func (rc *RedisClient) SubscribeRoomChanges(ctx context.Context, roomID string) (*redis.PubSub, error) {
	channel := redis_utils.FormatRoomParticipantsChannel(roomID)
	pubsub := rc.client.Subscribe(ctx, channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("error subscribing to %s: %w", channel, err)
	}
	return pubsub, nil
}
