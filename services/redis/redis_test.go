package redis

import (
	"context"
	"testing"
	"time"
)

func TestRoomChangePubSub(t *testing.T) {
	rc, err := InitRedis("localhost:6379", 0)
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	defer CloseRedis(rc)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pubsub, err := rc.SubscribeRoomChanges(ctx, "test_room_123")
	if err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}
	defer pubsub.Close()

	if err := rc.PublishRoomChange(ctx, "test_room_123"); err != nil {
		t.Fatalf("Failed to publish: %v", err)
	}

	select {
	case msg := <-pubsub.Channel():
		if msg.Payload != "test_room_123" {
			t.Errorf("Payload mismatch. Expected test_room_123, got %s", msg.Payload)
		}
	case <-ctx.Done():
		t.Fatal("No message received")
	}
}
