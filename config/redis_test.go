package config_test

import (
	"Dilemma/config"
	"testing"
)

func TestConnect_redis(t *testing.T) {
	tests := []struct {
		name     string
		redisURL string
		wantErr  bool
	}{
		{"no url", "", true},
		{"malformed url", "redis://:bad:port:/x", true},
		{"nothing listening", "127.0.0.1:1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, gotErr := config.Connect_redis(&config.Config{RedisURL: tt.redisURL})
			if gotErr != nil {
				if !tt.wantErr {
					t.Errorf("Connect_redis() failed: %v", gotErr)
				}
				return
			}
			if tt.wantErr {
				t.Fatalf("Connect_redis() succeeded unexpectedly: %v", got)
			}
		})
	}
}
