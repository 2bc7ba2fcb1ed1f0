package config

import (
	"Dilemma/services/redis"
	"errors"

	"github.com/sirupsen/logrus"
)

// Connect_redis connects to the Redis behind --redis-url
func Connect_redis(cfg *Config) (*redis.RedisClient, error) {
	if cfg.RedisURL == "" {
		return nil, errors.New("no redis url configured")
	}
	redisClient, err := redis.InitRedis(cfg.RedisURL, 0)
	if err != nil {
		return nil, err
	}
	logrus.Info("Redis connection established")
	return redisClient, nil
}
