package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/ikkim/bookshelf-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// Init opens the shared client from a redis:// URL and verifies it with PING.
func Init(redisURL string) error {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("invalid Redis URL: %w", err)
	}

	logger.Info("Initializing Redis connection", map[string]interface{}{
		"addr": opt.Addr,
		"db":   opt.DB,
	})

	client = redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"addr": opt.Addr,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully")
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection")
		return client.Close()
	}
	return nil
}
