package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ikkim/bookshelf-backend/internal/app/model"
	"github.com/ikkim/bookshelf-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const booksKey = "books:all"

// BookCache stores the catalog listing as a single JSON value.
type BookCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewBookCache(client *redis.Client, ttl time.Duration) *BookCache {
	return &BookCache{client: client, ttl: ttl}
}

// GetBooks reports ok=false on a cache miss.
func (c *BookCache) GetBooks(ctx context.Context) ([]model.Book, bool, error) {
	data, err := c.client.Get(ctx, booksKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var books []model.Book
	if err := json.Unmarshal(data, &books); err != nil {
		logger.Warn("Discarding undecodable book cache entry", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, false, nil
	}

	logger.Debug("Book list served from cache", map[string]interface{}{
		"count": len(books),
	})
	return books, true, nil
}

func (c *BookCache) SetBooks(ctx context.Context, books []model.Book) error {
	data, err := json.Marshal(books)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, booksKey, data, c.ttl).Err()
}

func (c *BookCache) InvalidateBooks(ctx context.Context) error {
	return c.client.Del(ctx, booksKey).Err()
}
