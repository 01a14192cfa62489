package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/ikkim/bookshelf-backend/internal/app/model"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_InvalidURL(t *testing.T) {
	err := Init("not a url")
	assert.Error(t, err)
}

// testClient connects to REDIS_TEST_URL and skips the test when it is unset.
func testClient(t *testing.T) *redis.Client {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)

	c := redis.NewClient(opt)
	t.Cleanup(func() { c.Close() })
	require.NoError(t, c.Ping(context.Background()).Err())
	return c
}

func TestBookCache_RoundTrip(t *testing.T) {
	c := testClient(t)
	ctx := context.Background()
	cache := NewBookCache(c, time.Minute)
	require.NoError(t, cache.InvalidateBooks(ctx))

	_, ok, err := cache.GetBooks(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	books := []model.Book{{ID: 1, Title: "Dune", Author: "Frank Herbert", Year: 1965, Ratings: 4.8}}
	require.NoError(t, cache.SetBooks(ctx, books))

	cached, ok, err := cache.GetBooks(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Dune", cached[0].Title)
	assert.Equal(t, 1965, cached[0].Year)

	require.NoError(t, cache.InvalidateBooks(ctx))
	_, ok, err = cache.GetBooks(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
