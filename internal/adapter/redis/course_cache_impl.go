package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/user/course-aggregator/internal/repository"
)

// CourseCacheRepoImpl provides a concrete implementation for the CourseCacheRepository interface using Redis.
type CourseCacheRepoImpl struct {
	client *redis.Client
	key    string
}

// NewCourseCacheRepo creates a cache repository storing its payload under key.
func NewCourseCacheRepo(client *redis.Client, key string) *CourseCacheRepoImpl {
	return &CourseCacheRepoImpl{client: client, key: key}
}

func (r *CourseCacheRepoImpl) Get(ctx context.Context) ([]byte, error) {
	b, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Set overwrites the payload. A non-positive ttl stores it without expiry.
func (r *CourseCacheRepoImpl) Set(ctx context.Context, payload []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = 0
	}
	// SET with EX replaces value and expiry atomically.
	return r.client.Set(ctx, r.key, payload, ttl).Err()
}

func (r *CourseCacheRepoImpl) Delete(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}

func (r *CourseCacheRepoImpl) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
