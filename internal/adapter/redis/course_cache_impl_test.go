package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/course-aggregator/internal/repository"
)

func newTestRepo(t *testing.T) (*CourseCacheRepoImpl, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCourseCacheRepo(client, "courses_data"), mr
}

func TestCourseCacheMissOnEmptyStore(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.Get(context.Background())
	assert.ErrorIs(t, err, repository.ErrCacheMiss)
}

func TestCourseCacheSetGetDelete(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()
	payload := []byte(`[{"title":"Go"}]`)

	require.NoError(t, repo.Set(ctx, payload, time.Hour))
	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Equal(t, time.Hour, mr.TTL("courses_data"))

	require.NoError(t, repo.Delete(ctx))
	_, err = repo.Get(ctx)
	assert.ErrorIs(t, err, repository.ErrCacheMiss)

	assert.NoError(t, repo.Delete(ctx), "deleting a missing key is not an error")
}

func TestCourseCacheExpires(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, []byte("[]"), time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := repo.Get(ctx)
	assert.ErrorIs(t, err, repository.ErrCacheMiss)
}

func TestCourseCacheUnreachable(t *testing.T) {
	repo, mr := newTestRepo(t)
	mr.Close()

	ctx := context.Background()
	_, err := repo.Get(ctx)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrCacheMiss)
	assert.Error(t, repo.Ping(ctx))
}
