package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	redisadapter "github.com/user/course-aggregator/internal/adapter/redis"
	"github.com/user/course-aggregator/internal/entity"
	"github.com/user/course-aggregator/internal/repository"
)

// stubSource returns a fixed set of courses and counts its scrapes.
type stubSource struct {
	name    string
	courses []entity.Course
	scrapes atomic.Int32
	panics  bool
	block   chan struct{}
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Scrape(ctx context.Context) []entity.Course {
	s.scrapes.Add(1)
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return nil
		}
	}
	if s.panics {
		panic("selector table exploded")
	}
	out := make([]entity.Course, len(s.courses))
	copy(out, s.courses)
	return out
}

func makeCourses(source string, n int) []entity.Course {
	out := make([]entity.Course, n)
	for i := range out {
		out[i] = entity.Course{
			ID:       fmt.Sprintf("%s-%d", source, i),
			Title:    fmt.Sprintf("%s course %d", source, i),
			Provider: source,
			Detail:   entity.NotAvailable,
			Rating:   entity.NotAvailable,
			Category: entity.NotAvailable,
			Link:     fmt.Sprintf("https://%s.example/course/%d", source, i),
			Image:    entity.PlaceholderImage,
		}
	}
	return out
}

func newRedisCache(t *testing.T) (*redisadapter.CourseCacheRepoImpl, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redisadapter.NewCourseCacheRepo(client, "courses_data"), mr
}

// brokenCache fails the operations named in its error fields.
type brokenCache struct {
	getErr, setErr, delErr error
	payload              []byte
}

func (c *brokenCache) Get(context.Context) ([]byte, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	if c.payload == nil {
		return nil, repository.ErrCacheMiss
	}
	return c.payload, nil
}

func (c *brokenCache) Set(_ context.Context, payload []byte, _ time.Duration) error {
	return c.setErr
}

func (c *brokenCache) Delete(context.Context) error { return c.delErr }

func (c *brokenCache) Ping(context.Context) error { return c.getErr }

// memoryHistory records saved runs.
type memoryHistory struct {
	mu      sync.Mutex
	runs    []entity.SourceRun
	saveErr error
}

func (h *memoryHistory) SaveRuns(_ context.Context, runs []entity.SourceRun) error {
	if h.saveErr != nil {
		return h.saveErr
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.runs = append(h.runs, runs...)
	return nil
}

func (h *memoryHistory) Recent(_ context.Context, limit int) ([]entity.SourceRun, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if limit > len(h.runs) {
		limit = len(h.runs)
	}
	return h.runs[:limit], nil
}

func (h *memoryHistory) Ping(context.Context) error { return nil }

var errBoom = errors.New("boom")
