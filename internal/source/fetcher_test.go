package source

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/user/course-aggregator/internal/entity"
	"github.com/user/course-aggregator/internal/repository"
)

// fakeFetcher serves canned bodies by URL and fails every other URL.
type fakeFetcher struct {
	mu     sync.Mutex
	bodies map[string][]byte
	calls  []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{bodies: make(map[string][]byte)}
}

func (f *fakeFetcher) serve(url string, body []byte) *fakeFetcher {
	f.bodies[url] = body
	return f
}

func (f *fakeFetcher) Fetch(_ context.Context, url string, _ time.Duration) (*entity.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)
	body, ok := f.bodies[url]
	if !ok {
		return nil, &repository.FetchError{URL: url, StatusCode: 404, Err: repository.ErrBadStatus}
	}
	return &entity.Document{URL: url, StatusCode: 200, Body: body}, nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func fixture(t *testing.T, name string) []byte {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	return b
}

func testDeps(t *testing.T, f repository.Fetcher) Deps {
	return Deps{Fetcher: f, Timeout: time.Second, Logger: zaptest.NewLogger(t)}
}

func byTitle(courses []entity.Course) map[string]entity.Course {
	m := make(map[string]entity.Course, len(courses))
	for _, c := range courses {
		m[c.Title] = c
	}
	return m
}
