package chromedp_crawler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/user/course-aggregator/internal/repository"
)

func newTestCrawler(t *testing.T, opts Options, render renderFunc) (*ChromedpCrawler, *[]time.Duration) {
	t.Helper()
	c := NewChromedpCrawler(opts, zaptest.NewLogger(t))
	c.render = render
	var sleeps []time.Duration
	c.sleep = func(_ context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}
	return c, &sleeps
}

func TestFetchRetriesWithBackoff(t *testing.T) {
	calls := 0
	c, sleeps := newTestCrawler(t, Options{MaxRetries: 3, RetryDelay: 5 * time.Second}, func(context.Context, string, time.Duration) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("websocket disconnected")
		}
		return "<html><body>rendered</body></html>", nil
	})

	doc, err := c.Fetch(context.Background(), "https://www.udemy.com/courses/free/", 0)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{5 * time.Second, 10 * time.Second}, *sleeps)
	assert.Contains(t, string(doc.Body), "rendered")
}

func TestFetchGivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	c, _ := newTestCrawler(t, Options{MaxRetries: 2, RetryDelay: time.Second}, func(context.Context, string, time.Duration) (string, error) {
		calls++
		return "", context.DeadlineExceeded
	})

	_, err := c.Fetch(context.Background(), "https://www.udemy.com/courses/free/", 0)
	require.Error(t, err)
	assert.Equal(t, 2, calls)

	var fe *repository.FetchError
	require.True(t, errors.As(err, &fe))
	assert.ErrorIs(t, err, repository.ErrFetchTimeout)
}

func TestFetchPassesPageTimeout(t *testing.T) {
	var got time.Duration
	c, _ := newTestCrawler(t, Options{PageTimeout: 42 * time.Second}, func(_ context.Context, _ string, timeout time.Duration) (string, error) {
		got = timeout
		return "<html></html>", nil
	})

	_, err := c.Fetch(context.Background(), "https://example.com", 0)
	require.NoError(t, err)
	assert.Equal(t, 42*time.Second, got)
}

func TestAllocatorOptionsIncludeOverrides(t *testing.T) {
	base := NewChromedpCrawler(Options{}, zaptest.NewLogger(t))
	withPath := NewChromedpCrawler(Options{ExecPath: "/usr/bin/chromium", UserAgent: func() string { return "ua" }}, zaptest.NewLogger(t))

	assert.Len(t, withPath.allocatorOptions(), len(base.allocatorOptions())+2)
}
