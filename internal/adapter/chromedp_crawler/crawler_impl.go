package chromedp_crawler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/user/course-aggregator/internal/entity"
	"github.com/user/course-aggregator/internal/repository"
	"github.com/user/course-aggregator/pkg/metrics"
	"github.com/user/course-aggregator/pkg/utils"
)

const (
	fetcherName        = "browser"
	defaultPageTimeout = 30 * time.Second
	defaultScrollStep  = 300
)

// Options configures the headless browser fetch strategy.
type Options struct {
	// ExecPath overrides the browser binary; empty lets chromedp discover it.
	ExecPath     string
	UserAgent    func() string
	PageTimeout  time.Duration
	MaxRetries   int
	RetryDelay   time.Duration
	WaitSelector string
	MaxScrolls   int
	ScrollPause  time.Duration
}

type renderFunc func(ctx context.Context, url string, timeout time.Duration) (string, error)

// ChromedpCrawler renders JavaScript-heavy pages in a headless browser.
// Every attempt launches a fresh browser so a crashed or disconnected session
// is replaced on retry.
type ChromedpCrawler struct {
	opts   Options
	logger *zap.Logger
	render renderFunc
	sleep  func(ctx context.Context, d time.Duration) error
}

var _ repository.Fetcher = (*ChromedpCrawler)(nil)

// NewChromedpCrawler creates a browser-backed fetcher.
func NewChromedpCrawler(opts Options, logger *zap.Logger) *ChromedpCrawler {
	if opts.PageTimeout <= 0 {
		opts.PageTimeout = defaultPageTimeout
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 1
	}
	if opts.ScrollPause <= 0 {
		opts.ScrollPause = 2 * time.Second
	}
	c := &ChromedpCrawler{opts: opts, logger: logger, sleep: sleepCtx}
	c.render = c.renderPage
	return c
}

// Fetch renders url, retrying with a backoff of RetryDelay*attempt between attempts.
func (c *ChromedpCrawler) Fetch(ctx context.Context, url string, timeout time.Duration) (*entity.Document, error) {
	if timeout <= 0 {
		timeout = c.opts.PageTimeout
	}

	var lastErr error
	for attempt := 1; attempt <= c.opts.MaxRetries; attempt++ {
		start := time.Now()
		html, err := c.render(ctx, url, timeout)
		metrics.FetchDuration.WithLabelValues(fetcherName, utils.Hostname(url)).Observe(time.Since(start).Seconds())
		if err == nil {
			metrics.FetchesTotal.WithLabelValues(fetcherName, "success").Inc()
			c.logger.Info("Rendered page", zap.String("url", url), zap.Int("attempt", attempt), zap.Int("bytes", len(html)))
			return &entity.Document{
				URL:        url,
				StatusCode: 200,
				Body:       []byte(html),
				FetchedAt:  time.Now(),
			}, nil
		}

		lastErr = err
		c.logger.Warn("Browser attempt failed", zap.String("url", url), zap.Int("attempt", attempt), zap.Int("max_retries", c.opts.MaxRetries), zap.Error(err))
		if attempt == c.opts.MaxRetries {
			break
		}
		if err := c.sleep(ctx, c.opts.RetryDelay*time.Duration(attempt)); err != nil {
			lastErr = err
			break
		}
	}

	if errors.Is(lastErr, context.DeadlineExceeded) {
		lastErr = fmt.Errorf("%w: %v", repository.ErrFetchTimeout, lastErr)
		metrics.FetchesTotal.WithLabelValues(fetcherName, "timeout").Inc()
	} else {
		metrics.FetchesTotal.WithLabelValues(fetcherName, "error").Inc()
	}
	c.logger.Error("Failed to render URL", zap.String("url", url), zap.Error(lastErr))
	return nil, &repository.FetchError{URL: url, Err: lastErr}
}

func (c *ChromedpCrawler) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-notifications", true),
		chromedp.Flag("ignore-certificate-errors", true),
		chromedp.WindowSize(1920, 1080),
	)
	if c.opts.UserAgent != nil {
		opts = append(opts, chromedp.UserAgent(c.opts.UserAgent()))
	}
	if c.opts.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.opts.ExecPath))
	}
	return opts
}

func (c *ChromedpCrawler) renderPage(ctx context.Context, url string, timeout time.Duration) (string, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, c.allocatorOptions()...)
	defer cancelAlloc()

	taskCtx, cancelTask := chromedp.NewContext(allocCtx, chromedp.WithLogf(c.logger.Sugar().Debugf))
	defer cancelTask()

	taskCtx, cancel := context.WithTimeout(taskCtx, timeout)
	defer cancel()

	actions := []chromedp.Action{
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers{"Accept-Language": "en-US,en;q=0.5"}),
		chromedp.Navigate(url),
	}
	if c.opts.WaitSelector != "" {
		actions = append(actions, chromedp.WaitVisible(c.opts.WaitSelector, chromedp.ByQuery))
	}
	actions = append(actions, c.scroll())

	var html string
	actions = append(actions, chromedp.OuterHTML("html", &html, chromedp.ByQuery))

	if err := chromedp.Run(taskCtx, actions...); err != nil {
		return "", err
	}
	return html, nil
}

// scroll pages down until the document stops growing or MaxScrolls is reached,
// giving lazily loaded listings a chance to render.
func (c *ChromedpCrawler) scroll() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		var lastHeight int64
		if err := chromedp.Evaluate(`document.body.scrollHeight`, &lastHeight).Do(ctx); err != nil {
			return err
		}
		for i := 0; i < c.opts.MaxScrolls; i++ {
			js := fmt.Sprintf(`window.scrollBy(0, %d); document.body.scrollHeight`, defaultScrollStep)
			var height int64
			if err := chromedp.Evaluate(js, &height).Do(ctx); err != nil {
				return err
			}
			if err := sleepCtx(ctx, c.opts.ScrollPause); err != nil {
				return err
			}
			if err := chromedp.Evaluate(`document.body.scrollHeight`, &height).Do(ctx); err != nil {
				return err
			}
			if height == lastHeight {
				c.logger.Debug("Reached end of page", zap.Int("scrolls", i+1))
				return nil
			}
			lastHeight = height
		}
		return nil
	})
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
