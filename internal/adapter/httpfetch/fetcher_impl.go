package httpfetch

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/user/course-aggregator/internal/entity"
	"github.com/user/course-aggregator/internal/repository"
	"github.com/user/course-aggregator/pkg/metrics"
	"github.com/user/course-aggregator/pkg/utils"
)

const (
	DefaultTimeout = 10 * time.Second
	fetcherName    = "http"
	maxBodyBytes   = 16 << 20
)

// Fetcher retrieves pages over plain HTTP with a randomized browser identity.
type Fetcher struct {
	client     *resty.Client
	identities *IdentityPool
	timeout    time.Duration
	logger     *zap.Logger
}

var _ repository.Fetcher = (*Fetcher)(nil)

// New creates an HTTP fetcher. A non-positive timeout selects DefaultTimeout.
func New(identities *IdentityPool, timeout time.Duration, logger *zap.Logger) *Fetcher {
	if identities == nil {
		identities = NewIdentityPool(nil, nil)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := &http.Transport{
		Proxy:                 identities.Proxy,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 15 * time.Second,
		MaxIdleConnsPerHost:   8,
		IdleConnTimeout:       90 * time.Second,
	}
	client := resty.New().
		SetTransport(transport).
		SetLogger(logger.Sugar()).
		SetRetryCount(0)

	return &Fetcher{
		client:     client,
		identities: identities,
		timeout:    timeout,
		logger:     logger,
	}
}

// Fetch performs a single GET. It never retries; any network failure, timeout
// or non-2xx status is returned as a *repository.FetchError.
func (f *Fetcher) Fetch(ctx context.Context, url string, timeout time.Duration) (*entity.Document, error) {
	if timeout <= 0 {
		timeout = f.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.FetchDuration.WithLabelValues(fetcherName, utils.Hostname(url)).Observe(time.Since(start).Seconds())
	}()

	resp, err := f.client.R().
		SetContext(ctx).
		SetHeaders(f.identities.Headers()).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return nil, f.fail(url, 0, classify(ctx, err))
	}
	raw := resp.RawBody()
	defer raw.Close()

	if !resp.IsSuccess() {
		_, _ = io.Copy(io.Discard, io.LimitReader(raw, maxBodyBytes))
		return nil, f.fail(url, resp.StatusCode(), repository.ErrBadStatus)
	}

	body, err := decodeBody(resp.Header().Get("Content-Encoding"), io.LimitReader(raw, maxBodyBytes))
	if err != nil {
		return nil, f.fail(url, resp.StatusCode(), classify(ctx, err))
	}

	metrics.FetchesTotal.WithLabelValues(fetcherName, "success").Inc()
	return &entity.Document{
		URL:        url,
		StatusCode: resp.StatusCode(),
		Body:       body,
		FetchedAt:  time.Now(),
	}, nil
}

func (f *Fetcher) fail(url string, status int, err error) error {
	label := "error"
	switch {
	case errors.Is(err, repository.ErrFetchTimeout):
		label = "timeout"
	case errors.Is(err, repository.ErrBadStatus):
		label = "bad_status"
	}
	metrics.FetchesTotal.WithLabelValues(fetcherName, label).Inc()
	f.logger.Error("Failed to fetch URL", zap.String("url", url), zap.Int("status", status), zap.Error(err))
	return &repository.FetchError{URL: url, StatusCode: status, Err: err}
}

func classify(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", repository.ErrFetchTimeout, err)
	}
	return err
}

// decodeBody undoes the content encodings we advertise. The transport does not
// do it for us because Accept-Encoding is set explicitly.
func decodeBody(encoding string, r io.Reader) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "identity":
		return io.ReadAll(r)
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip body: %w", err)
		}
		defer zr.Close()
		return io.ReadAll(zr)
	case "br":
		return io.ReadAll(brotli.NewReader(r))
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", encoding)
	}
}
