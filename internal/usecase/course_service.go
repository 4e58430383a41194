package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/user/course-aggregator/internal/entity"
	"github.com/user/course-aggregator/internal/repository"
	"github.com/user/course-aggregator/pkg/metrics"
)

const (
	DefaultCacheTTL       = 24 * time.Hour
	DefaultRefreshTimeout = 5 * time.Minute
)

// CourseAggregator produces a fresh course list.
type CourseAggregator interface {
	AggregateAll(ctx context.Context, trigger string) []entity.Course
}

// ServiceOptions tune the cache behaviour of the course service.
type ServiceOptions struct {
	CacheTTL       time.Duration
	RefreshTimeout time.Duration
}

// CourseService serves the aggregated course list from the cache and
// refreshes it on demand.
type CourseService struct {
	aggregator CourseAggregator
	cache      repository.CourseCacheRepository
	history    repository.RunHistoryRepository
	logger     *zap.Logger
	opts       ServiceOptions

	group      singleflight.Group
	refreshing atomic.Bool
	background sync.WaitGroup
}

// NewCourseService creates the cache-backed orchestrator. history may be nil.
func NewCourseService(
	aggregator CourseAggregator,
	cache repository.CourseCacheRepository,
	history repository.RunHistoryRepository,
	logger *zap.Logger,
	opts ServiceOptions,
) *CourseService {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.RefreshTimeout <= 0 {
		opts.RefreshTimeout = DefaultRefreshTimeout
	}
	return &CourseService{
		aggregator: aggregator,
		cache:      cache,
		history:    history,
		logger:     logger,
		opts:       opts,
	}
}

// GetCourses serves the cached list, aggregating synchronously on a miss.
func (s *CourseService) GetCourses(ctx context.Context) ([]entity.Course, error) {
	courses, err := s.cached(ctx)
	if err == nil {
		metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
		return courses, nil
	}
	if !errors.Is(err, repository.ErrCacheMiss) {
		metrics.CacheLookupsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
	s.logger.Info("Course cache miss, aggregating")

	v, err, _ := s.group.Do("aggregate", func() (any, error) {
		// The shared run outlives any single caller's cancellation.
		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.RefreshTimeout)
		defer cancel()

		courses := s.aggregator.AggregateAll(runCtx, entity.TriggerRequest)
		if err := s.store(runCtx, courses); err != nil {
			s.logger.Error("Failed to cache courses", zap.Error(err))
		}
		return courses, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]entity.Course), nil
}

// cached decodes the cache entry. It returns repository.ErrCacheMiss on a miss.
func (s *CourseService) cached(ctx context.Context) ([]entity.Course, error) {
	payload, err := s.cache.Get(ctx)
	if errors.Is(err, repository.ErrCacheMiss) {
		return nil, err
	}
	if err != nil {
		s.logger.Error("Failed to read course cache", zap.Error(err))
		return nil, fmt.Errorf("%w: read cache: %w", ErrPipeline, err)
	}
	var courses []entity.Course
	if err := json.Unmarshal(payload, &courses); err != nil {
		s.logger.Error("Failed to decode course cache", zap.Error(err))
		return nil, fmt.Errorf("%w: decode cache: %w", ErrPipeline, err)
	}
	if courses == nil {
		courses = []entity.Course{}
	}
	return courses, nil
}

func (s *CourseService) store(ctx context.Context, courses []entity.Course) error {
	payload, err := json.Marshal(courses)
	if err != nil {
		return fmt.Errorf("encode courses: %w", err)
	}
	if err := s.cache.Set(ctx, payload, s.opts.CacheTTL); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	s.logger.Info("Course cache updated", zap.Int("courses", len(courses)), zap.Duration("ttl", s.opts.CacheTTL))
	return nil
}

// RefreshNow aggregates unconditionally and overwrites the cache entry.
func (s *CourseService) RefreshNow(ctx context.Context, trigger string) ([]entity.Course, error) {
	courses := s.aggregator.AggregateAll(ctx, trigger)
	if err := s.store(ctx, courses); err != nil {
		return courses, fmt.Errorf("%w: %w", ErrPipeline, err)
	}
	return courses, nil
}

// RefreshInBackground starts a detached refresh bounded by the refresh
// timeout. It reports false when a background refresh is already running.
func (s *CourseService) RefreshInBackground(trigger string) bool {
	if !s.refreshing.CompareAndSwap(false, true) {
		s.logger.Info("Refresh already running", zap.String("trigger", trigger))
		return false
	}
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		defer s.refreshing.Store(false)

		ctx, cancel := context.WithTimeout(context.Background(), s.opts.RefreshTimeout)
		defer cancel()
		if _, err := s.RefreshNow(ctx, trigger); err != nil {
			s.logger.Error("Background refresh failed", zap.String("trigger", trigger), zap.Error(err))
		}
	}()
	return true
}

// Wait blocks until the running background refresh, if any, has finished.
func (s *CourseService) Wait() {
	s.background.Wait()
}

func (s *CourseService) ClearCache(ctx context.Context) error {
	if err := s.cache.Delete(ctx); err != nil {
		return fmt.Errorf("%w: clear cache: %w", ErrPipeline, err)
	}
	s.logger.Info("Course cache cleared")
	return nil
}

func (s *CourseService) RecentRuns(ctx context.Context, limit int) ([]entity.SourceRun, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	runs, err := s.history.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: load run history: %w", ErrPipeline, err)
	}
	return runs, nil
}

// Health pings the cache and, when configured, the run history store.
func (s *CourseService) Health(ctx context.Context) error {
	if err := s.cache.Ping(ctx); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if s.history != nil {
		if err := s.history.Ping(ctx); err != nil {
			return fmt.Errorf("run history: %w", err)
		}
	}
	return nil
}
