package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/user/course-aggregator/internal/entity"
	"github.com/user/course-aggregator/internal/repository"
	"github.com/user/course-aggregator/internal/source"
	"github.com/user/course-aggregator/pkg/metrics"
	"github.com/user/course-aggregator/pkg/workerpool"
)

// Aggregator runs every registered source concurrently and merges their output.
type Aggregator struct {
	sources []source.Source
	history repository.RunHistoryRepository
	logger  *zap.Logger
	shuffle func(n int, swap func(i, j int))
	now     func() time.Time
}

// NewAggregator creates an aggregator over sources. history may be nil.
func NewAggregator(sources []source.Source, history repository.RunHistoryRepository, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		sources: sources,
		history: history,
		logger:  logger,
		shuffle: rand.Shuffle,
		now:     time.Now,
	}
}

type sourceResult struct {
	courses []entity.Course
	run     entity.SourceRun
}

// AggregateAll scrapes all sources and returns the shuffled union of their
// records. It never fails: a broken source contributes nothing.
func (a *Aggregator) AggregateAll(ctx context.Context, trigger string) []entity.Course {
	runID := uuid.NewString()
	start := a.now()
	metrics.AggregationsTotal.WithLabelValues(trigger).Inc()
	a.logger.Info("Starting aggregation", zap.String("run_id", runID), zap.String("trigger", trigger), zap.Int("sources", len(a.sources)))

	results := workerpool.Map(ctx, a.sources, len(a.sources), func(ctx context.Context, src source.Source) sourceResult {
		return a.runSource(ctx, src, runID, trigger)
	})

	courses := make([]entity.Course, 0)
	runs := make([]entity.SourceRun, 0, len(results))
	for _, r := range results {
		for _, c := range r.courses {
			if c.Valid() {
				courses = append(courses, c)
			}
		}
		runs = append(runs, r.run)
	}
	a.shuffle(len(courses), func(i, j int) { courses[i], courses[j] = courses[j], courses[i] })

	a.saveRuns(ctx, runs)
	a.logger.Info("Aggregation finished",
		zap.String("run_id", runID),
		zap.Int("courses", len(courses)),
		zap.Duration("duration", a.now().Sub(start)),
	)
	return courses
}

func (a *Aggregator) runSource(ctx context.Context, src source.Source, runID, trigger string) (res sourceResult) {
	name := src.Name()
	start := a.now()
	res.run = entity.SourceRun{RunID: runID, Source: name, Trigger: trigger, StartedAt: start}

	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("Source panicked", zap.String("source", name), zap.String("panic", fmt.Sprint(r)), zap.Stack("stack"))
			res.courses = nil
			res.run.Status = entity.RunStatusPanic
		}
		res.run.CourseCount = len(res.courses)
		res.run.Duration = a.now().Sub(start)

		metrics.SourceScrapeDuration.WithLabelValues(name).Observe(res.run.Duration.Seconds())
		metrics.SourceCourses.WithLabelValues(name).Set(float64(res.run.CourseCount))
		if res.run.Status != entity.RunStatusOK {
			metrics.SourceFailuresTotal.WithLabelValues(name, res.run.Status).Inc()
		}
	}()

	res.courses = src.Scrape(ctx)
	if len(res.courses) == 0 {
		a.logger.Warn("Source produced no courses", zap.String("source", name))
		res.run.Status = entity.RunStatusEmpty
		return res
	}
	res.run.Status = entity.RunStatusOK
	return res
}

func (a *Aggregator) saveRuns(ctx context.Context, runs []entity.SourceRun) {
	if a.history == nil {
		return
	}
	if err := a.history.SaveRuns(ctx, runs); err != nil {
		a.logger.Warn("Failed to save run history", zap.Int("runs", len(runs)), zap.Error(err))
	}
}
