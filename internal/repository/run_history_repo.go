package repository

import (
	"context"

	"github.com/user/course-aggregator/internal/entity"
)

// RunHistoryRepository persists per-source outcomes of aggregation runs.
type RunHistoryRepository interface {
	// SaveRuns stores all runs of one aggregation.
	SaveRuns(ctx context.Context, runs []entity.SourceRun) error
	// Recent returns the latest runs, newest first.
	Recent(ctx context.Context, limit int) ([]entity.SourceRun, error)
	Ping(ctx context.Context) error
}
