package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/course-aggregator/internal/entity"
)

const (
	defaultRecentLimit = 50
	maxRecentLimit     = 500
)

const schema = `
	CREATE TABLE IF NOT EXISTS scrape_runs (
		id           BIGSERIAL PRIMARY KEY,
		run_id       UUID        NOT NULL,
		source       TEXT        NOT NULL,
		trigger      TEXT        NOT NULL,
		course_count INTEGER     NOT NULL,
		status       TEXT        NOT NULL,
		duration_ms  BIGINT      NOT NULL,
		started_at   TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS scrape_runs_started_at_idx ON scrape_runs (started_at DESC);
`

// RunHistoryRepoImpl provides a concrete implementation for the RunHistoryRepository interface using PostgreSQL.
type RunHistoryRepoImpl struct {
	db *pgxpool.Pool
}

// NewRunHistoryRepo creates a new instance of RunHistoryRepoImpl.
func NewRunHistoryRepo(db *pgxpool.Pool) *RunHistoryRepoImpl {
	return &RunHistoryRepoImpl{db: db}
}

// EnsureSchema creates the scrape_runs table when it does not exist yet.
func (r *RunHistoryRepoImpl) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create scrape_runs: %w", err)
	}
	return nil
}

// SaveRuns inserts every per-source record of one aggregation in a single round trip.
func (r *RunHistoryRepoImpl) SaveRuns(ctx context.Context, runs []entity.SourceRun) error {
	if len(runs) == 0 {
		return nil
	}
	query := `
		INSERT INTO scrape_runs (run_id, source, trigger, course_count, status, duration_ms, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	batch := &pgx.Batch{}
	for _, run := range runs {
		batch.Queue(query,
			run.RunID,
			run.Source,
			run.Trigger,
			run.CourseCount,
			run.Status,
			run.Duration.Milliseconds(),
			run.StartedAt,
		)
	}
	return r.db.SendBatch(ctx, batch).Close()
}

// Recent returns the latest records, newest first.
func (r *RunHistoryRepoImpl) Recent(ctx context.Context, limit int) ([]entity.SourceRun, error) {
	query := `
		SELECT run_id::text, source, trigger, course_count, status, duration_ms, started_at
		FROM scrape_runs
		ORDER BY started_at DESC, id DESC
		LIMIT $1;
	`
	rows, err := r.db.Query(ctx, query, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]entity.SourceRun, 0)
	for rows.Next() {
		var (
			run        entity.SourceRun
			durationMS int64
		)
		if err := rows.Scan(
			&run.RunID,
			&run.Source,
			&run.Trigger,
			&run.CourseCount,
			&run.Status,
			&durationMS,
			&run.StartedAt,
		); err != nil {
			return nil, err
		}
		run.Duration = msToDuration(durationMS)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *RunHistoryRepoImpl) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultRecentLimit
	case limit > maxRecentLimit:
		return maxRecentLimit
	default:
		return limit
	}
}

func msToDuration(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
