// Package app wires the configured collaborators into a runnable service.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/user/course-aggregator/internal/adapter/chromedp_crawler"
	"github.com/user/course-aggregator/internal/adapter/httpfetch"
	"github.com/user/course-aggregator/internal/adapter/postgres"
	redisadapter "github.com/user/course-aggregator/internal/adapter/redis"
	"github.com/user/course-aggregator/internal/delivery/http/handler"
	"github.com/user/course-aggregator/internal/delivery/http/router"
	"github.com/user/course-aggregator/internal/repository"
	"github.com/user/course-aggregator/internal/scheduler"
	"github.com/user/course-aggregator/internal/source"
	"github.com/user/course-aggregator/internal/usecase"
	"github.com/user/course-aggregator/pkg/config"
)

// App holds the long-lived collaborators of one process.
type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	Aggregator *usecase.Aggregator
	Courses    *usecase.CourseService

	redis *redis.Client
	pg    *pgxpool.Pool
}

// New builds every collaborator from cfg. Connections are opened lazily except
// for Postgres, whose schema is ensured up front when run history is enabled.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	redisOpts, err := redis.ParseURL(cfg.CacheRedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse CACHE_REDIS_URL: %w", err)
	}
	a.redis = redis.NewClient(redisOpts)
	cache := redisadapter.NewCourseCacheRepo(a.redis, cfg.CacheKey)

	var history repository.RunHistoryRepository
	if cfg.PostgresURL != "" {
		runs, err := a.openHistory(ctx)
		if err != nil {
			a.Close()
			return nil, err
		}
		history = runs
	}

	sources, err := a.buildSources()
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Aggregator = usecase.NewAggregator(sources, history, logger)
	a.Courses = usecase.NewCourseService(a.Aggregator, cache, history, logger, usecase.ServiceOptions{
		CacheTTL:       cfg.CacheTTL,
		RefreshTimeout: cfg.RefreshTimeout,
	})
	return a, nil
}

func (a *App) openHistory(ctx context.Context) (*postgres.RunHistoryRepoImpl, error) {
	pool, err := pgxpool.New(ctx, a.Config.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	a.pg = pool
	runs := postgres.NewRunHistoryRepo(pool)
	if err := runs.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	a.Logger.Info("Run history enabled")
	return runs, nil
}

func (a *App) buildSources() ([]source.Source, error) {
	cfg := a.Config
	identities := httpfetch.NewIdentityPool(nil, cfg.ProxyList())
	deps := source.Deps{
		Fetcher: httpfetch.New(identities, cfg.FetchTimeout, a.Logger),
		Timeout: cfg.FetchTimeout,
		Logger:  a.Logger,
	}

	opts := source.Options{
		Names:           cfg.SourceNames(),
		CourseraPages:   cfg.CourseraPages,
		PageConcurrency: cfg.PageConcurrency,
		LifeCatalogURL:  cfg.LifeCatalogURL,
	}
	if cfg.BrowserEnabled {
		opts.Browser = chromedp_crawler.NewChromedpCrawler(chromedp_crawler.Options{
			ExecPath:     cfg.ChromeDriverPath,
			UserAgent:    identities.UserAgent,
			PageTimeout:  cfg.BrowserPageTimeout,
			MaxRetries:   cfg.BrowserMaxRetries,
			RetryDelay:   cfg.BrowserRetryDelay,
			WaitSelector: source.UdemyWaitSelector,
			MaxScrolls:   10,
		}, a.Logger)
	}

	sources, err := source.Build(deps, opts)
	if err != nil {
		return nil, fmt.Errorf("build sources: %w", err)
	}
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = s.Name()
	}
	a.Logger.Info("Sources configured", zap.Strings("sources", names), zap.Bool("browser", cfg.BrowserEnabled))
	return sources, nil
}

// PingCache verifies the cache is reachable.
func (a *App) PingCache(ctx context.Context) error {
	return a.redis.Ping(ctx).Err()
}

// Router returns the HTTP API.
func (a *App) Router() http.Handler {
	return router.New(handler.NewHandler(a.Courses, a.Logger), a.Logger)
}

// Scheduler returns a scheduler driving periodic background refreshes.
func (a *App) Scheduler() (*scheduler.Scheduler, error) {
	return scheduler.New(a.Courses, a.Config.RefreshInterval, a.Logger)
}

// Close releases the connections held by the app.
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.Logger.Warn("Failed to close redis client", zap.Error(err))
		}
	}
	if a.pg != nil {
		a.pg.Close()
	}
}
