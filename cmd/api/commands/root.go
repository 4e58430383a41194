package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/user/course-aggregator/internal/app"
	"github.com/user/course-aggregator/pkg/config"
	"github.com/user/course-aggregator/pkg/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "course-aggregator",
	Short:         "course-aggregator collects free course listings from several catalogs and serves them as one list.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".env", "Path to an optional env file.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads configuration, builds the logger and wires the app.
func bootstrap(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	log.Info("Logger initialized", zap.String("level", cfg.LogLevel))

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}
	return a, nil
}
