package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the HTTP API and the periodic refresh scheduler.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		defer func() { _ = a.Logger.Sync() }()
		logger := a.Logger

		if err := a.PingCache(ctx); err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		logger.Info("Redis connection established")

		sched, err := a.Scheduler()
		if err != nil {
			return err
		}
		sched.Start(a.Config.RefreshOnStart)

		// A cache miss aggregates synchronously, so a write may take as long as a refresh.
		server := &http.Server{
			Addr:         ":" + a.Config.ServerPort,
			Handler:      a.Router(),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: a.Config.RefreshTimeout + 10*time.Second,
			IdleTimeout:  120 * time.Second,
		}

		serveErr := make(chan error, 1)
		go func() {
			logger.Info("Starting server", zap.String("port", a.Config.ServerPort))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErr <- err
			}
			close(serveErr)
		}()

		select {
		case err := <-serveErr:
			if err != nil {
				return fmt.Errorf("listen on port %s: %w", a.Config.ServerPort, err)
			}
		case <-ctx.Done():
		}

		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		sched.Stop(shutdownCtx)
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		a.Courses.Wait()
		logger.Info("Server exiting")
		return nil
	},
}
