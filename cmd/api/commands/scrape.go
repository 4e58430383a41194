package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/user/course-aggregator/internal/entity"
)

var scrapeStore bool

func init() {
	scrapeCmd.Flags().BoolVar(&scrapeStore, "store", false, "Also overwrite the cache entry with the result.")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--store]",
	Short: "Runs one aggregation and prints the courses as JSON.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		defer func() { _ = a.Logger.Sync() }()

		start := time.Now()
		var courses []entity.Course
		if scrapeStore {
			courses, err = a.Courses.RefreshNow(ctx, entity.TriggerCLI)
			if err != nil {
				return err
			}
		} else {
			courses = a.Aggregator.AggregateAll(ctx, entity.TriggerCLI)
		}
		a.Logger.Info("Scrape finished", zap.Int("courses", len(courses)), zap.Float64("seconds", time.Since(start).Seconds()))

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(courses); err != nil {
			return fmt.Errorf("write courses: %w", err)
		}
		return nil
	},
}
