package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(clearCacheCmd)
}

var clearCacheCmd = &cobra.Command{
	Use:   "clear-cache",
	Short: "Deletes the cached course list so the next request aggregates afresh.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		defer func() { _ = a.Logger.Sync() }()

		if err := a.Courses.ClearCache(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared")
		return nil
	},
}
