package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/lifeline/internal/photo"
	"github.com/kozaktomas/lifeline/internal/timeline"
)

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Show photo counts per day",
	Long: `List the days of the date range that have photos, oldest first, with the
number of photos taken on each local calendar day.

Examples:
  lifeline timeline --from 2024-06-01 --to 2024-06-30`,
	RunE: runTimeline,
}

func init() {
	rootCmd.AddCommand(timelineCmd)
	addDayFlags(timelineCmd)
}

func runTimeline(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	b, err := openBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	from, to, err := parseDayFlags(cmd, b.loc)
	if err != nil {
		return err
	}

	photos, err := b.library.ListPhotos(ctx, photo.NewDateRange(from, to, b.loc))
	if err != nil {
		return fmt.Errorf("failed to list photos: %w", err)
	}

	printDays(cmd.OutOrStdout(), timeline.GroupByDate(photos, b.loc))
	return nil
}
