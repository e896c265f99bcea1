package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/lifeline/internal/photo"
)

// mustGetInt gets an int flag value or panics if the flag doesn't exist.
func mustGetInt(cmd *cobra.Command, name string) int {
	val, err := cmd.Flags().GetInt(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}

// mustGetString gets a string flag value or panics if the flag doesn't exist.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}

// mustGetFloat64 gets a float64 flag value or panics if the flag doesn't exist.
func mustGetFloat64(cmd *cobra.Command, name string) float64 {
	val, err := cmd.Flags().GetFloat64(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}

// mustGetBool gets a bool flag value or panics if the flag doesn't exist.
// This is appropriate for flags defined in init() - errors indicate programming bugs.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}

// parseDayFlags reads --from and --to as whole local days.
func parseDayFlags(cmd *cobra.Command, loc *time.Location) (from, to time.Time, err error) {
	from, err = photo.ParseDay(mustGetString(cmd, "from"), loc)
	if err != nil {
		return from, to, fmt.Errorf("invalid --from, expected YYYY-MM-DD: %w", err)
	}
	to, err = photo.ParseDay(mustGetString(cmd, "to"), loc)
	if err != nil {
		return from, to, fmt.Errorf("invalid --to, expected YYYY-MM-DD: %w", err)
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return from, to, fmt.Errorf("--to %s is before --from %s", to.Format(time.DateOnly), from.Format(time.DateOnly))
	}
	return from, to, nil
}

// parseThresholdFlag reads --threshold. Zero selects fallback; negative values
// are rejected.
func parseThresholdFlag(cmd *cobra.Command, fallback float64) (float64, error) {
	threshold := mustGetFloat64(cmd, "threshold")
	if !(threshold >= 0) {
		return 0, fmt.Errorf("invalid --threshold %g, expected a non-negative distance", threshold)
	}
	if threshold == 0 {
		return fallback, nil
	}
	return threshold, nil
}

// addDayFlags registers --from and --to on cmd.
func addDayFlags(cmd *cobra.Command) {
	cmd.Flags().String("from", "", "First day to include (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "Last day to include (YYYY-MM-DD)")
}
