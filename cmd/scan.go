package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/lifeline/internal/logger"
	"github.com/kozaktomas/lifeline/internal/people"
	"github.com/kozaktomas/lifeline/internal/photo"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Detect faces in a date range and group them into people",
	Long: `Detect faces in every photo of the date range and cluster them into people.

Photos that cannot be read or decoded are skipped and counted. When a
PostgreSQL database is configured, detected faces are cached and later scans
reuse them.

Examples:
  # Cluster faces from June 2024
  lifeline scan --from 2024-06-01 --to 2024-06-30

  # Use a tighter threshold and more workers
  lifeline scan --from 2024-06-01 --threshold 30 --concurrency 8`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	addDayFlags(scanCmd)
	scanCmd.Flags().Float64("threshold", 0, "Maximum feature distance to join a person (0 = CLUSTER_THRESHOLD)")
	scanCmd.Flags().Int("concurrency", 0, "Number of parallel workers (0 = SCAN_CONCURRENCY)")
	scanCmd.Flags().Bool("no-cache", false, "Ignore the database face cache")
	scanCmd.Flags().Bool("verbose", false, "List every skipped photo")
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := openBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	from, to, err := parseDayFlags(cmd, b.loc)
	if err != nil {
		return err
	}

	threshold, err := parseThresholdFlag(cmd, cfg.Clustering.Threshold)
	if err != nil {
		return err
	}
	concurrency := mustGetInt(cmd, "concurrency")
	if concurrency <= 0 {
		concurrency = cfg.Clustering.Concurrency
	}

	pipeline := &people.Pipeline{
		Library:     b.library,
		Detector:    b.detector,
		Concurrency: concurrency,
		Log:         logger.Named("scan"),
	}
	if b.faceStore != nil && !mustGetBool(cmd, "no-cache") {
		pipeline.Cache = b.faceStore
	}

	out := cmd.OutOrStdout()
	var bar *progressbar.ProgressBar
	report, err := pipeline.Run(ctx, photo.NewDateRange(from, to, b.loc), threshold, people.Events{
		Listed: func(total int) {
			fmt.Fprintf(out, "Found %d photos\n", total)
			if total == 0 {
				return
			}
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription("Detecting faces"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionShowIts(),
				progressbar.OptionSetItsString("photos"),
				progressbar.OptionShowElapsedTimeOnFinish(),
				progressbar.OptionSetPredictTime(true),
				progressbar.OptionFullWidth(),
			)
		},
		Progress: func(done, total int) {
			if bar != nil {
				_ = bar.Set(done)
			}
		},
	})
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nFound %d faces, %d people (threshold %g) in %s\n\n",
		len(report.Scan.Faces), len(report.People), threshold, report.Duration.Round(time.Millisecond))
	printPeople(out, report.People)
	fmt.Fprintln(out)
	printSkipped(out, report.Scan.Skipped, mustGetBool(cmd, "verbose"))

	if pipeline.Cache != nil {
		printCacheSummary(ctx, out, b.faceStore, report.Photos)
	}
	return nil
}
