package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/lifeline/internal/config"
	"github.com/kozaktomas/lifeline/internal/logger"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "lifeline",
	Short: "Browse a photo library by day, by person and by album",
	Long: `Lifeline groups a photo library into a day-by-day timeline, detects faces
with an external detection service, clusters them into people, and keeps
date-range albums in a database.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()

	cfg = config.Load()
	logger.Init(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
}
