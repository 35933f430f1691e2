package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	canvasrenderer "github.com/ByLCY/pnpstitch/renderer/canvas"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "pnpstitch",
	Short: "Stitch card images into print-and-play sheets with cut lines",
	Long: `pnpstitch lays identically sized card images out on fixed-size pages,
centers the grid and draws cut guides, producing ready-to-print PDF or SVG sheets.

Settings come from the built-in defaults, an optional INI-style config file
(--config) and PNPSTITCH_<SECTION>_<KEY> environment variables, in that order.
A .env file in the working directory is loaded first when present.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(verbose)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the sheet config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	canvasrenderer.SetLogger(logger)
}
