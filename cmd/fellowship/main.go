package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/fellowship/internal/app"
	"github.com/MrSnakeDoc/fellowship/internal/config"
	"github.com/MrSnakeDoc/fellowship/internal/logger"
	"github.com/MrSnakeDoc/fellowship/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "fellowship",
	Short: "Scripture companion API",
	Long: `fellowship serves cached Bible content, per-user bookmarks, mood based
verse recommendations and a reflection journal over HTTP.

Configuration is read from FELLOWSHIP_* environment variables.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE:  runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.String())
	},
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.PrettyLog)
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("fellowship failed to start: %w", err)
	}
	return a.Run(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd, versionCmd, cacheCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}
