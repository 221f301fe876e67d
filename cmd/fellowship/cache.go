package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/fellowship/internal/app"
	"github.com/MrSnakeDoc/fellowship/internal/cache"
	"github.com/MrSnakeDoc/fellowship/internal/config"
	"github.com/MrSnakeDoc/fellowship/internal/logger"
	redisstore "github.com/MrSnakeDoc/fellowship/internal/store/redis"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the content cache",
	Long:  `Operate directly on the Redis content cache without going through the HTTP admin endpoints.`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show key count and Redis server info",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAdmin(cmd, func(admin *cache.Admin) error {
			stats, err := admin.Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to read cache stats: %w", err)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		})
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [pattern]",
	Short: "Delete cached entries matching a glob pattern",
	Long:  `Delete every cache entry whose key matches the glob pattern. Without a pattern the whole namespace is cleared.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pattern := cache.DefaultPattern
		if len(args) == 1 {
			pattern = args[0]
		}
		return withAdmin(cmd, func(admin *cache.Admin) error {
			res, err := admin.Invalidate(cmd.Context(), pattern)
			if err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		})
	},
}

// withAdmin connects to Redis, runs fn and closes the client. An unreachable
// Redis is an error here, unlike in the server.
func withAdmin(cmd *cobra.Command, fn func(*cache.Admin) error) error {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.PrettyLog)
	defer func() { _ = log.Sync() }()

	client, err := app.ConnectRedis(cmd.Context(), cfg, log)
	if client != nil {
		defer client.Close()
	}
	if err != nil {
		return err
	}
	return fn(cache.NewAdmin(redisstore.NewStore(client, cfg.CacheKeyPrefix), log))
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd)
}
