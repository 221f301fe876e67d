package cache

import (
	"context"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/fellowship/internal/logger"
)

// DefaultPattern matches every content key.
const DefaultPattern = "*"

// Admin exposes invalidation and introspection of the content cache.
// Unlike the Gateway it surfaces store errors to the caller.
type Admin struct {
	store AdminStore
	log   logger.Logger
}

func NewAdmin(store AdminStore, log logger.Logger) *Admin {
	return &Admin{store: store, log: log.Named("cache-admin")}
}

type InvalidateResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Pattern string `json:"pattern"`
	Deleted int64  `json:"-"`
}

// Invalidate deletes every key matching the glob pattern ("*" when empty).
// No match is not an error.
func (a *Admin) Invalidate(ctx context.Context, pattern string) (*InvalidateResult, error) {
	if strings.TrimSpace(pattern) == "" {
		pattern = DefaultPattern
	}

	keys, err := a.store.Keys(ctx, pattern)
	if err != nil {
		return nil, fmt.Errorf("cache: scan %q: %w", pattern, err)
	}

	var deleted int64
	if len(keys) > 0 {
		if deleted, err = a.store.Delete(ctx, keys...); err != nil {
			return nil, fmt.Errorf("cache: delete %d keys: %w", len(keys), err)
		}
	}

	a.log.Info("cache invalidated",
		logger.String("pattern", pattern),
		logger.Int("matched", len(keys)),
		logger.Int64("deleted", deleted))

	return &InvalidateResult{
		Success: true,
		Message: fmt.Sprintf("Cleared %d cache entries", len(keys)),
		Pattern: pattern,
		Deleted: deleted,
	}, nil
}

type Stats struct {
	TotalKeys        int    `json:"totalKeys"`
	MemoryUsage      string `json:"memoryUsage"`
	Uptime           string `json:"uptime"`
	ConnectedClients string `json:"connectedClients"`
}

func (a *Admin) Stats(ctx context.Context) (*Stats, error) {
	keys, err := a.store.Keys(ctx, DefaultPattern)
	if err != nil {
		return nil, fmt.Errorf("cache: count keys: %w", err)
	}
	info, err := a.store.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("cache: info: %w", err)
	}

	fields := ParseInfo(info)
	return &Stats{
		TotalKeys:        len(keys),
		MemoryUsage:      fields["used_memory_human"],
		Uptime:           fields["uptime_in_seconds"],
		ConnectedClients: fields["connected_clients"],
	}, nil
}

// ParseInfo turns a Redis INFO payload into label/value pairs.
// Section headers ("# Memory") and blank lines are skipped.
func ParseInfo(info string) map[string]string {
	out := make(map[string]string)
	for _, line := range strings.Split(info, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		label, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		out[label] = value
	}
	return out
}
