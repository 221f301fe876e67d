package cache

import (
	"context"
	"testing"

	"github.com/MrSnakeDoc/fellowship/internal/logger"
)

func TestInvalidate(t *testing.T) {
	tests := []struct {
		name        string
		pattern     string
		wantPattern string
		wantMessage string
		wantLeft    int
	}{
		{name: "default pattern clears everything", pattern: "", wantPattern: "*", wantMessage: "Cleared 4 cache entries", wantLeft: 0},
		{name: "glob on one bible", pattern: "*:kjv*", wantPattern: "*:kjv*", wantMessage: "Cleared 2 cache entries", wantLeft: 2},
		{name: "no match is not an error", pattern: "verse:*", wantPattern: "verse:*", wantMessage: "Cleared 0 cache entries", wantLeft: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			for _, k := range []string{"bibles", "books:kjv", "chapters:kjv:GEN", "chapter:GEN.1"} {
				store.data[k] = []byte(`{}`)
			}
			admin := NewAdmin(store, logger.Nop())

			res, err := admin.Invalidate(context.Background(), tt.pattern)
			if err != nil {
				t.Fatalf("Invalidate() error = %v", err)
			}
			if !res.Success || res.Pattern != tt.wantPattern || res.Message != tt.wantMessage {
				t.Errorf("Invalidate() = %+v", res)
			}
			if len(store.data) != tt.wantLeft {
				t.Errorf("remaining keys = %d, want %d", len(store.data), tt.wantLeft)
			}
		})
	}
}

func TestStats(t *testing.T) {
	store := newMemStore()
	store.data["bibles"] = []byte(`{}`)
	store.data["books:kjv"] = []byte(`{}`)
	store.infoRaw = "# Server\r\nuptime_in_seconds:3600\r\n\r\n# Clients\r\nconnected_clients:7\r\n# Memory\r\nused_memory:1048576\r\nused_memory_human:1.00M\r\n"

	stats, err := NewAdmin(store, logger.Nop()).Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}

	want := Stats{TotalKeys: 2, MemoryUsage: "1.00M", Uptime: "3600", ConnectedClients: "7"}
	if *stats != want {
		t.Errorf("Stats() = %+v, want %+v", *stats, want)
	}
}

func TestParseInfoIgnoresNoise(t *testing.T) {
	got := ParseInfo("# Keyspace\ndb0:keys=3,expires=3\n\nbogus line\n")
	if got["db0"] != "keys=3,expires=3" {
		t.Errorf("db0 = %q", got["db0"])
	}
	if len(got) != 1 {
		t.Errorf("len = %d, want 1: %v", len(got), got)
	}
}
