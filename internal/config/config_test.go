package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRequireEnv(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		shouldSet bool
		wantPanic bool
	}{
		{
			name:      "variable set",
			key:       "test_var",
			value:     "test_value",
			shouldSet: true,
			wantPanic: false,
		},
		{
			name:      "variable not set",
			key:       "test_var_missing",
			shouldSet: false,
			wantPanic: true,
		},
		{
			name:      "whitespace only counts as missing",
			key:       "test_var_blank",
			value:     "   ",
			shouldSet: true,
			wantPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.shouldSet {
				t.Setenv(envName(tt.key), tt.value)
			}

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnv() should have panicked")
					}
				}()
			}

			result := requireEnv(newViper(), tt.key)
			if !tt.wantPanic && result != tt.value {
				t.Errorf("requireEnv() = %v, want %v", result, tt.value)
			}
		})
	}
}

func TestGetenvInt(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      int
		expected int
	}{
		{name: "valid integer", key: "test_int", value: "42", def: 1, expected: 42},
		{name: "invalid integer uses default", key: "test_int_invalid", value: "not_a_number", def: 7, expected: 7},
		{name: "missing variable uses default", key: "test_int_missing", def: 3, expected: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(envName(tt.key), tt.value)
			}

			result := getenvInt(newViper(), tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("getenvInt() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected []string
	}{
		{name: "single value", value: "value1", expected: []string{"value1"}},
		{name: "multiple values", value: "value1, value2, value3", expected: []string{"value1", "value2", "value3"}},
		{name: "quoted values", value: `"a", 'b'`, expected: []string{"a", "b"}},
		{name: "empty", value: "", expected: nil},
		{name: "only separators", value: " , ,", expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitAndTrim(tt.value)
			if len(result) != len(tt.expected) {
				t.Fatalf("splitAndTrim() length = %v, want %v", len(result), len(tt.expected))
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("splitAndTrim()[%d] = %v, want %v", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{
			name:     "valid duration",
			key:      "test_duration",
			value:    "5s",
			def:      1 * time.Second,
			expected: 5 * time.Second,
		},
		{
			name:     "invalid duration uses default",
			key:      "test_duration_invalid",
			value:    "invalid",
			def:      10 * time.Second,
			expected: 10 * time.Second,
		},
		{
			name:     "missing variable uses default",
			key:      "test_duration_missing",
			value:    "",
			def:      15 * time.Second,
			expected: 15 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(envName(tt.key), tt.value)
			}

			result := mustDuration(newViper(), tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      bool
		expected bool
	}{
		{name: "true value", key: "test_bool", value: "true", def: false, expected: true},
		{name: "false value", key: "test_bool_false", value: "false", def: true, expected: false},
		{name: "invalid value uses default", key: "test_bool_invalid", value: "invalid", def: true, expected: true},
		{name: "missing variable uses default", key: "test_bool_missing", value: "", def: false, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(envName(tt.key), tt.value)
			}

			result := mustBool(newViper(), tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustBool() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FELLOWSHIP_BIBLEAPI_KEY", "secret")

	cfg := Load()

	if cfg.ListenPort != ":3001" {
		t.Errorf("ListenPort = %q, want :3001", cfg.ListenPort)
	}
	if cfg.CacheTTL != 600*time.Second {
		t.Errorf("CacheTTL = %v, want 600s", cfg.CacheTTL)
	}
	if cfg.DatabaseDriver != "sqlite" {
		t.Errorf("DatabaseDriver = %q, want sqlite", cfg.DatabaseDriver)
	}
	if cfg.BibleAPIKey != "secret" {
		t.Errorf("BibleAPIKey = %q, want secret", cfg.BibleAPIKey)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v, want [*]", cfg.CORSOrigins)
	}
}

func TestLoadMissingAPIKeyPanics(t *testing.T) {
	t.Setenv("FELLOWSHIP_BIBLEAPI_KEY", "")

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Load() should have panicked without an upstream API key")
		}
	}()
	Load()
}

func TestLoadPostgresRequiresDSN(t *testing.T) {
	t.Setenv("FELLOWSHIP_BIBLEAPI_KEY", "secret")
	t.Setenv("FELLOWSHIP_DATABASE_DRIVER", "postgres")
	t.Setenv("FELLOWSHIP_DATABASE_DSN", "")

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Load() should have panicked for postgres without DSN")
		}
	}()
	Load()
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fellowship.yaml")
	content := "bibleapi_key: from-file\nlisten_port: \":9000\"\ncache_warm_bible_ids: \"kjv, web\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("FELLOWSHIP_CONFIG_FILE", path)
	t.Setenv("FELLOWSHIP_BIBLEAPI_KEY", "")
	t.Setenv("FELLOWSHIP_LISTEN_PORT", "")

	cfg := Load()

	if cfg.BibleAPIKey != "from-file" {
		t.Errorf("BibleAPIKey = %q, want from-file", cfg.BibleAPIKey)
	}
	if cfg.ListenPort != ":9000" {
		t.Errorf("ListenPort = %q, want :9000", cfg.ListenPort)
	}
	if len(cfg.CacheWarmBibleIDs) != 2 || cfg.CacheWarmBibleIDs[1] != "web" {
		t.Errorf("CacheWarmBibleIDs = %v, want [kjv web]", cfg.CacheWarmBibleIDs)
	}
}
