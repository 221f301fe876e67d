package config

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment key (ex: FELLOWSHIP_REDIS_ADDR).
const EnvPrefix = "FELLOWSHIP"

type Config struct {
	ListenPort      string        // ex: ":3001"
	ShutdownTimeout time.Duration // ex: 10s
	RequestTimeout  time.Duration // per-request timeout applied by the router
	CORSOrigins     []string      // allowed CORS origins (default "*")

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Upstream scripture provider
	BibleAPIBaseURL string        // ex: "https://rest.api.bible/v1/"
	BibleAPIKey     string        // sent as the "api-key" header
	BibleAPITimeout time.Duration // per upstream call

	// Content cache
	CacheTTL              time.Duration // fixed at 600s unless overridden
	CacheKeyPrefix        string        // namespace for every cache key
	CacheBreakerTimeout   time.Duration // how long the breaker stays open
	CacheBreakerFailures  uint32        // consecutive failures before opening
	CacheWarmSchedule     string        // cron spec, empty = warmer disabled
	CacheWarmBibleIDs     []string      // bibles whose book lists are kept warm
	CacheAdminAllowedCIDR []string      // restrict /content/cache/* and /metrics

	// Redis
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisRT             time.Duration // Redis read timeout (ex: 3s)
	RedisWT             time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize       int           // Redis connection pool size
	RedisConnectTimeout time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold  int           // warn after this many attempts

	// Document store
	DatabaseDriver string // "sqlite" | "postgres"
	DatabasePath   string // sqlite file path (":memory:" allowed)
	DatabaseDSN    string // optional DSN override (required for postgres)

	// Moods & recommendations
	MoodsFile          string        // optional YAML mood catalog, empty = built-in list
	RecommenderBaseURL string        // OpenAI-compatible API root
	RecommenderAPIKey  string        // empty = recommendations disabled
	RecommenderModel   string        // ex: "gpt-4o-mini"
	RecommenderTimeout time.Duration // per completion call
	RecommendBurst     int           // rate limit burst per client IP
	RecommendPerMin    int           // rate limit refill per client IP per minute

	AllowedHosts []string // optional, restrict admin endpoints to specific Host headers
	TrustProxy   bool     // true => trust X-Forwarded-For headers
}

// Load reads the configuration from the environment (and an optional YAML
// file pointed to by FELLOWSHIP_CONFIG_FILE). Missing required values panic.
func Load() *Config {
	v := newViper()

	if file := getenv(v, "config_file", ""); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			panic(fmt.Sprintf("❌ FATAL: cannot read config file %s: %v", file, err))
		}
	}

	cfg := &Config{
		// Server settings
		ListenPort:      getenv(v, "listen_port", ":3001"),
		ShutdownTimeout: mustDuration(v, "shutdown_timeout", 10*time.Second),
		RequestTimeout:  mustDuration(v, "request_timeout", 30*time.Second),
		CORSOrigins:     splitAndTrim(getenv(v, "cors_origins", "*")),

		// Logging
		LogLevel:  getenv(v, "log_level", "info"),
		PrettyLog: mustBool(v, "pretty_log", true),

		// Upstream
		BibleAPIBaseURL: getenv(v, "bibleapi_base_url", "https://rest.api.bible/v1/"),
		BibleAPIKey:     requireEnv(v, "bibleapi_key"),
		BibleAPITimeout: mustDuration(v, "bibleapi_timeout", 15*time.Second),

		// Content cache
		CacheTTL:              mustDuration(v, "cache_ttl", 600*time.Second),
		CacheKeyPrefix:        getenv(v, "cache_key_prefix", "fellowship:content:"),
		CacheBreakerTimeout:   mustDuration(v, "cache_breaker_timeout", 30*time.Second),
		CacheBreakerFailures:  uint32(getenvInt(v, "cache_breaker_failures", 5)),
		CacheWarmSchedule:     getenv(v, "cache_warm_schedule", ""),
		CacheWarmBibleIDs:     splitAndTrim(getenv(v, "cache_warm_bible_ids", "")),
		CacheAdminAllowedCIDR: splitAndTrim(getenv(v, "cache_admin_cidrs", "")),

		// Redis settings
		RedisAddr:           getenv(v, "redis_addr", "localhost:6379"),
		RedisUser:           getenv(v, "redis_username", ""),
		RedisPassword:       getenv(v, "redis_password", ""),
		RedisDB:             getenvInt(v, "redis_db", 0),
		RedisDT:             mustDuration(v, "redis_dial_timeout", 5*time.Second),
		RedisRT:             mustDuration(v, "redis_read_timeout", 3*time.Second),
		RedisWT:             mustDuration(v, "redis_write_timeout", 3*time.Second),
		RedisMaxWait:        mustDuration(v, "redis_max_wait", 10*time.Second),
		RedisPingTimeout:    mustDuration(v, "redis_ping_timeout", 5*time.Second),
		RedisPoolSize:       getenvInt(v, "redis_pool_size", 10),
		RedisConnectTimeout: mustDuration(v, "redis_connect_timeout", 15*time.Second),
		RedisRetryInterval:  mustDuration(v, "redis_retry_interval", 2*time.Second),
		RedisWarnThreshold:  getenvInt(v, "redis_warn_threshold", 3),

		// Document store
		DatabaseDriver: strings.ToLower(getenv(v, "database_driver", "sqlite")),
		DatabasePath:   getenv(v, "database_path", "data/fellowship.db"),
		DatabaseDSN:    getenv(v, "database_dsn", ""),

		// Moods & recommendations
		MoodsFile:          getenv(v, "moods_file", ""),
		RecommenderBaseURL: getenv(v, "recommender_base_url", "https://api.openai.com/v1/"),
		RecommenderAPIKey:  getenv(v, "recommender_api_key", ""),
		RecommenderModel:   getenv(v, "recommender_model", "gpt-4o-mini"),
		RecommenderTimeout: mustDuration(v, "recommender_timeout", 30*time.Second),
		RecommendBurst:     getenvInt(v, "recommend_burst", 5),
		RecommendPerMin:    getenvInt(v, "recommend_per_min", 10),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv(v, "allowed_hosts", "")),
		TrustProxy:   mustBool(v, "trust_proxy", false),
	}

	if cfg.DatabaseDriver == "postgres" && cfg.DatabaseDSN == "" {
		panic("❌ FATAL: FELLOWSHIP_DATABASE_DSN is required when FELLOWSHIP_DATABASE_DRIVER=postgres")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.BibleAPIKey = "***REDACTED***"
		cfgCopy.RedisPassword = "***REDACTED***"
		cfgCopy.DatabaseDSN = "***REDACTED***"
		if cfg.RecommenderAPIKey != "" {
			cfgCopy.RecommenderAPIKey = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// newViper builds a viper instance bound to FELLOWSHIP_* environment variables.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// envName returns the environment variable backing a config key.
func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
}

// helpers
func getenv(v *viper.Viper, key, def string) string {
	if s := strings.TrimSpace(v.GetString(key)); s != "" {
		return s
	}
	return def
}

func requireEnv(v *viper.Viper, key string) string {
	s := strings.TrimSpace(v.GetString(key))
	if s == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", envName(key)))
	}
	return s
}

func getenvInt(v *viper.Viper, key string, def int) int {
	if s := strings.TrimSpace(v.GetString(key)); s != "" {
		if i, err := strconv.Atoi(s); err == nil {
			return i
		}
	}
	return def
}

func mustBool(v *viper.Viper, key string, def bool) bool {
	if s := strings.TrimSpace(v.GetString(key)); s != "" {
		b, err := strconv.ParseBool(s)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if s := strings.TrimSpace(v.GetString(key)); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
