// Package app wires the configuration, clients and services and owns their
// lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/MrSnakeDoc/fellowship/internal/bookmark"
	"github.com/MrSnakeDoc/fellowship/internal/cache"
	"github.com/MrSnakeDoc/fellowship/internal/config"
	"github.com/MrSnakeDoc/fellowship/internal/content"
	"github.com/MrSnakeDoc/fellowship/internal/httpserver"
	"github.com/MrSnakeDoc/fellowship/internal/httpserver/deps"
	"github.com/MrSnakeDoc/fellowship/internal/logger"
	"github.com/MrSnakeDoc/fellowship/internal/recommend"
	"github.com/MrSnakeDoc/fellowship/internal/redis"
	"github.com/MrSnakeDoc/fellowship/internal/reflection"
	"github.com/MrSnakeDoc/fellowship/internal/scheduler"
	"github.com/MrSnakeDoc/fellowship/internal/sources/moods"
	"github.com/MrSnakeDoc/fellowship/internal/store/database"
	redisstore "github.com/MrSnakeDoc/fellowship/internal/store/redis"
	"github.com/MrSnakeDoc/fellowship/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	db          *gorm.DB
	warmer      *scheduler.CacheWarmer
}

// New builds every component. Redis being unreachable is not fatal: the
// content cache fails open and the client keeps redialing.
func New(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	redisClient, err := ConnectRedis(ctx, cfg, loggerClient)
	switch {
	case errors.Is(err, redis.ErrUnreachable):
		loggerClient.Warn("redis unreachable, starting with content cache degraded", logger.Error(err))
	case err != nil:
		return nil, err
	default:
		loggerClient.Info("Redis initialized successfully")
	}

	store := redisstore.NewStore(redisClient, cfg.CacheKeyPrefix)
	gw := cache.NewGateway(store, cache.Options{
		TTL: cfg.CacheTTL,
		Breaker: cache.BreakerOptions{
			Name:        "content-cache",
			Failures:    cfg.CacheBreakerFailures,
			Timeout:     cfg.CacheBreakerTimeout,
			MaxRequests: 1,
		},
	}, loggerClient)

	upstream, err := content.NewClient(cfg.BibleAPIBaseURL, cfg.BibleAPIKey, cfg.BibleAPITimeout, loggerClient)
	if err != nil {
		return nil, multierr.Append(err, redisClient.Close())
	}
	contentSvc := content.NewService(gw, upstream)

	db, err := OpenDatabase(cfg, loggerClient)
	if err != nil {
		return nil, multierr.Append(err, redisClient.Close())
	}

	catalog, err := moods.NewLoader(cfg.MoodsFile).Load()
	if err != nil {
		return nil, multierr.Combine(err, redisClient.Close(), database.Close(db))
	}

	recommender, err := recommend.NewClient(recommend.Options{
		BaseURL: cfg.RecommenderBaseURL,
		APIKey:  cfg.RecommenderAPIKey,
		Model:   cfg.RecommenderModel,
		Timeout: cfg.RecommenderTimeout,
	}, loggerClient)
	if err != nil {
		return nil, multierr.Combine(err, redisClient.Close(), database.Close(db))
	}
	if !recommender.Enabled() {
		loggerClient.Info("recommender API key not configured, verse recommendations disabled")
	}

	warmer := scheduler.NewCacheWarmer(contentSvc, cfg.CacheWarmSchedule, cfg.CacheWarmBibleIDs, loggerClient)

	d := deps.Deps{
		Logger:       loggerClient,
		StartTime:    time.Now(),
		Version:      version.Version,
		Commit:       version.Commit,
		BuildDate:    version.BuildDate,
		GoVersion:    version.GoVersion,
		TimeNow:      time.Now,
		AllowedHosts: cfg.AllowedHosts,
		AllowedCIDRS: cfg.CacheAdminAllowedCIDR,
		TrustProxy:   cfg.TrustProxy,

		RedisClient: redisClient,
		DB:          db,

		Gateway:     gw,
		Content:     contentSvc,
		CacheAdmin:  cache.NewAdmin(store, loggerClient),
		Warmer:      warmer,
		Bookmarks:   bookmark.NewService(database.NewBookmarkRepository(db), loggerClient),
		Reflections: reflection.NewService(database.NewReflectionRepository(db), loggerClient),
		Recommender: recommender,
		Moods:       catalog,

		RecommendBurst:  cfg.RecommendBurst,
		RecommendPerMin: cfg.RecommendPerMin,
	}

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      httpserver.New(cfg, loggerClient, d),
		redisClient: redisClient,
		db:          db,
		warmer:      warmer,
	}, nil
}

// ConnectRedis dials Redis with the configured retry policy.
func ConnectRedis(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*goredis.Client, error) {
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	return redis.New(ctx, redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		DB:             cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
}

// OpenDatabase opens the document store and creates missing tables.
func OpenDatabase(cfg *config.Config, loggerClient logger.Logger) (*gorm.DB, error) {
	if cfg.DatabaseDriver == "sqlite" && cfg.DatabaseDSN == "" && cfg.DatabasePath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := database.Open(database.Config{
		Driver: cfg.DatabaseDriver,
		Path:   cfg.DatabasePath,
		DSN:    cfg.DatabaseDSN,
		Debug:  cfg.LogLevel == "debug",
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, multierr.Append(err, database.Close(db))
	}
	loggerClient.Info("database ready", logger.String("driver", db.Dialector.Name()))
	return db, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Infof("🚀 Starting %s on %s", version.String(), a.cfg.ListenPort)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.warmer.Start(ctx); err != nil {
		return multierr.Append(fmt.Errorf("failed to start cache warmer: %w", err), a.close())
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case runErr = <-errCh:
	}

	a.warmer.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		runErr = multierr.Append(runErr, fmt.Errorf("failed to stop server: %w", err))
	}

	runErr = multierr.Append(runErr, a.close())
	if runErr == nil {
		a.logger.Info("✅ Fellowship stopped cleanly")
	}
	return runErr
}

// close releases Redis and the database, reporting every failure.
func (a *App) close() error {
	var err error
	if a.redisClient != nil {
		err = multierr.Append(err, a.redisClient.Close())
	}
	if a.db != nil {
		err = multierr.Append(err, database.Close(a.db))
	}
	return err
}
