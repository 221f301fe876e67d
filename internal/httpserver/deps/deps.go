package deps

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/MrSnakeDoc/fellowship/internal/bookmark"
	"github.com/MrSnakeDoc/fellowship/internal/cache"
	"github.com/MrSnakeDoc/fellowship/internal/content"
	"github.com/MrSnakeDoc/fellowship/internal/domain"
	"github.com/MrSnakeDoc/fellowship/internal/logger"
	"github.com/MrSnakeDoc/fellowship/internal/recommend"
	"github.com/MrSnakeDoc/fellowship/internal/reflection"
	"github.com/MrSnakeDoc/fellowship/internal/scheduler"
)

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	TimeNow      func() time.Time // for testing, defaults to time.Now
	AllowedHosts []string         // Host headers allowed on admin endpoints
	AllowedCIDRS []string         // IPs allowed on admin and probe endpoints
	TrustProxy   bool             // true if running behind a trusted reverse proxy (e.g., cloudflared)

	RedisClient *redis.Client // nil when the cache is disabled
	DB          *gorm.DB

	Gateway     *cache.Gateway
	Content     *content.Service
	CacheAdmin  *cache.Admin          // nil when the cache is disabled
	Warmer      *scheduler.CacheWarmer // nil when warming is disabled
	Bookmarks   *bookmark.Service
	Reflections *reflection.Service
	Recommender *recommend.Client
	Moods       []domain.Mood

	RecommendBurst  int // per client IP
	RecommendPerMin int
}
