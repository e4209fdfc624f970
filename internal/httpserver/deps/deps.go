package deps

import (
	"time"

	"github.com/navkeep/submitd/internal/ingest"
	"github.com/navkeep/submitd/internal/logger"
	"github.com/navkeep/submitd/internal/sources/sitemeta"
	"github.com/navkeep/submitd/internal/stats"
	"github.com/redis/go-redis/v9"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string

	Ingestor *ingest.Ingestor // submission flow entry point
	Stats    *stats.Tracker   // in-memory counters for /infra
	Meta     *sitemeta.Holder // current site metadata

	StoreConfigured    bool   // GITHUB_TOKEN and GITHUB_REPO both present
	MissingStoreVar    string // first missing variable when not configured
	NotifierConfigured bool   // RESEND_API_KEY present

	RedisClient *redis.Client // nil when the duplicate cache is disabled

	AllowedHosts []string      // Host headers allowed on ops endpoints
	AllowedCIDRS []string      // IPs allowed on ops endpoints
	TrustProxy   bool          // trust proxy headers for client IP resolution
	SiteReload   chan struct{} // manual site metadata reload trigger (nil if no site file)

	RateBurst        int // token bucket size for the submit endpoint
	RateRefillPerMin int
	RateMaxEntries   int
}
