package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Remote pending-list store (GitHub contents API).
	// Token and Repo are deliberately NOT required at startup: their absence
	// is a deployment error that must surface as a 500 on each submit
	// request, not as a crash loop.
	GithubToken    string        // write-capable token
	GithubRepo     string        // "owner/name"
	GithubFilePath string        // path of the pending-list document
	GithubAPIURL   string        // override for tests
	GithubTimeout  time.Duration // per-call timeout

	// Email notifications (optional; empty key disables all sending).
	ResendAPIKey string
	ResendAPIURL string // override for tests
	AdminEmail   string // empty disables the admin notification only
	EmailTimeout time.Duration

	// Site metadata file (optional; defaults used when empty).
	SiteFile           string
	SiteReloadInterval time.Duration

	// Optional duplicate fast-path cache (empty addr disables redis).
	RedisAddr           string
	RedisUser           string
	RedisPassword       string
	RedisDB             int
	RedisDT             time.Duration // dial timeout
	RedisRT             time.Duration // read timeout
	RedisWT             time.Duration // write timeout
	RedisPoolSize       int
	RedisConnectTimeout time.Duration
	RedisRetryInterval  time.Duration
	RedisMaxWait        time.Duration
	RedisPingTimeout    time.Duration

	// Access restrictions for the ops endpoints (/infra, /reload).
	AllowedCIDRS []string
	AllowedHosts []string
	TrustProxy   bool

	// Rate limiting on the public submit endpoint.
	RateBurst        int
	RateRefillPerMin int
	RateMaxEntries   int
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("SUBMITD_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("SUBMITD_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("SUBMITD_LOG_LEVEL", "info"),
		PrettyLog: mustBool("SUBMITD_PRETTY_LOG", true),

		// Remote store
		GithubToken:    os.Getenv("GITHUB_TOKEN"),
		GithubRepo:     os.Getenv("GITHUB_REPO"),
		GithubFilePath: getenv("GITHUB_FILE_PATH", "public/pending-websites.json"),
		GithubAPIURL:   getenv("GITHUB_API_URL", "https://api.github.com"),
		GithubTimeout:  mustDuration("GITHUB_TIMEOUT", 30*time.Second),

		// Notifications
		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		ResendAPIURL: getenv("RESEND_API_URL", "https://api.resend.com"),
		AdminEmail:   os.Getenv("ADMIN_EMAIL"),
		EmailTimeout: mustDuration("EMAIL_TIMEOUT", 15*time.Second),

		// Site metadata
		SiteFile:           getenv("SUBMITD_SITE_FILE", ""),
		SiteReloadInterval: mustDuration("SUBMITD_SITE_RELOAD_INTERVAL", 24*time.Hour),

		// Redis settings (optional)
		RedisAddr:           getenv("SUBMITD_REDIS_ADDR", ""),
		RedisUser:           getenv("SUBMITD_REDIS_USERNAME", "default"),
		RedisPassword:       getenv("SUBMITD_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("SUBMITD_REDIS_DB", 0),
		RedisDT:             mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisPoolSize:       getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),

		// Access restrictions
		AllowedCIDRS: splitAndTrim(getenv("SUBMITD_ALLOWED_CIDRS", "")),
		AllowedHosts: splitAndTrim(getenv("SUBMITD_ALLOWED_HOSTS", "")),
		TrustProxy:   mustBool("SUBMITD_TRUST_PROXY", true),

		// Rate limiting
		RateBurst:        getenvInt("SUBMITD_RATE_BURST", 5),
		RateRefillPerMin: getenvInt("SUBMITD_RATE_REFILL_PER_MIN", 3),
		RateMaxEntries:   getenvInt("SUBMITD_RATE_MAX_ENTRIES", 10000),
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfgCopy.GithubToken != "" {
			cfgCopy.GithubToken = "***REDACTED***"
		}
		if cfgCopy.ResendAPIKey != "" {
			cfgCopy.ResendAPIKey = "***REDACTED***"
		}
		if cfgCopy.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// StoreConfigured reports whether the remote store can be used, naming the
// first missing environment variable when it cannot.
func (c *Config) StoreConfigured() (string, bool) {
	if c.GithubToken == "" {
		return "GITHUB_TOKEN", false
	}
	if c.GithubRepo == "" {
		return "GITHUB_REPO", false
	}
	return "", true
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
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
