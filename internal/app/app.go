package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/navkeep/submitd/internal/config"
	"github.com/navkeep/submitd/internal/httpserver"
	"github.com/navkeep/submitd/internal/httpserver/deps"
	"github.com/navkeep/submitd/internal/ingest"
	"github.com/navkeep/submitd/internal/logger"
	"github.com/navkeep/submitd/internal/notify"
	"github.com/navkeep/submitd/internal/redis"
	"github.com/navkeep/submitd/internal/scheduler"
	"github.com/navkeep/submitd/internal/sources/sitemeta"
	"github.com/navkeep/submitd/internal/stats"
	githubstore "github.com/navkeep/submitd/internal/store/github"
	redisstore "github.com/navkeep/submitd/internal/store/redis"
	"github.com/navkeep/submitd/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	reloader    *scheduler.SitemetaReloader
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// The remote store config is checked here but its absence is NOT fatal:
	// the service must come up and answer every submit request with a clear
	// configuration error, so the deployment problem is visible at the edge.
	var contentStore ingest.ContentStore
	var configErr error
	missingVar, storeOK := cfg.StoreConfigured()
	if storeOK {
		contentStore = githubstore.New(githubstore.Config{
			BaseURL: cfg.GithubAPIURL,
			Token:   cfg.GithubToken,
			Repo:    cfg.GithubRepo,
			Path:    cfg.GithubFilePath,
			Timeout: cfg.GithubTimeout,
		})
		loggerClient.Info("remote store configured",
			logger.String("repo", cfg.GithubRepo),
			logger.String("path", cfg.GithubFilePath))
	} else {
		configErr = ingest.MissingStoreConfig(missingVar)
		loggerClient.Errorf("remote store not configured: %s is not set, all submissions will fail", missingVar)
	}

	// Optional redis: duplicate fast-path cache + durable counters.
	var redisClient *goredis.Client
	var cache ingest.DuplicateCache
	if cfg.RedisAddr != "" {
		client, err := redis.New(redis.ConnectOptions{
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
		}, loggerClient)
		if err != nil {
			loggerClient.Warn("redis unavailable, running without duplicate fast-path",
				logger.Error(err))
		} else {
			redisClient = client
			cache = redisstore.NewStore(client)
			loggerClient.Info("duplicate fast-path cache enabled")
		}
	} else {
		loggerClient.Info("redis not configured, duplicate fast-path disabled")
	}

	// Site metadata: defaults, optionally overlaid from a reloadable file.
	metaHolder := sitemeta.NewHolder(sitemeta.Default())
	var reloader *scheduler.SitemetaReloader
	var reloadTrigger chan struct{}
	if cfg.SiteFile != "" {
		reloadTrigger = make(chan struct{}, 1)
		reloader = scheduler.NewSitemetaReloader(
			cfg.SiteFile,
			metaHolder,
			loggerClient,
			cfg.SiteReloadInterval,
			reloadTrigger,
		)
	} else {
		loggerClient.Info("site metadata file not configured, using defaults")
	}

	// Notifications are optional: no API key, no emails, not an error.
	var notifier ingest.Notifier
	if cfg.ResendAPIKey != "" {
		notifier = notify.NewSender(notify.Config{
			BaseURL:    cfg.ResendAPIURL,
			APIKey:     cfg.ResendAPIKey,
			AdminEmail: cfg.AdminEmail,
			Timeout:    cfg.EmailTimeout,
		}, metaHolder)
		if cfg.AdminEmail == "" {
			loggerClient.Info("ADMIN_EMAIL not set, admin notifications disabled")
		}
	} else {
		loggerClient.Info("RESEND_API_KEY not set, email notifications disabled")
	}

	tracker := stats.New()

	ingestor := ingest.New(ingest.Options{
		Store:     contentStore,
		ConfigErr: configErr,
		Notifier:  notifier,
		Cache:     cache,
		Stats:     tracker,
		Logger:    loggerClient,
	})

	d := deps.Deps{
		Logger:             loggerClient,
		StartTime:          time.Now(),
		Version:            version.Version,
		Commit:             version.Commit,
		BuildDate:          version.BuildDate,
		GoVersion:          version.GoVersion,
		Ingestor:           ingestor,
		Stats:              tracker,
		Meta:               metaHolder,
		StoreConfigured:    storeOK,
		MissingStoreVar:    missingVar,
		NotifierConfigured: cfg.ResendAPIKey != "",
		RedisClient:        redisClient,
		AllowedHosts:       cfg.AllowedHosts,
		AllowedCIDRS:       cfg.AllowedCIDRS,
		TrustProxy:         cfg.TrustProxy,
		SiteReload:         reloadTrigger,
		RateBurst:          cfg.RateBurst,
		RateRefillPerMin:   cfg.RateRefillPerMin,
		RateMaxEntries:     cfg.RateMaxEntries,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		reloader:    reloader,
	}
}

func (a *App) Run() error {
	a.logger.Infof("Starting submitd %s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("submitd %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.reloader != nil {
		if err := a.reloader.Start(ctx); err != nil {
			return fmt.Errorf("failed to start site metadata reloader: %w", err)
		}
		a.logger.Info("site metadata reloader started",
			logger.Duration("interval", a.cfg.SiteReloadInterval))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	if a.reloader != nil {
		a.reloader.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("redis closed cleanly")
		}
	}

	a.logger.Info("submitd stopped cleanly")
	return nil
}
