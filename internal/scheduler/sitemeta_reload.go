package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/navkeep/submitd/internal/logger"
	"github.com/navkeep/submitd/internal/sources/sitemeta"
)

// SitemetaReloader periodically re-reads the site metadata file so email
// wording can change without a restart. A manual trigger channel backs the
// /reload endpoint.
type SitemetaReloader struct {
	loader        *sitemeta.Loader
	holder        *sitemeta.Holder
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

func NewSitemetaReloader(
	siteFile string,
	holder *sitemeta.Holder,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *SitemetaReloader {
	return &SitemetaReloader{
		loader:        sitemeta.NewLoader(siteFile),
		holder:        holder,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start loads the file once, then refreshes on the interval or on a manual
// trigger until Stop or ctx cancellation.
func (sr *SitemetaReloader) Start(ctx context.Context) error {
	if err := sr.Reload(); err != nil {
		return fmt.Errorf("initial site metadata load failed: %w", err)
	}

	ticker := time.NewTicker(sr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := sr.Reload(); err != nil {
					sr.logger.Error("failed to reload site metadata",
						logger.Error(err))
				}
			case <-sr.manualTrigger:
				sr.logger.Info("manual site metadata reload triggered")
				if err := sr.Reload(); err != nil {
					sr.logger.Error("failed to reload site metadata",
						logger.Error(err))
				}
			case <-sr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader.
func (sr *SitemetaReloader) Stop() {
	close(sr.stopCh)
}

// Reload re-reads the file and swaps the shared metadata on success.
// The previous metadata stays in place when the read fails.
func (sr *SitemetaReloader) Reload() error {
	meta, err := sr.loader.Load()
	if err != nil {
		return err
	}

	sr.holder.Set(meta)
	sr.logger.Info("site metadata loaded",
		logger.String("site", meta.SiteName),
		logger.String("base_url", meta.BaseURL))
	return nil
}
