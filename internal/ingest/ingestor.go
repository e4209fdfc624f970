package ingest

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/navkeep/submitd/internal/domain"
	"github.com/navkeep/submitd/internal/logger"
	"github.com/navkeep/submitd/internal/stats"
	"github.com/navkeep/submitd/internal/store"
)

// ContentStore is the whole-document view of the remote pending list.
//
// Get returns the raw document and its opaque revision token; ok is false
// when the document does not exist yet. Put writes the full document back,
// passing rev as the optimistic-concurrency precondition (empty on first
// write). A stale rev must surface as a store conflict error.
type ContentStore interface {
	Get(ctx context.Context) (data []byte, rev string, ok bool, err error)
	Put(ctx context.Context, data []byte, message, rev string) error
}

// Notifier sends the two best-effort emails after a durable write.
type Notifier interface {
	NotifyAdmin(ctx context.Context, site domain.PendingWebsite) error
	ConfirmSubmitter(ctx context.Context, site domain.PendingWebsite) error
}

// DuplicateCache is an optional fast-path duplicate check in front of the
// snapshot scan. It also catches resubmissions while the remote store is
// unreachable, when the snapshot scan cannot see the first submission.
// Entries live for a fixed TTL, so a site removed from the pending list by
// review can still be rejected until its entry expires; that window is
// stricter than the collection scan alone.
type DuplicateCache interface {
	IsDuplicate(ctx context.Context, site domain.PendingWebsite) (bool, error)
	Remember(ctx context.Context, site domain.PendingWebsite) error
	IncrAccepted(ctx context.Context) error
}

// Result is the successful outcome of a submission.
type Result struct {
	SubmissionID string
}

// Options wires an Ingestor. Store may be nil only together with a non-nil
// ConfigErr; Notifier and Cache are optional.
type Options struct {
	Store     ContentStore
	ConfigErr error // pre-built configuration error returned on every request
	Notifier  Notifier
	Cache     DuplicateCache
	Stats     *stats.Tracker
	Logger    logger.Logger
	Now       func() time.Time // defaults to time.Now
}

// Ingestor runs the linear submission flow:
// validate -> fetch snapshot -> dedupe -> append -> write back -> notify.
// It holds no per-request state and is safe for concurrent use.
type Ingestor struct {
	store     ContentStore
	configErr error
	notifier  Notifier
	cache     DuplicateCache
	stats     *stats.Tracker
	logger    logger.Logger
	now       func() time.Time
}

func New(opts Options) *Ingestor {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Ingestor{
		store:     opts.Store,
		configErr: opts.ConfigErr,
		notifier:  opts.Notifier,
		cache:     opts.Cache,
		stats:     opts.Stats,
		logger:    opts.Logger,
		now:       now,
	}
}

// Submit processes one submission end to end and returns the assigned id.
// Failures come back as *Error so the transport can map them to a status.
func (in *Ingestor) Submit(ctx context.Context, sub domain.Submission) (Result, error) {
	// Deployment problems beat user input: report them before anything else.
	if in.configErr != nil {
		return Result{}, in.configErr
	}

	now := in.now()
	id := strconv.FormatInt(now.UnixMilli(), 10)

	site, err := domain.NewPendingWebsite(sub, id, now)
	if err != nil {
		return Result{}, validationError(err.Error(), err)
	}

	if dup := in.cachedDuplicate(ctx, site); dup {
		in.stats.Duplicate()
		return Result{}, duplicateError()
	}

	sites, rev := in.loadSnapshot(ctx)

	if existing := domain.DuplicateOf(sites, site); existing != nil {
		in.logger.Info("duplicate submission rejected",
			logger.String("url", site.URL),
			logger.String("existing_id", existing.ID))
		in.stats.Duplicate()
		return Result{}, duplicateError()
	}

	sites = append(sites, site)

	data, err := json.MarshalIndent(sites, "", "  ")
	if err != nil {
		return Result{}, &Error{Kind: KindInternal, Message: "failed to encode pending list", Err: err}
	}

	if err := in.store.Put(ctx, data, "new website submission: "+site.Name, rev); err != nil {
		if store.IsConflict(err) {
			in.logger.Warn("pending list changed during submission, write rejected",
				logger.String("id", id),
				logger.Error(err))
			return Result{}, &Error{
				Kind:    KindWriteConflict,
				Message: "the pending list was updated by someone else, please try again",
				Err:     err,
			}
		}
		return Result{}, &Error{Kind: KindStoreWrite, Message: "failed to save submission", Err: err}
	}

	in.stats.Accepted(id, now)
	in.rememberAccepted(ctx, site)

	in.logger.Info("submission recorded",
		logger.String("id", id),
		logger.String("name", site.Name),
		logger.String("url", site.URL),
		logger.Int("pending_total", len(sites)))

	// The record is durable at this point: notification failures are logged
	// and counted but never change the outcome.
	in.notify(ctx, site)

	return Result{SubmissionID: id}, nil
}

// loadSnapshot fetches and decodes the current pending list. Any read or
// decode failure degrades to an empty collection with no revision token:
// availability over strict consistency, a transient read failure must never
// block a legitimate submission. The degradation is logged and counted.
func (in *Ingestor) loadSnapshot(ctx context.Context) ([]domain.PendingWebsite, string) {
	data, rev, ok, err := in.store.Get(ctx)
	if err != nil {
		in.logger.Warn("failed to read pending list, degrading to empty collection",
			logger.Error(err))
		in.stats.ReadDegrade()
		return nil, ""
	}
	if !ok {
		// First submission ever: no document, no revision token.
		return nil, ""
	}

	var sites []domain.PendingWebsite
	if err := json.Unmarshal(data, &sites); err != nil {
		// The document exists, so its revision token is still the valid
		// write precondition; only the content is unusable.
		in.logger.Warn("pending list is malformed, degrading to empty collection",
			logger.Error(err))
		in.stats.ReadDegrade()
		return nil, rev
	}
	return sites, rev
}

func (in *Ingestor) cachedDuplicate(ctx context.Context, site domain.PendingWebsite) bool {
	if in.cache == nil {
		return false
	}
	dup, err := in.cache.IsDuplicate(ctx, site)
	if err != nil {
		in.logger.Debug("duplicate cache lookup failed, falling back to snapshot scan",
			logger.Error(err))
		return false
	}
	return dup
}

func (in *Ingestor) rememberAccepted(ctx context.Context, site domain.PendingWebsite) {
	if in.cache == nil {
		return
	}
	if err := in.cache.Remember(ctx, site); err != nil {
		in.logger.Debug("failed to record submission in duplicate cache",
			logger.Error(err))
	}
	if err := in.cache.IncrAccepted(ctx); err != nil {
		in.logger.Debug("failed to increment accepted counter",
			logger.Error(err))
	}
}

func (in *Ingestor) notify(ctx context.Context, site domain.PendingWebsite) {
	if in.notifier == nil {
		in.logger.Debug("email sender not configured, skipping notifications")
		return
	}

	if err := in.notifier.NotifyAdmin(ctx, site); err != nil {
		in.logger.Error("failed to send admin notification",
			logger.String("id", site.ID),
			logger.Error(err))
		in.stats.NotifyFailure()
	}

	if err := in.notifier.ConfirmSubmitter(ctx, site); err != nil {
		in.logger.Error("failed to send submitter confirmation",
			logger.String("id", site.ID),
			logger.String("to", site.ContactEmail),
			logger.Error(err))
		in.stats.NotifyFailure()
	}
}

// MissingStoreConfig builds the configuration error for an unset variable.
// Kept here so app wiring and tests produce identical errors.
func MissingStoreConfig(envVar string) error {
	return configurationError(envVar + " is not configured")
}
