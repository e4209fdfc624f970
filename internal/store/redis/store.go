package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/navkeep/submitd/internal/domain"
	"github.com/redis/go-redis/v9"
)

// DefaultSeenTTL bounds how long an accepted submission short-circuits the
// duplicate check. It should cover the stated review window so resubmissions
// during review are caught even when the remote read degrades.
const DefaultSeenTTL = 72 * time.Hour

// Store is the optional fast-path duplicate cache and counter backend.
// The pending-list snapshot remains the authoritative duplicate check; this
// only lets the service answer early and survive remote-read degradation.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a new Redis store with the default TTL.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client, ttl: DefaultSeenTTL}
}

// IsDuplicate reports whether the submission's URL or name+email pair was
// accepted recently.
func (s *Store) IsDuplicate(ctx context.Context, site domain.PendingWebsite) (bool, error) {
	n, err := s.client.Exists(ctx,
		SeenURLKey(site.URL),
		SeenIdentKey(site.Name, site.ContactEmail),
	).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check duplicate keys: %w", err)
	}
	return n > 0, nil
}

// Remember records an accepted submission for the TTL window.
func (s *Store) Remember(ctx context.Context, site domain.PendingWebsite) error {
	pipe := s.client.Pipeline()
	pipe.Set(ctx, SeenURLKey(site.URL), site.ID, s.ttl)
	pipe.Set(ctx, SeenIdentKey(site.Name, site.ContactEmail), site.ID, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to remember submission: %w", err)
	}
	return nil
}

// IncrAccepted bumps the persistent accepted-submissions counter.
func (s *Store) IncrAccepted(ctx context.Context) error {
	if err := s.client.Incr(ctx, KeyAccepted).Err(); err != nil {
		return fmt.Errorf("failed to increment accepted counter: %w", err)
	}
	return nil
}

// AcceptedCount reads the persistent accepted-submissions counter.
func (s *Store) AcceptedCount(ctx context.Context) (int64, error) {
	n, err := s.client.Get(ctx, KeyAccepted).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read accepted counter: %w", err)
	}
	return n, nil
}
