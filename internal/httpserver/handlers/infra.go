package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/navkeep/submitd/internal/httpserver/deps"
	redisstore "github.com/navkeep/submitd/internal/store/redis"
)

type componentStatus struct {
	OK     bool   `json:"ok"`
	Mode   string `json:"mode,omitempty"`
	Impact string `json:"impact,omitempty"`
	Error  string `json:"error,omitempty"`
}

type submissionStats struct {
	Accepted       int64  `json:"accepted"`
	AcceptedTotal  int64  `json:"accepted_total,omitempty"` // redis counter, survives restarts
	Duplicates     int64  `json:"duplicates"`
	ReadDegrades   int64  `json:"read_degrades"`
	NotifyFailures int64  `json:"notify_failures"`
	LastID         string `json:"last_id,omitempty"`
	LastAcceptedAt string `json:"last_accepted_at,omitempty"`
}

type infraResponse struct {
	Mode        string                     `json:"mode"`
	Components  map[string]componentStatus `json:"components"`
	Submissions submissionStats            `json:"submissions"`
}

// Infra exposes component health and the in-process submission counters.
// It makes the silent paths visible: read degradations and notification
// failures show up here even though callers never see them.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"store":    checkStore(d),
			"notifier": checkNotifier(d),
			"redis":    checkRedis(d),
		}

		snap := d.Stats.Get()
		stats := submissionStats{
			Accepted:       snap.Accepted,
			Duplicates:     snap.Duplicates,
			ReadDegrades:   snap.ReadDegrades,
			NotifyFailures: snap.NotifyFailures,
			LastID:         snap.LastID,
		}
		if !snap.LastAcceptedAt.IsZero() {
			stats.LastAcceptedAt = snap.LastAcceptedAt.UTC().Format(time.RFC3339)
		}
		if d.RedisClient != nil {
			if n, err := redisstore.NewStore(d.RedisClient).AcceptedCount(r.Context()); err == nil {
				stats.AcceptedTotal = n
			}
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode:        determineMode(components),
			Components:  components,
			Submissions: stats,
		})
	}
}

func determineMode(components map[string]componentStatus) string {
	if store, exists := components["store"]; exists && !store.OK {
		return "critical" // every submission will fail with a config error
	}
	for name, c := range components {
		if name != "store" && !c.OK {
			return "degraded"
		}
	}
	return "nominal"
}

func checkStore(d deps.Deps) componentStatus {
	if !d.StoreConfigured {
		return componentStatus{
			OK:     false,
			Impact: "all submissions rejected",
			Error:  d.MissingStoreVar + " not configured",
		}
	}
	return componentStatus{OK: true, Mode: "github-contents"}
}

func checkNotifier(d deps.Deps) componentStatus {
	if !d.NotifierConfigured {
		return componentStatus{
			OK:     false,
			Mode:   "disabled",
			Impact: "no notification emails",
		}
	}
	return componentStatus{OK: true, Mode: "resend"}
}

func checkRedis(d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			OK:     false,
			Mode:   "disabled",
			Impact: "duplicate fast-path off, snapshot scan only",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "duplicate fast-path off, snapshot scan only",
			Error:  err.Error(),
		}
	}

	return componentStatus{OK: true, Mode: "optimal"}
}
