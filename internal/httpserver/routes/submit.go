package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/navkeep/submitd/internal/httpserver/deps"
	"github.com/navkeep/submitd/internal/httpserver/handlers"
	"github.com/navkeep/submitd/internal/httpserver/mw"
)

func init() { Register(registerSubmit) }

func registerSubmit(r chi.Router, d deps.Deps) {
	limit := mw.RateLimit(mw.RateLimitConfig{
		Burst:        d.RateBurst,
		RefillPerMin: d.RateRefillPerMin,
		MaxEntries:   d.RateMaxEntries,
		TrustProxy:   d.TrustProxy,
	})
	r.With(limit).Post("/api/submit-website", handlers.SubmitWebsite(d))
}
