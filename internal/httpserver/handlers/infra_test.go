package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/navkeep/submitd/internal/httpserver/deps"
	"github.com/navkeep/submitd/internal/logger"
	"github.com/navkeep/submitd/internal/stats"
)

func getInfra(t *testing.T, d deps.Deps) map[string]any {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/infra", nil)
	rec := httptest.NewRecorder()
	Infra(d).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	return payload
}

func TestInfra(t *testing.T) {
	tracker := stats.New()
	tracker.Accepted("100", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	tracker.Duplicate()

	d := deps.Deps{
		Logger:             logger.NewNop(),
		Stats:              tracker,
		StoreConfigured:    true,
		NotifierConfigured: true,
	}
	payload := getInfra(t, d)

	// Redis is off, so the service is degraded but functional.
	if payload["mode"] != "degraded" {
		t.Errorf("mode = %v, want degraded", payload["mode"])
	}

	subs, _ := payload["submissions"].(map[string]any)
	if subs == nil {
		t.Fatal("missing submissions block")
	}
	if subs["accepted"] != float64(1) || subs["duplicates"] != float64(1) {
		t.Errorf("counters = %v", subs)
	}
	if subs["last_id"] != "100" {
		t.Errorf("last_id = %v", subs["last_id"])
	}
	// The durable counter comes from redis; without it the field is absent.
	if _, present := subs["accepted_total"]; present {
		t.Error("accepted_total present without redis")
	}
}

func TestInfraStoreUnconfigured(t *testing.T) {
	d := deps.Deps{
		Logger:          logger.NewNop(),
		Stats:           stats.New(),
		MissingStoreVar: "GITHUB_TOKEN",
	}
	payload := getInfra(t, d)

	if payload["mode"] != "critical" {
		t.Errorf("mode = %v, want critical", payload["mode"])
	}
	components, _ := payload["components"].(map[string]any)
	store, _ := components["store"].(map[string]any)
	if store == nil || store["ok"] != false {
		t.Fatalf("store component = %v", store)
	}
	if errText, _ := store["error"].(string); errText != "GITHUB_TOKEN not configured" {
		t.Errorf("store error = %q", errText)
	}
}
