package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// t.Setenv isolates the environment even for the vars we clear.
	for _, key := range []string{
		"SUBMITD_LISTEN_PORT", "GITHUB_TOKEN", "GITHUB_REPO",
		"GITHUB_FILE_PATH", "RESEND_API_KEY", "SUBMITD_ALLOWED_CIDRS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.ListenPort != ":8080" {
		t.Errorf("ListenPort = %q", cfg.ListenPort)
	}
	if cfg.GithubFilePath != "public/pending-websites.json" {
		t.Errorf("GithubFilePath = %q", cfg.GithubFilePath)
	}
	if cfg.GithubAPIURL != "https://api.github.com" {
		t.Errorf("GithubAPIURL = %q", cfg.GithubAPIURL)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("ShutdownTimeout = %v", cfg.ShutdownTimeout)
	}
	if cfg.RateBurst != 5 || cfg.RateRefillPerMin != 3 {
		t.Errorf("rate limits = %d/%d", cfg.RateBurst, cfg.RateRefillPerMin)
	}
	if cfg.AllowedCIDRS != nil {
		t.Errorf("AllowedCIDRS = %v, want nil", cfg.AllowedCIDRS)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SUBMITD_LISTEN_PORT", ":9999")
	t.Setenv("GITHUB_TIMEOUT", "10s")
	t.Setenv("SUBMITD_PRETTY_LOG", "false")
	t.Setenv("SUBMITD_ALLOWED_CIDRS", `10.0.0.0/8, "192.168.1.0/24"`)

	cfg := Load()

	if cfg.ListenPort != ":9999" {
		t.Errorf("ListenPort = %q", cfg.ListenPort)
	}
	if cfg.GithubTimeout != 10*time.Second {
		t.Errorf("GithubTimeout = %v", cfg.GithubTimeout)
	}
	if cfg.PrettyLog {
		t.Error("PrettyLog not overridden")
	}
	want := []string{"10.0.0.0/8", "192.168.1.0/24"}
	if len(cfg.AllowedCIDRS) != 2 || cfg.AllowedCIDRS[0] != want[0] || cfg.AllowedCIDRS[1] != want[1] {
		t.Errorf("AllowedCIDRS = %v, want %v", cfg.AllowedCIDRS, want)
	}
}

func TestLoadBadValuesFallBack(t *testing.T) {
	t.Setenv("GITHUB_TIMEOUT", "not-a-duration")
	t.Setenv("SUBMITD_RATE_BURST", "not-a-number")
	t.Setenv("SUBMITD_PRETTY_LOG", "not-a-bool")

	cfg := Load()

	if cfg.GithubTimeout != 30*time.Second {
		t.Errorf("GithubTimeout = %v, want default", cfg.GithubTimeout)
	}
	if cfg.RateBurst != 5 {
		t.Errorf("RateBurst = %d, want default", cfg.RateBurst)
	}
	if !cfg.PrettyLog {
		t.Error("PrettyLog should fall back to default true")
	}
}

func TestStoreConfigured(t *testing.T) {
	tests := []struct {
		name        string
		token, repo string
		wantVar     string
		wantOK      bool
	}{
		{"both set", "tkn", "o/r", "", true},
		{"missing token", "", "o/r", "GITHUB_TOKEN", false},
		{"missing repo", "tkn", "", "GITHUB_REPO", false},
		{"both missing", "", "", "GITHUB_TOKEN", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{GithubToken: tt.token, GithubRepo: tt.repo}
			gotVar, gotOK := cfg.StoreConfigured()
			if gotOK != tt.wantOK || gotVar != tt.wantVar {
				t.Errorf("StoreConfigured() = (%q, %v), want (%q, %v)",
					gotVar, gotOK, tt.wantVar, tt.wantOK)
			}
		})
	}
}
