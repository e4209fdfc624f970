// Package sitemeta holds the directory's presentation settings: the values
// that flow into notification emails but are content, not deployment config.
// They live in an optional yaml file next to the service so editors can tweak
// wording without a redeploy.
package sitemeta

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Meta is the resolved site metadata used when rendering emails.
type Meta struct {
	SiteName     string `yaml:"site_name"`     // directory name shown in subjects and bodies
	BaseURL      string `yaml:"base_url"`      // public URL of the directory
	AdminPath    string `yaml:"admin_path"`    // path of the review console, appended to BaseURL
	FromAddress  string `yaml:"from_address"`  // sender for outgoing mail
	ReviewWindow string `yaml:"review_window"` // human wording of the review turnaround
}

// Default returns the built-in metadata used when no site file is configured.
func Default() Meta {
	return Meta{
		SiteName:     "NavKeep",
		BaseURL:      "https://navkeep.example",
		AdminPath:    "/admin",
		FromAddress:  "onboarding@resend.dev",
		ReviewWindow: "1-3 business days",
	}
}

// AdminURL joins BaseURL and AdminPath.
func (m Meta) AdminURL() string {
	return strings.TrimSuffix(m.BaseURL, "/") + m.AdminPath
}

// Loader reads and parses the site metadata file.
type Loader struct {
	filePath string
}

func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

// Load parses the file, filling unset fields from Default.
func (l *Loader) Load() (Meta, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return Meta{}, fmt.Errorf("failed to read site metadata file: %w", err)
	}

	var meta Meta
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return Meta{}, fmt.Errorf("failed to parse site metadata yaml: %w", err)
	}

	return withDefaults(meta), nil
}

func withDefaults(meta Meta) Meta {
	def := Default()
	if meta.SiteName == "" {
		meta.SiteName = def.SiteName
	}
	if meta.BaseURL == "" {
		meta.BaseURL = def.BaseURL
	}
	if meta.AdminPath == "" {
		meta.AdminPath = def.AdminPath
	}
	if meta.FromAddress == "" {
		meta.FromAddress = def.FromAddress
	}
	if meta.ReviewWindow == "" {
		meta.ReviewWindow = def.ReviewWindow
	}
	return meta
}

// Holder is the shared, reloadable view of the current metadata.
type Holder struct {
	mu   sync.RWMutex
	meta Meta
}

func NewHolder(meta Meta) *Holder {
	return &Holder{meta: meta}
}

// Get returns the current metadata.
func (h *Holder) Get() Meta {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.meta
}

// Set replaces the current metadata.
func (h *Holder) Set(meta Meta) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.meta = meta
}
