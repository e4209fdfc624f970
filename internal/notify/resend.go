// Package notify sends the two best-effort submission emails through the
// Resend HTTP API. Sends happen after the durable write and their failures
// never change the outcome of a submission.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/navkeep/submitd/internal/domain"
	"github.com/navkeep/submitd/internal/sources/sitemeta"
	"github.com/navkeep/submitd/internal/utils"
)

const defaultBaseURL = "https://api.resend.com"

// Config wires a Sender.
type Config struct {
	BaseURL    string // override for tests; defaults to api.resend.com
	APIKey     string
	AdminEmail string // empty disables the admin notification only
	Timeout    time.Duration
}

// Sender posts emails to the Resend /emails endpoint. Each send is an
// independent call; the caller decides what a failure means.
type Sender struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	adminEmail string
	meta       *sitemeta.Holder
}

func NewSender(cfg Config, meta *sitemeta.Holder) *Sender {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Sender{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     cfg.APIKey,
		adminEmail: cfg.AdminEmail,
		meta:       meta,
	}
}

type emailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// NotifyAdmin mails a summary of the new submission to the configured
// administrator. A missing admin address is a silent skip, not an error.
func (s *Sender) NotifyAdmin(ctx context.Context, site domain.PendingWebsite) error {
	if s.adminEmail == "" {
		return nil
	}

	meta := s.meta.Get()
	html, err := renderAdminEmail(meta, site)
	if err != nil {
		return fmt.Errorf("failed to render admin email: %w", err)
	}

	subject := fmt.Sprintf("[%s] new website submission - %s", meta.SiteName, site.Name)
	return s.send(ctx, meta.FromAddress, s.adminEmail, subject, html)
}

// ConfirmSubmitter mails the submission receipt to the contact address.
func (s *Sender) ConfirmSubmitter(ctx context.Context, site domain.PendingWebsite) error {
	meta := s.meta.Get()
	html, err := renderSubmitterEmail(meta, site)
	if err != nil {
		return fmt.Errorf("failed to render confirmation email: %w", err)
	}

	subject := fmt.Sprintf("[%s] submission received - %s", meta.SiteName, site.Name)
	return s.send(ctx, meta.FromAddress, site.ContactEmail, subject, html)
}

func (s *Sender) send(ctx context.Context, from, to, subject, html string) error {
	payload, err := json.Marshal(emailRequest{
		From:    from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return fmt.Errorf("failed to encode email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("email send failed: %w", err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("email send failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return nil
}
