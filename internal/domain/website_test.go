package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "bare domain gets https",
			input: "example.com",
			want:  "https://example.com",
		},
		{
			name:  "existing https kept",
			input: "https://example.com/path",
			want:  "https://example.com/path",
		},
		{
			name:  "existing http kept",
			input: "http://example.com",
			want:  "http://example.com",
		},
		{
			name:  "surrounding whitespace trimmed",
			input: "  example.com  ",
			want:  "https://example.com",
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: true,
		},
		{
			name:    "whitespace inside host",
			input:   "exa mple.com",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeURL(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NormalizeURL(%q) = %q, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeURL(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"a@b.com", true},
		{"user.name+tag@sub.domain.org", true},
		{"no-at-sign", false},
		{"missing@tld", false},
		{"spaces in@local.com", false},
		{"two@@signs.com", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := ValidEmail(tt.email); got != tt.want {
				t.Errorf("ValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func validSubmission() Submission {
	return Submission{
		Name:         "Example",
		URL:          "example.com",
		Description:  "a site",
		Category:     "tools",
		ContactEmail: "a@b.com",
	}
}

func TestNewPendingWebsite(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("valid submission", func(t *testing.T) {
		sub := validSubmission()
		sub.Tags = "  dev, tools  "
		sub.SubmitterName = " Alice "

		site, err := NewPendingWebsite(sub, "123", now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if site.URL != "https://example.com" {
			t.Errorf("URL = %q, want %q", site.URL, "https://example.com")
		}
		if site.Status != StatusPending {
			t.Errorf("Status = %q, want %q", site.Status, StatusPending)
		}
		if site.Tags != "dev, tools" {
			t.Errorf("Tags = %q, not trimmed", site.Tags)
		}
		if site.SubmitterName != "Alice" {
			t.Errorf("SubmitterName = %q, not trimmed", site.SubmitterName)
		}
		if site.SubmittedAt != "2025-06-01T12:00:00.000Z" {
			t.Errorf("SubmittedAt = %q, wrong format", site.SubmittedAt)
		}
	})

	t.Run("missing required fields", func(t *testing.T) {
		for _, field := range []string{"name", "url", "description", "category", "contactEmail"} {
			sub := validSubmission()
			switch field {
			case "name":
				sub.Name = "   "
			case "url":
				sub.URL = ""
			case "description":
				sub.Description = ""
			case "category":
				sub.Category = ""
			case "contactEmail":
				sub.ContactEmail = ""
			}

			_, err := NewPendingWebsite(sub, "1", now)
			if !errors.Is(err, ErrMissingField) {
				t.Errorf("field %s: error = %v, want ErrMissingField", field, err)
			}
			var fe *FieldError
			if !errors.As(err, &fe) || fe.Field != field {
				t.Errorf("field %s: FieldError not carrying the field name, got %v", field, err)
			}
		}
	})

	t.Run("invalid url", func(t *testing.T) {
		sub := validSubmission()
		sub.URL = "not a url"
		if _, err := NewPendingWebsite(sub, "1", now); !errors.Is(err, ErrInvalidURL) {
			t.Errorf("error = %v, want ErrInvalidURL", err)
		}
	})

	t.Run("invalid email", func(t *testing.T) {
		sub := validSubmission()
		sub.ContactEmail = "not-an-email"
		if _, err := NewPendingWebsite(sub, "1", now); !errors.Is(err, ErrInvalidEmail) {
			t.Errorf("error = %v, want ErrInvalidEmail", err)
		}
	})
}

func TestDuplicateOf(t *testing.T) {
	existing := []PendingWebsite{
		{ID: "1", Name: "Example", URL: "https://example.com", ContactEmail: "a@b.com"},
		{ID: "2", Name: "Other", URL: "https://other.io", ContactEmail: "o@o.io"},
	}

	tests := []struct {
		name      string
		candidate PendingWebsite
		wantID    string
	}{
		{
			name:      "same url different case",
			candidate: PendingWebsite{Name: "Fresh", URL: "https://EXAMPLE.com", ContactEmail: "x@y.com"},
			wantID:    "1",
		},
		{
			name:      "same name and email, different url",
			candidate: PendingWebsite{Name: "example", URL: "https://new.example.net", ContactEmail: "a@b.com"},
			wantID:    "1",
		},
		{
			name:      "same name only",
			candidate: PendingWebsite{Name: "Example", URL: "https://new.example.net", ContactEmail: "someone@else.com"},
			wantID:    "",
		},
		{
			name:      "same email only",
			candidate: PendingWebsite{Name: "Fresh", URL: "https://new.example.net", ContactEmail: "a@b.com"},
			wantID:    "",
		},
		{
			name:      "no collision",
			candidate: PendingWebsite{Name: "Fresh", URL: "https://fresh.dev", ContactEmail: "f@f.dev"},
			wantID:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DuplicateOf(existing, tt.candidate)
			if tt.wantID == "" {
				if got != nil {
					t.Fatalf("DuplicateOf() = %+v, want nil", got)
				}
				return
			}
			if got == nil || got.ID != tt.wantID {
				t.Fatalf("DuplicateOf() = %+v, want record %s", got, tt.wantID)
			}
		})
	}
}
