package domain

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// StatusPending is the only status this service ever assigns.
// Approval and rejection happen in the review console, not here.
const StatusPending = "pending"

// TimestampLayout matches the millisecond ISO-8601 strings written by the
// previous implementation, so old and new records stay byte-compatible.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// PendingWebsite is a user-submitted directory entry awaiting review.
//
// The JSON field names are the wire format of the pending-websites document
// and must not change: the review console and previously written documents
// both depend on them.
type PendingWebsite struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	URL           string `json:"url"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	Tags          string `json:"tags"`
	ContactEmail  string `json:"contactEmail"`
	SubmitterName string `json:"submitterName"`
	Status        string `json:"status"`
	SubmittedAt   string `json:"submittedAt"`
}

// Submission is the raw, untrusted input of one submit request.
type Submission struct {
	Name          string `json:"name"`
	URL           string `json:"url"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	Tags          string `json:"tags"`
	ContactEmail  string `json:"contactEmail"`
	SubmitterName string `json:"submitterName"`
}

// Validation failures. Callers match with errors.Is.
var (
	ErrMissingField = errors.New("missing required field")
	ErrInvalidURL   = errors.New("invalid url")
	ErrInvalidEmail = errors.New("invalid email")
)

// FieldError ties a validation failure to the field that caused it.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string { return e.Err.Error() + ": " + e.Field }
func (e *FieldError) Unwrap() error { return e.Err }

// emailRe is intentionally loose: anything shaped like local@domain.tld with
// no whitespace. Real deliverability is proven by the confirmation email.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeURL trims the input and prepends https:// when no explicit
// http/https scheme is present. The result must parse with a scheme and host.
func NormalizeURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" || strings.ContainsAny(u.Host, " \t") {
		return "", ErrInvalidURL
	}
	return s, nil
}

// ValidEmail reports whether s looks like local@domain.tld.
func ValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// NewPendingWebsite validates and normalizes a submission into a record
// ready to be appended to the pending collection.
//
// Validation is pure: no I/O happens here, so a bad submission is rejected
// before the service touches the network.
func NewPendingWebsite(sub Submission, id string, now time.Time) (PendingWebsite, error) {
	required := []struct {
		field string
		value string
	}{
		{"name", sub.Name},
		{"url", sub.URL},
		{"description", sub.Description},
		{"category", sub.Category},
		{"contactEmail", sub.ContactEmail},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return PendingWebsite{}, &FieldError{Field: f.field, Err: ErrMissingField}
		}
	}

	normalizedURL, err := NormalizeURL(sub.URL)
	if err != nil {
		return PendingWebsite{}, &FieldError{Field: "url", Err: err}
	}

	email := strings.TrimSpace(sub.ContactEmail)
	if !ValidEmail(email) {
		return PendingWebsite{}, &FieldError{Field: "contactEmail", Err: ErrInvalidEmail}
	}

	return PendingWebsite{
		ID:            id,
		Name:          strings.TrimSpace(sub.Name),
		URL:           normalizedURL,
		Description:   strings.TrimSpace(sub.Description),
		Category:      strings.TrimSpace(sub.Category),
		Tags:          strings.TrimSpace(sub.Tags),
		ContactEmail:  email,
		SubmitterName: strings.TrimSpace(sub.SubmitterName),
		Status:        StatusPending,
		SubmittedAt:   now.UTC().Format(TimestampLayout),
	}, nil
}

// DuplicateOf scans the collection for a record that collides with the
// candidate: same URL (case-insensitive), or same name (case-insensitive)
// together with the same contact email. Returns nil when no collision exists.
func DuplicateOf(sites []PendingWebsite, candidate PendingWebsite) *PendingWebsite {
	candURL := strings.ToLower(candidate.URL)
	candName := strings.ToLower(candidate.Name)

	for i := range sites {
		site := &sites[i]
		if strings.ToLower(site.URL) == candURL {
			return site
		}
		if strings.ToLower(site.Name) == candName && site.ContactEmail == candidate.ContactEmail {
			return site
		}
	}
	return nil
}
