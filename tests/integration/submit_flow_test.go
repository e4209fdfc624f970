package integration

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/navkeep/submitd/internal/domain"
	"github.com/navkeep/submitd/internal/ingest"
	"github.com/navkeep/submitd/internal/logger"
	"github.com/navkeep/submitd/internal/notify"
	"github.com/navkeep/submitd/internal/sources/sitemeta"
	"github.com/navkeep/submitd/internal/stats"
	githubstore "github.com/navkeep/submitd/internal/store/github"
)

// fakeContentsAPI mimics the GitHub contents endpoint for one file: GET hands
// out base64 content plus a sha, PUT demands the current sha back.
type fakeContentsAPI struct {
	mu      sync.Mutex
	content []byte
	sha     string
	commits int
}

func (f *fakeContentsAPI) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		switch r.Method {
		case http.MethodGet:
			if f.content == nil {
				http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
				return
			}
			json.NewEncoder(w).Encode(map[string]string{
				"sha":     f.sha,
				"content": base64.StdEncoding.EncodeToString(f.content),
			})
		case http.MethodPut:
			var body struct {
				Message string `json:"message"`
				Content string `json:"content"`
				SHA     string `json:"sha"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if body.SHA != f.sha {
				http.Error(w, `{"message":"sha mismatch"}`, http.StatusConflict)
				return
			}
			decoded, err := base64.StdEncoding.DecodeString(body.Content)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
				return
			}
			f.content = decoded
			f.commits++
			f.sha = f.sha + "x"
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (f *fakeContentsAPI) sites(t *testing.T) []domain.PendingWebsite {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	var sites []domain.PendingWebsite
	if err := json.Unmarshal(f.content, &sites); err != nil {
		t.Fatalf("stored document is not valid JSON: %v", err)
	}
	return sites
}

func newIngestor(t *testing.T, gh *fakeContentsAPI, resendURL string) *ingest.Ingestor {
	t.Helper()

	ghSrv := httptest.NewServer(gh.handler())
	t.Cleanup(ghSrv.Close)

	store := githubstore.New(githubstore.Config{
		BaseURL: ghSrv.URL,
		Token:   "tkn",
		Repo:    "owner/directory",
		Path:    "public/pending-websites.json",
	})

	var notifier ingest.Notifier
	if resendURL != "" {
		notifier = notify.NewSender(notify.Config{
			BaseURL:    resendURL,
			APIKey:     "re_test",
			AdminEmail: "admin@dir.dev",
		}, sitemeta.NewHolder(sitemeta.Default()))
	}

	return ingest.New(ingest.Options{
		Store:    store,
		Notifier: notifier,
		Stats:    stats.New(),
		Logger:   logger.NewNop(),
	})
}

func submission(name, url, email string) domain.Submission {
	return domain.Submission{
		Name:         name,
		URL:          url,
		Description:  "a site",
		Category:     "tools",
		ContactEmail: email,
	}
}

func TestSubmitFlowEndToEnd(t *testing.T) {
	gh := &fakeContentsAPI{}

	var emails []map[string]any
	resend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		json.NewDecoder(r.Body).Decode(&payload)
		emails = append(emails, payload)
		json.NewEncoder(w).Encode(map[string]string{"id": "email-1"})
	}))
	defer resend.Close()

	in := newIngestor(t, gh, resend.URL)
	ctx := context.Background()

	// First submission creates the document.
	res, err := in.Submit(ctx, submission("Example", "example.com", "a@b.com"))
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}

	sites := gh.sites(t)
	if len(sites) != 1 {
		t.Fatalf("stored %d records, want 1", len(sites))
	}
	if sites[0].URL != "https://example.com" {
		t.Errorf("stored URL = %q", sites[0].URL)
	}
	if sites[0].ID != res.SubmissionID {
		t.Errorf("stored id %q != returned id %q", sites[0].ID, res.SubmissionID)
	}
	if sites[0].Status != domain.StatusPending {
		t.Errorf("stored status = %q", sites[0].Status)
	}
	if len(emails) != 2 {
		t.Fatalf("sent %d emails, want admin + confirmation", len(emails))
	}

	// Second, distinct submission appends.
	if _, err := in.Submit(ctx, submission("Other", "other.io", "o@o.io")); err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if got := gh.sites(t); len(got) != 2 {
		t.Fatalf("stored %d records, want 2", len(got))
	}

	// Resubmitting the first URL is rejected without a write.
	commits := gh.commits
	_, err = in.Submit(ctx, submission("Fresh Name", "EXAMPLE.com", "new@new.dev"))
	if ingest.KindOf(err) != ingest.KindDuplicate {
		t.Fatalf("resubmit: kind = %v, want KindDuplicate (err %v)", ingest.KindOf(err), err)
	}
	if gh.commits != commits {
		t.Error("duplicate rejection still committed")
	}
}

func TestSubmitFlowConflict(t *testing.T) {
	gh := &fakeContentsAPI{}
	in := newIngestor(t, gh, "")
	ctx := context.Background()

	if _, err := in.Submit(ctx, submission("Example", "example.com", "a@b.com")); err != nil {
		t.Fatalf("seed submit: %v", err)
	}

	// Another writer commits between our read and write: every PUT is a
	// stale-sha rejection.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			http.Error(w, `{"message":"is at newer but expected stale"}`, http.StatusConflict)
			return
		}
		gh.handler()(w, r)
	}))
	defer srv.Close()

	store := githubstore.New(githubstore.Config{
		BaseURL: srv.URL, Token: "tkn", Repo: "o/r", Path: "f.json",
	})
	racy := ingest.New(ingest.Options{Store: store, Logger: logger.NewNop()})

	_, err := racy.Submit(ctx, submission("Other", "other.io", "o@o.io"))
	if ingest.KindOf(err) != ingest.KindWriteConflict {
		t.Fatalf("kind = %v, want KindWriteConflict (err %v)", ingest.KindOf(err), err)
	}
}

func TestSubmitFlowMalformedDocument(t *testing.T) {
	// A corrupted pending list degrades to an empty collection, but the
	// document still exists: the write-back must reuse its sha to commit.
	gh := &fakeContentsAPI{content: []byte("{not json"), sha: "abc"}
	in := newIngestor(t, gh, "")

	res, err := in.Submit(context.Background(), submission("Example", "example.com", "a@b.com"))
	if err != nil {
		t.Fatalf("malformed document blocked the submission: %v", err)
	}

	sites := gh.sites(t)
	if len(sites) != 1 {
		t.Fatalf("stored %d records, want 1", len(sites))
	}
	if sites[0].ID != res.SubmissionID {
		t.Errorf("stored id %q != returned id %q", sites[0].ID, res.SubmissionID)
	}
	if gh.commits != 1 {
		t.Errorf("commits = %d, want 1", gh.commits)
	}
}

func TestSubmitFlowNotificationFailure(t *testing.T) {
	gh := &fakeContentsAPI{}
	resend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer resend.Close()

	in := newIngestor(t, gh, resend.URL)

	res, err := in.Submit(context.Background(), submission("Example", "example.com", "a@b.com"))
	if err != nil {
		t.Fatalf("email failure changed the outcome: %v", err)
	}
	if res.SubmissionID == "" {
		t.Fatal("no submission id")
	}
	if got := gh.sites(t); len(got) != 1 {
		t.Fatalf("stored %d records, want 1", len(got))
	}
}
