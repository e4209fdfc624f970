package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/navkeep/submitd/internal/store"
	"github.com/navkeep/submitd/internal/utils"
)

const (
	defaultBaseURL = "https://api.github.com"
	apiVersion     = "2022-11-28"
	userAgent      = "submitd/1.0"

	// maxErrBody caps how much of an upstream error body we keep around
	// for diagnostics.
	maxErrBody = 512
)

// Config describes the target document: one JSON file in one repository.
type Config struct {
	BaseURL string // override for tests; defaults to api.github.com
	Token   string // write-capable token
	Repo    string // "owner/name"
	Path    string // file path inside the repository
	Timeout time.Duration
}

// Client reads and writes a single file through the GitHub contents API.
// The file's blob SHA doubles as the optimistic-concurrency revision token.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	repo       string
	path       string
}

func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      cfg.Token,
		repo:       cfg.Repo,
		path:       cfg.Path,
	}
}

type contentResponse struct {
	SHA     string `json:"sha"`
	Content string `json:"content"`
}

type putRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	SHA     string `json:"sha,omitempty"`
}

// Get fetches the document and its current blob SHA.
// ok is false when the file does not exist yet (404).
func (c *Client) Get(ctx context.Context) ([]byte, string, bool, error) {
	req, err := c.newRequest(ctx, http.MethodGet, nil)
	if err != nil {
		return nil, "", false, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", false, fmt.Errorf("github get failed: %w", err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode == http.StatusNotFound {
		return nil, "", false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", false, c.statusError("get", resp)
	}

	var body contentResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, "", false, fmt.Errorf("failed to decode github content response: %w", err)
	}

	data, err := decodeContent(body.Content)
	if err != nil {
		return nil, "", false, fmt.Errorf("failed to decode file content: %w", err)
	}

	return data, body.SHA, true, nil
}

// Put writes the document back. rev is the SHA returned by Get, empty for the
// first write. GitHub answers 409 (or 422) when the SHA is stale, which maps
// to store.ErrConflict.
func (c *Client) Put(ctx context.Context, data []byte, message, rev string) error {
	payload, err := json.Marshal(putRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(data),
		SHA:     rev,
	})
	if err != nil {
		return fmt.Errorf("failed to encode github put request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPut, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("github put failed: %w", err)
	}
	defer utils.Close(resp.Body)

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return nil
	case http.StatusConflict, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", store.ErrConflict, readErrBody(resp.Body))
	default:
		return c.statusError("put", resp)
	}
}

func (c *Client) newRequest(ctx context.Context, method string, body io.Reader) (*http.Request, error) {
	url := fmt.Sprintf("%s/repos/%s/contents/%s", c.baseURL, c.repo, c.path)
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create github request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) statusError(op string, resp *http.Response) error {
	return fmt.Errorf("github %s failed: %s: %s", op, resp.Status, readErrBody(resp.Body))
}

func readErrBody(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, maxErrBody))
	return strings.TrimSpace(string(b))
}

// decodeContent handles the base64 payload of the contents API, which is
// wrapped with newlines every 60 characters.
func decodeContent(content string) ([]byte, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, content)
	return base64.StdEncoding.DecodeString(clean)
}
