// Package similarity provides a REST client for the upstream Monarch
// SemSimian semantic-similarity search service.
//
// Usage:
//
//	cfg := config.MustLoad()
//	client := similarity.NewClient(cfg.Similarity, similarity.WithLogger(logger))
//
//	ctx := context.Background()
//	matches, err := client.Search(ctx, []string{"HP:0002104", "HP:0012378"}, similarity.HumanDiseases, 10)
package similarity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/monarch-initiative/semsim-mcq/internal/config"
)

var (
	// ErrConnectionFailed indicates the similarity service could not be reached.
	ErrConnectionFailed = errors.New("similarity: connection failed")
	// ErrRequestFailed indicates the similarity service rejected the request.
	ErrRequestFailed = errors.New("similarity: request failed")
	// ErrResponseParseFailed indicates the similarity response could not be parsed.
	ErrResponseParseFailed = errors.New("similarity: response parse failed")
	// ErrTimeout indicates the request timed out or was cancelled.
	ErrTimeout = errors.New("similarity: request timeout")
	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("similarity: retry attempts exhausted")
)

// Group is the Biolink concept category targeted for matching, mirroring
// SemsimSearchCategory in the Python original.
type Group string

const (
	HumanGenes    Group = "Human Genes"
	MouseGenes    Group = "Mouse Genes"
	RatGenes      Group = "Rat Genes"
	ZebrafishGenes Group = "Zebrafish Genes"
	CElegansGenes Group = "C. Elegans Genes"
	HumanDiseases Group = "Human Diseases"
)

// Client provides methods to interact with the SemSimian search API.
type Client struct {
	config     config.SimilarityConfig
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
}

// ClientOption is a function that configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// WithBaseURL overrides the base URL derived from config (used by tests to
// point at an httptest.Server).
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) { c.baseURL = baseURL }
}

// NewClient creates a new similarity-search client with the given configuration.
func NewClient(cfg config.SimilarityConfig, opts ...ClientOption) *Client {
	c := &Client{
		config:  cfg,
		baseURL: fmt.Sprintf("%s://%s:%d%s", cfg.Scheme, cfg.Host, cfg.Port, cfg.Path),
		logger:  slog.Default(),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// searchQuery is the request body posted to the SemSimian search endpoint.
type searchQuery struct {
	Termset        []string `json:"termset"`
	Group          string   `json:"group"`
	Directionality string   `json:"directionality"`
	Limit          int      `json:"limit"`
}

// RawMatch is one raw SemSimian result entry, decoded loosely so the Result
// Parser can apply the exact field-extraction rules of spec.md §4.3.
type RawMatch map[string]any

// Search calls the SemSimian search endpoint for termset against group,
// clamping limit into [1, 50] the way the Python original does, and
// retrying transient failures with exponential backoff.
func (c *Client) Search(ctx context.Context, termset []string, group Group, limit int) ([]RawMatch, error) {
	if limit < 1 || limit > 50 {
		limit = 50
	}

	query := searchQuery{
		Termset:        termset,
		Group:          string(group),
		Directionality: "object_to_subject",
		Limit:          limit,
	}

	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode request: %v", ErrRequestFailed, err)
	}

	resp, err := c.doRequest(ctx, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var matches []RawMatch
	if err := json.NewDecoder(resp.Body).Decode(&matches); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponseParseFailed, err)
	}

	return matches, nil
}

// doRequest performs the POST with retry logic.
func (c *Client) doRequest(ctx context.Context, body []byte) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.config.RetryDelay * time.Duration(1<<uint(attempt-1))
			c.logger.Debug("retrying similarity search request",
				slog.Int("attempt", attempt),
				slog.Duration("backoff", backoff),
			)

			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
		if err != nil {
			lastErr = fmt.Errorf("%w: failed to create request: %v", ErrRequestFailed, err)
			continue
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())
			}
			lastErr = fmt.Errorf("%w: %v", ErrConnectionFailed, err)
			continue
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("%w: server returned %d", ErrRequestFailed, resp.StatusCode)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("%w: HTTP %d", ErrRequestFailed, resp.StatusCode)
		}

		return resp, nil
	}

	return nil, fmt.Errorf("%w: %v", ErrRetryExhausted, lastErr)
}
