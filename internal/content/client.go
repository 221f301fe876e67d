package content

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MrSnakeDoc/fellowship/internal/logger"
	"github.com/MrSnakeDoc/fellowship/internal/metrics"
	"github.com/MrSnakeDoc/fellowship/internal/utils"
)

// maxBodyBytes caps how much of an upstream response is read into memory.
const maxBodyBytes = 8 << 20

// UpstreamError reports a failed call to the scripture provider.
// Status is 0 when no HTTP response was received.
type UpstreamError struct {
	Path   string
	Status int
	Body   string
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream %s: status %d", e.Path, e.Status)
	}
	return fmt.Sprintf("upstream %s: %v", e.Path, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// HTTPStatus is the status relayed to our own caller: provider 4xx pass
// through, everything else is a bad gateway.
func (e *UpstreamError) HTTPStatus() int {
	if e.Status >= 400 && e.Status < 500 {
		return e.Status
	}
	return http.StatusBadGateway
}

// Client performs authenticated GETs against the scripture provider.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	apiKey     string
	log        logger.Logger
}

// NewClient parses baseURL (ex: "https://rest.api.bible/v1/") and builds a client.
func NewClient(baseURL, apiKey string, timeout time.Duration, log logger.Logger) (*Client, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream base url %q: %w", baseURL, err)
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    u,
		apiKey:     apiKey,
		log:        log.Named("upstream"),
	}, nil
}

// Get fetches path (relative to the base URL) and returns the body verbatim.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, &UpstreamError{Path: path, Err: fmt.Errorf("invalid path: %w", err)}
	}
	if len(query) > 0 {
		ref.RawQuery = query.Encode()
	}
	target := c.baseURL.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, &UpstreamError{Path: path, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamLatency.WithLabelValues("error").Observe(time.Since(start).Seconds())
		c.log.Warn("upstream request failed", logger.String("path", path), logger.Error(err))
		return nil, &UpstreamError{Path: path, Err: err}
	}
	defer utils.CloseBody(c.log, resp.Body)
	metrics.UpstreamLatency.WithLabelValues(strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &UpstreamError{Path: path, Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("upstream returned an error status",
			logger.String("path", path),
			logger.Int("status", resp.StatusCode))
		return nil, &UpstreamError{Path: path, Status: resp.StatusCode, Body: string(body)}
	}
	if !json.Valid(body) {
		return nil, &UpstreamError{Path: path, Err: fmt.Errorf("response is not valid JSON")}
	}

	return json.RawMessage(body), nil
}
