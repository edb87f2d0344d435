package contract

import (
	"bufio"
	"context"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/huangsam/archivepulse/internal/telemetry"
	"github.com/huangsam/archivepulse/schema"
)

// NumPagesHeader carries the total page count of a paged index query.
const NumPagesHeader = "X-CDX-Num-Pages"

// indexFields are the fields requested for every capture line.
const indexFields = "timestamp,statuscode,digest"

// maxLineBytes bounds a single index line.
const maxLineBytes = 1 << 20

// RemoteIndexClient implements the IndexClient interface against a CDX-style
// HTTP endpoint that pages its results.
type RemoteIndexClient struct {
	endpoint string
	maxPages int
	client   *http.Client
}

var _ IndexClient = &RemoteIndexClient{} // Compile-time check

// NewRemoteIndexClient creates a client for the endpoint with a per-request timeout.
func NewRemoteIndexClient(endpoint string, maxPages int, timeout time.Duration) *RemoteIndexClient {
	if maxPages <= 0 || maxPages > DefaultMaxPages {
		maxPages = DefaultMaxPages
	}
	return &RemoteIndexClient{
		endpoint: endpoint,
		maxPages: maxPages,
		client:   &http.Client{Timeout: timeout},
	}
}

// NewRemoteIndexClientFromConfig creates a client from validated settings.
func NewRemoteIndexClientFromConfig(cfg *Config) *RemoteIndexClient {
	return NewRemoteIndexClient(cfg.IndexEndpoint, cfg.MaxPages, cfg.Timeout)
}

// Query implements the IndexClient interface.
func (c *RemoteIndexClient) Query(target string) string {
	return fmt.Sprintf("%s?fl=%s&url=%s", c.endpoint, indexFields, url.QueryEscape(target))
}

// Lines implements the IndexClient interface. Pages are fetched strictly in order
// until the advertised page count or the page cap is reached.
func (c *RemoteIndexClient) Lines(ctx context.Context, query string, progress ProgressFunc) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for page := 0; page < c.maxPages; page++ {
			numPages, more, err := c.fetchPage(ctx, query, page, yield)
			if err != nil {
				yield("", err)
				return
			}
			if !more {
				return
			}
			done := page + 1
			if progress != nil {
				progress(min(float64(done)/float64(numPages), 1.0))
			}
			if done >= numPages {
				return
			}
		}
	}
}

// fetchPage streams one page into yield. It returns the advertised page count and
// whether the consumer still wants lines.
func (c *RemoteIndexClient) fetchPage(ctx context.Context, query string, page int, yield func(string, error) bool) (int, bool, error) {
	pageURL := fmt.Sprintf("%s&page=%d", query, page)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return 0, false, fmt.Errorf("build index request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, false, &schema.RemoteIndexError{URL: query, Err: fmt.Errorf("page %d: %w", page, err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return 0, false, &schema.RemoteIndexError{StatusCode: resp.StatusCode, URL: query}
	}
	telemetry.PagesFetched.Inc()

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		if !yield(scanner.Text(), nil) {
			return 0, false, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, false, fmt.Errorf("reading index page %d: %w", page, err)
	}

	return parseNumPages(resp.Header.Get(NumPagesHeader)), true, nil
}

// parseNumPages reads the page count header, defaulting to a single page.
func parseNumPages(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
