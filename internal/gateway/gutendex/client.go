// Package gutendex reads the public Project Gutenberg catalog served by
// gutendex.com as a read-only book source.
package gutendex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/shelf/internal/domain"
)

const (
	// DefaultURL is the public gutendex instance.
	DefaultURL     = "https://gutendex.com"
	defaultTimeout = 30 * time.Second
	userAgent      = "Shelf/1.0"
)

// Client fetches the first page of the gutendex book list.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client for baseURL. A zero timeout uses the default.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// doRequest performs a GET and returns the body of a 200 response
func (c *Client) doRequest(ctx context.Context, path string) ([]byte, error) {
	reqURL := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("gutendex request", "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("gutendex request failed", "error", err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("gutendex request error", "status", resp.StatusCode, "bodyLen", len(body))
		return nil, fmt.Errorf("%w: unexpected status code %d", domain.ErrSourceUnavailable, resp.StatusCode)
	}
	return body, nil
}

// ListBooks returns the books of the first result page.
func (c *Client) ListBooks(ctx context.Context) ([]domain.Book, error) {
	body, err := c.doRequest(ctx, "/books/")
	if err != nil {
		return nil, err
	}

	var list BookList
	if err := json.Unmarshal(body, &list); err != nil {
		c.logger.Error("JSON parse error", "error", err, "bodyLen", len(body))
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	books := MapBooks(list.Results)
	c.logger.Debug("fetched remote books", "count", len(books), "total", list.Count)
	return books, nil
}
