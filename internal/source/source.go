// Package source fetches candidate batches from the upstream recruiting
// platform's exported file-storage URLs.
package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/netrialia/cv-screener/internal/candidate"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3
	defaultUserAgent  = "cv-screener (candidate batch fetcher)"
	retryDelay        = 2 * time.Second
)

// ErrUnavailable marks a batch that cannot be fetched right now, typically
// because the export URL expired. Callers skip the position and pick it up
// on the next scheduled run.
var ErrUnavailable = errors.New("candidate batch unavailable")

type Config struct {
	Timeout    time.Duration
	MaxRetries int
	UserAgent  string
}

// Client downloads and parses a position's candidate CSV export.
type Client struct {
	http       *http.Client
	maxRetries int
	userAgent  string
	logger     *zap.Logger
	sleep      func(context.Context, time.Duration) error
}

func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	return &Client{
		http:       &http.Client{Timeout: cfg.Timeout},
		maxRetries: cfg.MaxRetries,
		userAgent:  cfg.UserAgent,
		logger:     logger,
		sleep:      waitFor,
	}
}

// FetchBatch downloads the CSV at url and returns its rows. Transient
// failures are retried within the bounded budget; authorization and
// not-found responses mean the URL expired and surface as ErrUnavailable.
func (c *Client) FetchBatch(ctx context.Context, url string) ([]candidate.Row, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("%w: empty batch url", ErrUnavailable)
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		rows, err := c.fetch(ctx, url)
		if err == nil {
			return rows, nil
		}
		if errors.Is(err, ErrUnavailable) || ctx.Err() != nil {
			return nil, err
		}

		lastErr = err
		c.logger.Debug("batch fetch attempt failed",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		if attempt < c.maxRetries {
			if err := c.sleep(ctx, retryDelay); err != nil {
				return nil, err
			}
		}
	}

	return nil, fmt.Errorf("fetch batch after %d attempts: %w", c.maxRetries, lastErr)
}

func (c *Client) fetch(ctx context.Context, url string) ([]candidate.Row, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/csv,application/csv,text/plain,*/*")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound, http.StatusGone:
		// Export URLs expire; not retryable until the next export refresh.
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, resp.Status)
	default:
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	return parseRows(resp.Body)
}

func parseRows(r io.Reader) ([]candidate.Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read batch header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []candidate.Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read batch row: %w", err)
		}

		row := make(candidate.Row, len(header))
		for i, value := range record {
			if i < len(header) && header[i] != "" {
				row[header[i]] = value
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func waitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
