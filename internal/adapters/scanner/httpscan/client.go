package httpscan

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"filegate/internal/config"
	"filegate/internal/core/domain"
)

// Client performs the scan round-trip against the external scanner process.
// Every failure mode (connection error, timeout, non-success status,
// malformed body, unrecognized status value) folds into the degraded
// verdict; the caller never sees an error from this adapter.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewClient creates a scan gateway client bounded by cfg.Timeout
func NewClient(cfg config.ScannerConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

type scanResponse struct {
	Status    *string `json:"status"`
	Signature string  `json:"signature"`
}

// Scan posts the raw byte stream to the scanner and classifies the outcome.
func (c *Client) Scan(ctx context.Context, r io.Reader) domain.ScanVerdict {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/scan", r)
	if err != nil {
		c.logger.Warn("scan request build failed", "error", err)
		return domain.ScanVerdict{Status: domain.ScanDegraded}
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("scanner unreachable", "error", err)
		return domain.ScanVerdict{Status: domain.ScanDegraded}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("scanner returned non-success status", "status", resp.StatusCode)
		return domain.ScanVerdict{Status: domain.ScanDegraded}
	}

	var body scanResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		c.logger.Warn("malformed scanner response", "error", err)
		return domain.ScanVerdict{Status: domain.ScanDegraded}
	}
	if body.Status == nil {
		c.logger.Warn("scanner response missing status field")
		return domain.ScanVerdict{Status: domain.ScanDegraded}
	}

	switch *body.Status {
	case "clean":
		return domain.ScanVerdict{Status: domain.ScanClean}
	case "infected":
		return domain.ScanVerdict{Status: domain.ScanInfected, Signature: body.Signature}
	default:
		c.logger.Warn("unrecognized scanner status", "status", *body.Status)
		return domain.ScanVerdict{Status: domain.ScanDegraded}
	}
}
