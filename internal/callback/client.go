// Package callback forwards final intelligence reports to the external
// evaluation service over HTTP. A nil Client drops reports, so the
// agent runs fine without a callback URL configured.
package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/snarelabs/decoy/internal/report"
)

type Client struct {
	url    string
	apiKey string
	client *http.Client
	logger *slog.Logger
}

func NewClient(url, apiKey string, logger *slog.Logger) *Client {
	return &Client{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

// Send posts the report to the evaluation service. Delivery failures
// are logged, not returned: losing the callback must not fail the
// session close for the caller.
func (c *Client) Send(ctx context.Context, final *report.Final) {
	if c == nil {
		return
	}

	body, err := json.Marshal(final)
	if err != nil {
		c.logger.Error("marshal report", "session_id", final.SessionID, "error", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		c.logger.Error("create callback request", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("report callback failed", "session_id", final.SessionID, "error", err)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		c.logger.Warn("report callback rejected", "session_id", final.SessionID, "status", resp.StatusCode)
		return
	}
	c.logger.Info("report forwarded", "session_id", final.SessionID)
}
