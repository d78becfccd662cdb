// Package scenarioapi talks to the remote optimisation service that
// publishes per-scenario summaries, and provides a local stand-in for it.
package scenarioapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kilianp07/routekpi/auth"
	"github.com/kilianp07/routekpi/config"
	"github.com/kilianp07/routekpi/core/model"
	"github.com/kilianp07/routekpi/infra/logger"
)

// ErrNoEndpoint is returned by Fetch when no upstream URL is configured.
var ErrNoEndpoint = errors.New("scenario service url not configured")

// maxBody bounds the size of an upstream response.
const maxBody = 8 << 20

// Client fetches scenario summaries over HTTP.
type Client struct {
	url   string
	http  *http.Client
	creds *auth.ClientCred
	log   logger.Logger
}

// NewClient creates a client for cfg. OAuth2 is used when cfg carries
// client credentials.
func NewClient(cfg config.UpstreamConfig) *Client {
	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		url:  cfg.URL,
		http: &http.Client{Timeout: timeout},
		log:  logger.New("scenario-client"),
	}
	a := auth.Conf{ClientID: cfg.ClientID, ClientSecret: cfg.ClientSecret, TokenURL: cfg.TokenURL}
	if a.Enabled() {
		c.creds = auth.NewClientCred(a)
	}
	return c
}

type summaryRequest struct {
	RequestID string `json:"request_id"`
}

// Fetch posts the scenario name and decodes the summary payload. The body
// may be a single object or an array whose first element is used. Any
// transport error, non-2xx status or undecodable body is returned as an
// error.
func (c *Client) Fetch(ctx context.Context, name string) (model.SummaryPayload, error) {
	var out model.SummaryPayload
	if c.url == "" {
		return out, ErrNoEndpoint
	}
	body, err := json.Marshal(summaryRequest{RequestID: name})
	if err != nil {
		return out, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return out, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.creds != nil {
		if err := c.creds.SetAuthHeader(req); err != nil {
			return out, fmt.Errorf("authenticate: %w", err)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return out, fmt.Errorf("post summary: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return out, fmt.Errorf("read summary: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return out, fmt.Errorf("summary request for %s: status %d", name, resp.StatusCode)
	}
	out, err = DecodePayload(data)
	if err != nil {
		return out, fmt.Errorf("decode summary for %s: %w", name, err)
	}
	c.log.Debugf("fetched summary for %s", name)
	return out, nil
}

// DecodePayload accepts a single payload object or a non-empty array of
// payloads, in which case the first element wins.
func DecodePayload(data []byte) (model.SummaryPayload, error) {
	var out model.SummaryPayload
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return out, errors.New("empty body")
	}
	if trimmed[0] == '[' {
		var list []model.SummaryPayload
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return out, err
		}
		if len(list) == 0 {
			return out, errors.New("empty payload array")
		}
		return list[0], nil
	}
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return out, err
	}
	return out, nil
}
