package transmit

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"sensornode/internal/config"
	"sensornode/internal/models"
)

const (
	contentTypeForm = "application/x-www-form-urlencoded"
	maxResponseBody = 4 << 10 // responses past 4 KB are truncated
	defaultTimeout  = 15 * time.Second
)

// Client performs one POST per call against the configured ingest endpoint.
// No retry, no backoff: the next user trigger is the retry mechanism.
type Client struct {
	http *http.Client
	url  string
}

// NewClient builds a Client from server config. InsecureTLS skips certificate
// verification, mirroring what the field deployment does against a
// self-signed ingest host.
func NewClient(cfg config.ServerConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &Client{
		http: &http.Client{Timeout: timeout, Transport: transport},
		url:  strings.TrimRight(cfg.BaseURL, "/") + cfg.IngestPath,
	}
}

// Post sends an already-encoded body. A returned error means the transaction
// never produced an HTTP status (setup or transport failure); in that case
// Result.Attempted is false. With a status in hand, the error is nil and the
// caller decides what 2xx means.
func (c *Client) Post(ctx context.Context, body string) (models.TransmitResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(body))
	if err != nil {
		return models.TransmitResult{}, fmt.Errorf("build request for %s: %w", c.url, err)
	}
	req.Header.Set("Content-Type", contentTypeForm)

	resp, err := c.http.Do(req)
	if err != nil {
		return models.TransmitResult{}, fmt.Errorf("post to %s: %w", c.url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		// We have a status; a truncated body is not a transport failure.
		respBody = nil
	}

	return models.TransmitResult{
		Attempted:  true,
		StatusCode: resp.StatusCode,
		Body:       string(respBody),
	}, nil
}
