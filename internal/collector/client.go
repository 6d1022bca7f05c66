// Package collector is the HTTP client for the external analytics
// endpoint. The wire format is an opaque JSON post; nothing here
// interprets responses beyond the status code.
package collector

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"sealtrack/internal/tracking"
)

type Client struct {
	baseURL   string
	accountID string
	client    *http.Client
}

func New(baseURL, accountID string) *Client {
	return &Client{
		baseURL:   baseURL,
		accountID: accountID,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Send posts one event to the collector.
func (c *Client) Send(ev tracking.Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("collector: marshal event: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Account-ID", c.accountID)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("collector: send: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("collector: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// Ping probes the collector. A successful probe is the server-side
// analogue of the tracking script's onload signal.
func (c *Client) Ping() error {
	req, err := http.NewRequest(http.MethodHead, c.baseURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Account-ID", c.accountID)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("collector: ping: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 500 {
		return fmt.Errorf("collector: unhealthy, status %d", resp.StatusCode)
	}
	return nil
}
