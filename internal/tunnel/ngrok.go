// Package tunnel discovers the public URL the service is reachable on.
// The tunnel process itself is managed outside this service; only its
// local inspection API is consulted here.
package tunnel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client reads the current public URL from the ngrok local API. When a
// fixed base URL is configured it is returned as-is and the API is
// never contacted.
type Client struct {
	APIURL  string
	BaseURL string

	httpClient *http.Client
}

// NewClient creates a tunnel client. baseURL may be empty, in which
// case every PublicURL call queries the local API.
func NewClient(apiURL, baseURL string) *Client {
	return &Client{
		APIURL:     apiURL,
		BaseURL:    baseURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

type tunnelList struct {
	Tunnels []struct {
		Proto     string `json:"proto"`
		PublicURL string `json:"public_url"`
	} `json:"tunnels"`
}

// PublicURL returns the configured base URL, or the first https tunnel
// reported by the local API.
func (c *Client) PublicURL(ctx context.Context) (string, error) {
	if c.BaseURL != "" {
		return c.BaseURL, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIURL, nil)
	if err != nil {
		return "", fmt.Errorf("build tunnel request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("query tunnel API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("tunnel API returned status %d", resp.StatusCode)
	}

	var list tunnelList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return "", fmt.Errorf("decode tunnel list: %w", err)
	}

	for _, t := range list.Tunnels {
		if t.Proto == "https" {
			return t.PublicURL, nil
		}
	}
	return "", fmt.Errorf("no https tunnel active")
}
