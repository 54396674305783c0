// Package twilio is a small REST driver for the pieces of the Twilio
// API this service touches: sending WhatsApp messages and pointing the
// sandbox webhook at the current public URL.
package twilio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultAPIBase = "https://api.twilio.com"

// Client talks to the Twilio REST API with account credentials.
type Client struct {
	AccountSID string
	AuthToken  string
	From       string

	apiBase    string
	httpClient *http.Client
}

// NewClient creates a driver for the given account. from is the
// WhatsApp sender in "whatsapp:+14155238886" form.
func NewClient(accountSID, authToken, from string) *Client {
	return &Client{
		AccountSID: accountSID,
		AuthToken:  authToken,
		From:       from,
		apiBase:    defaultAPIBase,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Message is the subset of the Twilio message resource the service
// reads back after a send.
type Message struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
	To     string `json:"to"`
}

// SendWhatsApp sends a text message, optionally with one media
// attachment, to a WhatsApp recipient.
func (c *Client) SendWhatsApp(ctx context.Context, to, body, mediaURL string) (*Message, error) {
	form := url.Values{}
	form.Set("From", c.From)
	form.Set("To", to)
	form.Set("Body", body)
	if mediaURL != "" {
		form.Set("MediaUrl", mediaURL)
	}

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.apiBase, c.AccountSID)
	respBody, err := c.post(ctx, endpoint, form)
	if err != nil {
		return nil, err
	}

	var msg Message
	if err := json.Unmarshal(respBody, &msg); err != nil {
		return nil, fmt.Errorf("decode message response: %w", err)
	}
	return &msg, nil
}

// UpdateWebhook points the WhatsApp sandbox inbound webhook at the
// given URL so replies reach this service after a tunnel restart.
func (c *Client) UpdateWebhook(ctx context.Context, webhookURL string) error {
	form := url.Values{}
	form.Set("SmsUrl", webhookURL)
	form.Set("SmsMethod", http.MethodPost)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Sandbox.json", c.apiBase, c.AccountSID)
	_, err := c.post(ctx, endpoint, form)
	return err
}

func (c *Client) post(ctx context.Context, endpoint string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(c.AccountSID, c.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("twilio request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read twilio response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("twilio returned status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
