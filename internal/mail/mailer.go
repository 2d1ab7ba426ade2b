// Package mail sends transactional email through an HTTP mail API.
// Sends are fire-and-forget from the auth flows: failures are logged by the
// caller, never surfaced to the client.
package mail

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const defaultTimeout = 15 * time.Second

// Sender delivers one email.
type Sender interface {
	Send(to, subject, html string) error
}

// APIClient sends mail via a JSON HTTP mail API (e.g. a relay like Mailjet or
// an in-house gateway).
type APIClient struct {
	APIKey     string
	BaseURL    string
	From       string
	HTTPClient *http.Client
}

// NewAPIClient returns a client posting to baseURL with the given API key and From address.
func NewAPIClient(apiKey, baseURL, from string) *APIClient {
	return &APIClient{
		APIKey:     apiKey,
		BaseURL:    baseURL,
		From:       from,
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}
}

// Send posts the message to the mail API. Does not log the body: confirmation
// and recovery emails carry single-use codes.
func (c *APIClient) Send(to, subject, html string) error {
	if c.APIKey == "" || c.BaseURL == "" {
		return fmt.Errorf("mail: gateway not configured")
	}
	body := map[string]interface{}{
		"from":    c.From,
		"to":      to,
		"subject": subject,
		"html":    html,
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, c.BaseURL, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("mail: request failed status=%d body=%s", resp.StatusCode, string(b))
	}
	return nil
}

// DevSender logs instead of sending. Used when no mail gateway is configured
// so local runs and tests never touch the network.
type DevSender struct {
	Log *zap.Logger
}

// Send logs the recipient and subject. The body is withheld from logs.
func (s *DevSender) Send(to, subject, html string) error {
	s.Log.Info("mail (dev): not sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}
