package chatgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Sender is the outbound side of the chat provider: deliver one text
// message from a company device to a phone number.
type Sender interface {
	SendText(ctx context.Context, deviceID, to, text string) error
}

type sendRequest struct {
	DeviceID string `json:"device_id"`
	To       string `json:"to"`
	Text     string `json:"text"`
}

// HTTPClient talks to the chat gateway's send endpoint.
type HTTPClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// SendText implements Sender.
func (c *HTTPClient) SendText(ctx context.Context, deviceID, to, text string) error {
	payload, err := json.Marshal(sendRequest{
		DeviceID: deviceID,
		To:       to,
		Text:     text,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call chat gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("chat gateway returned status %d", resp.StatusCode)
	}
	return nil
}
