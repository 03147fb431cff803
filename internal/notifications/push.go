package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"diplomat/internal/observability"
)

// PushPayload is the body POSTed to a subscriber-registered push endpoint.
type PushPayload struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Count   int64  `json:"count,omitempty"`
	Link    string `json:"link,omitempty"`
}

// PushClient delivers payloads to arbitrary subscriber-supplied endpoints.
// Delivery is always best-effort; callers log failures and move on.
type PushClient struct {
	httpClient *http.Client
}

// NewPushClient creates a push client with a bounded request timeout.
func NewPushClient() *PushClient {
	return &PushClient{
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// Send POSTs the payload as JSON to the endpoint.
func (p *PushClient) Send(ctx context.Context, endpoint string, payload PushPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		observability.PushDeliveries.WithLabelValues("error").Inc()
		return fmt.Errorf("push request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		observability.PushDeliveries.WithLabelValues("rejected").Inc()
		return fmt.Errorf("push endpoint returned status %d", resp.StatusCode)
	}

	observability.PushDeliveries.WithLabelValues("ok").Inc()
	return nil
}
