// Package notify fires best-effort outbound notifications on order
// lifecycle events. A notification can never fail the request that
// triggered it: failures surface only in the log.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/apsotle1-beep/green-mask/internal/orders"
)

// Events that fire a webhook. The recieved spelling matches the status
// wire value.
const (
	EventPending  = "pending"
	EventPlaced   = "placed"
	EventRecieved = "recieved"
)

// Endpoints maps events to their webhook URLs. An empty URL disables
// the event.
type Endpoints struct {
	Pending  string
	Placed   string
	Recieved string
}

// URL returns the endpoint for an event, empty when unconfigured.
func (e Endpoints) URL(event string) string {
	switch event {
	case EventPending:
		return e.Pending
	case EventPlaced:
		return e.Placed
	case EventRecieved:
		return e.Recieved
	}
	return ""
}

// ForStatus maps a stored status to its webhook event. Only PLACED and
// RECIEVED transitions notify; empty means no event fires.
func ForStatus(status string) string {
	switch status {
	case orders.StatusPlaced:
		return EventPlaced
	case orders.StatusRecieved:
		return EventRecieved
	}
	return ""
}

// Notifier fires an outbound notification for an order lifecycle
// event. Implementations never propagate failures to the caller.
type Notifier interface {
	Notify(ctx context.Context, event string, order orders.Order)
}

type requestIDKey struct{}

// WithRequestID records the inbound request id so queued notifications
// carry it as their correlation id. An empty id is a no-op.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the recorded request id, empty when none was set.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Message is the payload queued for the delivery worker when the
// SQS-backed notifier is configured.
type Message struct {
	Event         string       `json:"event"`
	URL           string       `json:"url"`
	Order         orders.Order `json:"order"`
	CorrelationID string       `json:"correlation_id,omitempty"`
}

// Deliver POSTs the order JSON to url. Shared by the direct notifier
// and the queue worker.
func Deliver(ctx context.Context, client *http.Client, url string, order orders.Order) error {
	body, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", res.StatusCode)
	}
	return nil
}

// newHTTPClient is the delivery client both paths use.
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}
