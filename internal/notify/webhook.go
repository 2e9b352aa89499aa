package notify

import (
	"context"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/apsotle1-beep/green-mask/internal/orders"
)

// WebhookNotifier POSTs the order JSON to the configured endpoint from
// a detached goroutine. The API response never waits on delivery, and
// delivery failure is observable only in the log.
type WebhookNotifier struct {
	endpoints Endpoints
	client    *http.Client
	log       *zap.Logger

	wg sync.WaitGroup // lets tests wait for in-flight deliveries
}

// NewWebhookNotifier returns the direct fire-and-forget notifier.
func NewWebhookNotifier(endpoints Endpoints, log *zap.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		endpoints: endpoints,
		client:    newHTTPClient(),
		log:       log,
	}
}

// Notify fires the webhook for event, if one is configured.
func (n *WebhookNotifier) Notify(_ context.Context, event string, order orders.Order) {
	url := n.endpoints.URL(event)
	if url == "" {
		return
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		// Detached from the request context on purpose: the caller's
		// request may finish before delivery does.
		if err := Deliver(context.Background(), n.client, url, order); err != nil {
			n.log.Warn("webhook delivery failed",
				zap.String("event", event),
				zap.String("order_id", order.OrderID),
				zap.Error(err))
		}
	}()
}

// Wait blocks until all in-flight deliveries finish.
func (n *WebhookNotifier) Wait() {
	n.wg.Wait()
}
