package notify

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	internalaws "github.com/apsotle1-beep/green-mask/internal/aws"
	"github.com/apsotle1-beep/green-mask/internal/orders"
)

// QueueNotifier hands delivery to the SQS worker instead of POSTing
// in-process. Enqueue failure is logged and swallowed like any other
// notification failure; the request still succeeds.
type QueueNotifier struct {
	publisher *internalaws.Publisher
	endpoints Endpoints
	log       *zap.Logger
}

// NewQueueNotifier returns the SQS-backed notifier.
func NewQueueNotifier(publisher *internalaws.Publisher, endpoints Endpoints, log *zap.Logger) *QueueNotifier {
	return &QueueNotifier{
		publisher: publisher,
		endpoints: endpoints,
		log:       log,
	}
}

// Notify enqueues one delivery message for the worker.
func (n *QueueNotifier) Notify(ctx context.Context, event string, order orders.Order) {
	url := n.endpoints.URL(event)
	if url == "" {
		return
	}

	// correlate with the inbound request when it sent an id
	correlationID := RequestID(ctx)
	if correlationID == "" {
		correlationID = uuid.NewString()
	}

	msg := Message{
		Event:         event,
		URL:           url,
		Order:         order,
		CorrelationID: correlationID,
	}
	body, err := json.Marshal(msg)
	if err != nil {
		n.log.Warn("marshal notification failed", zap.String("event", event), zap.Error(err))
		return
	}

	attrs := map[string]string{
		"event":          event,
		"order_id":       order.OrderID,
		"correlation_id": msg.CorrelationID,
	}
	if err := n.publisher.SendMessage(ctx, string(body), attrs); err != nil {
		n.log.Warn("enqueue notification failed",
			zap.String("event", event),
			zap.String("order_id", order.OrderID),
			zap.Error(err))
	}
}
