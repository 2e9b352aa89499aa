package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/apsotle1-beep/green-mask/internal/notify"
)

// Processor delivers queued webhook notifications. Each SQS record
// carries one notify.Message; a failed delivery errors the batch so SQS
// redrives it and eventually parks it on the DLQ.
type Processor struct {
	client *http.Client
	log    *zap.Logger
}

// NewProcessor returns a Processor with a bounded delivery timeout.
func NewProcessor(log *zap.Logger) *Processor {
	return &Processor{
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
	}
}

// Handle processes one SQS event batch.
func (p *Processor) Handle(ctx context.Context, event events.SQSEvent) error {
	for _, record := range event.Records {
		if err := p.processMessage(ctx, record); err != nil {
			p.log.Error("webhook delivery failed",
				zap.String("message_id", record.MessageId),
				zap.Error(err))
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, record events.SQSMessage) error {
	var msg notify.Message
	if err := json.Unmarshal([]byte(record.Body), &msg); err != nil {
		return fmt.Errorf("unmarshal message body: %w", err)
	}
	if msg.URL == "" {
		return errors.New("message has no delivery URL")
	}

	p.log.Info("delivering webhook",
		zap.String("event", msg.Event),
		zap.String("order_id", msg.Order.OrderID),
		zap.String("correlation_id", msg.CorrelationID))

	return notify.Deliver(ctx, p.client, msg.URL, msg.Order)
}
