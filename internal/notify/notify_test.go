package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"go.uber.org/zap"

	internalaws "github.com/apsotle1-beep/green-mask/internal/aws"
	"github.com/apsotle1-beep/green-mask/internal/orders"
)

func testOrder() orders.Order {
	return orders.Order{
		OrderID:     "ORD-1700000000000-7",
		Name:        "A",
		Phone:       "123",
		City:        "X",
		Area:        "Y",
		Address:     "Z",
		Quantity:    2,
		SubmittedAt: "2024-01-01T00:00:00Z",
		Status:      orders.StatusPending,
	}
}

func TestForStatus(t *testing.T) {
	if got := ForStatus(orders.StatusPlaced); got != EventPlaced {
		t.Fatalf("expected %q, got %q", EventPlaced, got)
	}
	if got := ForStatus(orders.StatusRecieved); got != EventRecieved {
		t.Fatalf("expected %q, got %q", EventRecieved, got)
	}
	if got := ForStatus(orders.StatusPending); got != "" {
		t.Fatalf("expected no event for PENDING, got %q", got)
	}
}

func TestWebhookNotifier_DeliversOrderJSON(t *testing.T) {
	var mu sync.Mutex
	var got []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		got = body
		mu.Unlock()
	}))
	defer srv.Close()

	n := NewWebhookNotifier(Endpoints{Pending: srv.URL}, zap.NewNop())
	order := testOrder()
	n.Notify(context.Background(), EventPending, order)
	n.Wait()

	mu.Lock()
	defer mu.Unlock()
	var delivered orders.Order
	if err := json.Unmarshal(got, &delivered); err != nil {
		t.Fatalf("webhook body is not an order: %v", err)
	}
	if delivered.OrderID != order.OrderID || delivered.Status != orders.StatusPending {
		t.Fatalf("unexpected webhook payload: %+v", delivered)
	}
}

func TestWebhookNotifier_FailureIsSwallowed(t *testing.T) {
	n := NewWebhookNotifier(Endpoints{Placed: "http://127.0.0.1:1/unreachable"}, zap.NewNop())

	// must not panic or block the caller
	n.Notify(context.Background(), EventPlaced, testOrder())
	n.Wait()
}

func TestWebhookNotifier_UnconfiguredEventIsSkipped(t *testing.T) {
	n := NewWebhookNotifier(Endpoints{}, zap.NewNop())
	n.Notify(context.Background(), EventRecieved, testOrder())
	n.Wait()
}

func TestDeliver_Non2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := Deliver(context.Background(), srv.Client(), srv.URL, testOrder())
	if err == nil {
		t.Fatal("expected error on 502 response")
	}
}

type captureSQS struct {
	mu     sync.Mutex
	bodies []string
}

func (c *captureSQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bodies = append(c.bodies, *params.MessageBody)
	return &sqs.SendMessageOutput{}, nil
}

func TestQueueNotifier_EnqueuesDelivery(t *testing.T) {
	capture := &captureSQS{}
	pub := internalaws.NewPublisher(capture, "https://sqs.example/queue")
	n := NewQueueNotifier(pub, Endpoints{Recieved: "https://hooks.example/recieved"}, zap.NewNop())

	n.Notify(context.Background(), EventRecieved, testOrder())

	capture.mu.Lock()
	defer capture.mu.Unlock()
	if len(capture.bodies) != 1 {
		t.Fatalf("expected 1 queued message, got %d", len(capture.bodies))
	}
	var msg Message
	if err := json.Unmarshal([]byte(capture.bodies[0]), &msg); err != nil {
		t.Fatalf("queued body is not a Message: %v", err)
	}
	if msg.Event != EventRecieved || msg.URL != "https://hooks.example/recieved" {
		t.Fatalf("unexpected queued message: %+v", msg)
	}
	if msg.Order.OrderID != "ORD-1700000000000-7" {
		t.Fatalf("order not carried in message: %+v", msg.Order)
	}
	if msg.CorrelationID == "" {
		t.Fatal("expected a correlation id")
	}
}

func TestQueueNotifier_HonorsInboundRequestID(t *testing.T) {
	capture := &captureSQS{}
	pub := internalaws.NewPublisher(capture, "https://sqs.example/queue")
	n := NewQueueNotifier(pub, Endpoints{Placed: "https://hooks.example/placed"}, zap.NewNop())

	ctx := WithRequestID(context.Background(), "req-12345")
	n.Notify(ctx, EventPlaced, testOrder())

	capture.mu.Lock()
	defer capture.mu.Unlock()
	var msg Message
	if err := json.Unmarshal([]byte(capture.bodies[0]), &msg); err != nil {
		t.Fatalf("queued body is not a Message: %v", err)
	}
	if msg.CorrelationID != "req-12345" {
		t.Fatalf("expected inbound request id as correlation id, got %q", msg.CorrelationID)
	}
}

func TestWithRequestID_EmptyIsNoop(t *testing.T) {
	ctx := WithRequestID(context.Background(), "")
	if id := RequestID(ctx); id != "" {
		t.Fatalf("expected no request id, got %q", id)
	}
}
