package orders

import (
	"context"
	"errors"
	"regexp"
	"testing"
)

func testOrder(id string) Order {
	return Order{
		OrderID:     id,
		Name:        "A",
		Phone:       "123",
		City:        "X",
		Area:        "Y",
		Address:     "Z",
		Quantity:    2,
		SubmittedAt: "2024-01-01T00:00:00Z",
		Status:      StatusPending,
	}
}

func TestCreateAndGet(t *testing.T) {
	mock := newSimpleMock()
	s := NewStore(mock, "orders-table")
	ctx := context.Background()

	if err := s.Create(ctx, testOrder("ORD-1-1")); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	got, err := s.Get(ctx, "ORD-1-1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Status != StatusPending {
		t.Fatalf("expected PENDING, got %s", got.Status)
	}
	if got.Name != "A" || got.Quantity != 2 {
		t.Fatalf("stored order mismatch: %+v", got)
	}
}

func TestCreate_DuplicateOrderID(t *testing.T) {
	mock := newSimpleMock()
	s := NewStore(mock, "orders-table")
	ctx := context.Background()

	if err := s.Create(ctx, testOrder("ORD-1-1")); err != nil {
		t.Fatalf("first Create error: %v", err)
	}
	err := s.Create(ctx, testOrder("ORD-1-1"))
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	s := NewStore(newSimpleMock(), "orders-table")

	_, err := s.Get(context.Background(), "ORD-9-9")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestList(t *testing.T) {
	mock := newSimpleMock()
	s := NewStore(mock, "orders-table")
	ctx := context.Background()

	for _, id := range []string{"ORD-1-1", "ORD-2-2", "ORD-3-3"} {
		if err := s.Create(ctx, testOrder(id)); err != nil {
			t.Fatalf("Create(%s) error: %v", id, err)
		}
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(list))
	}
}

func TestUpdateStatus(t *testing.T) {
	mock := newSimpleMock()
	s := NewStore(mock, "orders-table")
	ctx := context.Background()

	if err := s.Create(ctx, testOrder("ORD-1-1")); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	updated, err := s.UpdateStatus(ctx, "ORD-1-1", StatusPlaced)
	if err != nil {
		t.Fatalf("UpdateStatus error: %v", err)
	}
	if updated.Status != StatusPlaced {
		t.Fatalf("expected PLACED, got %s", updated.Status)
	}
	// all other fields survive the update
	if updated.OrderID != "ORD-1-1" || updated.Name != "A" {
		t.Fatalf("update mutated non-status fields: %+v", updated)
	}
}

func TestUpdateStatus_Idempotent(t *testing.T) {
	mock := newSimpleMock()
	s := NewStore(mock, "orders-table")
	ctx := context.Background()

	if err := s.Create(ctx, testOrder("ORD-1-1")); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	first, err := s.UpdateStatus(ctx, "ORD-1-1", StatusPlaced)
	if err != nil {
		t.Fatalf("first UpdateStatus error: %v", err)
	}
	second, err := s.UpdateStatus(ctx, "ORD-1-1", StatusPlaced)
	if err != nil {
		t.Fatalf("second UpdateStatus error: %v", err)
	}
	if first.Status != second.Status {
		t.Fatalf("repeated update changed final state: %s vs %s", first.Status, second.Status)
	}
}

func TestUpdateStatus_NotFound(t *testing.T) {
	s := NewStore(newSimpleMock(), "orders-table")

	_, err := s.UpdateStatus(context.Background(), "ORD-9-9", StatusPlaced)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNewOrderID_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^ORD-\d+-\d{1,3}$`)
	for i := 0; i < 50; i++ {
		id := NewOrderID()
		if !pattern.MatchString(id) {
			t.Fatalf("generated id %q does not match wire format", id)
		}
	}
}

func TestValidStatus(t *testing.T) {
	for s, want := range map[string]bool{
		StatusPending:  true,
		StatusPlaced:   true,
		StatusRecieved: true,
		"RECEIVED":     false, // the correctly spelled form is NOT on the wire
		"SHIPPED":      false,
		"":             false,
	} {
		if got := ValidStatus(s); got != want {
			t.Fatalf("ValidStatus(%q) = %v, want %v", s, got, want)
		}
	}
}
