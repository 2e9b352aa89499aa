package orders

import (
	"fmt"
	"math/rand"
	"time"
)

// Order statuses. RECIEVED is misspelled; the original storefront uses
// this exact value in storage, API responses and webhook payloads, so
// it is part of the wire contract and preserved verbatim.
const (
	StatusPending  = "PENDING"
	StatusPlaced   = "PLACED"
	StatusRecieved = "RECIEVED"
)

// ValidStatus reports whether s is one of the recognized order statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusPlaced, StatusRecieved:
		return true
	}
	return false
}

// Order represents the item stored in the orders DynamoDB table. JSON
// names are the camelCase shapes the admin dashboard and webhook
// consumers expect.
type Order struct {
	OrderID     string `dynamodbav:"order_id" json:"orderId"` // PK, immutable
	Name        string `dynamodbav:"name" json:"name"`
	Email       string `dynamodbav:"email,omitempty" json:"email,omitempty"`
	Phone       string `dynamodbav:"phone" json:"phone"`
	Whatsapp    string `dynamodbav:"whatsapp,omitempty" json:"whatsapp,omitempty"`
	City        string `dynamodbav:"city" json:"city"`
	Area        string `dynamodbav:"area" json:"area"`
	Address     string `dynamodbav:"address" json:"address"`
	Landmark    string `dynamodbav:"landmark,omitempty" json:"landmark,omitempty"`
	Quantity    int    `dynamodbav:"quantity" json:"quantity"`
	SubmittedAt string `dynamodbav:"submitted_at" json:"submittedAt"` // ISO-8601, client-assigned
	Status      string `dynamodbav:"status" json:"status"`            // PENDING | PLACED | RECIEVED
}

// NewOrderID generates an order id in the wire format
// ORD-<epoch-ms>-<0..999>, the same shape the buy form produces when it
// builds the id client-side.
func NewOrderID() string {
	return fmt.Sprintf("ORD-%d-%d", time.Now().UnixMilli(), rand.Intn(1000))
}
