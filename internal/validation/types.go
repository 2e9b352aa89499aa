package validation

// CreateOrderRequest is the payload for POST /api/orders. There is
// deliberately no status field: intake forces PENDING server-side no
// matter what the client sends.
type CreateOrderRequest struct {
	OrderID     string `json:"orderId"` // optional; generated when absent, format-checked when present
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email"`
	Phone       string `json:"phone" validate:"required"`
	Whatsapp    string `json:"whatsapp"`
	City        string `json:"city" validate:"required"`
	Area        string `json:"area" validate:"required"`
	Address     string `json:"address" validate:"required"`
	Landmark    string `json:"landmark"`
	Quantity    int    `json:"quantity" validate:"required,min=1"`
	SubmittedAt string `json:"submittedAt"` // client-assigned; server fills when absent
}

// UpdateStatusRequest is the payload for PATCH /api/orders/:id.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// LoginRequest is the payload for POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
