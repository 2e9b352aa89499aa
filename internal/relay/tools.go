package relay

import "sync"

// Tool names in the catalog sent at setup. The set is closed: any other
// name is answered with an error marker so the model can react.
const (
	ToolUpdateQuantity = "update_order_quantity"
	ToolAskCheckout    = "ask_checkout"
)

// ToolHandler executes one function call and returns the response body.
type ToolHandler func(args map[string]any) map[string]any

// Dispatcher routes tool calls by name over a fixed table.
type Dispatcher struct {
	handlers map[string]ToolHandler
}

// NewDispatcher returns an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: map[string]ToolHandler{}}
}

// Register installs a handler for a tool name.
func (d *Dispatcher) Register(name string, h ToolHandler) {
	d.handlers[name] = h
}

// Dispatch answers every call in the batch with exactly one correlated
// response, in order. Unknown names get an error-shaped response.
func (d *Dispatcher) Dispatch(calls []FunctionCall) []FunctionResponse {
	out := make([]FunctionResponse, 0, len(calls))
	for _, call := range calls {
		h, ok := d.handlers[call.Name]
		if !ok {
			out = append(out, FunctionResponse{
				ID:       call.ID,
				Response: map[string]any{"error": "unknown tool"},
			})
			continue
		}
		out = append(out, FunctionResponse{ID: call.ID, Response: h(call.Args)})
	}
	return out
}

// Cart is the page-local order state the voice tools mutate. Callbacks
// fire outside the lock so they may send to the browser directly.
type Cart struct {
	mu         sync.Mutex
	quantity   int
	onQuantity func(int)
	onCheckout func()
}

// NewCart seeds the cart with the page's current quantity.
func NewCart(quantity int, onQuantity func(int), onCheckout func()) *Cart {
	if quantity < 1 {
		quantity = 1
	}
	return &Cart{quantity: quantity, onQuantity: onQuantity, onCheckout: onCheckout}
}

// Quantity returns the current cart quantity.
func (c *Cart) Quantity() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.quantity
}

// SetQuantity updates the cart and notifies the page.
func (c *Cart) SetQuantity(q int) {
	c.mu.Lock()
	c.quantity = q
	cb := c.onQuantity
	c.mu.Unlock()
	if cb != nil {
		cb(q)
	}
}

// RequestCheckout asks the page to open the checkout UI.
func (c *Cart) RequestCheckout() {
	c.mu.Lock()
	cb := c.onCheckout
	c.mu.Unlock()
	if cb != nil {
		cb()
	}
}

// RegisterCartTools installs the two storefront tools on d.
func RegisterCartTools(d *Dispatcher, cart *Cart) {
	d.Register(ToolUpdateQuantity, func(args map[string]any) map[string]any {
		q, ok := args["quantity"].(float64)
		if !ok || q < 1 {
			return map[string]any{"error": "invalid quantity"}
		}
		cart.SetQuantity(int(q))
		return map[string]any{"status": "updated", "quantity": int(q)}
	})
	d.Register(ToolAskCheckout, func(map[string]any) map[string]any {
		cart.RequestCheckout()
		return map[string]any{"status": "checkout_opened"}
	})
}
