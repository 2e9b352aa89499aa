package validation

import (
	"regexp"

	validatorv10 "github.com/go-playground/validator/v10"
)

// orderIDPattern is the client-generated id wire format:
// ORD-<epoch-ms>-<0..999>.
var orderIDPattern = regexp.MustCompile(`^ORD-\d+-\d{1,3}$`)

// New returns a configured validator with custom struct-level
// validation registered for the create-order payload.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	v.RegisterStructValidation(createOrderStructValidation, CreateOrderRequest{})

	return v
}

// createOrderStructValidation format-checks a client-supplied order id.
// A missing id is fine; intake generates one.
func createOrderStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(CreateOrderRequest)

	if req.OrderID != "" && !orderIDPattern.MatchString(req.OrderID) {
		sl.ReportError(req.OrderID, "orderId", "OrderID", "order_id_format", "")
	}
}

// ValidOrderID reports whether id matches the wire format.
func ValidOrderID(id string) bool {
	return orderIDPattern.MatchString(id)
}
