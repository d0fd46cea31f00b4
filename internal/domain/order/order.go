package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/example/quickstore/internal/domain/catalog"
)

type Status string

const (
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
)

// validTransitions defines the allowed status progression. Delivered and
// Cancelled are terminal; a transition to the current status is not listed,
// so repeating a status is rejected and surfaces caller bugs.
var validTransitions = map[Status][]Status{
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

func (s Status) Valid() bool {
	_, ok := validTransitions[s]
	return ok
}

// CanTransitionTo checks whether the order may move to the target status.
func (o *Order) CanTransitionTo(target Status) bool {
	allowed, exists := validTransitions[o.Status]
	if !exists {
		return false
	}
	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentUPI  PaymentMethod = "UPI"
	PaymentCard PaymentMethod = "Card"
	PaymentCOD  PaymentMethod = "COD"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentUPI, PaymentCard, PaymentCOD:
		return true
	}
	return false
}

// Shipping policy, in cents: orders above the threshold ship free.
const (
	FreeShippingThreshold = 10000
	ShippingFee           = 999
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrEmptyOrder       = errors.New("order must have at least one item")
	ErrProductInactive  = errors.New("product is not available")
	ErrInvalidPayment   = errors.New("unknown payment method")
	ErrUnknownStatus    = errors.New("unknown order status")

	// ErrStatusConflict is returned by stores when a conditional status
	// update finds the row no longer in the expected status.
	ErrStatusConflict = errors.New("order status changed concurrently")

	// ErrDuplicateIdempotencyKey is returned by stores when an insert loses
	// the race for an idempotency key. The service compensates its stock
	// decrements and returns the order that won.
	ErrDuplicateIdempotencyKey = errors.New("idempotency key already used")
)

// InvalidTransitionError reports an illegal status change. These should not
// occur through normal UI paths, so callers are expected to surface them
// loudly rather than swallow them.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %s to %s", e.From, e.To)
}

// Address is a shipping/profile address snapshot.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// ContactInfo is the customer contact captured at order time. It is
// denormalized on purpose: later profile edits never rewrite an order.
type ContactInfo struct {
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
	Email  string `json:"email"`
}

// Item is a frozen line-item snapshot. Price, name and category are copied
// from the product at purchase time and never follow later catalog edits.
type Item struct {
	ProductID string           `json:"product_id"`
	Name      string           `json:"name"`
	Category  catalog.Category `json:"category"`
	Image     string           `json:"image"`
	Price     int              `json:"price"`
	Quantity  int              `json:"quantity"`
}

type Order struct {
	ID              string        `json:"id"`
	UserID          string        `json:"user_id"`
	CustomerName    string        `json:"customer_name"`
	CustomerMobile  string        `json:"customer_mobile"`
	CustomerEmail   string        `json:"customer_email,omitempty"`
	Items           []Item        `json:"items"`
	Total           int           `json:"total"`
	Status          Status        `json:"status"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	ShippingAddress Address       `json:"shipping_address"`
	IdempotencyKey  string        `json:"-"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// Subtotal is the item sum without shipping.
func (o *Order) Subtotal() int {
	var sum int
	for _, item := range o.Items {
		sum += item.Price * item.Quantity
	}
	return sum
}

// ShippingFeeFor returns the shipping fee for a given subtotal in cents.
func ShippingFeeFor(subtotal int) int {
	if subtotal > FreeShippingThreshold {
		return 0
	}
	return ShippingFee
}
