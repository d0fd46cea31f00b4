package email

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/quickstore/internal/domain/order"
)

func TestFormatCents(t *testing.T) {
	tests := []struct {
		cents    int
		expected string
	}{
		{0, "$0.00"},
		{5, "$0.05"},
		{99, "$0.99"},
		{100, "$1.00"},
		{6999, "$69.99"},
		{10000, "$100.00"},
		{-250, "-$2.50"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatCents(tt.cents))
	}
}

func TestBuildOrderConfirmationBody(t *testing.T) {
	placed := order.OrderPlaced{
		OrderID:      "ORD-20260901-ABCD",
		CustomerName: "Sam",
		Items: []order.Item{
			{ProductID: "p1", Name: "Headphones", Price: 4999, Quantity: 1},
			{ProductID: "p2", Name: "Desk Lamp", Price: 2499, Quantity: 2},
		},
		Total: 10996,
	}

	body := BuildOrderConfirmationBody(placed, "Thanks for shopping with us, Sam!")

	assert.Contains(t, body, "ORD-20260901-ABCD")
	assert.Contains(t, body, "Thanks for shopping with us, Sam!")
	assert.Contains(t, body, "Headphones")
	assert.Contains(t, body, "Desk Lamp")
	assert.Contains(t, body, "$49.99")
	assert.Contains(t, body, "$24.99")
	// Line subtotal for the two lamps and the order total.
	assert.Contains(t, body, "$49.98")
	assert.Contains(t, body, "$109.96")
}

func TestBuildOrderConfirmationBody_FallsBackToProductID(t *testing.T) {
	placed := order.OrderPlaced{
		OrderID: "ORD-1",
		Items:   []order.Item{{ProductID: "p1", Price: 100, Quantity: 1}},
		Total:   1099,
	}

	body := BuildOrderConfirmationBody(placed, "Hello")

	assert.Contains(t, body, "p1")
}
