// Package notification turns order events into customer email.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/example/quickstore/internal/domain/order"
)

// Mailer sends the confirmation email. *email.Service implements it.
type Mailer interface {
	SendOrderConfirmation(to string, placed order.OrderPlaced, intro string) error
}

// Drafter produces the email intro line. Optional; when nil the handler uses
// a static intro.
type Drafter interface {
	DraftOrderConfirmation(ctx context.Context, placed order.OrderPlaced) string
}

// Handler processes order events consumed from Kafka.
type Handler struct {
	mailer  Mailer
	drafter Drafter
}

func NewHandler(mailer Mailer, drafter Drafter) *Handler {
	return &Handler{
		mailer:  mailer,
		drafter: drafter,
	}
}

// HandleEvent processes one event. Events without an email address are
// skipped rather than retried: redelivery cannot make an address appear.
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var event order.Event
	if err := json.Unmarshal(value, &event); err != nil {
		log.Printf("[Notifier] Failed to unmarshal event: %v", err)
		return err
	}

	if event.Type != order.EventOrderPlaced {
		return nil
	}
	return h.handleOrderPlaced(ctx, event)
}

func (h *Handler) handleOrderPlaced(ctx context.Context, event order.Event) error {
	var placed order.OrderPlaced
	if err := json.Unmarshal(event.Data, &placed); err != nil {
		log.Printf("[Notifier] Failed to unmarshal OrderPlaced payload: %v", err)
		return err
	}

	log.Printf("[Notifier] Processing OrderPlaced for order %s, user %s", placed.OrderID, placed.UserID)

	if placed.CustomerEmail == "" {
		log.Printf("[Notifier] No email on order %s, skipping", placed.OrderID)
		return nil
	}

	intro := fmt.Sprintf("Thank you for your order, %s! Your order %s is being processed.",
		placed.CustomerName, placed.OrderID)
	if h.drafter != nil {
		intro = h.drafter.DraftOrderConfirmation(ctx, placed)
	}

	if err := h.mailer.SendOrderConfirmation(placed.CustomerEmail, placed, intro); err != nil {
		log.Printf("[Notifier] Failed to send email to %s: %v", placed.CustomerEmail, err)
		return err
	}

	log.Printf("[Notifier] Confirmation sent to %s for order %s", placed.CustomerEmail, placed.OrderID)
	return nil
}
