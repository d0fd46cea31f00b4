package order

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/example/quickstore/internal/domain/catalog"
	"github.com/example/quickstore/internal/domain/validate"
	"github.com/example/quickstore/internal/ident"
	"github.com/google/uuid"
)

// Store is the persistence collaborator for orders. UpdateOrderStatus must
// be a single conditional write: it fails with ErrStatusConflict when the
// stored status no longer matches from.
type Store interface {
	GetOrder(ctx context.Context, id string) (*Order, error)
	InsertOrder(ctx context.Context, o *Order) error
	ListOrders(ctx context.Context) ([]*Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]*Order, error)
	UpdateOrderStatus(ctx context.Context, id string, from, to Status, updatedAt time.Time) error
	GetOrderByIdempotencyKey(ctx context.Context, key string) (*Order, error)
}

// Publisher delivers post-commit events. Failures are logged, never
// propagated into the order path.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

type Service struct {
	catalog         *catalog.Service
	store           Store
	publisher       Publisher
	restockOnCancel bool
}

// NewService builds the order engine. restockOnCancel controls whether a
// cancellation returns the reserved units to the catalog; the observed
// storefront never restocked, so wiring decides.
func NewService(cat *catalog.Service, store Store, publisher Publisher, restockOnCancel bool) *Service {
	return &Service{
		catalog:         cat,
		store:           store,
		publisher:       publisher,
		restockOnCancel: restockOnCancel,
	}
}

// LineInput is one requested cart line. Only the product id and quantity are
// trusted from the client; price and name are re-read from the catalog.
type LineInput struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type CreateParams struct {
	UserID          string
	Contact         ContactInfo
	Items           []LineInput
	ShippingAddress Address
	PaymentMethod   PaymentMethod
	// IdempotencyKey deduplicates checkout retries. Optional; a repeated
	// key returns the order created by the first attempt.
	IdempotencyKey string
}

func (p *CreateParams) validate() error {
	if len(p.Items) == 0 {
		return ErrEmptyOrder
	}
	for _, line := range p.Items {
		if err := validate.Positive("quantity", line.Quantity); err != nil {
			return err
		}
	}
	if !p.PaymentMethod.Valid() {
		return ErrInvalidPayment
	}
	if err := validate.NonEmpty("name", p.Contact.Name); err != nil {
		return err
	}
	if err := validate.NonEmpty("mobile", p.Contact.Mobile); err != nil {
		return err
	}
	if err := validate.NonEmpty("street", p.ShippingAddress.Street); err != nil {
		return err
	}
	if err := validate.NonEmpty("city", p.ShippingAddress.City); err != nil {
		return err
	}
	if err := validate.NonEmpty("state", p.ShippingAddress.State); err != nil {
		return err
	}
	if err := validate.NonEmpty("pincode", p.ShippingAddress.Pincode); err != nil {
		return err
	}
	return nil
}

// Create converts a cart snapshot into a persisted order. The total is
// recomputed server-side, stock is taken through conditional decrements, and
// a partial failure is compensated so no stock stays reserved for an order
// that was never created.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Order, error) {
	if params.IdempotencyKey != "" {
		existing, err := s.store.GetOrderByIdempotencyKey(ctx, params.IdempotencyKey)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, ErrOrderNotFound) {
			return nil, err
		}
	}

	if err := params.validate(); err != nil {
		return nil, err
	}

	// Optimistic pre-validation: reject obviously short lines before
	// touching any stock. The conditional decrement below remains the
	// authority under concurrency.
	items := make([]Item, 0, len(params.Items))
	for _, line := range params.Items {
		p, err := s.catalog.Get(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if !p.IsActive {
			return nil, ErrProductInactive
		}
		if p.Stock < line.Quantity {
			return nil, &catalog.InsufficientStockError{
				ProductID: p.ID,
				Requested: line.Quantity,
				Available: p.Stock,
			}
		}
		items = append(items, Item{
			ProductID: p.ID,
			Name:      p.Name,
			Category:  p.Category,
			Image:     p.Image,
			Price:     p.Price,
			Quantity:  line.Quantity,
		})
	}

	subtotal := 0
	for _, item := range items {
		subtotal += item.Price * item.Quantity
	}
	total := subtotal + ShippingFeeFor(subtotal)

	// Commit stock line by line; roll back decremented lines if a later
	// one loses the race for the last units.
	decremented := make([]Item, 0, len(items))
	for _, item := range items {
		if _, err := s.catalog.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			s.compensate(ctx, decremented)
			return nil, err
		}
		decremented = append(decremented, item)
	}

	now := time.Now()
	o := &Order{
		ID:              ident.New("ORD"),
		UserID:          params.UserID,
		CustomerName:    params.Contact.Name,
		CustomerMobile:  params.Contact.Mobile,
		CustomerEmail:   params.Contact.Email,
		Items:           items,
		Total:           total,
		Status:          StatusProcessing,
		PaymentMethod:   params.PaymentMethod,
		ShippingAddress: params.ShippingAddress,
		IdempotencyKey:  params.IdempotencyKey,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.store.InsertOrder(ctx, o); err != nil {
		s.compensate(ctx, decremented)
		if errors.Is(err, ErrDuplicateIdempotencyKey) && params.IdempotencyKey != "" {
			// A concurrent retry with the same key won the insert; its
			// decrements stand, ours were just rolled back.
			return s.store.GetOrderByIdempotencyKey(ctx, params.IdempotencyKey)
		}
		return nil, err
	}

	s.publish(ctx, EventOrderPlaced, o.ID, OrderPlaced{
		OrderID:       o.ID,
		UserID:        o.UserID,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		Items:         o.Items,
		Total:         o.Total,
		PlacedAt:      now,
	})

	return o, nil
}

// compensate returns already-decremented stock after a failed creation.
func (s *Service) compensate(ctx context.Context, items []Item) {
	for _, item := range items {
		if err := s.catalog.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			log.Printf("[Order] Failed to restore %d units of product %s: %v",
				item.Quantity, item.ProductID, err)
		}
	}
}

// UpdateStatus advances an order along the transition graph. Repeating the
// current status is rejected with *InvalidTransitionError. Stock is not
// touched unless restock-on-cancel is enabled.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, target Status) (*Order, error) {
	if !target.Valid() {
		return nil, ErrUnknownStatus
	}

	o, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !o.CanTransitionTo(target) {
		return nil, &InvalidTransitionError{From: o.Status, To: target}
	}

	now := time.Now()
	err = s.store.UpdateOrderStatus(ctx, orderID, o.Status, target, now)
	if errors.Is(err, ErrStatusConflict) {
		// Another writer advanced the order between our read and write;
		// re-read so the error names the real current status.
		fresh, freshErr := s.store.GetOrder(ctx, orderID)
		if freshErr != nil {
			return nil, freshErr
		}
		return nil, &InvalidTransitionError{From: fresh.Status, To: target}
	}
	if err != nil {
		return nil, err
	}

	from := o.Status
	o.Status = target
	o.UpdatedAt = now

	if target == StatusCancelled && s.restockOnCancel {
		for _, item := range o.Items {
			if err := s.catalog.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				log.Printf("[Order] Failed to restock %d units of product %s after cancelling %s: %v",
					item.Quantity, item.ProductID, o.ID, err)
			}
		}
	}

	s.publish(ctx, EventOrderStatusChanged, o.ID, OrderStatusChanged{
		OrderID:   o.ID,
		From:      from,
		To:        target,
		ChangedAt: now,
	})

	return o, nil
}

func (s *Service) Get(ctx context.Context, orderID string) (*Order, error) {
	return s.store.GetOrder(ctx, orderID)
}

func (s *Service) List(ctx context.Context) ([]*Order, error) {
	return s.store.ListOrders(ctx)
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]*Order, error) {
	return s.store.ListOrdersByUser(ctx, userID)
}

// HasDeliveredProduct reports whether the user has a Delivered order
// containing the product. The review gate uses this for verified-purchase
// badging; it always reads the latest committed order state.
func (s *Service) HasDeliveredProduct(ctx context.Context, userID, productID string) (bool, error) {
	orders, err := s.store.ListOrdersByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, o := range orders {
		if o.Status != StatusDelivered {
			continue
		}
		for _, item := range o.Items {
			if item.ProductID == productID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (s *Service) publish(ctx context.Context, eventType, orderID string, payload any) {
	if s.publisher == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[Order] Failed to marshal %s event for %s: %v", eventType, orderID, err)
		return
	}
	event := Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		OrderID:    orderID,
		Data:       data,
		OccurredAt: time.Now(),
	}
	if err := s.publisher.Publish(ctx, orderID, event); err != nil {
		log.Printf("[Order] Failed to publish %s event for %s: %v", eventType, orderID, err)
	}
}
