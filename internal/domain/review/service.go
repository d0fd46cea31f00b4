package review

import (
	"context"
	"errors"
	"time"

	"github.com/example/quickstore/internal/domain/validate"
	"github.com/example/quickstore/internal/ident"
)

var ErrReviewNotFound = errors.New("review not found")

// Review is immutable after creation; there is no edit operation.
// IsVerifiedPurchase is computed once at submission time and frozen: a
// later-cancelled order does not retroactively un-verify a review.
type Review struct {
	ID                 string    `json:"id"`
	ProductID          string    `json:"product_id"`
	UserID             string    `json:"user_id"`
	UserName           string    `json:"user_name"`
	Rating             int       `json:"rating"`
	Comment            string    `json:"comment"`
	IsVerifiedPurchase bool      `json:"is_verified_purchase"`
	CreatedAt          time.Time `json:"created_at"`
}

// Store is the persistence collaborator for reviews. ListReviews with an
// empty productID returns every review.
type Store interface {
	InsertReview(ctx context.Context, r *Review) error
	ListReviews(ctx context.Context, productID string) ([]*Review, error)
	DeleteReview(ctx context.Context, id string) error
}

// PurchaseChecker is the read-only view of order history the gate needs.
// Implemented by the order service.
type PurchaseChecker interface {
	HasDeliveredProduct(ctx context.Context, userID, productID string) (bool, error)
}

type Service struct {
	store  Store
	orders PurchaseChecker
}

func NewService(store Store, orders PurchaseChecker) *Service {
	return &Service{store: store, orders: orders}
}

// CanReview reports whether the user qualifies for a verified-purchase
// badge on the product: at least one Delivered order containing it.
func (s *Service) CanReview(ctx context.Context, userID, productID string) (bool, error) {
	return s.orders.HasDeliveredProduct(ctx, userID, productID)
}

type SubmitParams struct {
	ProductID string
	UserID    string
	UserName  string
	Rating    int
	Comment   string
}

// Submit persists a review, computing the verified flag at this moment. An
// order-history read failure fails the submission rather than silently
// storing an unverified review.
func (s *Service) Submit(ctx context.Context, params SubmitParams) (*Review, error) {
	if err := validate.IntRange("rating", params.Rating, 1, 5); err != nil {
		return nil, err
	}
	if err := validate.NonEmpty("comment", params.Comment); err != nil {
		return nil, err
	}

	verified, err := s.orders.HasDeliveredProduct(ctx, params.UserID, params.ProductID)
	if err != nil {
		return nil, err
	}

	r := &Review{
		ID:                 ident.New("REV"),
		ProductID:          params.ProductID,
		UserID:             params.UserID,
		UserName:           params.UserName,
		Rating:             params.Rating,
		Comment:            params.Comment,
		IsVerifiedPurchase: verified,
		CreatedAt:          time.Now(),
	}

	if err := s.store.InsertReview(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) ListForProduct(ctx context.Context, productID string) ([]*Review, error) {
	return s.store.ListReviews(ctx, productID)
}

func (s *Service) ListAll(ctx context.Context) ([]*Review, error) {
	return s.store.ListReviews(ctx, "")
}

// Delete removes a review; admin only, enforced at the API layer.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.DeleteReview(ctx, id)
}
