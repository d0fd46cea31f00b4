package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store is the persistence collaborator for products. DecrementStock must be
// conditional: it fails with *InsufficientStockError instead of ever letting
// stock go negative, even under concurrent callers.
type Store interface {
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context, activeOnly bool) ([]*Product, error)
	InsertProduct(ctx context.Context, p *Product) error
	UpdateProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, id string) error
	DecrementStock(ctx context.Context, id string, quantity int) (*Product, error)
	IncrementStock(ctx context.Context, id string, quantity int) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Create(ctx context.Context, name, description string, price int, category Category, image string, stock int) (*Product, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	if price < 0 {
		return nil, ErrInvalidPrice
	}
	if stock < 0 {
		return nil, ErrInvalidStock
	}
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}

	now := time.Now()
	p := &Product{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		Price:       price,
		Category:    category,
		Image:       image,
		Stock:       stock,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.InsertProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	return s.store.GetProduct(ctx, id)
}

// List returns products; activeOnly hides retired ones from the storefront.
func (s *Service) List(ctx context.Context, activeOnly bool) ([]*Product, error) {
	return s.store.ListProducts(ctx, activeOnly)
}

// Update replaces the mutable product fields. Historical orders keep their
// frozen line-item snapshots, so no cascade happens here.
func (s *Service) Update(ctx context.Context, p *Product) (*Product, error) {
	if p.Name == "" {
		return nil, ErrInvalidName
	}
	if p.Price < 0 {
		return nil, ErrInvalidPrice
	}
	if p.Stock < 0 {
		return nil, ErrInvalidStock
	}
	if !p.Category.Valid() {
		return nil, ErrInvalidCategory
	}

	current, err := s.store.GetProduct(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	p.CreatedAt = current.CreatedAt
	p.UpdatedAt = time.Now()
	if err := s.store.UpdateProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a product record. Prefer flipping IsActive via Update:
// a hard delete orphans nothing (orders hold snapshots) but loses the record.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.DeleteProduct(ctx, id)
}

// DecrementStock atomically reduces stock by quantity. Fails with
// *InsufficientStockError when fewer than quantity units remain.
func (s *Service) DecrementStock(ctx context.Context, id string, quantity int) (*Product, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	return s.store.DecrementStock(ctx, id, quantity)
}

// IncrementStock adds stock back, used for restocks and for compensating
// a partially applied order creation.
func (s *Service) IncrementStock(ctx context.Context, id string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	return s.store.IncrementStock(ctx, id, quantity)
}
