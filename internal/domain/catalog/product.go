package catalog

import (
	"errors"
	"fmt"
	"time"
)

// Category is the closed set of product categories.
type Category string

const (
	CategoryHomeKitchen Category = "Home & Kitchen"
	CategoryToys        Category = "Toys"
	CategoryElectronics Category = "Electronics"
	CategoryLifestyle   Category = "Lifestyle"
	CategoryUtility     Category = "Utility"
)

// Categories lists every valid category, in display order.
var Categories = []Category{
	CategoryHomeKitchen,
	CategoryToys,
	CategoryElectronics,
	CategoryLifestyle,
	CategoryUtility,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidName     = errors.New("name is required")
	ErrInvalidPrice    = errors.New("price must not be negative")
	ErrInvalidStock    = errors.New("stock must not be negative")
	ErrInvalidCategory = errors.New("unknown category")
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// InsufficientStockError reports a stock decrement that would oversell.
// It carries enough detail for the UI to render "only N left".
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// Product is the catalog record. Prices are integer cents. Order line items
// hold frozen copies of these fields, so deleting a product never rewrites
// order history; IsActive is the preferred way to retire one.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int       `json:"price"`
	Category    Category  `json:"category"`
	Image       string    `json:"image"`
	Stock       int       `json:"stock"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
