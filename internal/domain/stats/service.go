package stats

import (
	"context"

	"github.com/example/quickstore/internal/domain/catalog"
	"github.com/example/quickstore/internal/domain/order"
	"github.com/example/quickstore/internal/domain/review"
	"github.com/example/quickstore/internal/domain/ticket"
)

// lowStockThreshold marks products the admin dashboard flags for reorder.
const lowStockThreshold = 10

// Dashboard aggregates the admin overview numbers. Revenue is in cents and
// excludes cancelled orders.
type Dashboard struct {
	TotalOrders      int `json:"total_orders"`
	TotalRevenue     int `json:"total_revenue"`
	ActiveProducts   int `json:"active_products"`
	LowStockCount    int `json:"low_stock_count"`
	OpenTicketsCount int `json:"open_tickets_count"`
	TotalReviews     int `json:"total_reviews"`
}

type Service struct {
	catalog *catalog.Service
	orders  *order.Service
	tickets *ticket.Service
	reviews *review.Service
}

func NewService(cat *catalog.Service, orders *order.Service, tickets *ticket.Service, reviews *review.Service) *Service {
	return &Service{
		catalog: cat,
		orders:  orders,
		tickets: tickets,
		reviews: reviews,
	}
}

func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	products, err := s.catalog.List(ctx, false)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		TotalOrders:  len(orders),
		TotalReviews: len(reviews),
	}
	for _, o := range orders {
		if o.Status != order.StatusCancelled {
			d.TotalRevenue += o.Total
		}
	}
	for _, p := range products {
		if p.IsActive {
			d.ActiveProducts++
		}
		if p.Stock < lowStockThreshold {
			d.LowStockCount++
		}
	}
	for _, t := range tickets {
		if t.Status != ticket.StatusClosed && t.Status != ticket.StatusResolved {
			d.OpenTicketsCount++
		}
	}
	return d, nil
}
