package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/example/quickstore/internal/domain/catalog"
	"github.com/example/quickstore/internal/domain/order"
	"github.com/example/quickstore/internal/domain/review"
	"github.com/example/quickstore/internal/domain/ticket"
	"github.com/example/quickstore/internal/domain/user"
)

// MemoryStore keeps every collection in mutex-guarded maps. Used by tests
// and local runs; the conditional semantics (stock decrement, order status
// update) match the SQL and DynamoDB backends.
type MemoryStore struct {
	mu        sync.RWMutex
	products  map[string]*catalog.Product
	orders    map[string]*order.Order
	orderKeys map[string]string // idempotency key -> order id
	tickets   map[string]*ticket.Ticket
	reviews   map[string]*review.Review
	users     map[string]*user.User
	favorites map[string]map[string]bool // userID -> productID set
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products:  make(map[string]*catalog.Product),
		orders:    make(map[string]*order.Order),
		orderKeys: make(map[string]string),
		tickets:   make(map[string]*ticket.Ticket),
		reviews:   make(map[string]*review.Review),
		users:     make(map[string]*user.User),
		favorites: make(map[string]map[string]bool),
	}
}

// Products

func (m *MemoryStore) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MemoryStore) ListProducts(ctx context.Context, activeOnly bool) ([]*catalog.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	products := make([]*catalog.Product, 0, len(m.products))
	for _, p := range m.products {
		if activeOnly && !p.IsActive {
			continue
		}
		cp := *p
		products = append(products, &cp)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	return products, nil
}

func (m *MemoryStore) InsertProduct(ctx context.Context, p *catalog.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *MemoryStore) UpdateProduct(ctx context.Context, p *catalog.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[p.ID]; !ok {
		return catalog.ErrProductNotFound
	}
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *MemoryStore) DeleteProduct(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[id]; !ok {
		return catalog.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *MemoryStore) DecrementStock(ctx context.Context, id string, quantity int) (*catalog.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	if p.Stock < quantity {
		return nil, &catalog.InsufficientStockError{
			ProductID: id,
			Requested: quantity,
			Available: p.Stock,
		}
	}
	p.Stock -= quantity
	p.UpdatedAt = time.Now()
	cp := *p
	return &cp, nil
}

func (m *MemoryStore) IncrementStock(ctx context.Context, id string, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[id]
	if !ok {
		return catalog.ErrProductNotFound
	}
	p.Stock += quantity
	p.UpdatedAt = time.Now()
	return nil
}

// Orders

func copyOrder(o *order.Order) *order.Order {
	cp := *o
	cp.Items = append([]order.Item(nil), o.Items...)
	return &cp
}

func (m *MemoryStore) GetOrder(ctx context.Context, id string) (*order.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	o, ok := m.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	return copyOrder(o), nil
}

func (m *MemoryStore) InsertOrder(ctx context.Context, o *order.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Key claim and insert happen under one lock so two retries with the
	// same key cannot both store an order.
	if o.IdempotencyKey != "" {
		if _, exists := m.orderKeys[o.IdempotencyKey]; exists {
			return order.ErrDuplicateIdempotencyKey
		}
		m.orderKeys[o.IdempotencyKey] = o.ID
	}
	m.orders[o.ID] = copyOrder(o)
	return nil
}

func (m *MemoryStore) ListOrders(ctx context.Context) ([]*order.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	orders := make([]*order.Order, 0, len(m.orders))
	for _, o := range m.orders {
		orders = append(orders, copyOrder(o))
	}
	sortOrders(orders)
	return orders, nil
}

func (m *MemoryStore) ListOrdersByUser(ctx context.Context, userID string) ([]*order.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var orders []*order.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			orders = append(orders, copyOrder(o))
		}
	}
	sortOrders(orders)
	return orders, nil
}

func sortOrders(orders []*order.Order) {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

func (m *MemoryStore) UpdateOrderStatus(ctx context.Context, id string, from, to order.Status, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[id]
	if !ok {
		return order.ErrOrderNotFound
	}
	if o.Status != from {
		return order.ErrStatusConflict
	}
	o.Status = to
	o.UpdatedAt = updatedAt
	return nil
}

func (m *MemoryStore) GetOrderByIdempotencyKey(ctx context.Context, key string) (*order.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.orderKeys[key]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	o, ok := m.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	return copyOrder(o), nil
}

// Tickets

func copyTicket(t *ticket.Ticket) *ticket.Ticket {
	cp := *t
	cp.Replies = append([]ticket.Reply(nil), t.Replies...)
	return &cp
}

func (m *MemoryStore) GetTicket(ctx context.Context, id string) (*ticket.Ticket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tickets[id]
	if !ok {
		return nil, ticket.ErrTicketNotFound
	}
	return copyTicket(t), nil
}

func (m *MemoryStore) InsertTicket(ctx context.Context, t *ticket.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tickets[t.ID] = copyTicket(t)
	return nil
}

func (m *MemoryStore) ListTickets(ctx context.Context) ([]*ticket.Ticket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tickets := make([]*ticket.Ticket, 0, len(m.tickets))
	for _, t := range m.tickets {
		tickets = append(tickets, copyTicket(t))
	}
	sortTickets(tickets)
	return tickets, nil
}

func (m *MemoryStore) ListTicketsByUser(ctx context.Context, userID string) ([]*ticket.Ticket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var tickets []*ticket.Ticket
	for _, t := range m.tickets {
		if t.UserID == userID {
			tickets = append(tickets, copyTicket(t))
		}
	}
	sortTickets(tickets)
	return tickets, nil
}

func sortTickets(tickets []*ticket.Ticket) {
	sort.Slice(tickets, func(i, j int) bool {
		return tickets[i].CreatedAt.After(tickets[j].CreatedAt)
	})
}

func (m *MemoryStore) UpdateTicket(ctx context.Context, t *ticket.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tickets[t.ID]; !ok {
		return ticket.ErrTicketNotFound
	}
	m.tickets[t.ID] = copyTicket(t)
	return nil
}

// Reviews

func (m *MemoryStore) InsertReview(ctx context.Context, r *review.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *r
	m.reviews[r.ID] = &cp
	return nil
}

func (m *MemoryStore) ListReviews(ctx context.Context, productID string) ([]*review.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var reviews []*review.Review
	for _, r := range m.reviews {
		if productID != "" && r.ProductID != productID {
			continue
		}
		cp := *r
		reviews = append(reviews, &cp)
	}
	sort.Slice(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
	return reviews, nil
}

func (m *MemoryStore) DeleteReview(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.reviews[id]; !ok {
		return review.ErrReviewNotFound
	}
	delete(m.reviews, id)
	return nil
}

// Users

func (m *MemoryStore) GetUser(ctx context.Context, id string) (*user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MemoryStore) GetUserByMobile(ctx context.Context, mobile string) (*user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Mobile == mobile {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (m *MemoryStore) InsertUser(ctx context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *MemoryStore) UpdateUser(ctx context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[u.ID]; !ok {
		return user.ErrUserNotFound
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

// Favorites

func (m *MemoryStore) ListFavorites(ctx context.Context, userID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	set := m.favorites[userID]
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *MemoryStore) AddFavorite(ctx context.Context, userID, productID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.favorites[userID] == nil {
		m.favorites[userID] = make(map[string]bool)
	}
	m.favorites[userID][productID] = true
	return nil
}

func (m *MemoryStore) RemoveFavorite(ctx context.Context, userID, productID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.favorites[userID], productID)
	return nil
}
