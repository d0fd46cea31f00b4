package order_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/quickstore/internal/domain/catalog"
	"github.com/example/quickstore/internal/domain/order"
	"github.com/example/quickstore/internal/infrastructure/store"
)

// fakePublisher records every published event.
type fakePublisher struct {
	mu     sync.Mutex
	events []order.Event
}

func (p *fakePublisher) Publish(ctx context.Context, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event.(order.Event))
	return nil
}

func (p *fakePublisher) byType(eventType string) []order.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []order.Event
	for _, e := range p.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

func newTestServices(t *testing.T, restockOnCancel bool) (*catalog.Service, *order.Service, *fakePublisher) {
	t.Helper()
	mem := store.NewMemoryStore()
	cat := catalog.NewService(mem)
	pub := &fakePublisher{}
	return cat, order.NewService(cat, mem, pub, restockOnCancel), pub
}

func seedProduct(t *testing.T, cat *catalog.Service, name string, price, stock int) *catalog.Product {
	t.Helper()
	p, err := cat.Create(context.Background(), name, "", price, catalog.CategoryElectronics, "", stock)
	require.NoError(t, err)
	return p
}

func checkoutParams(userID string, items ...order.LineInput) order.CreateParams {
	return order.CreateParams{
		UserID: userID,
		Contact: order.ContactInfo{
			Name:   "Asha Rao",
			Mobile: "9876543210",
			Email:  "asha@example.com",
		},
		Items: items,
		ShippingAddress: order.Address{
			Street:  "12 Lake View Road",
			City:    "Pune",
			State:   "Maharashtra",
			Pincode: "411001",
		},
		PaymentMethod: order.PaymentUPI,
	}
}

// ============================================
// Create Tests
// ============================================

func TestService_Create_ComputesTotalAndReservesStock(t *testing.T) {
	cat, orders, pub := newTestServices(t, false)
	ctx := context.Background()

	p := seedProduct(t, cat, "Desk Lamp", 2000, 5)

	o, err := orders.Create(ctx, checkoutParams("user-1", order.LineInput{ProductID: p.ID, Quantity: 3}))

	require.NoError(t, err)
	assert.Equal(t, 6999, o.Total, "6000 subtotal + 999 shipping")
	assert.Equal(t, order.StatusProcessing, o.Status)
	assert.Contains(t, o.ID, "ORD-")
	require.Len(t, o.Items, 1)
	assert.Equal(t, "Desk Lamp", o.Items[0].Name)
	assert.Equal(t, 2000, o.Items[0].Price)

	fresh, err := cat.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.Stock)

	placed := pub.byType(order.EventOrderPlaced)
	require.Len(t, placed, 1)
	assert.Equal(t, o.ID, placed[0].OrderID)
}

func TestService_Create_FreeShippingAboveThreshold(t *testing.T) {
	cat, orders, _ := newTestServices(t, false)
	ctx := context.Background()

	p := seedProduct(t, cat, "Blender", 10001, 10)

	o, err := orders.Create(ctx, checkoutParams("user-1", order.LineInput{ProductID: p.ID, Quantity: 1}))

	require.NoError(t, err)
	assert.Equal(t, 10001, o.Total, "no shipping fee above the threshold")
}

func TestService_Create_ShippingChargedAtExactThreshold(t *testing.T) {
	cat, orders, _ := newTestServices(t, false)
	ctx := context.Background()

	p := seedProduct(t, cat, "Kettle", 10000, 10)

	o, err := orders.Create(ctx, checkoutParams("user-1", order.LineInput{ProductID: p.ID, Quantity: 1}))

	require.NoError(t, err)
	assert.Equal(t, 10999, o.Total, "the fee applies at exactly the threshold")
}

func TestService_Create_EmptyOrder(t *testing.T) {
	_, orders, _ := newTestServices(t, false)

	o, err := orders.Create(context.Background(), checkoutParams("user-1"))

	assert.ErrorIs(t, err, order.ErrEmptyOrder)
	assert.Nil(t, o)
}

func TestService_Create_UnknownProduct(t *testing.T) {
	_, orders, _ := newTestServices(t, false)

	o, err := orders.Create(context.Background(),
		checkoutParams("user-1", order.LineInput{ProductID: "missing", Quantity: 1}))

	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	assert.Nil(t, o)
}

func TestService_Create_InactiveProduct(t *testing.T) {
	cat, orders, _ := newTestServices(t, false)
	ctx := context.Background()

	p := seedProduct(t, cat, "Old Toaster", 1500, 5)
	p.IsActive = false
	_, err := cat.Update(ctx, p)
	require.NoError(t, err)

	o, err := orders.Create(ctx, checkoutParams("user-1", order.LineInput{ProductID: p.ID, Quantity: 1}))

	assert.ErrorIs(t, err, order.ErrProductInactive)
	assert.Nil(t, o)
}

func TestService_Create_InsufficientStock(t *testing.T) {
	cat, orders, _ := newTestServices(t, false)
	ctx := context.Background()

	p := seedProduct(t, cat, "Headphones", 3000, 2)

	o, err := orders.Create(ctx, checkoutParams("user-1", order.LineInput{ProductID: p.ID, Quantity: 3}))

	require.Nil(t, o)
	var stockErr *catalog.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, p.ID, stockErr.ProductID)
	assert.Equal(t, 3, stockErr.Requested)
	assert.Equal(t, 2, stockErr.Available)

	// Nothing was reserved.
	fresh, err := cat.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.Stock)
}

func TestService_Create_InvalidPayment(t *testing.T) {
	cat, orders, _ := newTestServices(t, false)
	p := seedProduct(t, cat, "Mug", 500, 5)

	params := checkoutParams("user-1", order.LineInput{ProductID: p.ID, Quantity: 1})
	params.PaymentMethod = "Cheque"

	_, err := orders.Create(context.Background(), params)
	assert.ErrorIs(t, err, order.ErrInvalidPayment)
}

func TestService_Create_OnlyOneWinnerForLastUnit(t *testing.T) {
	cat, orders, _ := newTestServices(t, false)
	ctx := context.Background()

	p := seedProduct(t, cat, "Limited Drop", 5000, 1)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = orders.Create(ctx,
				checkoutParams("user-1", order.LineInput{ProductID: p.ID, Quantity: 1}))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			var stockErr *catalog.InsufficientStockError
			assert.ErrorAs(t, err, &stockErr)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one checkout wins the last unit")

	fresh, err := cat.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, fresh.Stock)
}

// hookedStore lets a test interleave a competing write right before a
// specific decrement commits, simulating a lost race for the last units.
type hookedStore struct {
	catalog.Store
	beforeDecrement func(productID string)
}

func (s *hookedStore) DecrementStock(ctx context.Context, id string, quantity int) (*catalog.Product, error) {
	if s.beforeDecrement != nil {
		s.beforeDecrement(id)
	}
	return s.Store.DecrementStock(ctx, id, quantity)
}

func TestService_Create_CompensatesEarlierLinesOnFailure(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	hooked := &hookedStore{Store: mem}
	cat := catalog.NewService(hooked)
	orders := order.NewService(cat, mem, nil, false)

	p1 := seedProduct(t, cat, "Notebook", 300, 10)
	p2 := seedProduct(t, cat, "Pen Set", 700, 5)

	// Drain p2 after pre-validation has passed but before its decrement.
	drained := false
	hooked.beforeDecrement = func(productID string) {
		if productID == p2.ID && !drained {
			drained = true
			_, err := mem.DecrementStock(ctx, p2.ID, 5)
			require.NoError(t, err)
		}
	}

	o, err := orders.Create(ctx, checkoutParams("user-1",
		order.LineInput{ProductID: p1.ID, Quantity: 2},
		order.LineInput{ProductID: p2.ID, Quantity: 1},
	))

	require.Error(t, err)
	assert.Nil(t, o)
	var stockErr *catalog.InsufficientStockError
	assert.ErrorAs(t, err, &stockErr)

	// p1's decrement must have been rolled back.
	fresh, err := cat.Get(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, fresh.Stock)
}

func TestService_Create_IdempotencyKeyReturnsFirstOrder(t *testing.T) {
	cat, orders, _ := newTestServices(t, false)
	ctx := context.Background()

	p := seedProduct(t, cat, "Speaker", 4000, 10)

	params := checkoutParams("user-1", order.LineInput{ProductID: p.ID, Quantity: 1})
	params.IdempotencyKey = "checkout-abc"

	first, err := orders.Create(ctx, params)
	require.NoError(t, err)

	second, err := orders.Create(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	// The retry must not reserve stock again.
	fresh, err := cat.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, fresh.Stock)
}

// insertHookStore fires a hook right before the first InsertOrder, opening
// the window between the idempotency lookup and the insert.
type insertHookStore struct {
	order.Store
	beforeInsert func()
}

func (s *insertHookStore) InsertOrder(ctx context.Context, o *order.Order) error {
	if s.beforeInsert != nil {
		hook := s.beforeInsert
		s.beforeInsert = nil
		hook()
	}
	return s.Store.InsertOrder(ctx, o)
}

func TestService_Create_IdempotencyKeyRaceDecrementsOnce(t *testing.T) {
	mem := store.NewMemoryStore()
	cat := catalog.NewService(mem)
	hooked := &insertHookStore{Store: mem}
	orders := order.NewService(cat, hooked, nil, false)
	rivalOrders := order.NewService(cat, mem, nil, false)
	ctx := context.Background()

	p := seedProduct(t, cat, "Speaker", 4000, 10)

	params := checkoutParams("user-1", order.LineInput{ProductID: p.ID, Quantity: 1})
	params.IdempotencyKey = "checkout-abc"

	// A rival retry with the same key sneaks in after our lookup found
	// nothing but before our insert.
	var rival *order.Order
	hooked.beforeInsert = func() {
		var err error
		rival, err = rivalOrders.Create(ctx, params)
		require.NoError(t, err)
	}

	o, err := orders.Create(ctx, params)
	require.NoError(t, err)
	require.NotNil(t, rival)
	assert.Equal(t, rival.ID, o.ID, "the losing insert must surface the winning order")

	// One logical checkout, one decrement: the loser's reservation rolls back.
	fresh, err := cat.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, fresh.Stock)

	all, err := orders.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

// ============================================
// UpdateStatus Tests
// ============================================

func placeOrder(t *testing.T, cat *catalog.Service, orders *order.Service, userID string) *order.Order {
	t.Helper()
	p := seedProduct(t, cat, "Fixture", 1000, 10)
	o, err := orders.Create(context.Background(),
		checkoutParams(userID, order.LineInput{ProductID: p.ID, Quantity: 2}))
	require.NoError(t, err)
	return o
}

func TestService_UpdateStatus_HappyPath(t *testing.T) {
	cat, orders, pub := newTestServices(t, false)
	ctx := context.Background()

	o := placeOrder(t, cat, orders, "user-1")

	shipped, err := orders.UpdateStatus(ctx, o.ID, order.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, order.StatusShipped, shipped.Status)

	delivered, err := orders.UpdateStatus(ctx, o.ID, order.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, order.StatusDelivered, delivered.Status)

	changes := pub.byType(order.EventOrderStatusChanged)
	assert.Len(t, changes, 2)
}

func TestService_UpdateStatus_InvalidTransitions(t *testing.T) {
	tests := []struct {
		name string
		path []order.Status
		to   order.Status
	}{
		{"backwards from shipped", []order.Status{order.StatusShipped}, order.StatusProcessing},
		{"skip shipped", nil, order.StatusDelivered},
		{"repeat current", nil, order.StatusProcessing},
		{"out of delivered", []order.Status{order.StatusShipped, order.StatusDelivered}, order.StatusCancelled},
		{"out of cancelled", []order.Status{order.StatusCancelled}, order.StatusShipped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, orders, _ := newTestServices(t, false)
			ctx := context.Background()
			o := placeOrder(t, cat, orders, "user-1")

			for _, s := range tt.path {
				_, err := orders.UpdateStatus(ctx, o.ID, s)
				require.NoError(t, err)
			}

			updated, err := orders.UpdateStatus(ctx, o.ID, tt.to)
			assert.Nil(t, updated)
			var transitionErr *order.InvalidTransitionError
			require.ErrorAs(t, err, &transitionErr)
			assert.Equal(t, tt.to, transitionErr.To)
		})
	}
}

func TestService_UpdateStatus_UnknownStatus(t *testing.T) {
	cat, orders, _ := newTestServices(t, false)
	o := placeOrder(t, cat, orders, "user-1")

	_, err := orders.UpdateStatus(context.Background(), o.ID, "Lost")
	assert.ErrorIs(t, err, order.ErrUnknownStatus)
}

func TestService_UpdateStatus_NotFound(t *testing.T) {
	_, orders, _ := newTestServices(t, false)

	_, err := orders.UpdateStatus(context.Background(), "ORD-NOPE", order.StatusShipped)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestService_UpdateStatus_CancelWithoutRestock(t *testing.T) {
	cat, orders, _ := newTestServices(t, false)
	ctx := context.Background()

	p := seedProduct(t, cat, "Chair", 8000, 10)
	o, err := orders.Create(ctx, checkoutParams("user-1", order.LineInput{ProductID: p.ID, Quantity: 4}))
	require.NoError(t, err)

	_, err = orders.UpdateStatus(ctx, o.ID, order.StatusCancelled)
	require.NoError(t, err)

	fresh, err := cat.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, fresh.Stock, "cancellation leaves stock alone by default")
}

func TestService_UpdateStatus_CancelWithRestock(t *testing.T) {
	cat, orders, _ := newTestServices(t, true)
	ctx := context.Background()

	p := seedProduct(t, cat, "Chair", 8000, 10)
	o, err := orders.Create(ctx, checkoutParams("user-1", order.LineInput{ProductID: p.ID, Quantity: 4}))
	require.NoError(t, err)

	_, err = orders.UpdateStatus(ctx, o.ID, order.StatusCancelled)
	require.NoError(t, err)

	fresh, err := cat.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, fresh.Stock)
}

// ============================================
// Query Tests
// ============================================

func TestService_HasDeliveredProduct(t *testing.T) {
	cat, orders, _ := newTestServices(t, false)
	ctx := context.Background()

	p := seedProduct(t, cat, "Camera", 9000, 10)
	o, err := orders.Create(ctx, checkoutParams("user-1", order.LineInput{ProductID: p.ID, Quantity: 1}))
	require.NoError(t, err)

	has, err := orders.HasDeliveredProduct(ctx, "user-1", p.ID)
	require.NoError(t, err)
	assert.False(t, has, "Processing orders do not count")

	_, err = orders.UpdateStatus(ctx, o.ID, order.StatusShipped)
	require.NoError(t, err)
	_, err = orders.UpdateStatus(ctx, o.ID, order.StatusDelivered)
	require.NoError(t, err)

	has, err = orders.HasDeliveredProduct(ctx, "user-1", p.ID)
	require.NoError(t, err)
	assert.True(t, has)

	has, err = orders.HasDeliveredProduct(ctx, "someone-else", p.ID)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestService_ListByUser(t *testing.T) {
	cat, orders, _ := newTestServices(t, false)
	ctx := context.Background()

	placeOrder(t, cat, orders, "user-1")
	placeOrder(t, cat, orders, "user-1")
	placeOrder(t, cat, orders, "user-2")

	mine, err := orders.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	all, err := orders.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
