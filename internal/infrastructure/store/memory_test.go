package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/quickstore/internal/domain/catalog"
	"github.com/example/quickstore/internal/domain/order"
)

func seedProduct(t *testing.T, m *MemoryStore, stock int) *catalog.Product {
	t.Helper()
	p := &catalog.Product{
		ID:       "prod-1",
		Name:     "Widget",
		Price:    100,
		Category: catalog.CategoryUtility,
		Stock:    stock,
		IsActive: true,
	}
	require.NoError(t, m.InsertProduct(context.Background(), p))
	return p
}

func seedOrder(t *testing.T, m *MemoryStore, status order.Status) *order.Order {
	t.Helper()
	o := &order.Order{
		ID:     "ORD-1",
		UserID: "user-1",
		Status: status,
		Total:  100,
	}
	require.NoError(t, m.InsertOrder(context.Background(), o))
	return o
}

func TestMemoryStore_DecrementStock_Conditional(t *testing.T) {
	m := NewMemoryStore()
	seedProduct(t, m, 3)
	ctx := context.Background()

	updated, err := m.DecrementStock(ctx, "prod-1", 2)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Stock)

	_, err = m.DecrementStock(ctx, "prod-1", 2)
	var stockErr *catalog.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "prod-1", stockErr.ProductID)
	assert.Equal(t, 2, stockErr.Requested)
	assert.Equal(t, 1, stockErr.Available)

	// Failed decrement leaves the stock alone.
	p, err := m.GetProduct(ctx, "prod-1")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Stock)

	_, err = m.DecrementStock(ctx, "missing", 1)
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
}

func TestMemoryStore_UpdateOrderStatus_Conditional(t *testing.T) {
	m := NewMemoryStore()
	seedOrder(t, m, order.StatusProcessing)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, m.UpdateOrderStatus(ctx, "ORD-1", order.StatusProcessing, order.StatusShipped, now))

	o, err := m.GetOrder(ctx, "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, order.StatusShipped, o.Status)

	// Stale expected status loses the conditional write.
	err = m.UpdateOrderStatus(ctx, "ORD-1", order.StatusProcessing, order.StatusCancelled, now)
	assert.ErrorIs(t, err, order.ErrStatusConflict)

	err = m.UpdateOrderStatus(ctx, "missing", order.StatusProcessing, order.StatusShipped, now)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestMemoryStore_InsertOrder_DuplicateIdempotencyKey(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	first := &order.Order{ID: "ORD-1", UserID: "user-1", Status: order.StatusProcessing, IdempotencyKey: "key-1"}
	require.NoError(t, m.InsertOrder(ctx, first))

	// Second insert with the same key loses, and the losing order is not stored.
	second := &order.Order{ID: "ORD-2", UserID: "user-1", Status: order.StatusProcessing, IdempotencyKey: "key-1"}
	assert.ErrorIs(t, m.InsertOrder(ctx, second), order.ErrDuplicateIdempotencyKey)

	_, err := m.GetOrder(ctx, "ORD-2")
	assert.ErrorIs(t, err, order.ErrOrderNotFound)

	kept, err := m.GetOrderByIdempotencyKey(ctx, "key-1")
	require.NoError(t, err)
	assert.Equal(t, "ORD-1", kept.ID)
}

func TestMemoryStore_GetOrderByIdempotencyKey(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	o := &order.Order{ID: "ORD-1", UserID: "user-1", Status: order.StatusProcessing, IdempotencyKey: "key-1"}
	require.NoError(t, m.InsertOrder(ctx, o))

	found, err := m.GetOrderByIdempotencyKey(ctx, "key-1")
	require.NoError(t, err)
	assert.Equal(t, "ORD-1", found.ID)

	_, err = m.GetOrderByIdempotencyKey(ctx, "unused")
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	m := NewMemoryStore()
	seedProduct(t, m, 5)
	ctx := context.Background()

	p, err := m.GetProduct(ctx, "prod-1")
	require.NoError(t, err)
	p.Stock = 999

	fresh, err := m.GetProduct(ctx, "prod-1")
	require.NoError(t, err)
	assert.Equal(t, 5, fresh.Stock)
}
