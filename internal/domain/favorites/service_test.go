package favorites_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/quickstore/internal/domain/favorites"
	"github.com/example/quickstore/internal/infrastructure/store"
)

func TestService_List_EmptyForNewUser(t *testing.T) {
	svc := favorites.NewService(store.NewMemoryStore())

	ids, err := svc.List(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestService_Toggle_AddThenRemove(t *testing.T) {
	svc := favorites.NewService(store.NewMemoryStore())
	ctx := context.Background()

	ids, err := svc.Toggle(ctx, "user-1", "prod-a")
	require.NoError(t, err)
	assert.Equal(t, []string{"prod-a"}, ids)

	ids, err = svc.Toggle(ctx, "user-1", "prod-b")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"prod-a", "prod-b"}, ids)

	ids, err = svc.Toggle(ctx, "user-1", "prod-a")
	require.NoError(t, err)
	assert.Equal(t, []string{"prod-b"}, ids)
}

func TestService_Toggle_IsolatedPerUser(t *testing.T) {
	svc := favorites.NewService(store.NewMemoryStore())
	ctx := context.Background()

	_, err := svc.Toggle(ctx, "user-1", "prod-a")
	require.NoError(t, err)

	other, err := svc.List(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, other)
}
