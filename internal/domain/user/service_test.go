package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/quickstore/internal/domain/order"
	"github.com/example/quickstore/internal/domain/user"
	"github.com/example/quickstore/internal/domain/validate"
	"github.com/example/quickstore/internal/infrastructure/store"
)

func newTestService() *user.Service {
	return user.NewService(store.NewMemoryStore())
}

func TestService_Login_AutoRegistersUnknownMobile(t *testing.T) {
	svc := newTestService()

	u, err := svc.Login(context.Background(), "5559876543", "secret99", "new@example.com")

	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "5559876543", u.Mobile)
	assert.Equal(t, "new@example.com", u.Email)
	assert.Equal(t, "User 6543", u.Name)
	assert.Equal(t, user.RoleCustomer, u.Role)
}

func TestService_Login_ExistingAccount(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	first, err := svc.Login(ctx, "5559876543", "secret99", "")
	require.NoError(t, err)

	again, err := svc.Login(ctx, "5559876543", "secret99", "")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	_, err = svc.Login(ctx, "5559876543", "wrong-password", "")
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestService_Login_EmptyPasswordUsesDefault(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	// Password-less signup falls back to the default password, so the same
	// password-less login works again.
	_, err := svc.Login(ctx, "5550001111", "", "")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "5550001111", "default123", "")
	assert.NoError(t, err)
}

func TestService_Login_EmptyMobile(t *testing.T) {
	svc := newTestService()

	_, err := svc.Login(context.Background(), "", "secret99", "")
	var vErr *validate.Error
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "mobile", vErr.Field)
}

func TestService_Get_NotFound(t *testing.T) {
	svc := newTestService()

	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestService_UpdateProfile(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	u, err := svc.Login(ctx, "5559876543", "secret99", "")
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, u.ID, user.ProfileUpdate{
		Name:  "Sam Rivera",
		Email: "sam@example.com",
		Address: &order.Address{
			Street:  "1 Elm St",
			City:    "Springfield",
			State:   "IL",
			Pincode: "62701",
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "Sam Rivera", updated.Name)
	assert.Equal(t, "sam@example.com", updated.Email)
	require.NotNil(t, updated.Address)
	assert.Equal(t, "Springfield", updated.Address.City)
	// Identity fields never change through profile edits.
	assert.Equal(t, "5559876543", updated.Mobile)
	assert.Equal(t, user.RoleCustomer, updated.Role)
}

func TestService_UpdateProfile_EmptyFieldsKept(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	u, err := svc.Login(ctx, "5559876543", "secret99", "orig@example.com")
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, u.ID, user.ProfileUpdate{Name: "Sam"})

	require.NoError(t, err)
	assert.Equal(t, "Sam", updated.Name)
	assert.Equal(t, "orig@example.com", updated.Email)
	assert.Nil(t, updated.Address)
}

func TestService_EnsureAdmin_Idempotent(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	admin, err := svc.EnsureAdmin(ctx, "9999999999", "admin@example.com", "admin123")
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, admin.Role)
	assert.Equal(t, "Admin User", admin.Name)

	again, err := svc.EnsureAdmin(ctx, "9999999999", "admin@example.com", "admin123")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, again.ID)

	logged, err := svc.Login(ctx, "9999999999", "admin123", "")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, logged.ID)
}
