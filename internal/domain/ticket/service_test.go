package ticket_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/quickstore/internal/domain/ticket"
	"github.com/example/quickstore/internal/domain/validate"
	"github.com/example/quickstore/internal/infrastructure/store"
)

func newTestService() *ticket.Service {
	return ticket.NewService(store.NewMemoryStore())
}

func createTicket(t *testing.T, svc *ticket.Service, userID string) *ticket.Ticket {
	t.Helper()
	tk, err := svc.Create(context.Background(), ticket.CreateParams{
		UserID:  userID,
		Name:    "Pat",
		Email:   "pat@example.com",
		Subject: "Missing screws",
		OrderID: "ORD-123",
		Message: "The package arrived without the screw kit.",
	})
	require.NoError(t, err)
	return tk
}

// ============================================================
// Create
// ============================================================

func TestService_Create_Success(t *testing.T) {
	svc := newTestService()

	tk := createTicket(t, svc, "user-1")

	assert.True(t, strings.HasPrefix(tk.ID, "TIC-"))
	assert.Equal(t, ticket.StatusOpen, tk.Status)
	assert.Equal(t, "user-1", tk.UserID)
	assert.NotNil(t, tk.Replies)
	assert.Empty(t, tk.Replies)
	assert.False(t, tk.CreatedAt.IsZero())
}

func TestService_Create_AnonymousAllowed(t *testing.T) {
	svc := newTestService()

	tk, err := svc.Create(context.Background(), ticket.CreateParams{
		Email:   "guest@example.com",
		Subject: "Question",
		Message: "Do you ship to Alaska?",
	})

	require.NoError(t, err)
	assert.Empty(t, tk.UserID)
}

func TestService_Create_Validation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	tests := []struct {
		name   string
		params ticket.CreateParams
		field  string
	}{
		{"missing email", ticket.CreateParams{Subject: "s", Message: "m"}, "email"},
		{"missing subject", ticket.CreateParams{Email: "e@x.com", Message: "m"}, "subject"},
		{"missing message", ticket.CreateParams{Email: "e@x.com", Subject: "s"}, "message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.params)
			var vErr *validate.Error
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

// ============================================================
// AddReply
// ============================================================

func TestService_AddReply_StatusDerivation(t *testing.T) {
	tests := []struct {
		name     string
		from     ticket.Status
		sender   ticket.Sender
		expected ticket.Status
	}{
		{"admin reply on open moves to pending", ticket.StatusOpen, ticket.SenderAdmin, ticket.StatusPending},
		{"user reply on resolved reopens", ticket.StatusResolved, ticket.SenderUser, ticket.StatusOpen},
		{"user reply on open stays open", ticket.StatusOpen, ticket.SenderUser, ticket.StatusOpen},
		{"admin reply on pending stays pending", ticket.StatusPending, ticket.SenderAdmin, ticket.StatusPending},
		{"user reply on pending stays pending", ticket.StatusPending, ticket.SenderUser, ticket.StatusPending},
		{"admin reply on resolved stays resolved", ticket.StatusResolved, ticket.SenderAdmin, ticket.StatusResolved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService()
			tk := createTicket(t, svc, "user-1")
			if tt.from != ticket.StatusOpen {
				_, err := svc.SetStatus(context.Background(), tk.ID, tt.from)
				require.NoError(t, err)
			}

			updated, err := svc.AddReply(context.Background(), tk.ID, tt.sender, "Following up.")

			require.NoError(t, err)
			assert.Equal(t, tt.expected, updated.Status)
		})
	}
}

func TestService_AddReply_AppendsInOrder(t *testing.T) {
	svc := newTestService()
	tk := createTicket(t, svc, "user-1")
	ctx := context.Background()

	_, err := svc.AddReply(ctx, tk.ID, ticket.SenderAdmin, "We are checking with the warehouse.")
	require.NoError(t, err)
	updated, err := svc.AddReply(ctx, tk.ID, ticket.SenderUser, "Thanks, waiting.")
	require.NoError(t, err)

	require.Len(t, updated.Replies, 2)
	assert.Equal(t, ticket.SenderAdmin, updated.Replies[0].Sender)
	assert.Equal(t, "We are checking with the warehouse.", updated.Replies[0].Message)
	assert.Equal(t, ticket.SenderUser, updated.Replies[1].Sender)
	assert.NotEmpty(t, updated.Replies[0].ID)
	assert.False(t, updated.Replies[0].CreatedAt.IsZero())
}

func TestService_AddReply_ClosedRejected(t *testing.T) {
	svc := newTestService()
	tk := createTicket(t, svc, "user-1")
	ctx := context.Background()

	_, err := svc.SetStatus(ctx, tk.ID, ticket.StatusClosed)
	require.NoError(t, err)

	_, err = svc.AddReply(ctx, tk.ID, ticket.SenderUser, "Hello?")
	assert.ErrorIs(t, err, ticket.ErrTicketClosed)
}

func TestService_AddReply_Errors(t *testing.T) {
	svc := newTestService()
	tk := createTicket(t, svc, "user-1")
	ctx := context.Background()

	_, err := svc.AddReply(ctx, "TIC-missing", ticket.SenderUser, "hi")
	assert.ErrorIs(t, err, ticket.ErrTicketNotFound)

	_, err = svc.AddReply(ctx, tk.ID, ticket.Sender("Bot"), "hi")
	assert.ErrorIs(t, err, ticket.ErrUnknownSender)

	_, err = svc.AddReply(ctx, tk.ID, ticket.SenderUser, "")
	var vErr *validate.Error
	assert.ErrorAs(t, err, &vErr)
}

// ============================================================
// SetStatus
// ============================================================

func TestService_SetStatus_AnyToAny(t *testing.T) {
	svc := newTestService()
	tk := createTicket(t, svc, "user-1")
	ctx := context.Background()

	// Admin override moves freely, including out of Closed.
	for _, status := range []ticket.Status{
		ticket.StatusClosed,
		ticket.StatusOpen,
		ticket.StatusResolved,
		ticket.StatusPending,
	} {
		updated, err := svc.SetStatus(ctx, tk.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
	}
}

func TestService_SetStatus_Unknown(t *testing.T) {
	svc := newTestService()
	tk := createTicket(t, svc, "user-1")

	_, err := svc.SetStatus(context.Background(), tk.ID, ticket.Status("Archived"))
	assert.ErrorIs(t, err, ticket.ErrUnknownStatus)
}

// ============================================================
// Listing
// ============================================================

func TestService_ListByUser(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	createTicket(t, svc, "user-1")
	createTicket(t, svc, "user-1")
	createTicket(t, svc, "user-2")

	mine, err := svc.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
