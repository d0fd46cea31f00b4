package ticket

import (
	"context"
	"time"

	"github.com/example/quickstore/internal/domain/validate"
	"github.com/example/quickstore/internal/ident"
	"github.com/google/uuid"
)

// Store is the persistence collaborator for tickets. UpdateTicket replaces
// replies and status in a single write so a reply append is never half
// applied.
type Store interface {
	GetTicket(ctx context.Context, id string) (*Ticket, error)
	InsertTicket(ctx context.Context, t *Ticket) error
	ListTickets(ctx context.Context) ([]*Ticket, error)
	ListTicketsByUser(ctx context.Context, userID string) ([]*Ticket, error)
	UpdateTicket(ctx context.Context, t *Ticket) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

type CreateParams struct {
	UserID  string
	Name    string
	Email   string
	Subject string
	OrderID string
	Message string
}

// Create opens a new ticket. Anonymous requesters are allowed as long as an
// email is given.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Ticket, error) {
	if err := validate.NonEmpty("email", params.Email); err != nil {
		return nil, err
	}
	if err := validate.NonEmpty("subject", params.Subject); err != nil {
		return nil, err
	}
	if err := validate.NonEmpty("message", params.Message); err != nil {
		return nil, err
	}

	now := time.Now()
	t := &Ticket{
		ID:        ident.New("TIC"),
		UserID:    params.UserID,
		Name:      params.Name,
		Email:     params.Email,
		Subject:   params.Subject,
		OrderID:   params.OrderID,
		Message:   params.Message,
		Status:    StatusOpen,
		Replies:   []Reply{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.InsertTicket(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// AddReply appends to the ticket thread and derives the status transition:
// an admin reply on an Open ticket moves it to Pending, a user reply on a
// Resolved ticket reopens it, anything else leaves the status alone.
// Closed tickets reject replies.
func (s *Service) AddReply(ctx context.Context, ticketID string, sender Sender, message string) (*Ticket, error) {
	if !sender.Valid() {
		return nil, ErrUnknownSender
	}
	if err := validate.NonEmpty("message", message); err != nil {
		return nil, err
	}

	t, err := s.store.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if t.Status == StatusClosed {
		return nil, ErrTicketClosed
	}

	now := time.Now()
	t.Replies = append(t.Replies, Reply{
		ID:        uuid.New().String(),
		Sender:    sender,
		Message:   message,
		CreatedAt: now,
	})

	switch {
	case sender == SenderAdmin && t.Status == StatusOpen:
		t.Status = StatusPending
	case sender == SenderUser && t.Status == StatusResolved:
		t.Status = StatusOpen
	}
	t.UpdatedAt = now

	if err := s.store.UpdateTicket(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// SetStatus is the unconditional admin override. Any status may follow any
// other: ticket status is workflow, not a safety invariant, so no graph is
// enforced here. Closing a ticket blocks further replies.
func (s *Service) SetStatus(ctx context.Context, ticketID string, status Status) (*Ticket, error) {
	if !status.Valid() {
		return nil, ErrUnknownStatus
	}

	t, err := s.store.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	t.Status = status
	t.UpdatedAt = time.Now()
	if err := s.store.UpdateTicket(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) Get(ctx context.Context, ticketID string) (*Ticket, error) {
	return s.store.GetTicket(ctx, ticketID)
}

func (s *Service) List(ctx context.Context) ([]*Ticket, error) {
	return s.store.ListTickets(ctx)
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]*Ticket, error) {
	return s.store.ListTicketsByUser(ctx, userID)
}
