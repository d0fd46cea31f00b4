package ticket

import (
	"errors"
	"time"
)

type Status string

const (
	StatusOpen     Status = "Open"
	StatusPending  Status = "Pending"
	StatusResolved Status = "Resolved"
	StatusClosed   Status = "Closed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusPending, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// Sender tags who wrote a reply; replies from each side drive different
// status transitions.
type Sender string

const (
	SenderUser  Sender = "User"
	SenderAdmin Sender = "Admin"
)

func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderAdmin
}

var (
	ErrTicketNotFound = errors.New("ticket not found")
	ErrTicketClosed   = errors.New("ticket is closed")
	ErrUnknownStatus  = errors.New("unknown ticket status")
	ErrUnknownSender  = errors.New("unknown reply sender")
)

// Reply is immutable once appended; the slice order is the chronological
// order.
type Reply struct {
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Ticket is a support request with an append-only reply thread. OrderID is
// free-text context supplied by the customer, not an enforced reference.
type Ticket struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	OrderID   string    `json:"order_id,omitempty"`
	Message   string    `json:"message"`
	Status    Status    `json:"status"`
	Replies   []Reply   `json:"replies"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
