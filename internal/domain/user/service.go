package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/quickstore/internal/auth"
	"github.com/example/quickstore/internal/domain/order"
	"github.com/example/quickstore/internal/domain/validate"
	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// defaultPassword backs accounts auto-registered without one, matching the
// storefront's lenient mobile-first signup.
const defaultPassword = "default123"

type User struct {
	ID           string         `json:"id"`
	Mobile       string         `json:"mobile"`
	Email        string         `json:"email,omitempty"`
	Name         string         `json:"name"`
	Role         Role           `json:"role"`
	PasswordHash string         `json:"-"`
	Address      *order.Address `json:"address,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Store is the persistence collaborator for user accounts.
type Store interface {
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByMobile(ctx context.Context, mobile string) (*User, error)
	InsertUser(ctx context.Context, u *User) error
	UpdateUser(ctx context.Context, u *User) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Login looks the account up by mobile number and checks the password.
// Unknown mobiles are auto-registered as customers, keeping the original
// one-step signup flow.
func (s *Service) Login(ctx context.Context, mobile, password, email string) (*User, error) {
	if err := validate.NonEmpty("mobile", mobile); err != nil {
		return nil, err
	}

	existing, err := s.store.GetUserByMobile(ctx, mobile)
	if err == nil {
		if !auth.CheckPassword(password, existing.PasswordHash) {
			return nil, ErrInvalidCredentials
		}
		return existing, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	if password == "" {
		password = defaultPassword
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	last := mobile
	if len(last) > 4 {
		last = last[len(last)-4:]
	}
	u := &User{
		ID:           uuid.New().String(),
		Mobile:       mobile,
		Email:        email,
		Name:         fmt.Sprintf("User %s", last),
		Role:         RoleCustomer,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := s.store.InsertUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.store.GetUser(ctx, id)
}

type ProfileUpdate struct {
	Name    string
	Email   string
	Address *order.Address
}

// UpdateProfile edits the mutable profile fields. Existing orders keep their
// denormalized contact snapshots.
func (s *Service) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*User, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Name != "" {
		u.Name = update.Name
	}
	if update.Email != "" {
		u.Email = update.Email
	}
	if update.Address != nil {
		u.Address = update.Address
	}

	if err := s.store.UpdateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// EnsureAdmin seeds the administrator account on startup if it does not
// exist yet. Safe to call on every boot.
func (s *Service) EnsureAdmin(ctx context.Context, mobile, email, password string) (*User, error) {
	existing, err := s.store.GetUserByMobile(ctx, mobile)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &User{
		ID:           uuid.New().String(),
		Mobile:       mobile,
		Email:        email,
		Name:         "Admin User",
		Role:         RoleAdmin,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := s.store.InsertUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
