package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/example/quickstore/internal/api/middleware"
	"github.com/example/quickstore/internal/auth"
	"github.com/example/quickstore/internal/domain/order"
	"github.com/example/quickstore/internal/domain/user"
)

// AuthHandlers handles login, logout and profile requests.
type AuthHandlers struct {
	users *user.Service
	jwt   *auth.JWTService
}

func NewAuthHandlers(users *user.Service, jwt *auth.JWTService) *AuthHandlers {
	return &AuthHandlers{users: users, jwt: jwt}
}

type LoginRequest struct {
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
}

type AuthResponse struct {
	User        *user.User `json:"user"`
	AccessToken string     `json:"access_token"`
	ExpiresAt   time.Time  `json:"expires_at"`
}

// Login authenticates by mobile number. Unknown mobiles are auto-registered
// as customers by the user service.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.users.Login(r.Context(), req.Mobile, req.Password, req.Email)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	token, expiry, err := h.jwt.GenerateToken(u.ID, u.Mobile, string(u.Role))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		Expires:  expiry,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})

	respondJSON(w, http.StatusOK, AuthResponse{
		User:        u,
		AccessToken: token,
		ExpiresAt:   expiry,
	})
}

func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

// Me returns the authenticated user's profile.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	u, err := h.users.Get(r.Context(), claims.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, u)
}

type ProfileRequest struct {
	Name    string         `json:"name"`
	Email   string         `json:"email"`
	Address *order.Address `json:"address,omitempty"`
}

// UpdateProfile edits name, email and saved address. Past orders keep their
// contact snapshots.
func (h *AuthHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.users.UpdateProfile(r.Context(), claims.UserID, user.ProfileUpdate{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, u)
}
