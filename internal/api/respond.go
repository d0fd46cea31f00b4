package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/example/quickstore/internal/auth"
	"github.com/example/quickstore/internal/domain/catalog"
	"github.com/example/quickstore/internal/domain/order"
	"github.com/example/quickstore/internal/domain/review"
	"github.com/example/quickstore/internal/domain/ticket"
	"github.com/example/quickstore/internal/domain/user"
	"github.com/example/quickstore/internal/domain/validate"
)

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// writeDomainError maps domain errors to HTTP status codes. Typed errors
// carry extra fields so the storefront can render a useful message.
func writeDomainError(w http.ResponseWriter, err error) {
	var stockErr *catalog.InsufficientStockError
	if errors.As(err, &stockErr) {
		respondJSON(w, http.StatusConflict, map[string]any{
			"error":      stockErr.Error(),
			"product_id": stockErr.ProductID,
			"requested":  stockErr.Requested,
			"available":  stockErr.Available,
		})
		return
	}

	var transitionErr *order.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		respondJSON(w, http.StatusConflict, map[string]any{
			"error": transitionErr.Error(),
			"from":  transitionErr.From,
			"to":    transitionErr.To,
		})
		return
	}

	var validationErr *validate.Error
	if errors.As(err, &validationErr) {
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"error": validationErr.Error(),
			"field": validationErr.Field,
		})
		return
	}

	switch {
	case errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, ticket.ErrTicketNotFound),
		errors.Is(err, review.ErrReviewNotFound),
		errors.Is(err, user.ErrUserNotFound):
		respondError(w, http.StatusNotFound, err.Error())

	case errors.Is(err, ticket.ErrTicketClosed):
		respondError(w, http.StatusConflict, err.Error())

	case errors.Is(err, user.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, err.Error())

	case errors.Is(err, order.ErrEmptyOrder),
		errors.Is(err, order.ErrProductInactive),
		errors.Is(err, order.ErrInvalidPayment),
		errors.Is(err, order.ErrUnknownStatus),
		errors.Is(err, ticket.ErrUnknownStatus),
		errors.Is(err, ticket.ErrUnknownSender),
		errors.Is(err, catalog.ErrInvalidName),
		errors.Is(err, catalog.ErrInvalidPrice),
		errors.Is(err, catalog.ErrInvalidStock),
		errors.Is(err, catalog.ErrInvalidCategory),
		errors.Is(err, catalog.ErrInvalidQuantity),
		errors.Is(err, auth.ErrPasswordTooShort):
		respondError(w, http.StatusBadRequest, err.Error())

	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
