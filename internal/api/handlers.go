package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/example/quickstore/internal/api/middleware"
	"github.com/example/quickstore/internal/assistant"
	"github.com/example/quickstore/internal/domain/catalog"
	"github.com/example/quickstore/internal/domain/favorites"
	"github.com/example/quickstore/internal/domain/order"
	"github.com/example/quickstore/internal/domain/review"
	"github.com/example/quickstore/internal/domain/stats"
	"github.com/example/quickstore/internal/domain/ticket"
)

type Handlers struct {
	catalog   *catalog.Service
	orders    *order.Service
	tickets   *ticket.Service
	reviews   *review.Service
	favorites *favorites.Service
	stats     *stats.Service
	assistant *assistant.Gateway
}

func NewHandlers(
	cat *catalog.Service,
	orders *order.Service,
	tickets *ticket.Service,
	reviews *review.Service,
	favs *favorites.Service,
	st *stats.Service,
	gw *assistant.Gateway,
) *Handlers {
	return &Handlers{
		catalog:   cat,
		orders:    orders,
		tickets:   tickets,
		reviews:   reviews,
		favorites: favs,
		stats:     st,
		assistant: gw,
	}
}

// Product Handlers

type ProductRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       int              `json:"price"`
	Category    catalog.Category `json:"category"`
	Image       string           `json:"image"`
	Stock       int              `json:"stock"`
	IsActive    *bool            `json:"is_active,omitempty"`
}

func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.catalog.Create(r.Context(), req.Name, req.Description, req.Price, req.Category, req.Image, req.Stock)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

// GetProducts lists active products. Admins see inactive products too.
func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	activeOnly := !isAdmin(r)
	products, err := h.catalog.List(r.Context(), activeOnly)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if products == nil {
		products = []*catalog.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/api/products/")
	product, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/api/products/")

	existing, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.Price = req.Price
	existing.Category = req.Category
	existing.Image = req.Image
	existing.Stock = req.Stock
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}

	product, err := h.catalog.Update(r.Context(), existing)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/api/products/")
	if err := h.catalog.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}

// Order Handlers

type PlaceOrderRequest struct {
	Contact         order.ContactInfo   `json:"contact"`
	Items           []order.LineInput   `json:"items"`
	ShippingAddress order.Address       `json:"shipping_address"`
	PaymentMethod   order.PaymentMethod `json:"payment_method"`
}

func (h *Handlers) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	placed, err := h.orders.Create(r.Context(), order.CreateParams{
		UserID:          middleware.GetUserID(r.Context()),
		Contact:         req.Contact,
		Items:           req.Items,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		IdempotencyKey:  r.Header.Get("Idempotency-Key"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, placed)
}

// GetOrders lists the caller's orders; admins get every order.
func (h *Handlers) GetOrders(w http.ResponseWriter, r *http.Request) {
	var (
		orders []*order.Order
		err    error
	)
	if isAdmin(r) {
		orders, err = h.orders.List(r.Context())
	} else {
		orders, err = h.orders.ListByUser(r.Context(), middleware.GetUserID(r.Context()))
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if orders == nil {
		orders = []*order.Order{}
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/api/orders/")
	o, err := h.orders.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if o.UserID != middleware.GetUserID(r.Context()) && !isAdmin(r) {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}
	respondJSON(w, http.StatusOK, o)
}

type OrderStatusRequest struct {
	Status order.Status `json:"status"`
}

// UpdateOrderStatus moves an order along its lifecycle. Admin only.
func (h *Handlers) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSuffix(extractPathParam(r.URL.Path, "/api/orders/"), "/status")

	var req OrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	o, err := h.orders.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

// CancelOrder lets a customer cancel their own order while it is still
// Processing. The same transition rules apply as for admin updates.
func (h *Handlers) CancelOrder(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSuffix(extractPathParam(r.URL.Path, "/api/orders/"), "/cancel")

	o, err := h.orders.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if o.UserID != middleware.GetUserID(r.Context()) && !isAdmin(r) {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}

	cancelled, err := h.orders.UpdateStatus(r.Context(), id, order.StatusCancelled)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cancelled)
}

// Ticket Handlers

type CreateTicketRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	OrderID string `json:"order_id,omitempty"`
	Message string `json:"message"`
}

// CreateTicket opens a support ticket. Works for anonymous visitors too;
// authenticated callers get the ticket linked to their account.
func (h *Handlers) CreateTicket(w http.ResponseWriter, r *http.Request) {
	var req CreateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.tickets.Create(r.Context(), ticket.CreateParams{
		UserID:  middleware.GetUserID(r.Context()),
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		OrderID: req.OrderID,
		Message: req.Message,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := map[string]any{"ticket": t}
	if tip := h.assistant.SupportTip(r.Context(), t.Subject, t.Message); tip != "" {
		resp["suggested_response"] = tip
	}
	respondJSON(w, http.StatusCreated, resp)
}

func (h *Handlers) GetTickets(w http.ResponseWriter, r *http.Request) {
	var (
		tickets []*ticket.Ticket
		err     error
	)
	if isAdmin(r) {
		tickets, err = h.tickets.List(r.Context())
	} else {
		tickets, err = h.tickets.ListByUser(r.Context(), middleware.GetUserID(r.Context()))
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if tickets == nil {
		tickets = []*ticket.Ticket{}
	}
	respondJSON(w, http.StatusOK, tickets)
}

func (h *Handlers) GetTicket(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/api/tickets/")
	t, err := h.tickets.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if t.UserID != middleware.GetUserID(r.Context()) && !isAdmin(r) {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}
	respondJSON(w, http.StatusOK, t)
}

type ReplyRequest struct {
	Message string `json:"message"`
}

// ReplyTicket appends a reply. The sender side comes from the caller's role,
// and the ticket status is derived from who replied.
func (h *Handlers) ReplyTicket(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSuffix(extractPathParam(r.URL.Path, "/api/tickets/"), "/replies")

	t, err := h.tickets.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	admin := isAdmin(r)
	if t.UserID != middleware.GetUserID(r.Context()) && !admin {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}

	sender := ticket.SenderUser
	if admin {
		sender = ticket.SenderAdmin
	}

	var req ReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.tickets.AddReply(r.Context(), id, sender, req.Message)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

type TicketStatusRequest struct {
	Status ticket.Status `json:"status"`
}

// SetTicketStatus sets the status directly. Admin only; no derivation rules.
func (h *Handlers) SetTicketStatus(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSuffix(extractPathParam(r.URL.Path, "/api/tickets/"), "/status")

	var req TicketStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.tickets.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

// Review Handlers

func (h *Handlers) GetProductReviews(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSuffix(extractPathParam(r.URL.Path, "/api/products/"), "/reviews")
	reviews, err := h.reviews.ListForProduct(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if reviews == nil {
		reviews = []*review.Review{}
	}
	respondJSON(w, http.StatusOK, reviews)
}

type SubmitReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *Handlers) SubmitReview(w http.ResponseWriter, r *http.Request) {
	productID := strings.TrimSuffix(extractPathParam(r.URL.Path, "/api/products/"), "/reviews")

	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	// The product must exist; reviews for deleted products are rejected.
	if _, err := h.catalog.Get(r.Context(), productID); err != nil {
		writeDomainError(w, err)
		return
	}

	var req SubmitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rv, err := h.reviews.Submit(r.Context(), review.SubmitParams{
		ProductID: productID,
		UserID:    claims.UserID,
		UserName:  claims.Mobile,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, rv)
}

func (h *Handlers) GetAllReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.ListAll(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if reviews == nil {
		reviews = []*review.Review{}
	}
	respondJSON(w, http.StatusOK, reviews)
}

func (h *Handlers) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/api/reviews/")
	if err := h.reviews.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Review deleted"})
}

// Favorite Handlers

func (h *Handlers) GetFavorites(w http.ResponseWriter, r *http.Request) {
	ids, err := h.favorites.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ids)
}

func (h *Handlers) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	productID := strings.TrimSuffix(extractPathParam(r.URL.Path, "/api/favorites/"), "/toggle")
	ids, err := h.favorites.Toggle(r.Context(), middleware.GetUserID(r.Context()), productID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ids)
}

// Admin Handlers

func (h *Handlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.stats.Dashboard(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dashboard)
}

// GetProductInsights summarizes a product's reviews for the admin dashboard.
func (h *Handlers) GetProductInsights(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSuffix(extractPathParam(r.URL.Path, "/api/products/"), "/insights")

	product, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	reviews, err := h.reviews.ListForProduct(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	comments := make([]string, 0, len(reviews))
	for _, rv := range reviews {
		comments = append(comments, rv.Comment)
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"product_id": id,
		"insights":   h.assistant.ProductInsights(r.Context(), product.Name, comments),
	})
}

// Helpers

func extractPathParam(path, prefix string) string {
	return strings.TrimPrefix(path, prefix)
}

func isAdmin(r *http.Request) bool {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		return false
	}
	return claims.Role == "admin"
}
