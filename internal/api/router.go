package api

import (
	"log"
	"net/http"
	"strings"

	"github.com/example/quickstore/internal/api/middleware"
	"github.com/example/quickstore/internal/auth"
)

// NewRouter wires the HTTP surface. Public routes serve the storefront,
// authenticated routes the account area, and admin routes the back office.
func NewRouter(handlers *Handlers, authHandlers *AuthHandlers, jwtService *auth.JWTService) http.Handler {
	mux := http.NewServeMux()

	authed := middleware.Auth(jwtService)
	optional := middleware.OptionalAuth(jwtService)
	admin := func(h http.HandlerFunc) http.Handler {
		return authed(middleware.RequireRole("admin")(h))
	}

	// Auth
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		authHandlers.Login(w, r)
	})

	mux.HandleFunc("/api/logout", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		authHandlers.Logout(w, r)
	})

	mux.Handle("/api/me", authed(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			authHandlers.Me(w, r)
		case http.MethodPut:
			authHandlers.UpdateProfile(w, r)
		default:
			respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})))

	// Products
	mux.Handle("/api/products", optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.GetProducts(w, r)
		case http.MethodPost:
			admin(handlers.CreateProduct).ServeHTTP(w, r)
		default:
			respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})))

	mux.Handle("/api/products/", optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		switch {
		case strings.HasSuffix(path, "/reviews") && r.Method == http.MethodGet:
			handlers.GetProductReviews(w, r)
		case strings.HasSuffix(path, "/reviews") && r.Method == http.MethodPost:
			authed(http.HandlerFunc(handlers.SubmitReview)).ServeHTTP(w, r)
		case strings.HasSuffix(path, "/insights") && r.Method == http.MethodGet:
			admin(handlers.GetProductInsights).ServeHTTP(w, r)
		case r.Method == http.MethodGet:
			handlers.GetProduct(w, r)
		case r.Method == http.MethodPut:
			admin(handlers.UpdateProduct).ServeHTTP(w, r)
		case r.Method == http.MethodDelete:
			admin(handlers.DeleteProduct).ServeHTTP(w, r)
		default:
			respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})))

	// Orders
	mux.Handle("/api/orders", authed(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.GetOrders(w, r)
		case http.MethodPost:
			handlers.PlaceOrder(w, r)
		default:
			respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})))

	mux.Handle("/api/orders/", authed(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		switch {
		case strings.HasSuffix(path, "/status") && r.Method == http.MethodPatch:
			middleware.RequireRole("admin")(http.HandlerFunc(handlers.UpdateOrderStatus)).ServeHTTP(w, r)
		case strings.HasSuffix(path, "/cancel") && r.Method == http.MethodPost:
			handlers.CancelOrder(w, r)
		case r.Method == http.MethodGet:
			handlers.GetOrder(w, r)
		default:
			respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})))

	// Tickets
	mux.Handle("/api/tickets", optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			handlers.CreateTicket(w, r)
		case http.MethodGet:
			authed(http.HandlerFunc(handlers.GetTickets)).ServeHTTP(w, r)
		default:
			respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})))

	mux.Handle("/api/tickets/", authed(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		switch {
		case strings.HasSuffix(path, "/replies") && r.Method == http.MethodPost:
			handlers.ReplyTicket(w, r)
		case strings.HasSuffix(path, "/status") && r.Method == http.MethodPatch:
			middleware.RequireRole("admin")(http.HandlerFunc(handlers.SetTicketStatus)).ServeHTTP(w, r)
		case r.Method == http.MethodGet:
			handlers.GetTicket(w, r)
		default:
			respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})))

	// Reviews (admin moderation)
	mux.Handle("/api/reviews", admin(handlers.GetAllReviews))
	mux.Handle("/api/reviews/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			respondError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		admin(handlers.DeleteReview).ServeHTTP(w, r)
	}))

	// Favorites
	mux.Handle("/api/favorites", authed(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respondError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		handlers.GetFavorites(w, r)
	})))

	mux.Handle("/api/favorites/", authed(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/toggle") || r.Method != http.MethodPost {
			respondError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		handlers.ToggleFavorite(w, r)
	})))

	// Admin dashboard
	mux.Handle("/api/admin/stats", admin(handlers.GetDashboard))

	return withLogging(mux)
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("[API] %s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
