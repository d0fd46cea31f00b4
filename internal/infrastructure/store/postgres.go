package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/example/quickstore/internal/domain/catalog"
	"github.com/example/quickstore/internal/domain/order"
	"github.com/example/quickstore/internal/domain/review"
	"github.com/example/quickstore/internal/domain/ticket"
	"github.com/example/quickstore/internal/domain/user"
	"github.com/lib/pq"
)

// PostgresStore is the primary backend. Nested structures (line items,
// addresses, reply threads) are stored as JSONB; stock and order status are
// mutated only through single conditional UPDATEs so concurrent writers can
// never oversell or race a transition.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// ConnectPostgres opens and verifies a PostgreSQL connection.
func ConnectPostgres(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price       INTEGER NOT NULL CHECK (price >= 0),
		category    TEXT NOT NULL,
		image       TEXT NOT NULL DEFAULT '',
		stock       INTEGER NOT NULL CHECK (stock >= 0),
		is_active   BOOLEAN NOT NULL DEFAULT TRUE,
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id               TEXT PRIMARY KEY,
		user_id          TEXT NOT NULL,
		customer_name    TEXT NOT NULL,
		customer_mobile  TEXT NOT NULL,
		customer_email   TEXT NOT NULL DEFAULT '',
		items            JSONB NOT NULL,
		total            INTEGER NOT NULL,
		status           TEXT NOT NULL,
		payment_method   TEXT NOT NULL,
		shipping_address JSONB NOT NULL,
		idempotency_key  TEXT,
		created_at       TIMESTAMPTZ NOT NULL,
		updated_at       TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS orders_idempotency_key_idx
		ON orders (idempotency_key) WHERE idempotency_key IS NOT NULL`,
	`CREATE INDEX IF NOT EXISTS orders_user_id_idx ON orders (user_id)`,
	`CREATE TABLE IF NOT EXISTS tickets (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL DEFAULT '',
		name       TEXT NOT NULL DEFAULT '',
		email      TEXT NOT NULL,
		subject    TEXT NOT NULL,
		order_id   TEXT NOT NULL DEFAULT '',
		message    TEXT NOT NULL,
		status     TEXT NOT NULL,
		replies    JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS tickets_user_id_idx ON tickets (user_id)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id                   TEXT PRIMARY KEY,
		product_id           TEXT NOT NULL,
		user_id              TEXT NOT NULL,
		user_name            TEXT NOT NULL,
		rating               INTEGER NOT NULL,
		comment              TEXT NOT NULL,
		is_verified_purchase BOOLEAN NOT NULL,
		created_at           TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS reviews_product_id_idx ON reviews (product_id)`,
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		mobile        TEXT NOT NULL UNIQUE,
		email         TEXT NOT NULL DEFAULT '',
		name          TEXT NOT NULL,
		role          TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		address       JSONB,
		created_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS favorites (
		user_id    TEXT NOT NULL,
		product_id TEXT NOT NULL,
		PRIMARY KEY (user_id, product_id)
	)`,
}

// InitSchema creates the tables if they do not exist.
func (s *PostgresStore) InitSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// Products

const productColumns = `id, name, description, price, category, image, stock, is_active, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*catalog.Product, error) {
	var p catalog.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category,
		&p.Image, &p.Stock, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, catalog.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) ListProducts(ctx context.Context, activeOnly bool) ([]*catalog.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []*catalog.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *PostgresStore) InsertProduct(ctx context.Context, p *catalog.Product) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, p.ID, p.Name, p.Description, p.Price, p.Category, p.Image, p.Stock, p.IsActive, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateProduct(ctx context.Context, p *catalog.Product) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE products SET
			name = $2, description = $3, price = $4, category = $5,
			image = $6, stock = $7, is_active = $8, updated_at = $9
		WHERE id = $1
	`, p.ID, p.Name, p.Description, p.Price, p.Category, p.Image, p.Stock, p.IsActive, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return catalog.ErrProductNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return catalog.ErrProductNotFound
	}
	return nil
}

// DecrementStock is a single conditional UPDATE: it only matches while
// enough stock remains, so two checkouts racing for the last units cannot
// both succeed.
func (s *PostgresStore) DecrementStock(ctx context.Context, id string, quantity int) (*catalog.Product, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE products SET stock = stock - $2, updated_at = NOW()
		WHERE id = $1 AND stock >= $2
		RETURNING `+productColumns+`
	`, id, quantity)
	p, err := scanProduct(row)
	if err == nil {
		return p, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("decrement stock: %w", err)
	}

	// Condition failed: distinguish a missing product from a short one.
	var available int
	err = s.db.QueryRowContext(ctx, `SELECT stock FROM products WHERE id = $1`, id).Scan(&available)
	if err == sql.ErrNoRows {
		return nil, catalog.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("decrement stock: %w", err)
	}
	return nil, &catalog.InsufficientStockError{
		ProductID: id,
		Requested: quantity,
		Available: available,
	}
}

func (s *PostgresStore) IncrementStock(ctx context.Context, id string, quantity int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE products SET stock = stock + $2, updated_at = NOW() WHERE id = $1
	`, id, quantity)
	if err != nil {
		return fmt.Errorf("increment stock: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return catalog.ErrProductNotFound
	}
	return nil
}

// Orders

const orderColumns = `id, user_id, customer_name, customer_mobile, customer_email,
	items, total, status, payment_method, shipping_address, idempotency_key, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*order.Order, error) {
	var o order.Order
	var itemsJSON, addressJSON []byte
	var idemKey sql.NullString
	err := row.Scan(&o.ID, &o.UserID, &o.CustomerName, &o.CustomerMobile, &o.CustomerEmail,
		&itemsJSON, &o.Total, &o.Status, &o.PaymentMethod, &addressJSON, &idemKey,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}
	if err := json.Unmarshal(addressJSON, &o.ShippingAddress); err != nil {
		return nil, fmt.Errorf("unmarshal shipping address: %w", err)
	}
	o.IdempotencyKey = idemKey.String
	return &o, nil
}

func (s *PostgresStore) GetOrder(ctx context.Context, id string) (*order.Order, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, order.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

func (s *PostgresStore) InsertOrder(ctx context.Context, o *order.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}
	addressJSON, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return fmt.Errorf("marshal shipping address: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, o.ID, o.UserID, o.CustomerName, o.CustomerMobile, o.CustomerEmail,
		itemsJSON, o.Total, o.Status, o.PaymentMethod, addressJSON,
		nullString(o.IdempotencyKey), o.CreatedAt, o.UpdatedAt)
	if isUniqueViolation(err, "orders_idempotency_key_idx") {
		return order.ErrDuplicateIdempotencyKey
	}
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a unique-constraint violation
// (SQLSTATE 23505) on the named index.
func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505" && pqErr.Constraint == constraint
}

func (s *PostgresStore) listOrders(ctx context.Context, query string, args ...any) ([]*order.Order, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []*order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (s *PostgresStore) ListOrders(ctx context.Context) ([]*order.Order, error) {
	return s.listOrders(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

func (s *PostgresStore) ListOrdersByUser(ctx context.Context, userID string) ([]*order.Order, error) {
	return s.listOrders(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

// UpdateOrderStatus only matches while the row is still in the expected
// status, keeping the transition check and the write atomic.
func (s *PostgresStore) UpdateOrderStatus(ctx context.Context, id string, from, to order.Status, updatedAt time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE orders SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2
	`, id, from, to, updatedAt)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if !exists {
		return order.ErrOrderNotFound
	}
	return order.ErrStatusConflict
}

func (s *PostgresStore) GetOrderByIdempotencyKey(ctx context.Context, key string) (*order.Order, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE idempotency_key = $1`, key)
	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, order.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order by idempotency key: %w", err)
	}
	return o, nil
}

// Tickets

const ticketColumns = `id, user_id, name, email, subject, order_id, message, status, replies, created_at, updated_at`

func scanTicket(row interface{ Scan(...any) error }) (*ticket.Ticket, error) {
	var t ticket.Ticket
	var repliesJSON []byte
	err := row.Scan(&t.ID, &t.UserID, &t.Name, &t.Email, &t.Subject, &t.OrderID,
		&t.Message, &t.Status, &repliesJSON, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(repliesJSON, &t.Replies); err != nil {
		return nil, fmt.Errorf("unmarshal ticket replies: %w", err)
	}
	if t.Replies == nil {
		t.Replies = []ticket.Reply{}
	}
	return &t, nil
}

func (s *PostgresStore) GetTicket(ctx context.Context, id string) (*ticket.Ticket, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, id)
	t, err := scanTicket(row)
	if err == sql.ErrNoRows {
		return nil, ticket.ErrTicketNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) InsertTicket(ctx context.Context, t *ticket.Ticket) error {
	repliesJSON, err := json.Marshal(t.Replies)
	if err != nil {
		return fmt.Errorf("marshal ticket replies: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tickets (`+ticketColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, t.ID, t.UserID, t.Name, t.Email, t.Subject, t.OrderID, t.Message, t.Status,
		repliesJSON, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert ticket: %w", err)
	}
	return nil
}

func (s *PostgresStore) listTickets(ctx context.Context, query string, args ...any) ([]*ticket.Ticket, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*ticket.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func (s *PostgresStore) ListTickets(ctx context.Context) ([]*ticket.Ticket, error) {
	return s.listTickets(ctx, `SELECT `+ticketColumns+` FROM tickets ORDER BY created_at DESC`)
}

func (s *PostgresStore) ListTicketsByUser(ctx context.Context, userID string) ([]*ticket.Ticket, error) {
	return s.listTickets(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

// UpdateTicket writes the reply thread and status together; a reply append
// is never half applied.
func (s *PostgresStore) UpdateTicket(ctx context.Context, t *ticket.Ticket) error {
	repliesJSON, err := json.Marshal(t.Replies)
	if err != nil {
		return fmt.Errorf("marshal ticket replies: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE tickets SET status = $2, replies = $3, updated_at = $4 WHERE id = $1
	`, t.ID, t.Status, repliesJSON, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update ticket: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ticket.ErrTicketNotFound
	}
	return nil
}

// Reviews

func (s *PostgresStore) InsertReview(ctx context.Context, r *review.Review) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reviews (id, product_id, user_id, user_name, rating, comment, is_verified_purchase, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, r.ID, r.ProductID, r.UserID, r.UserName, r.Rating, r.Comment, r.IsVerifiedPurchase, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListReviews(ctx context.Context, productID string) ([]*review.Review, error) {
	query := `SELECT id, product_id, user_id, user_name, rating, comment, is_verified_purchase, created_at FROM reviews`
	var args []any
	if productID != "" {
		query += ` WHERE product_id = $1`
		args = append(args, productID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*review.Review
	for rows.Next() {
		var r review.Review
		if err := rows.Scan(&r.ID, &r.ProductID, &r.UserID, &r.UserName, &r.Rating,
			&r.Comment, &r.IsVerifiedPurchase, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, &r)
	}
	return reviews, rows.Err()
}

func (s *PostgresStore) DeleteReview(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return review.ErrReviewNotFound
	}
	return nil
}

// Users

const userColumns = `id, mobile, email, name, role, password_hash, address, created_at`

func scanUser(row interface{ Scan(...any) error }) (*user.User, error) {
	var u user.User
	var addressJSON []byte
	err := row.Scan(&u.ID, &u.Mobile, &u.Email, &u.Name, &u.Role, &u.PasswordHash,
		&addressJSON, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(addressJSON) > 0 {
		var addr order.Address
		if err := json.Unmarshal(addressJSON, &addr); err != nil {
			return nil, fmt.Errorf("unmarshal user address: %w", err)
		}
		u.Address = &addr
	}
	return &u, nil
}

func (s *PostgresStore) GetUser(ctx context.Context, id string) (*user.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) GetUserByMobile(ctx context.Context, mobile string) (*user.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE mobile = $1`, mobile)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by mobile: %w", err)
	}
	return u, nil
}

func marshalAddress(addr *order.Address) (any, error) {
	if addr == nil {
		return nil, nil
	}
	return json.Marshal(addr)
}

func (s *PostgresStore) InsertUser(ctx context.Context, u *user.User) error {
	addressJSON, err := marshalAddress(u.Address)
	if err != nil {
		return fmt.Errorf("marshal user address: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, u.ID, u.Mobile, u.Email, u.Name, u.Role, u.PasswordHash, addressJSON, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateUser(ctx context.Context, u *user.User) error {
	addressJSON, err := marshalAddress(u.Address)
	if err != nil {
		return fmt.Errorf("marshal user address: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET email = $2, name = $3, role = $4, password_hash = $5, address = $6
		WHERE id = $1
	`, u.ID, u.Email, u.Name, u.Role, u.PasswordHash, addressJSON)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// Favorites

func (s *PostgresStore) ListFavorites(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT product_id FROM favorites WHERE user_id = $1 ORDER BY product_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *PostgresStore) AddFavorite(ctx context.Context, userID, productID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO favorites (user_id, product_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, userID, productID)
	if err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

func (s *PostgresStore) RemoveFavorite(ctx context.Context, userID, productID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
