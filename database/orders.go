package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/DivyaP1063/shophub/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const orderColumns = "id, user_id, total_amount, status, razorpay_order_id, razorpay_payment_id, created_at, updated_at"

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts the order and its line items in one transaction.
func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		"INSERT INTO orders (id, user_id, total_amount, status, razorpay_order_id) VALUES ($1, $2, $3, $4, $5) RETURNING created_at, updated_at",
		o.ID, o.UserID, o.TotalAmount, o.Status, o.RazorpayOrderID,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i, it := range o.Items {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO order_items (order_id, position, product_id, quantity, price) VALUES ($1, $2, $3, $4, $5)",
			o.ID, i, it.ProductID, it.Quantity, it.Price,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}
	return nil
}

func (r *OrderRepository) Get(ctx context.Context, id string) (*models.Order, error) {
	if !validID(id) {
		return nil, models.ErrNotFound
	}
	return r.getOne(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1", id)
}

func (r *OrderRepository) GetByRazorpayOrderID(ctx context.Context, razorpayOrderID string) (*models.Order, error) {
	return r.getOne(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE razorpay_order_id = $1 ORDER BY created_at DESC LIMIT 1",
		razorpayOrderID)
}

func (r *OrderRepository) getOne(ctx context.Context, query string, arg any) (*models.Order, error) {
	var o models.Order
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.RazorpayOrderID, &o.RazorpayPaymentID, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	orders := []models.Order{o}
	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

// ListByUser returns the user's orders, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return r.list(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE user_id = $1 ORDER BY created_at DESC",
		userID)
}

// ListContainingProducts returns orders with at least one line for any of
// productIDs, newest first.
func (r *OrderRepository) ListContainingProducts(ctx context.Context, productIDs []string) ([]models.Order, error) {
	if len(productIDs) == 0 {
		return []models.Order{}, nil
	}
	return r.list(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id IN (SELECT order_id FROM order_items WHERE product_id = ANY($1)) ORDER BY created_at DESC",
		pq.Array(productIDs))
}

func (r *OrderRepository) list(ctx context.Context, query string, arg any) ([]models.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.RazorpayOrderID, &o.RazorpayPaymentID, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}

	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) loadItems(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	index := make(map[string]int, len(orders))
	ids := make([]string, len(orders))
	for i, o := range orders {
		index[o.ID] = i
		ids[i] = o.ID
		orders[i].Items = []models.OrderItem{}
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT order_id, product_id, quantity, price FROM order_items WHERE order_id = ANY($1) ORDER BY order_id, position",
		pq.Array(ids),
	)
	if err != nil {
		return fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID string
		var it models.OrderItem
		if err := rows.Scan(&orderID, &it.ProductID, &it.Quantity, &it.Price); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		if i, ok := index[orderID]; ok {
			orders[i].Items = append(orders[i].Items, it)
		}
	}
	return rows.Err()
}

// Update persists the mutable fields of an order: status and payment id.
func (r *OrderRepository) Update(ctx context.Context, o *models.Order) error {
	err := r.db.QueryRowContext(ctx,
		"UPDATE orders SET status = $1, razorpay_payment_id = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $3 RETURNING updated_at",
		o.Status, o.RazorpayPaymentID, o.ID,
	).Scan(&o.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to update order: %w", err)
	}
	return nil
}
