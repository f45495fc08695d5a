package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DivyaP1063/shophub/models"

	"github.com/google/uuid"
)

type CartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) GetByUser(ctx context.Context, userID string) (*models.Cart, error) {
	var c models.Cart
	var raw []byte
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, items, created_at, updated_at FROM carts WHERE user_id = $1",
		userID,
	).Scan(&c.ID, &c.UserID, &raw, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	if err := json.Unmarshal(raw, &c.Items); err != nil {
		return nil, fmt.Errorf("failed to decode cart items: %w", err)
	}
	if c.Items == nil {
		c.Items = []models.CartItem{}
	}
	return &c, nil
}

// Save upserts the whole cart document for c.UserID, assigning an id on
// first save.
func (r *CartRepository) Save(ctx context.Context, c *models.Cart) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Items == nil {
		c.Items = []models.CartItem{}
	}
	raw, err := json.Marshal(c.Items)
	if err != nil {
		return fmt.Errorf("failed to encode cart items: %w", err)
	}

	err = r.db.QueryRowContext(ctx,
		`INSERT INTO carts (id, user_id, items) VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET items = EXCLUDED.items, updated_at = CURRENT_TIMESTAMP
		RETURNING id, created_at, updated_at`,
		c.ID, c.UserID, raw,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Clear empties the user's cart if one exists. It reports whether a cart
// was found.
func (r *CartRepository) Clear(ctx context.Context, userID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE carts SET items = '[]', updated_at = CURRENT_TIMESTAMP WHERE user_id = $1",
		userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to clear cart: %w", err)
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}
