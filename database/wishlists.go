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

type WishlistRepository struct {
	db *sql.DB
}

func NewWishlistRepository(db *sql.DB) *WishlistRepository {
	return &WishlistRepository{db: db}
}

func (r *WishlistRepository) GetByUser(ctx context.Context, userID string) (*models.Wishlist, error) {
	var w models.Wishlist
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, products, created_at, updated_at FROM wishlists WHERE user_id = $1",
		userID,
	).Scan(&w.ID, &w.UserID, pq.Array(&w.ProductIDs), &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get wishlist: %w", err)
	}
	if w.ProductIDs == nil {
		w.ProductIDs = []string{}
	}
	return &w, nil
}

func (r *WishlistRepository) Save(ctx context.Context, w *models.Wishlist) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if w.ProductIDs == nil {
		w.ProductIDs = []string{}
	}

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO wishlists (id, user_id, products) VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET products = EXCLUDED.products, updated_at = CURRENT_TIMESTAMP
		RETURNING id, created_at, updated_at`,
		w.ID, w.UserID, pq.Array(w.ProductIDs),
	).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save wishlist: %w", err)
	}
	return nil
}
