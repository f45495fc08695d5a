package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/DivyaP1063/shophub/models"

	"github.com/lib/pq"
)

const productColumns = "id, seller_id, title, description, price, images, category, sizes, stock, created_at, updated_at"

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (models.Product, error) {
	var p models.Product
	var sizes []string
	err := row.Scan(&p.ID, &p.SellerID, &p.Title, &p.Description, &p.Price,
		pq.Array(&p.Images), &p.Category, pq.Array(&sizes), &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return p, err
	}
	p.Sizes = make([]models.Size, len(sizes))
	for i, s := range sizes {
		p.Sizes[i] = models.Size(s)
	}
	return p, nil
}

func sizeStrings(sizes []models.Size) []string {
	out := make([]string, len(sizes))
	for i, s := range sizes {
		out[i] = string(s)
	}
	return out
}

// List returns one page of products, newest first, and the total count.
func (r *ProductRepository) List(ctx context.Context, limit, offset int) ([]models.Product, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products ORDER BY created_at DESC LIMIT $1 OFFSET $2",
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

func (r *ProductRepository) Get(ctx context.Context, id string) (*models.Product, error) {
	if !validID(id) {
		return nil, models.ErrNotFound
	}

	p, err := scanProduct(r.db.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &p, nil
}

// GetMany returns the products that exist among ids, keyed by id.
func (r *ProductRepository) GetMany(ctx context.Context, ids []string) (map[string]models.Product, error) {
	out := make(map[string]models.Product, len(ids))
	ids = filterIDs(ids)
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = ANY($1)", pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO products (id, seller_id, title, description, price, images, category, sizes, stock) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING created_at, updated_at",
		p.ID, p.SellerID, p.Title, p.Description, p.Price, pq.Array(p.Images), p.Category, pq.Array(sizeStrings(p.Sizes)), p.Stock,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	err := r.db.QueryRowContext(ctx,
		"UPDATE products SET title = $1, description = $2, price = $3, images = $4, category = $5, sizes = $6, stock = $7, updated_at = CURRENT_TIMESTAMP WHERE id = $8 RETURNING updated_at",
		p.Title, p.Description, p.Price, pq.Array(p.Images), p.Category, pq.Array(sizeStrings(p.Sizes)), p.Stock, p.ID,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

// SetStock overwrites the stored stock with a value the caller computed.
func (r *ProductRepository) SetStock(ctx context.Context, id string, stock int) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE products SET stock = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2",
		stock, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update stock: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return models.ErrNotFound
	}

	result, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) IDsBySeller(ctx context.Context, sellerID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id FROM products WHERE seller_id = $1", sellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query seller products: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan product id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
