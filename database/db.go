package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/DivyaP1063/shophub/config"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func InitDB(cfg config.Config, logger *zap.Logger) (*sql.DB, error) {
	psqlInfo := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)

	db, err := sql.Open("postgres", psqlInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Database connection established", zap.String("database", cfg.DBName))
	return db, nil
}

// Migrate creates any missing tables. Stock has no CHECK constraint: the
// payment commit path decrements without re-validating.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL DEFAULT '',
		role VARCHAR(16) NOT NULL DEFAULT 'buyer',
		address TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id UUID PRIMARY KEY,
		seller_id UUID NOT NULL REFERENCES users(id),
		title VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price NUMERIC(12, 2) NOT NULL,
		images TEXT[] NOT NULL,
		category VARCHAR(32) NOT NULL,
		sizes TEXT[] NOT NULL DEFAULT '{}',
		stock INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS products_seller_idx ON products (seller_id)`,
	`CREATE TABLE IF NOT EXISTS carts (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL UNIQUE REFERENCES users(id),
		items JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS wishlists (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL UNIQUE REFERENCES users(id),
		products TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id),
		total_amount NUMERIC(12, 2) NOT NULL,
		status VARCHAR(64) NOT NULL,
		razorpay_order_id VARCHAR(64) NOT NULL,
		razorpay_payment_id VARCHAR(64) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS orders_razorpay_idx ON orders (razorpay_order_id)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		product_id UUID NOT NULL,
		quantity INTEGER NOT NULL,
		price NUMERIC(12, 2) NOT NULL,
		PRIMARY KEY (order_id, position)
	)`,
	`CREATE INDEX IF NOT EXISTS order_items_product_idx ON order_items (product_id)`,
}

// validID reports whether id can be bound to a UUID column.
func validID(id string) bool {
	return uuid.Validate(id) == nil
}
