package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/DivyaP1063/shophub/models"

	"github.com/lib/pq"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Get(ctx context.Context, id string) (*models.User, error) {
	if !validID(id) {
		return nil, models.ErrNotFound
	}

	var u models.User
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, email, role, address, created_at FROM users WHERE id = $1",
		id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Address, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// Create inserts u with its bcrypt password hash. A taken email yields
// models.ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, u *models.User, passwordHash string) error {
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO users (id, name, email, password_hash, role, address) VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at",
		u.ID, u.Name, u.Email, passwordHash, u.Role, u.Address,
	).Scan(&u.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return models.ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetCredentials loads the user registered under email with its password
// hash.
func (r *UserRepository) GetCredentials(ctx context.Context, email string) (*models.User, string, error) {
	var (
		u    models.User
		hash string
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, email, role, address, created_at, password_hash FROM users WHERE email = $1",
		email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Address, &u.CreatedAt, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", models.ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}
	return &u, hash, nil
}

// Summaries returns name and email for every id that exists, keyed by id.
func (r *UserRepository) Summaries(ctx context.Context, ids []string) (map[string]models.UserSummary, error) {
	out := make(map[string]models.UserSummary, len(ids))
	ids = filterIDs(ids)
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, email FROM users WHERE id = ANY($1)",
		pq.Array(ids),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.UserSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Email); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		out[s.ID] = s
	}
	return out, rows.Err()
}

// filterIDs drops malformed and duplicate ids, keeping first-seen order.
func filterIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || !validID(id) {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
