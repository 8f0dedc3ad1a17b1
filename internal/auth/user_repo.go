package auth

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cresenventures/storefront/internal/domain/user"
)

type UserRepo struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{db: db}
}

// FetchOrCreate resolves a sign-in to the application user record. The role
// passed in is authoritative (derived from the admin allow-list), so an
// existing row is updated to match it; a blank name never overwrites a
// stored one.
func (r *UserRepo) FetchOrCreate(ctx context.Context, email, name, role string) (user.User, error) {
	var u user.User
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (email, name, role)
		VALUES ($1,$2,$3)
		ON CONFLICT (email) DO UPDATE SET
		  name = CASE WHEN EXCLUDED.name <> '' THEN EXCLUDED.name ELSE users.name END,
		  role = EXCLUDED.role,
		  updated_at = now()
		RETURNING id, email, name, role, created_at, updated_at
	`, email, name, role).Scan(
		&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

func (r *UserRepo) ByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User
	err := r.db.QueryRow(ctx, `
		SELECT id, email, name, role, created_at, updated_at
		FROM users WHERE email=$1
	`, email).Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *UserRepo) ByID(ctx context.Context, id int64) (user.User, error) {
	var u user.User
	err := r.db.QueryRow(ctx, `
		SELECT id, email, name, role, created_at, updated_at
		FROM users WHERE id=$1
	`, id).Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
