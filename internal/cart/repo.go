package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cresenventures/storefront/internal/domain/cart"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// Save mirrors the whole cart snapshot for the shopper. Last write wins:
// the snapshot replaces whatever is stored, which is the documented policy
// for the same account saving from two devices.
func (r *Repo) Save(ctx context.Context, email string, items cart.Cart) error {
	raw, err := json.Marshal(items.Normalize())
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO carts (email, items)
		VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET items = EXCLUDED.items, updated_at = now()
	`, email, raw)
	return err
}

// Get returns the stored cart; a shopper without a row has an empty cart.
func (r *Repo) Get(ctx context.Context, email string) (cart.Cart, error) {
	var raw []byte
	err := r.db.QueryRow(ctx, `
		SELECT items FROM carts WHERE email=$1
	`, email).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return cart.Cart{}, nil
	}
	if err != nil {
		return nil, err
	}

	var items cart.Cart
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	return items, nil
}
