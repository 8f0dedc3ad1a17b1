package shipping

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cresenventures/storefront/internal/domain/order"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// Save keeps the latest shipping address per shopper; one row per email.
func (r *Repo) Save(ctx context.Context, email string, details order.ShippingDetails) error {
	raw, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("marshal shipping details: %w", err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO shipping_details (email, details)
		VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET details = EXCLUDED.details, updated_at = now()
	`, email, raw)
	return err
}
