package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cresenventures/storefront/internal/domain/order"
)

var (
	ErrNotFound        = errors.New("order not found")
	ErrNotDispatchable = errors.New("order cannot be dispatched before payment")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

const orderColumns = `
	id, email, name, phone, items, shipping_address, shipping_fee,
	status, shipping_code, payment_id, razorpay_order_id, created_at, updated_at
`

// SaveAttempted upserts the shopper's attempted order: the live attempted
// record is updated in place when one exists, so retrying or editing the
// shipping step never creates a duplicate.
func (r *Repo) SaveAttempted(ctx context.Context, o order.Order) (int64, error) {
	items, addr, err := marshalSnapshots(o)
	if err != nil {
		return 0, err
	}

	var id int64
	err = r.db.QueryRow(ctx, `
		UPDATE orders
		SET name=$2, phone=$3, items=$4, shipping_address=$5, shipping_fee=$6, updated_at=now()
		WHERE email=$1 AND status='attempted'
		RETURNING id
	`, o.Email, o.Name, o.Phone, items, addr, o.ShippingFee).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	err = r.db.QueryRow(ctx, `
		INSERT INTO orders (email, name, phone, items, shipping_address, shipping_fee, status)
		VALUES ($1,$2,$3,$4,$5,$6,'attempted')
		RETURNING id
	`, o.Email, o.Name, o.Phone, items, addr, o.ShippingFee).Scan(&id)
	return id, err
}

func (r *Repo) LatestAttempted(ctx context.Context, email string) (order.Order, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE email=$1 AND status='attempted'
		ORDER BY created_at DESC
		LIMIT 1
	`, email)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return order.Order{}, ErrNotFound
	}
	return o, err
}

// ListByEmail returns the shopper's paid orders, most recent first.
// Attempted (unpaid) records are not part of the order history.
func (r *Repo) ListByEmail(ctx context.Context, email string) ([]order.Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE email=$1 AND status <> 'attempted'
		ORDER BY created_at DESC
	`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *Repo) ListByStatus(ctx context.Context, status order.Status) ([]order.Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE status=$1
		ORDER BY created_at DESC
	`, status.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

// Confirm marks the shopper's attempted order as paid. Idempotent: retrying
// with the payment id already recorded succeeds without another transition.
func (r *Repo) Confirm(ctx context.Context, email, paymentID string) error {
	ct, err := r.db.Exec(ctx, `
		UPDATE orders
		SET status='new', payment_id=$2, updated_at=now()
		WHERE id = (
			SELECT id FROM orders
			WHERE email=$1 AND (status='attempted' OR (status='new' AND payment_id=$2))
			ORDER BY created_at DESC
			LIMIT 1
		)
	`, email, paymentID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetRazorpayOrderID pins the gateway order handle to the live attempted
// order so the payment callback can be matched against it.
func (r *Repo) SetRazorpayOrderID(ctx context.Context, email, razorpayOrderID string) error {
	ct, err := r.db.Exec(ctx, `
		UPDATE orders
		SET razorpay_order_id=$2, updated_at=now()
		WHERE email=$1 AND status='attempted'
	`, email, razorpayOrderID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) ByID(ctx context.Context, orderID int64) (order.Order, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id=$1
	`, orderID)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return order.Order{}, ErrNotFound
	}
	return o, err
}

// UpdateShippingCode dispatches a paid order: new -> dispatched with the
// code attached. Re-running on a dispatched order just overwrites the code,
// so a retried dispatch with the same code is a no-op. Attempted orders are
// rejected.
func (r *Repo) UpdateShippingCode(ctx context.Context, orderID int64, code string) (order.Order, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE orders
		SET shipping_code=$2, status='dispatched', updated_at=now()
		WHERE id=$1 AND status IN ('new','dispatched')
		RETURNING `+orderColumns+`
	`, orderID, code)
	o, err := scanOrder(row)
	if err == nil {
		return o, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return order.Order{}, err
	}

	var status string
	err = r.db.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1`, orderID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return order.Order{}, ErrNotFound
	}
	if err != nil {
		return order.Order{}, err
	}
	return order.Order{}, ErrNotDispatchable
}

func marshalSnapshots(o order.Order) (items, addr []byte, err error) {
	items, err = json.Marshal(o.Items)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal order items: %w", err)
	}
	addr, err = json.Marshal(o.ShippingAddress)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal shipping address: %w", err)
	}
	return items, addr, nil
}

func scanOrder(row pgx.Row) (order.Order, error) {
	var (
		o           order.Order
		items, addr []byte
		status      string
	)
	err := row.Scan(
		&o.ID, &o.Email, &o.Name, &o.Phone, &items, &addr, &o.ShippingFee,
		&status, &o.ShippingCode, &o.PaymentID, &o.RazorpayOrderID, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return order.Order{}, err
	}
	o.Status = order.Status(status)
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return order.Order{}, fmt.Errorf("unmarshal order items: %w", err)
	}
	if err := json.Unmarshal(addr, &o.ShippingAddress); err != nil {
		return order.Order{}, fmt.Errorf("unmarshal shipping address: %w", err)
	}
	return o, nil
}

func scanOrders(rows pgx.Rows) ([]order.Order, error) {
	var out []order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
