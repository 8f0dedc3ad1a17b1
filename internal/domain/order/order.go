package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cresenventures/storefront/internal/domain/cart"
)

type Status string

const (
	// StatusAttempted: shipping captured and fee computed, payment not yet
	// confirmed.
	StatusAttempted Status = "attempted"
	// StatusNew: payment confirmed, waiting for dispatch.
	StatusNew Status = "new"
	// StatusDispatched: a shipping code has been attached by an admin.
	StatusDispatched Status = "dispatched"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAttempted, StatusNew, StatusDispatched:
		return true
	}
	return false
}

// CanDispatch reports whether an order in this status may receive a
// shipping code. Unpaid (attempted) orders cannot be dispatched.
func (s Status) CanDispatch() bool {
	return s == StatusNew || s == StatusDispatched
}

func (s Status) String() string {
	return string(s)
}

func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown order status %q", raw)
	}
	return s, nil
}

var (
	ErrMissingField   = errors.New("missing required field")
	ErrInvalidPhone   = errors.New("phone must be at least 10 digits")
	ErrInvalidPincode = errors.New("pincode must be a 6-digit code")
)

type ShippingDetails struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	Pincode string `json:"pincode"`
}

func (d ShippingDetails) Validate() error {
	fields := []struct {
		name, value string
	}{
		{"name", d.Name},
		{"phone", d.Phone},
		{"address", d.Address},
		{"city", d.City},
		{"pincode", d.Pincode},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, f.name)
		}
	}
	if len(d.Phone) < 10 {
		return ErrInvalidPhone
	}
	if len(d.Pincode) != 6 || strings.IndexFunc(d.Pincode, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return ErrInvalidPincode
	}
	return nil
}

// Order is the attempted-order record: the only durable entity spanning a
// checkout. Items and address are denormalized snapshots; later cart edits
// never alter a created order.
type Order struct {
	ID              int64           `json:"id"`
	Email           string          `json:"email"`
	Name            string          `json:"name"`
	Phone           string          `json:"phone"`
	Items           cart.Cart       `json:"items"`
	ShippingAddress ShippingDetails `json:"shippingAddress"`
	ShippingFee     float64         `json:"shippingFee"`
	Status          Status          `json:"status"`
	ShippingCode    string          `json:"shippingCode,omitempty"`
	PaymentID       string          `json:"paymentId,omitempty"`
	RazorpayOrderID string          `json:"razorpayOrderId,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func (o Order) Subtotal() float64 {
	return o.Items.Subtotal()
}

func (o Order) GrandTotal() float64 {
	return o.Subtotal() + o.ShippingFee
}
