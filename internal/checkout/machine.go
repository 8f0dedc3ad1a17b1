package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cresenventures/storefront/internal/domain/cart"
	"github.com/cresenventures/storefront/internal/domain/order"
	"github.com/cresenventures/storefront/internal/domain/user"
)

// Step is the checkout position. The only backward edge is
// StepSummary -> StepShipping (the shopper editing the address).
type Step string

const (
	StepCart      Step = "cart"
	StepAuth      Step = "auth"
	StepShipping  Step = "shipping"
	StepSummary   Step = "summary"
	StepPayment   Step = "payment"
	StepConfirmed Step = "confirmed"
)

func (s Step) String() string {
	return string(s)
}

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrNotAuthenticated  = errors.New("user not authenticated")
	ErrNoAttemptedOrder  = errors.New("no attempted order for this checkout")
	ErrInvalidTransition = errors.New("invalid checkout transition")
)

// OrderStore persists the attempted order and confirms payment against the
// backend of record. The machine never advances past a store failure.
type OrderStore interface {
	// SaveAttempted upserts the attempted order and returns its id. At most
	// one attempted order exists per email, so retrying a checkout reuses
	// the earlier record instead of creating a duplicate.
	SaveAttempted(ctx context.Context, o order.Order) (int64, error)
	// Confirm flips the attempted order to paid ("new") with the gateway
	// payment id.
	Confirm(ctx context.Context, email, paymentID string) error
}

// FeeFunc computes the shipping fee for a cart and destination pincode.
type FeeFunc func(items cart.Cart, pincode string) float64

// Machine owns one checkout attempt for one shopper: cart review, optional
// sign-in, shipping capture, summary, payment, confirmation. All entry
// points take the lock; a session is driven by one request at a time.
type Machine struct {
	mu    sync.Mutex
	store OrderStore
	fee   FeeFunc

	step     Step
	email    string
	usr      *user.User
	items    cart.Cart
	shipping order.ShippingDetails
	feeValue float64
	orderID  int64
}

func newMachine(email string, store OrderStore, fee FeeFunc) *Machine {
	return &Machine{store: store, fee: fee, step: StepCart, email: email}
}

func (m *Machine) Step() Step {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.step
}

func (m *Machine) OrderID() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orderID
}

func (m *Machine) Fee() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.feeValue
}

// Begin starts (or restarts) a checkout from the cart review. A confirmed
// attempt starts over from scratch; an unfinished one keeps its attempted
// order id so resubmission cannot create a duplicate.
func (m *Machine) Begin(items cart.Cart, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	items = items.Normalize()
	if items.IsEmpty() {
		return ErrEmptyCart
	}

	if m.step == StepConfirmed {
		m.orderID = 0
		m.shipping = order.ShippingDetails{}
		m.feeValue = 0
	}

	m.items = items.Clone()
	m.usr = u
	if u == nil {
		m.step = StepAuth
	} else {
		m.step = StepShipping
	}
	return nil
}

// Authenticate attaches the verified user and moves on to shipping capture.
// The auth step is skipped entirely by Begin when a user is already known.
func (m *Machine) Authenticate(u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.step != StepAuth {
		return fmt.Errorf("%w: authenticate from %s", ErrInvalidTransition, m.step)
	}
	if u == nil {
		return ErrNotAuthenticated
	}
	m.usr = u
	m.step = StepShipping
	return nil
}

// SubmitShipping validates the address, computes the fee and persists the
// attempted order. The machine advances to the summary only once the store
// confirms persistence; any failure leaves it on the shipping step.
func (m *Machine) SubmitShipping(ctx context.Context, d order.ShippingDetails) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.step != StepShipping {
		return fmt.Errorf("%w: submit shipping from %s", ErrInvalidTransition, m.step)
	}
	if m.usr == nil {
		return ErrNotAuthenticated
	}
	if err := d.Validate(); err != nil {
		return err
	}

	fee := m.fee(m.items, d.Pincode)
	o := order.Order{
		ID:              m.orderID,
		Email:           m.email,
		Name:            d.Name,
		Phone:           d.Phone,
		Items:           m.items.Clone(),
		ShippingAddress: d,
		ShippingFee:     fee,
		Status:          order.StatusAttempted,
	}

	id, err := m.store.SaveAttempted(ctx, o)
	if err != nil {
		return fmt.Errorf("failed to persist attempted order: %w", err)
	}

	m.orderID = id
	m.shipping = d
	m.feeValue = fee
	m.step = StepSummary
	return nil
}

// EditShipping returns from the summary to the shipping form, keeping the
// entered address and the attempted order id.
func (m *Machine) EditShipping() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.step != StepSummary {
		return fmt.Errorf("%w: edit shipping from %s", ErrInvalidTransition, m.step)
	}
	m.step = StepShipping
	return nil
}

func (m *Machine) BeginPayment() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.step != StepSummary {
		return fmt.Errorf("%w: begin payment from %s", ErrInvalidTransition, m.step)
	}
	if m.orderID == 0 {
		return ErrNoAttemptedOrder
	}
	m.step = StepPayment
	return nil
}

// ConfirmPayment enters the confirmed state only after the store reports a
// successful order confirmation. On failure the machine stays on payment so
// the shopper can retry against the same attempted order.
func (m *Machine) ConfirmPayment(ctx context.Context, paymentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.step != StepPayment {
		return fmt.Errorf("%w: confirm payment from %s", ErrInvalidTransition, m.step)
	}
	if err := m.store.Confirm(ctx, m.email, paymentID); err != nil {
		return fmt.Errorf("order confirmation failed: %w", err)
	}
	m.step = StepConfirmed
	return nil
}

// FailPayment records a gateway failure callback: control returns to the
// summary, the order stays attempted, the shopper may retry.
func (m *Machine) FailPayment() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.step != StepPayment {
		return fmt.Errorf("%w: fail payment from %s", ErrInvalidTransition, m.step)
	}
	m.step = StepSummary
	return nil
}

// Cancel abandons the in-progress checkout: back to the cart, shipping
// details discarded, cart contents preserved.
func (m *Machine) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.step = StepCart
	m.shipping = order.ShippingDetails{}
	m.feeValue = 0
}

// Resume rebuilds a session from a persisted attempted order, landing on the
// payment step. Used when confirmation arrives after the in-memory session
// is gone (e.g. a restart between summary and payment).
func (m *Machine) Resume(o order.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.step != StepCart {
		return fmt.Errorf("%w: resume from %s", ErrInvalidTransition, m.step)
	}
	if o.ID == 0 || o.Status != order.StatusAttempted {
		return ErrNoAttemptedOrder
	}
	m.items = o.Items.Clone()
	m.shipping = o.ShippingAddress
	m.feeValue = o.ShippingFee
	m.orderID = o.ID
	m.step = StepPayment
	return nil
}
