package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cresenventures/storefront/internal/domain/cart"
	"github.com/cresenventures/storefront/internal/domain/order"
	"github.com/cresenventures/storefront/internal/domain/user"
	"github.com/cresenventures/storefront/internal/shipping"
)

// mockStore implements OrderStore with upsert semantics keyed by email,
// mirroring the real repository: one attempted order per shopper.
type mockStore struct {
	nextID     int64
	saved      map[string]order.Order
	saveCalls  int
	saveErr    error
	confirmErr error
	confirmed  map[string]string // email -> payment id
}

func newMockStore() *mockStore {
	return &mockStore{
		nextID:    100,
		saved:     make(map[string]order.Order),
		confirmed: make(map[string]string),
	}
}

func (s *mockStore) SaveAttempted(_ context.Context, o order.Order) (int64, error) {
	s.saveCalls++
	if s.saveErr != nil {
		return 0, s.saveErr
	}
	if existing, ok := s.saved[o.Email]; ok {
		o.ID = existing.ID
	} else {
		s.nextID++
		o.ID = s.nextID
	}
	s.saved[o.Email] = o
	return o.ID, nil
}

func (s *mockStore) Confirm(_ context.Context, email, paymentID string) error {
	if s.confirmErr != nil {
		return s.confirmErr
	}
	o, ok := s.saved[email]
	if !ok {
		return errors.New("no attempted order")
	}
	o.Status = order.StatusNew
	o.PaymentID = paymentID
	s.saved[email] = o
	s.confirmed[email] = paymentID
	return nil
}

func testCart() cart.Cart {
	return cart.Cart{
		{ProductID: "prod_standard_box", Title: "Standard Roll Box", UnitPrice: 10200, Quantity: 2},
	}
}

func testUser() *user.User {
	return &user.User{ID: 1, Email: "asha@example.com", Name: "Asha", Role: user.RoleCustomer}
}

func testDetails() order.ShippingDetails {
	return order.ShippingDetails{
		Name:    "Asha Menon",
		Phone:   "9995742767",
		Address: "12 Marine Drive",
		City:    "Kochi",
		Pincode: "682304",
	}
}

func newTestMachine(store OrderStore) *Machine {
	return newMachine("asha@example.com", store, shipping.ComputeFee)
}

func TestBegin_EmptyCartBlocked(t *testing.T) {
	m := newTestMachine(newMockStore())

	err := m.Begin(cart.Cart{}, testUser())

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, StepCart, m.Step())
}

func TestBegin_SkipsAuthWhenUserResolved(t *testing.T) {
	m := newTestMachine(newMockStore())

	require.NoError(t, m.Begin(testCart(), testUser()))

	assert.Equal(t, StepShipping, m.Step())
}

func TestBegin_RequiresAuthWhenAnonymous(t *testing.T) {
	m := newTestMachine(newMockStore())

	require.NoError(t, m.Begin(testCart(), nil))
	assert.Equal(t, StepAuth, m.Step())

	require.NoError(t, m.Authenticate(testUser()))
	assert.Equal(t, StepShipping, m.Step())
}

func TestAuthenticate_NilUserRejected(t *testing.T) {
	m := newTestMachine(newMockStore())
	require.NoError(t, m.Begin(testCart(), nil))

	assert.ErrorIs(t, m.Authenticate(nil), ErrNotAuthenticated)
	assert.Equal(t, StepAuth, m.Step())
}

func TestSubmitShipping_InvalidDetailsKeepsStep(t *testing.T) {
	m := newTestMachine(newMockStore())
	require.NoError(t, m.Begin(testCart(), testUser()))

	d := testDetails()
	d.Phone = "123"
	err := m.SubmitShipping(context.Background(), d)

	assert.ErrorIs(t, err, order.ErrInvalidPhone)
	assert.Equal(t, StepShipping, m.Step())
	assert.Zero(t, m.OrderID())
}

func TestSubmitShipping_PersistFailureKeepsStep(t *testing.T) {
	store := newMockStore()
	store.saveErr = errors.New("db down")
	m := newTestMachine(store)
	require.NoError(t, m.Begin(testCart(), testUser()))

	err := m.SubmitShipping(context.Background(), testDetails())

	assert.Error(t, err)
	assert.Equal(t, StepShipping, m.Step())
	assert.Zero(t, m.OrderID())
}

func TestSubmitShipping_AdvancesWithComputedFee(t *testing.T) {
	store := newMockStore()
	m := newTestMachine(store)
	require.NoError(t, m.Begin(testCart(), testUser()))

	require.NoError(t, m.SubmitShipping(context.Background(), testDetails()))

	assert.Equal(t, StepSummary, m.Step())
	assert.Equal(t, 2700.0, m.Fee())
	require.NotZero(t, m.OrderID())

	saved := store.saved["asha@example.com"]
	assert.Equal(t, order.StatusAttempted, saved.Status)
	assert.Equal(t, 2700.0, saved.ShippingFee)
	assert.Equal(t, 2, saved.Items.TotalQuantity())
}

func TestEditShipping_ResubmitReusesOrder(t *testing.T) {
	store := newMockStore()
	m := newTestMachine(store)
	require.NoError(t, m.Begin(testCart(), testUser()))
	require.NoError(t, m.SubmitShipping(context.Background(), testDetails()))

	firstID := m.OrderID()
	firstFee := m.Fee()

	require.NoError(t, m.EditShipping())
	assert.Equal(t, StepShipping, m.Step())

	require.NoError(t, m.SubmitShipping(context.Background(), testDetails()))

	assert.Equal(t, StepSummary, m.Step())
	assert.Equal(t, firstID, m.OrderID())
	assert.Equal(t, firstFee, m.Fee())
	assert.Len(t, store.saved, 1)
	assert.Equal(t, 2, store.saveCalls)
}

func TestOrderSnapshotIgnoresLaterCartEdits(t *testing.T) {
	store := newMockStore()
	m := newTestMachine(store)
	items := testCart()
	require.NoError(t, m.Begin(items, testUser()))
	require.NoError(t, m.SubmitShipping(context.Background(), testDetails()))

	items.UpdateQuantity("Standard Roll Box", 9)

	assert.Equal(t, 2, store.saved["asha@example.com"].Items.TotalQuantity())
}

func TestConfirmPayment_GatewayFailureNeverConfirms(t *testing.T) {
	store := newMockStore()
	m := newTestMachine(store)
	require.NoError(t, m.Begin(testCart(), testUser()))
	require.NoError(t, m.SubmitShipping(context.Background(), testDetails()))
	require.NoError(t, m.BeginPayment())

	// gateway reported failure: no confirmation call is ever made
	require.NoError(t, m.FailPayment())
	assert.Equal(t, StepSummary, m.Step())
	assert.Empty(t, store.confirmed)
	assert.Equal(t, order.StatusAttempted, store.saved["asha@example.com"].Status)

	// the shopper may retry from the summary
	require.NoError(t, m.BeginPayment())
	assert.Equal(t, StepPayment, m.Step())
}

func TestConfirmPayment_StoreFailureKeepsPaymentStep(t *testing.T) {
	store := newMockStore()
	m := newTestMachine(store)
	require.NoError(t, m.Begin(testCart(), testUser()))
	require.NoError(t, m.SubmitShipping(context.Background(), testDetails()))
	require.NoError(t, m.BeginPayment())

	store.confirmErr = errors.New("backend unreachable")
	err := m.ConfirmPayment(context.Background(), "pay_123")

	assert.Error(t, err)
	assert.Equal(t, StepPayment, m.Step())
}

func TestConfirmPayment_Success(t *testing.T) {
	store := newMockStore()
	m := newTestMachine(store)
	require.NoError(t, m.Begin(testCart(), testUser()))
	require.NoError(t, m.SubmitShipping(context.Background(), testDetails()))
	require.NoError(t, m.BeginPayment())

	require.NoError(t, m.ConfirmPayment(context.Background(), "pay_123"))

	assert.Equal(t, StepConfirmed, m.Step())
	assert.Equal(t, "pay_123", store.confirmed["asha@example.com"])
	assert.Equal(t, order.StatusNew, store.saved["asha@example.com"].Status)
}

func TestBeginPayment_OnlyFromSummary(t *testing.T) {
	m := newTestMachine(newMockStore())
	require.NoError(t, m.Begin(testCart(), testUser()))

	assert.ErrorIs(t, m.BeginPayment(), ErrInvalidTransition)
}

func TestCancel_ResetsButKeepsNothingInFlight(t *testing.T) {
	m := newTestMachine(newMockStore())
	require.NoError(t, m.Begin(testCart(), testUser()))

	m.Cancel()

	assert.Equal(t, StepCart, m.Step())
	assert.Zero(t, m.Fee())
}

func TestResume_FromPersistedAttemptedOrder(t *testing.T) {
	store := newMockStore()
	m := newTestMachine(store)

	o := order.Order{
		ID:          42,
		Email:       "asha@example.com",
		Items:       testCart(),
		ShippingFee: 2700,
		Status:      order.StatusAttempted,
	}
	require.NoError(t, m.Resume(o))

	assert.Equal(t, StepPayment, m.Step())
	assert.Equal(t, int64(42), m.OrderID())

	// a paid order cannot seed a payment session
	m2 := newTestMachine(store)
	o.Status = order.StatusNew
	assert.ErrorIs(t, m2.Resume(o), ErrNoAttemptedOrder)
}

func TestBegin_AfterConfirmedStartsFresh(t *testing.T) {
	store := newMockStore()
	m := newTestMachine(store)
	require.NoError(t, m.Begin(testCart(), testUser()))
	require.NoError(t, m.SubmitShipping(context.Background(), testDetails()))
	require.NoError(t, m.BeginPayment())
	require.NoError(t, m.ConfirmPayment(context.Background(), "pay_123"))

	require.NoError(t, m.Begin(testCart(), testUser()))

	assert.Equal(t, StepShipping, m.Step())
	assert.Zero(t, m.OrderID())
}

func TestManager_SessionPerEmail(t *testing.T) {
	mgr := NewManager(newMockStore(), shipping.ComputeFee)

	a := mgr.Session("a@example.com")
	b := mgr.Session("b@example.com")

	assert.NotSame(t, a, b)
	assert.Same(t, a, mgr.Session("a@example.com"))

	mgr.End("a@example.com")
	assert.NotSame(t, a, mgr.Session("a@example.com"))
}
