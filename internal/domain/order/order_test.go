package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cresenventures/storefront/internal/domain/cart"
)

func validDetails() ShippingDetails {
	return ShippingDetails{
		Name:    "Asha Menon",
		Phone:   "9995742767",
		Address: "12 Marine Drive",
		City:    "Kochi",
		Pincode: "682304",
	}
}

func TestShippingDetailsValidate(t *testing.T) {
	require.NoError(t, validDetails().Validate())

	cases := []struct {
		name   string
		mutate func(*ShippingDetails)
		want   error
	}{
		{"empty name", func(d *ShippingDetails) { d.Name = "" }, ErrMissingField},
		{"blank address", func(d *ShippingDetails) { d.Address = "   " }, ErrMissingField},
		{"empty city", func(d *ShippingDetails) { d.City = "" }, ErrMissingField},
		{"short phone", func(d *ShippingDetails) { d.Phone = "12345" }, ErrInvalidPhone},
		{"short pincode", func(d *ShippingDetails) { d.Pincode = "6823" }, ErrInvalidPincode},
		{"non-numeric pincode", func(d *ShippingDetails) { d.Pincode = "68230a" }, ErrInvalidPincode},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := validDetails()
			tc.mutate(&d)
			assert.ErrorIs(t, d.Validate(), tc.want)
		})
	}
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("dispatched")
	require.NoError(t, err)
	assert.Equal(t, StatusDispatched, s)

	s, err = ParseStatus("  New ")
	require.NoError(t, err)
	assert.Equal(t, StatusNew, s)

	_, err = ParseStatus("shipped")
	assert.Error(t, err)
}

func TestStatusCanDispatch(t *testing.T) {
	assert.False(t, StatusAttempted.CanDispatch())
	assert.True(t, StatusNew.CanDispatch())
	assert.True(t, StatusDispatched.CanDispatch())
}

func TestOrderTotals(t *testing.T) {
	o := Order{
		Items: cart.Cart{
			{Title: "Standard Roll Box", UnitPrice: 10200, Quantity: 2},
		},
		ShippingFee: 2700,
	}
	assert.Equal(t, 20400.0, o.Subtotal())
	assert.Equal(t, 23100.0, o.GrandTotal())
}
