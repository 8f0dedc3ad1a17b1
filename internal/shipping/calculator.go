package shipping

import (
	"strings"

	"github.com/cresenventures/storefront/internal/domain/cart"
)

// Per-box rates in rupees, matched on the product title.
const (
	standardBoxRate = 1350
	compactBoxRate  = 600
)

// ComputeFee returns the shipping fee for the cart shipped to the given
// pincode. The fee is a per-unit rate by product category, matched by a
// case-insensitive substring of the title, summed across lines. Titles that
// match no known category ship free; callers are expected to log those (the
// zero fallback is observed storefront behavior, not a tariff).
//
// Deterministic: same (items, pincode) always yields the same fee. The
// destination currently selects no rate; it stays a parameter because the
// tariff is defined per destination.
func ComputeFee(items cart.Cart, pincode string) float64 {
	var fee float64
	for _, it := range items {
		fee += unitRate(it.Title) * float64(it.Quantity)
	}
	return fee
}

// HasUnknownCategory reports whether any line would ship free because its
// title matches no rate category.
func HasUnknownCategory(items cart.Cart) bool {
	for _, it := range items {
		if it.Quantity > 0 && unitRate(it.Title) == 0 {
			return true
		}
	}
	return false
}

func unitRate(title string) float64 {
	t := strings.ToLower(title)
	switch {
	case strings.Contains(t, "standard"):
		return standardBoxRate
	case strings.Contains(t, "compact"):
		return compactBoxRate
	}
	return 0
}
