package mail

import (
	"fmt"
	"strings"

	"github.com/cresenventures/storefront/internal/domain/order"
)

// SendOrderConfirmed emails the payment receipt with the order snapshot.
func SendOrderConfirmed(m Mailer, o order.Order) error {
	subject := fmt.Sprintf("Order #%d confirmed", o.ID)

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\r\n\r\n", displayName(o))
	fmt.Fprintf(&b, "Thank you for your order. Payment was received and your order #%d is being prepared.\r\n\r\n", o.ID)
	writeItemLines(&b, o)
	fmt.Fprintf(&b, "\r\nShipping: Rs. %.2f\r\n", o.ShippingFee)
	fmt.Fprintf(&b, "Total paid: Rs. %.2f\r\n", o.GrandTotal())
	b.WriteString("\r\nWe will email you again once your order ships.\r\n")

	return m.Send(o.Email, subject, b.String())
}

// SendOrderDispatched emails the tracking code when an order first ships.
func SendOrderDispatched(m Mailer, o order.Order) error {
	subject := fmt.Sprintf("Order #%d dispatched", o.ID)

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\r\n\r\n", displayName(o))
	fmt.Fprintf(&b, "Your order #%d has been dispatched.\r\n", o.ID)
	fmt.Fprintf(&b, "Tracking code: %s\r\n\r\n", o.ShippingCode)
	writeItemLines(&b, o)
	b.WriteString("\r\nThank you for shopping with us.\r\n")

	return m.Send(o.Email, subject, b.String())
}

func writeItemLines(b *strings.Builder, o order.Order) {
	for _, it := range o.Items {
		fmt.Fprintf(b, "  %s x%d - Rs. %.2f\r\n", it.Title, it.Quantity, it.UnitPrice*float64(it.Quantity))
	}
}

func displayName(o order.Order) string {
	if o.Name != "" {
		return o.Name
	}
	return o.Email
}
