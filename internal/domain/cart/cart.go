package cart

// Item is one cart line. The product title is the uniqueness key; JSON field
// names match the storefront payloads.
type Item struct {
	ProductID string  `json:"id,omitempty"`
	Title     string  `json:"title"`
	UnitPrice float64 `json:"numericPrice"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image,omitempty"`
	Size      string  `json:"size,omitempty"`
}

// Cart holds the selected items for one shopper. Mutations keep the
// invariant quantity >= 1: a zero quantity means removal, never a
// zero-quantity line.
type Cart []Item

// Add increments the quantity when an item with the same title exists,
// otherwise appends the item with quantity 1.
func (c *Cart) Add(it Item) {
	for i := range *c {
		if (*c)[i].Title == it.Title {
			(*c)[i].Quantity++
			return
		}
	}
	it.Quantity = 1
	*c = append(*c, it)
}

func (c *Cart) Remove(title string) {
	out := (*c)[:0]
	for _, it := range *c {
		if it.Title != title {
			out = append(out, it)
		}
	}
	*c = out
}

// UpdateQuantity replaces the quantity of the matching line. A quantity
// below 1 removes the line.
func (c *Cart) UpdateQuantity(title string, qty int) {
	if qty < 1 {
		c.Remove(title)
		return
	}
	for i := range *c {
		if (*c)[i].Title == title {
			(*c)[i].Quantity = qty
			return
		}
	}
}

func (c *Cart) Clear() {
	*c = Cart{}
}

// Normalize drops lines that violate the quantity invariant. Used on
// snapshots received over the wire.
func (c Cart) Normalize() Cart {
	out := make(Cart, 0, len(c))
	for _, it := range c {
		if it.Quantity >= 1 {
			out = append(out, it)
		}
	}
	return out
}

func (c Cart) TotalQuantity() int {
	var n int
	for _, it := range c {
		n += it.Quantity
	}
	return n
}

func (c Cart) Subtotal() float64 {
	var sum float64
	for _, it := range c {
		sum += it.UnitPrice * float64(it.Quantity)
	}
	return sum
}

func (c Cart) IsEmpty() bool {
	return len(c) == 0
}

// Clone returns an independent copy. Order snapshots must not alias the
// live cart.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}
