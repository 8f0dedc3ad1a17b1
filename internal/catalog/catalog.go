package catalog

import "github.com/cresenventures/storefront/internal/util"

// Product is one storefront listing. The catalog is fixed marketing
// content; prices change with a deploy, not a DB migration.
type Product struct {
	ID           string  `json:"id"`
	Slug         string  `json:"slug"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Price        string  `json:"price"`
	NumericPrice float64 `json:"numericPrice"`
	Size         string  `json:"size"`
	Image        string  `json:"image"`
	// QuoteOnly listings have no price and cannot be added to the cart.
	QuoteOnly bool `json:"quoteOnly"`
}

var products = []Product{
	{
		ID:           "prod_standard_box",
		Title:        "Standard Thermal Rolls (Box)",
		Description:  "Box of 100 premium thermal paper rolls for POS and billing counters.",
		Price:        "₹10,200",
		NumericPrice: 10200,
		Size:         "78mm x 50mtrs",
		Image:        "/images/standard-box.jpg",
	},
	{
		ID:           "prod_compact_box",
		Title:        "Compact Thermal Rolls (Box)",
		Description:  "Box of 100 compact thermal paper rolls for handheld and mobile printers.",
		Price:        "₹4,500",
		NumericPrice: 4500,
		Size:         "56mm x 25mtrs",
		Image:        "/images/compact-box.jpg",
	},
	{
		ID:          "prod_custom",
		Title:       "Custom Solutions",
		Description: "Custom widths, lengths and branding for bulk orders. Contact us for a quote.",
		Price:       "Contact for quote",
		Image:       "/images/custom.jpg",
		QuoteOnly:   true,
	},
}

func init() {
	for i := range products {
		products[i].Slug = util.Slugify(products[i].Title)
	}
}

// List returns the catalog in display order.
func List() []Product {
	out := make([]Product, len(products))
	copy(out, products)
	return out
}

// ByID looks a product up by its stable id.
func ByID(id string) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
