package model

// CartItem is a line of a visitor's cart. A nil PriceHT means the product
// is sold on quotation only.
type CartItem struct {
	ProductID string   `json:"product_id"`
	SKU       *string  `json:"sku"`
	Name      string   `json:"name"`
	Slug      *string  `json:"slug"`
	PriceHT   *float64 `json:"price_ht"`
	Currency  string   `json:"price_currency"`
	QuoteOnly bool     `json:"is_quote_only"`
	Image     *string  `json:"image"`
	Quantity  int      `json:"quantity"`
}

func (c CartItem) RecordID() string { return c.ProductID }

// LineTotal is zero for quote-only lines.
func (c CartItem) LineTotal() float64 {
	if c.PriceHT == nil || c.QuoteOnly {
		return 0
	}
	return *c.PriceHT * float64(c.Quantity)
}
