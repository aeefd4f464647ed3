package model

import "time"

// Product is a catalogue entry. Localized fields are keyed by language code.
type Product struct {
	ID          string            `json:"id"`
	SKU         *string           `json:"sku"`
	Slug        string            `json:"slug"`
	CategoryID  *string           `json:"category_id"`
	Name        map[string]string `json:"name"`
	Description map[string]string `json:"description"`
	PriceHT     *float64          `json:"price_ht"`
	Currency    string            `json:"price_currency"`
	QuoteOnly   bool              `json:"is_quote_only"`
	Image       *string           `json:"image"`
	Featured    bool              `json:"featured"`
	Active      bool              `json:"active"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// CartItem snapshots the product for a cart line in lang.
func (p Product) CartItem(lang string, fallback string) CartItem {
	slug := p.Slug
	return CartItem{
		ProductID: p.ID,
		SKU:       p.SKU,
		Name:      Localized(p.Name, lang, fallback),
		Slug:      &slug,
		PriceHT:   p.PriceHT,
		Currency:  p.Currency,
		QuoteOnly: p.QuoteOnly,
		Image:     p.Image,
	}
}

type Category struct {
	ID        string            `json:"id"`
	Slug      string            `json:"slug"`
	Name      map[string]string `json:"name"`
	ParentID  *string           `json:"parent_id"`
	Position  int               `json:"position"`
	CreatedAt time.Time         `json:"created_at"`
}

// Localized picks the lang entry of m, then fallback, then any entry.
func Localized(m map[string]string, lang, fallback string) string {
	if v := m[lang]; v != "" {
		return v
	}
	if v := m[fallback]; v != "" {
		return v
	}
	for _, v := range m {
		if v != "" {
			return v
		}
	}
	return ""
}
