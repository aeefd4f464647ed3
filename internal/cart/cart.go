// Package cart keeps a visitor's line items. One cart lives in one kv slot
// keyed by the visitor session.
package cart

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samims/ecowatt/internal/kv"
	"github.com/samims/ecowatt/internal/liststore"
	"github.com/samims/ecowatt/internal/model"
)

var ErrInvalidQuantity = errors.New("quantity must be a positive integer")

// Action tells the storefront which flow an item enters on first interaction.
type Action string

const (
	ActionAddToCart    Action = "add_to_cart"
	ActionRequestQuote Action = "request_quote"
)

// Normalize forces unpriced items into quote-only mode.
func Normalize(item model.CartItem) model.CartItem {
	if item.PriceHT == nil {
		item.QuoteOnly = true
	}
	return item
}

// Route picks the flow for item.
func Route(item model.CartItem) Action {
	if Normalize(item).QuoteOnly {
		return ActionRequestQuote
	}
	return ActionAddToCart
}

// StorageKey is the slot holding sessionID's cart.
func StorageKey(sessionID string) string {
	return "cart:" + sessionID
}

type Cart struct {
	list *liststore.Store[model.CartItem]
}

// Open loads sessionID's cart from storage.
func Open(ctx context.Context, storage kv.Storage, sessionID string, logger *slog.Logger, hook func(liststore.Op, error)) *Cart {
	list := liststore.New[model.CartItem](storage, StorageKey(sessionID),
		liststore.WithMaxSize(0),
		liststore.WithLogger(logger.With("component", "cart", "session", sessionID)),
		liststore.WithErrorHook(hook),
	)
	list.Load(ctx)
	return &Cart{list: list}
}

// AddItem merges into the existing line for the product or appends a new one.
func (c *Cart) AddItem(ctx context.Context, item model.CartItem, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	item = Normalize(item)

	c.list.Mutate(ctx, func(items []model.CartItem) []model.CartItem {
		for i := range items {
			if items[i].ProductID == item.ProductID {
				items[i].Quantity += quantity
				return items
			}
		}
		item.Quantity = quantity
		return append(items, item)
	})
	return nil
}

func (c *Cart) RemoveItem(ctx context.Context, productID string) bool {
	return c.list.RemoveOne(ctx, productID)
}

// UpdateQuantity sets the line's quantity; zero or less drops the line.
func (c *Cart) UpdateQuantity(ctx context.Context, productID string, quantity int) bool {
	if quantity <= 0 {
		return c.list.RemoveOne(ctx, productID)
	}
	return c.list.UpdateOne(ctx, productID, func(it *model.CartItem) { it.Quantity = quantity })
}

func (c *Cart) Clear(ctx context.Context) {
	c.list.Clear(ctx)
}

// Items returns the lines in insertion order.
func (c *Cart) Items() []model.CartItem {
	return c.list.Items()
}

// ItemCount is the sum of all quantities.
func (c *Cart) ItemCount() int {
	total := 0
	for _, it := range c.list.Items() {
		total += it.Quantity
	}
	return total
}

// LineCount is the number of distinct products.
func (c *Cart) LineCount() int {
	return c.list.Len()
}

// Subtotal sums priced lines only.
func (c *Cart) Subtotal() float64 {
	var total float64
	for _, it := range c.list.Items() {
		total += it.LineTotal()
	}
	return total
}

// Split separates priced lines from quote-only ones.
func (c *Cart) Split() (priced, quoteOnly []model.CartItem) {
	for _, it := range c.list.Items() {
		if it.QuoteOnly {
			quoteOnly = append(quoteOnly, it)
		} else {
			priced = append(priced, it)
		}
	}
	return priced, quoteOnly
}

// RemoveWhere drops every line matching pred.
func (c *Cart) RemoveWhere(ctx context.Context, pred func(model.CartItem) bool) {
	c.list.Mutate(ctx, func(items []model.CartItem) []model.CartItem {
		kept := items[:0]
		for _, it := range items {
			if !pred(it) {
				kept = append(kept, it)
			}
		}
		return kept
	})
}

func IsQuoteOnly(it model.CartItem) bool { return it.QuoteOnly }

func IsPriced(it model.CartItem) bool { return !it.QuoteOnly }

// Summary is the shape returned to the storefront badge and cart page.
type Summary struct {
	Items     []model.CartItem `json:"items"`
	ItemCount int              `json:"item_count"`
	LineCount int              `json:"line_count"`
	Subtotal  float64          `json:"subtotal"`
	Degraded  bool             `json:"degraded,omitempty"`
}

func (c *Cart) Summary() Summary {
	items := c.Items()
	if items == nil {
		items = []model.CartItem{}
	}
	return Summary{
		Items:     items,
		ItemCount: c.ItemCount(),
		LineCount: c.LineCount(),
		Subtotal:  c.Subtotal(),
		Degraded:  c.list.Degraded(),
	}
}
