package cart_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samims/ecowatt/internal/cart"
	"github.com/samims/ecowatt/internal/kv"
	"github.com/samims/ecowatt/internal/model"
)

func price(v float64) *float64 { return &v }

func widget() model.CartItem {
	return model.CartItem{
		ProductID: "p1",
		PriceHT:   price(10),
		Currency:  "EUR",
		QuoteOnly: false,
		SKU:       nil,
		Name:      "Widget",
	}
}

func openCart(t *testing.T, storage kv.Storage) *cart.Cart {
	t.Helper()
	return cart.Open(context.Background(), storage, "session-1", slog.Default(), nil)
}

func TestCart_AddItemMergesSameProduct(t *testing.T) {
	ctx := context.Background()
	c := openCart(t, kv.NewMemoryStorage())

	require.NoError(t, c.AddItem(ctx, widget(), 2))
	require.NoError(t, c.AddItem(ctx, widget(), 3))

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ProductID)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, 5, c.ItemCount())
	assert.Equal(t, 1, c.LineCount())
	assert.InDelta(t, 50.0, c.Subtotal(), 0.0001)
}

func TestCart_AddItemRejectsNonPositiveQuantity(t *testing.T) {
	c := openCart(t, kv.NewMemoryStorage())

	assert.ErrorIs(t, c.AddItem(context.Background(), widget(), 0), cart.ErrInvalidQuantity)
	assert.ErrorIs(t, c.AddItem(context.Background(), widget(), -2), cart.ErrInvalidQuantity)
	assert.Empty(t, c.Items())
}

func TestRoute(t *testing.T) {
	tests := []struct {
		name string
		item model.CartItem
		want cart.Action
	}{
		{name: "priced item", item: widget(), want: cart.ActionAddToCart},
		{
			name: "null price ignores explicit flag",
			item: model.CartItem{ProductID: "p2", PriceHT: nil, QuoteOnly: false},
			want: cart.ActionRequestQuote,
		},
		{
			name: "explicit quote only",
			item: model.CartItem{ProductID: "p3", PriceHT: price(99), QuoteOnly: true},
			want: cart.ActionRequestQuote,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cart.Route(tt.item))
		})
	}
}

func TestCart_NullPriceStoredAsQuoteOnly(t *testing.T) {
	ctx := context.Background()
	c := openCart(t, kv.NewMemoryStorage())

	require.NoError(t, c.AddItem(ctx, model.CartItem{ProductID: "pump", Name: "Heat pump"}, 1))
	require.NoError(t, c.AddItem(ctx, widget(), 1))

	items := c.Items()
	require.Len(t, items, 2)
	assert.True(t, items[0].QuoteOnly)
	assert.InDelta(t, 10.0, c.Subtotal(), 0.0001)

	priced, quote := c.Split()
	assert.Len(t, priced, 1)
	assert.Len(t, quote, 1)

	c.RemoveWhere(ctx, cart.IsQuoteOnly)
	assert.Equal(t, []string{"p1"}, []string{c.Items()[0].ProductID})
	assert.Equal(t, 1, c.LineCount())
}

func TestCart_UpdateQuantityAndRemove(t *testing.T) {
	ctx := context.Background()
	c := openCart(t, kv.NewMemoryStorage())
	require.NoError(t, c.AddItem(ctx, widget(), 1))

	assert.True(t, c.UpdateQuantity(ctx, "p1", 7))
	assert.Equal(t, 7, c.ItemCount())

	assert.False(t, c.UpdateQuantity(ctx, "missing", 3))
	assert.False(t, c.RemoveItem(ctx, "missing"))
	assert.Equal(t, 1, c.LineCount())

	assert.True(t, c.UpdateQuantity(ctx, "p1", 0))
	assert.Equal(t, 0, c.LineCount())
}

func TestCart_PersistsPerSession(t *testing.T) {
	ctx := context.Background()
	storage := kv.NewMemoryStorage()

	first := cart.Open(ctx, storage, "s1", slog.Default(), nil)
	require.NoError(t, first.AddItem(ctx, widget(), 4))

	again := cart.Open(ctx, storage, "s1", slog.Default(), nil)
	assert.Equal(t, 4, again.ItemCount())

	other := cart.Open(ctx, storage, "s2", slog.Default(), nil)
	assert.Equal(t, 0, other.ItemCount())

	again.Clear(ctx)
	reloaded := cart.Open(ctx, storage, "s1", slog.Default(), nil)
	assert.Equal(t, 0, reloaded.ItemCount())
	assert.Equal(t, []model.CartItem{}, reloaded.Summary().Items)
}
