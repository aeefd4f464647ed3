package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/samims/ecowatt/internal/cart"
	appErr "github.com/samims/ecowatt/internal/errors"
	"github.com/samims/ecowatt/internal/kv"
	"github.com/samims/ecowatt/internal/model"
	"github.com/samims/ecowatt/internal/storage"
)

func ptr[T any](v T) *T { return &v }

type cartFixture struct {
	svc      CartService
	catalog  *storage.MockCatalogStorage
	orders   *storage.MockOrderStorage
	leads    *storage.MockLeadStorage
	pub      *mockPublisher
	notifier *recordingNotifier
}

func newCartFixture(t *testing.T) *cartFixture {
	f := &cartFixture{
		catalog:  storage.NewMockCatalogStorage(t),
		orders:   storage.NewMockOrderStorage(t),
		leads:    storage.NewMockLeadStorage(t),
		pub:      &mockPublisher{},
		notifier: &recordingNotifier{},
	}
	f.svc = NewCartService(CartDeps{
		Carts:     kv.NewMemoryStorage(),
		Catalog:   f.catalog,
		Orders:    f.orders,
		Leads:     NewLeadService(f.leads, f.pub, slog.Default()),
		Notifier:  f.notifier,
		Publisher: f.pub,
	}, slog.Default())
	return f
}

var (
	widget = &model.Product{
		ID: "p1", Slug: "widget", Active: true,
		Name:    map[string]string{"fr": "Gadget", "en": "Widget"},
		PriceHT: ptr(10.0), Currency: "EUR",
	}
	heatPump = &model.Product{
		ID: "p2", Slug: "heat-pump", Active: true,
		Name:     map[string]string{"fr": "Pompe à chaleur"},
		Currency: "EUR",
	}
)

func TestCartService_AddMergesSameProduct(t *testing.T) {
	f := newCartFixture(t)
	f.catalog.On("GetProduct", mock.Anything, "p1").Return(widget, nil)
	ctx := context.Background()

	_, err := f.svc.Add(ctx, "s1", "en", "p1", 2)
	require.NoError(t, err)
	res, err := f.svc.Add(ctx, "s1", "en", "p1", 3)
	require.NoError(t, err)

	assert.Equal(t, cart.ActionAddToCart, res.Action)
	require.Len(t, res.Cart.Items, 1)
	assert.Equal(t, 5, res.Cart.Items[0].Quantity)
	assert.Equal(t, "Widget", res.Cart.Items[0].Name)
	assert.InDelta(t, 50.0, res.Cart.Subtotal, 1e-9)

	// carts are per session
	assert.Empty(t, f.svc.Get(ctx, "s2").Items)
}

func TestCartService_AddRoutesUnpricedToQuote(t *testing.T) {
	f := newCartFixture(t)
	f.catalog.On("GetProduct", mock.Anything, "p2").Return(heatPump, nil)

	res, err := f.svc.Add(context.Background(), "s1", "ar", "p2", 1)
	require.NoError(t, err)
	assert.Equal(t, cart.ActionRequestQuote, res.Action)
	assert.True(t, res.Item.QuoteOnly)
	assert.Equal(t, "Pompe à chaleur", res.Item.Name)
	assert.Zero(t, res.Cart.Subtotal)
}

func TestCartService_AddErrors(t *testing.T) {
	f := newCartFixture(t)
	f.catalog.On("GetProduct", mock.Anything, "gone").Return(nil, appErr.ErrNotFound)
	f.catalog.On("GetProduct", mock.Anything, "p1").Return(widget, nil)
	f.catalog.On("GetProduct", mock.Anything, "boom").Return(nil, errors.New("db down"))
	ctx := context.Background()

	_, err := f.svc.Add(ctx, "s1", "fr", "gone", 1)
	assert.ErrorIs(t, err, appErr.ErrNotFound)

	_, err = f.svc.Add(ctx, "s1", "fr", "p1", 0)
	assert.ErrorIs(t, err, appErr.ErrInvalidInput)

	_, err = f.svc.Add(ctx, "s1", "fr", "boom", 1)
	assert.ErrorIs(t, err, appErr.ErrInternal)
}

func TestCartService_UpdateAndRemove(t *testing.T) {
	f := newCartFixture(t)
	f.catalog.On("GetProduct", mock.Anything, "p1").Return(widget, nil)
	ctx := context.Background()

	_, err := f.svc.Add(ctx, "s1", "fr", "p1", 1)
	require.NoError(t, err)

	sum, err := f.svc.UpdateQuantity(ctx, "s1", "p1", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, sum.ItemCount)

	sum, err = f.svc.UpdateQuantity(ctx, "s1", "p1", 0)
	require.NoError(t, err)
	assert.Zero(t, sum.LineCount)

	_, err = f.svc.Remove(ctx, "s1", "p1")
	assert.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestCartService_Checkout(t *testing.T) {
	f := newCartFixture(t)
	f.catalog.On("GetProduct", mock.Anything, "p1").Return(widget, nil)
	f.catalog.On("GetProduct", mock.Anything, "p2").Return(heatPump, nil)
	f.orders.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o *model.Order) bool {
		return len(o.Items) == 1 && o.Items[0].ProductID == "p1" && o.Subtotal == 20 && o.Status == model.OrderPending
	})).Return(nil)
	f.pub.On("Publish", mock.Anything, mock.MatchedBy(func(ev model.Event) bool {
		return ev.Type == model.NotificationOrder
	})).Return(nil)
	ctx := context.Background()

	_, err := f.svc.Add(ctx, "s1", "fr", "p1", 2)
	require.NoError(t, err)
	_, err = f.svc.Add(ctx, "s1", "fr", "p2", 1)
	require.NoError(t, err)

	in := CheckoutInput{Customer: model.Customer{FirstName: "Nadia", Email: "nadia@example.com"}}
	order, err := f.svc.Checkout(ctx, "s1", "fr", in)
	require.NoError(t, err)

	sent := f.notifier.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, order.ID, sent[0].ID)
	f.pub.AssertExpectations(t)

	left := f.svc.Get(ctx, "s1")
	require.Len(t, left.Items, 1)
	assert.Equal(t, "p2", left.Items[0].ProductID)
}

func TestCartService_CheckoutRejects(t *testing.T) {
	f := newCartFixture(t)
	f.catalog.On("GetProduct", mock.Anything, "p2").Return(heatPump, nil)
	ctx := context.Background()

	valid := CheckoutInput{Customer: model.Customer{FirstName: "N", Email: "n@example.com"}}

	_, err := f.svc.Checkout(ctx, "s1", "fr", valid)
	assert.ErrorIs(t, err, appErr.ErrInvalidInput, "empty cart")

	_, err = f.svc.Add(ctx, "s1", "fr", "p2", 1)
	require.NoError(t, err)
	_, err = f.svc.Checkout(ctx, "s1", "fr", valid)
	assert.ErrorIs(t, err, appErr.ErrInvalidInput, "quote-only cart")

	_, err = f.svc.Checkout(ctx, "s1", "fr", CheckoutInput{Customer: model.Customer{FirstName: "N", Email: "bad"}})
	assert.ErrorIs(t, err, appErr.ErrInvalidInput)
	assert.Empty(t, f.notifier.sent())
}

func TestCartService_RequestQuote(t *testing.T) {
	f := newCartFixture(t)
	f.catalog.On("GetProduct", mock.Anything, "p1").Return(widget, nil)
	f.catalog.On("GetProduct", mock.Anything, "p2").Return(heatPump, nil)
	f.leads.On("CreateLead", mock.Anything, mock.MatchedBy(func(l *model.Lead) bool {
		return len(l.Products) == 1 && l.Products[0].ProductID == "p2"
	})).Return(nil)
	f.leads.On("AddHistory", mock.Anything, mock.Anything).Return(nil)
	f.pub.On("Publish", mock.Anything, mock.Anything).Return(nil)
	ctx := context.Background()

	_, err := f.svc.Add(ctx, "s1", "fr", "p1", 1)
	require.NoError(t, err)
	_, err = f.svc.Add(ctx, "s1", "fr", "p2", 3)
	require.NoError(t, err)

	lead, err := f.svc.RequestQuote(ctx, "s1", "fr", ContactInput{FirstName: "Omar", Email: "omar@example.com"})
	require.NoError(t, err)
	assert.Equal(t, model.LeadQuoteRequested, lead.Status)

	left := f.svc.Get(ctx, "s1")
	require.Len(t, left.Items, 1)
	assert.Equal(t, "p1", left.Items[0].ProductID)
}
