package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samims/ecowatt/internal/cart"
	appErr "github.com/samims/ecowatt/internal/errors"
	"github.com/samims/ecowatt/internal/i18n"
	"github.com/samims/ecowatt/internal/kafka"
	"github.com/samims/ecowatt/internal/kv"
	"github.com/samims/ecowatt/internal/liststore"
	"github.com/samims/ecowatt/internal/model"
	"github.com/samims/ecowatt/internal/storage"
	"github.com/samims/ecowatt/internal/webhook"
	"github.com/samims/ecowatt/pkg/tracing"
)

// AddResult tells the storefront which path the product took.
type AddResult struct {
	Action cart.Action    `json:"action"`
	Item   model.CartItem `json:"item"`
	Cart   cart.Summary   `json:"cart"`
}

// CheckoutInput carries the customer details for an order.
type CheckoutInput struct {
	Customer model.Customer `json:"customer"`
	Notes    string         `json:"notes"`
}

// CartService drives the session carts and turns them into orders and
// quote requests.
type CartService interface {
	Get(ctx context.Context, session string) cart.Summary
	Add(ctx context.Context, session, lang, productID string, quantity int) (*AddResult, error)
	UpdateQuantity(ctx context.Context, session, productID string, quantity int) (cart.Summary, error)
	Remove(ctx context.Context, session, productID string) (cart.Summary, error)
	Clear(ctx context.Context, session string) cart.Summary

	Checkout(ctx context.Context, session, lang string, in CheckoutInput) (*model.Order, error)
	RequestQuote(ctx context.Context, session, lang string, in ContactInput) (*model.Lead, error)
}

type cartService struct {
	carts     kv.Storage
	catalog   storage.CatalogStorage
	orders    storage.OrderStorage
	leads     LeadService
	notifier  webhook.OrderNotifier
	publisher kafka.EventPublisher
	hook      func(liststore.Op, error)
	logger    *slog.Logger
	tracer    *tracing.Tracer
	now       func() time.Time
}

type CartDeps struct {
	Carts     kv.Storage
	Catalog   storage.CatalogStorage
	Orders    storage.OrderStorage
	Leads     LeadService
	Notifier  webhook.OrderNotifier
	Publisher kafka.EventPublisher
	// StoreHook receives storage failures swallowed by the cart stores.
	StoreHook func(liststore.Op, error)
}

func NewCartService(deps CartDeps, logger *slog.Logger) CartService {
	l := logger.With("layer", "service", "component", "cartService")
	return &cartService{
		carts:     deps.Carts,
		catalog:   deps.Catalog,
		orders:    deps.Orders,
		leads:     deps.Leads,
		notifier:  deps.Notifier,
		publisher: deps.Publisher,
		hook:      deps.StoreHook,
		logger:    l,
		tracer:    tracing.New("cart-service"),
		now:       time.Now,
	}
}

func (s *cartService) open(ctx context.Context, session string) *cart.Cart {
	return cart.Open(ctx, s.carts, session, s.logger, s.hook)
}

func (s *cartService) Get(ctx context.Context, session string) cart.Summary {
	return s.open(ctx, session).Summary()
}

// Add snapshots the product into the session cart. Products without a
// price come back with ActionRequestQuote.
func (s *cartService) Add(ctx context.Context, session, lang, productID string, quantity int) (*AddResult, error) {
	ctx, span := s.tracer.StartServerSpan(ctx, "CartAdd",
		attribute.String(tracing.AttrSession, session),
		attribute.String("product.id", productID))
	defer span.End()

	p, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		if appErr.IsNotFound(err) {
			return nil, appErr.NewNotFound("product %s not found", productID)
		}
		s.tracer.RecordError(span, err)
		s.logger.Error("failed to fetch product for cart", slog.String("product_id", productID), slog.Any("error", err))
		return nil, appErr.NewInternal("failed to fetch product: %v", err)
	}
	if !p.Active {
		return nil, appErr.NewNotFound("product %s not found", productID)
	}

	item := cart.Normalize(p.CartItem(lang, i18n.DefaultLang))
	c := s.open(ctx, session)
	if err := c.AddItem(ctx, item, quantity); err != nil {
		if errors.Is(err, cart.ErrInvalidQuantity) {
			return nil, appErr.NewInvalidInput("%v", err)
		}
		return nil, appErr.NewInternal("failed to add item: %v", err)
	}

	action := cart.Route(item)
	span.SetAttributes(attribute.String("cart.action", string(action)))
	return &AddResult{Action: action, Item: item, Cart: c.Summary()}, nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, session, productID string, quantity int) (cart.Summary, error) {
	c := s.open(ctx, session)
	if !c.UpdateQuantity(ctx, productID, quantity) {
		return c.Summary(), appErr.NewNotFound("product %s is not in the cart", productID)
	}
	return c.Summary(), nil
}

func (s *cartService) Remove(ctx context.Context, session, productID string) (cart.Summary, error) {
	c := s.open(ctx, session)
	if !c.RemoveItem(ctx, productID) {
		return c.Summary(), appErr.NewNotFound("product %s is not in the cart", productID)
	}
	return c.Summary(), nil
}

func (s *cartService) Clear(ctx context.Context, session string) cart.Summary {
	c := s.open(ctx, session)
	c.Clear(ctx)
	return c.Summary()
}

// Checkout turns the priced lines into an order. Quote-only lines stay in
// the cart. The webhook and the event bus are notified after the order is
// stored; their failures do not fail the checkout.
func (s *cartService) Checkout(ctx context.Context, session, lang string, in CheckoutInput) (*model.Order, error) {
	ctx, span := s.tracer.StartServerSpan(ctx, "Checkout", attribute.String(tracing.AttrSession, session))
	defer span.End()

	if _, err := mail.ParseAddress(in.Customer.Email); err != nil {
		return nil, appErr.NewInvalidInput("invalid email %q", in.Customer.Email)
	}
	if in.Customer.FirstName == "" && in.Customer.LastName == "" {
		return nil, appErr.NewInvalidInput("customer name is required")
	}

	c := s.open(ctx, session)
	priced, _ := c.Split()
	if len(priced) == 0 {
		return nil, appErr.NewInvalidInput("cart has no priced items")
	}

	var subtotal float64
	currency := ""
	for _, it := range priced {
		subtotal += it.LineTotal()
		if currency == "" {
			currency = it.Currency
		} else if it.Currency != currency {
			return nil, appErr.NewInvalidInput("cart mixes currencies %s and %s", currency, it.Currency)
		}
	}
	if !i18n.IsSupported(lang) {
		lang = i18n.DefaultLang
	}

	order := &model.Order{
		ID:        uuid.NewString(),
		Customer:  in.Customer,
		Items:     priced,
		Subtotal:  subtotal,
		Currency:  currency,
		Status:    model.OrderPending,
		Language:  lang,
		Notes:     in.Notes,
		CreatedAt: s.now().UTC(),
	}
	if err := s.orders.CreateOrder(ctx, order); err != nil {
		s.tracer.RecordError(span, err)
		s.logger.Error("failed to store order", slog.Any("error", err))
		return nil, appErr.NewInternal("failed to store order: %v", err)
	}
	span.SetAttributes(attribute.String("order.id", order.ID))

	s.notifier.Notify(ctx, *order)
	ev := model.Event{
		Type:        model.NotificationOrder,
		EntityID:    order.ID,
		Title:       "New order",
		Description: fmt.Sprintf("%s %s, %.2f %s", order.Customer.FirstName, order.Customer.LastName, order.Subtotal, order.Currency),
		Link:        "/orders/" + order.ID,
		CreatedAt:   order.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.Warn("failed to publish order event", slog.String("order_id", order.ID), slog.Any("error", err))
	}

	c.RemoveWhere(ctx, cart.IsPriced)
	s.logger.Info("order placed", slog.String("order_id", order.ID), slog.Int("lines", len(priced)))
	return order, nil
}

// RequestQuote sends the quote-only lines to sales as a lead and drops
// them from the cart.
func (s *cartService) RequestQuote(ctx context.Context, session, lang string, in ContactInput) (*model.Lead, error) {
	c := s.open(ctx, session)
	_, quoteOnly := c.Split()
	if len(quoteOnly) == 0 {
		return nil, appErr.NewInvalidInput("cart has no quote-only items")
	}
	lead, err := s.leads.RequestQuote(ctx, lang, in, quoteOnly)
	if err != nil {
		return nil, err
	}
	c.RemoveWhere(ctx, cart.IsQuoteOnly)
	return lead, nil
}
