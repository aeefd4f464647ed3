// Package webhook posts new-order events to an external endpoint.
// Delivery is fire-and-forget: failures are logged and counted, never retried.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/samims/ecowatt/internal/metrics"
	"github.com/samims/ecowatt/internal/model"
)

// OrderNotifier is what the order service depends on.
type OrderNotifier interface {
	Notify(ctx context.Context, order model.Order)
}

type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Address string `json:"address"`
}

type Item struct {
	ProductID string   `json:"product_id"`
	SKU       *string  `json:"sku"`
	Name      string   `json:"name"`
	Quantity  int      `json:"quantity"`
	PriceHT   *float64 `json:"price_ht"`
	Currency  string   `json:"currency"`
}

// Payload is the JSON body sent for every order.
type Payload struct {
	Event     string    `json:"event"`
	OrderID   string    `json:"order_id"`
	Customer  Customer  `json:"customer"`
	Items     []Item    `json:"items"`
	Subtotal  float64   `json:"subtotal"`
	Currency  string    `json:"currency"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
	SentAt    time.Time `json:"sent_at"`
}

func NewPayload(o model.Order, sentAt time.Time) Payload {
	c := o.Customer
	name := c.FirstName
	if c.LastName != "" {
		if name != "" {
			name += " "
		}
		name += c.LastName
	}

	items := make([]Item, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, Item{
			ProductID: it.ProductID,
			SKU:       it.SKU,
			Name:      it.Name,
			Quantity:  it.Quantity,
			PriceHT:   it.PriceHT,
			Currency:  it.Currency,
		})
	}

	return Payload{
		Event:     "order.created",
		OrderID:   o.ID,
		Customer:  Customer{Name: name, Email: c.Email, Phone: c.Phone, Company: c.Company, Address: c.Address},
		Items:     items,
		Subtotal:  o.Subtotal,
		Currency:  o.Currency,
		Language:  o.Language,
		CreatedAt: o.CreatedAt,
		SentAt:    sentAt.UTC(),
	}
}

type Notifier struct {
	url     string
	client  *http.Client
	log     *slog.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

var _ OrderNotifier = (*Notifier)(nil)

// NewNotifier returns a notifier posting to url. An empty url disables delivery.
func NewNotifier(url string, client *http.Client, log *slog.Logger) *Notifier {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Notifier{
		url:     url,
		client:  client,
		log:     log.With("component", "orderWebhook"),
		timeout: 10 * time.Second,
	}
}

// Notify sends the order in the background. It never blocks on the network.
func (n *Notifier) Notify(ctx context.Context, order model.Order) {
	if n.url == "" {
		n.log.Debug("Order webhook disabled", slog.String("order_id", order.ID))
		metrics.WebhookDeliveries.WithLabelValues("disabled").Inc()
		return
	}

	// The request must outlive the HTTP handler that triggered it.
	bg := context.WithoutCancel(ctx)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		if err := n.send(bg, order); err != nil {
			n.log.Error("Order webhook delivery failed",
				slog.String("order_id", order.ID),
				slog.Any("error", err))
			metrics.WebhookDeliveries.WithLabelValues("failed").Inc()
			return
		}
		n.log.Info("Order webhook delivered", slog.String("order_id", order.ID))
		metrics.WebhookDeliveries.WithLabelValues("delivered").Inc()
	}()
}

func (n *Notifier) send(ctx context.Context, order model.Order) error {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	body, err := json.Marshal(NewPayload(order, time.Now()))
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

// Wait blocks until in-flight deliveries finish. Used on shutdown and in tests.
func (n *Notifier) Wait() {
	n.wg.Wait()
}
