package webhook

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samims/ecowatt/internal/model"
)

func sampleOrder() model.Order {
	price := 12.5
	return model.Order{
		ID:       "o1",
		Customer: model.Customer{FirstName: "Nadia", LastName: "Benali", Email: "n@acme.test", Phone: "+212600000000"},
		Items: []model.CartItem{
			{ProductID: "p1", Name: "LED panel", Quantity: 4, PriceHT: &price, Currency: "EUR"},
		},
		Subtotal:  50,
		Currency:  "EUR",
		CreatedAt: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestNotifier_PostsPayload(t *testing.T) {
	var (
		mu    sync.Mutex
		got   Payload
		ctype string
		calls int
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		ctype = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	n := NewNotifier(srv.URL, srv.Client(), slog.Default())
	ctx, cancel := context.WithCancel(context.Background())
	n.Notify(ctx, sampleOrder())
	// Cancelling the caller's context must not abort delivery.
	cancel()
	n.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 1, calls)
	assert.Equal(t, "application/json", ctype)
	assert.Equal(t, "o1", got.OrderID)
	assert.Equal(t, "Nadia Benali", got.Customer.Name)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 4, got.Items[0].Quantity)
	assert.False(t, got.SentAt.IsZero())
}

func TestNotifier_FailuresAreSwallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewNotifier(srv.URL, srv.Client(), slog.Default())
	assert.NotPanics(t, func() {
		n.Notify(context.Background(), sampleOrder())
		n.Wait()
	})
}

func TestNotifier_DisabledWithoutURL(t *testing.T) {
	n := NewNotifier("", nil, slog.Default())
	n.Notify(context.Background(), sampleOrder())
	n.Wait()
}

func TestNewPayload_NameJoin(t *testing.T) {
	o := sampleOrder()
	o.Customer.FirstName = ""
	assert.Equal(t, "Benali", NewPayload(o, time.Now()).Customer.Name)
}
