package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/samims/ecowatt/internal/liststore"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecowatt_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "route", "method", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ecowatt_http_request_duration_seconds",
			Help:    "Histogram of response durations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "route", "method"},
	)

	// StoreFailures counts storage errors swallowed by the list stores
	StoreFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecowatt_list_store_failures_total",
			Help: "Storage failures absorbed by list stores, by store and operation",
		},
		[]string{"store", "op"},
	)

	// WebhookDeliveries counts outbound order webhook outcomes
	WebhookDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecowatt_order_webhook_deliveries_total",
			Help: "Outbound order webhook deliveries by outcome",
		},
		[]string{"outcome"},
	)

	// EventsPublished counts events handed to the bus
	EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecowatt_events_published_total",
			Help: "Events published to the event bus by type and outcome",
		},
		[]string{"type", "outcome"},
	)

	// EventsConsumed counts events turned into notifications
	EventsConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecowatt_events_consumed_total",
			Help: "Events consumed from the event bus by type and outcome",
		},
		[]string{"type", "outcome"},
	)

	once sync.Once
)

func Init() {
	once.Do(func() {
		prometheus.MustRegister(
			HTTPRequests,
			RequestDuration,
			StoreFailures,
			WebhookDeliveries,
			EventsPublished,
			EventsConsumed,
		)
	})
}

// StoreHook returns a list store error hook labelled with store.
func StoreHook(store string) func(op liststore.Op, err error) {
	return func(op liststore.Op, _ error) {
		StoreFailures.WithLabelValues(store, string(op)).Inc()
	}
}
