package service

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/samims/ecowatt/internal/model"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, ev model.Event) error {
	return m.Called(ctx, ev).Error(0)
}

// recordingNotifier keeps the orders it was asked to deliver.
type recordingNotifier struct {
	mu     sync.Mutex
	orders []model.Order
}

func (r *recordingNotifier) Notify(_ context.Context, o model.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, o)
}

func (r *recordingNotifier) sent() []model.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Order(nil), r.orders...)
}
