package notification_test

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samims/ecowatt/internal/kv"
	"github.com/samims/ecowatt/internal/model"
	"github.com/samims/ecowatt/internal/notification"
)

func newTestStore(t *testing.T, storage kv.Storage) *notification.Store {
	t.Helper()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	seq := 0
	return notification.NewStore(context.Background(), storage, notification.StorageKey, slog.Default(), nil,
		notification.WithClock(func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Minute)
		}),
		notification.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("n%d", seq)
		}),
	)
}

func TestStore_AddDefaults(t *testing.T) {
	s := newTestStore(t, kv.NewMemoryStorage())

	n := s.Add(context.Background(), notification.Input{
		Type:     model.NotificationLead,
		Title:    "New lead",
		Link:     "/admin/leads/l1",
		EntityID: "l1",
	})

	assert.Equal(t, "n1", n.ID)
	assert.False(t, n.Read)
	assert.False(t, n.CreatedAt.IsZero())
	assert.Equal(t, 1, s.UnreadCount())
	assert.Equal(t, []model.Notification{n}, s.List())
}

func TestStore_CapAt50(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, kv.NewMemoryStorage())

	for i := 0; i < 60; i++ {
		s.Add(ctx, notification.Input{Type: model.NotificationOrder, EntityID: fmt.Sprintf("o%d", i)})
	}

	list := s.List()
	require.Len(t, list, notification.MaxSize)
	assert.Equal(t, "o59", list[0].EntityID)
	assert.Equal(t, "o10", list[len(list)-1].EntityID)
}

func TestStore_MarkAllReadZeroesUnread(t *testing.T) {
	tests := []struct {
		name  string
		count int
		read  []string
	}{
		{name: "empty feed", count: 0},
		{name: "all unread", count: 5},
		{name: "some already read", count: 4, read: []string{"n1", "n3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s := newTestStore(t, kv.NewMemoryStorage())
			for i := 0; i < tt.count; i++ {
				s.Add(ctx, notification.Input{Type: model.NotificationLead})
			}
			for _, id := range tt.read {
				require.True(t, s.MarkRead(ctx, id))
			}

			s.MarkAllRead(ctx)
			assert.Equal(t, 0, s.UnreadCount())
		})
	}
}

func TestStore_MarkReadRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, kv.NewMemoryStorage())
	s.Add(ctx, notification.Input{Type: model.NotificationLead})
	s.Add(ctx, notification.Input{Type: model.NotificationOrder})

	assert.True(t, s.MarkRead(ctx, "n1"))
	assert.False(t, s.MarkRead(ctx, "nope"))
	assert.Equal(t, 1, s.UnreadCount())

	assert.False(t, s.Remove(ctx, "nope"))
	assert.Len(t, s.List(), 2)
	assert.True(t, s.Remove(ctx, "n2"))
	assert.Equal(t, 0, s.UnreadCount())

	s.ClearAll(ctx)
	assert.Empty(t, s.List())
}

func TestStore_SurvivesReload(t *testing.T) {
	ctx := context.Background()
	storage := kv.NewMemoryStorage()

	first := newTestStore(t, storage)
	first.Add(ctx, notification.Input{Type: model.NotificationOrder, Title: "Order #1", EntityID: "o1"})
	first.MarkRead(ctx, "n1")
	first.Add(ctx, notification.Input{Type: model.NotificationLead, Title: "Lead", EntityID: "l1"})

	second := newTestStore(t, storage)
	require.Len(t, second.List(), 2)
	for i, want := range first.List() {
		got := second.List()[i]
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.Read, got.Read)
		assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
	}
	assert.Equal(t, 1, second.UnreadCount())
}
