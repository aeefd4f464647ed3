package service

import (
	"context"
	"log/slog"

	appErr "github.com/samims/ecowatt/internal/errors"
	"github.com/samims/ecowatt/internal/kafka"
	"github.com/samims/ecowatt/internal/model"
	"github.com/samims/ecowatt/internal/notification"
)

// NotificationService exposes the admin feed and feeds it from the bus.
type NotificationService interface {
	kafka.EventHandler

	List(ctx context.Context) []model.Notification
	UnreadCount(ctx context.Context) int
	MarkRead(ctx context.Context, id string)
	MarkAllRead(ctx context.Context)
	Remove(ctx context.Context, id string)
	Clear(ctx context.Context)
	Degraded() bool
}

type notificationService struct {
	store  *notification.Store
	logger *slog.Logger
}

func NewNotificationService(store *notification.Store, logger *slog.Logger) NotificationService {
	l := logger.With("layer", "service", "component", "notificationService")
	return &notificationService{store: store, logger: l}
}

func (s *notificationService) HandleEvent(ctx context.Context, ev model.Event) error {
	if !ev.Type.Valid() {
		return appErr.NewInvalidInput("unknown event type %q", ev.Type)
	}
	n := s.store.Add(ctx, notification.Input{
		Type:        ev.Type,
		Title:       ev.Title,
		Description: ev.Description,
		Link:        ev.Link,
		EntityID:    ev.EntityID,
	})
	s.logger.Info("notification added",
		slog.String("id", n.ID),
		slog.String("type", string(n.Type)),
		slog.String("entity_id", n.EntityID))
	return nil
}

func (s *notificationService) List(context.Context) []model.Notification {
	items := s.store.List()
	if items == nil {
		items = []model.Notification{}
	}
	return items
}

func (s *notificationService) UnreadCount(context.Context) int { return s.store.UnreadCount() }

// MarkRead and Remove ignore unknown ids.
func (s *notificationService) MarkRead(ctx context.Context, id string) { s.store.MarkRead(ctx, id) }

func (s *notificationService) MarkAllRead(ctx context.Context) { s.store.MarkAllRead(ctx) }

func (s *notificationService) Remove(ctx context.Context, id string) { s.store.Remove(ctx, id) }

func (s *notificationService) Clear(ctx context.Context) { s.store.ClearAll(ctx) }

func (s *notificationService) Degraded() bool { return s.store.Degraded() }
