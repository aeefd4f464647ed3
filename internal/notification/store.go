// Package notification holds the admin notification feed: a capped,
// newest-first list persisted through liststore.
package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/samims/ecowatt/internal/kv"
	"github.com/samims/ecowatt/internal/liststore"
	"github.com/samims/ecowatt/internal/model"
)

const (
	// StorageKey is the slot the feed is mirrored into.
	StorageKey = "ecowatt-notifications"
	MaxSize    = 50
)

// Input is what callers provide; the store fills id, timestamp and read flag.
type Input struct {
	Type        model.NotificationType
	Title       string
	Description string
	Link        string
	EntityID    string
}

type Store struct {
	list  *liststore.Store[model.Notification]
	now   func() time.Time
	newID func() string
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// NewStore binds a feed to storage under key and loads it.
func NewStore(ctx context.Context, storage kv.Storage, key string, logger *slog.Logger, hook func(liststore.Op, error), opts ...Option) *Store {
	list := liststore.New[model.Notification](storage, key,
		liststore.WithMaxSize(MaxSize),
		liststore.WithLogger(logger.With("component", "notificationStore")),
		liststore.WithErrorHook(hook),
	)
	list.Load(ctx)

	s := &Store{list: list, now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add records a new unread notification and returns it.
func (s *Store) Add(ctx context.Context, in Input) model.Notification {
	n := model.Notification{
		ID:          s.newID(),
		Type:        in.Type,
		Title:       in.Title,
		Description: in.Description,
		Link:        in.Link,
		Read:        false,
		CreatedAt:   s.now().UTC(),
		EntityID:    in.EntityID,
	}
	s.list.Add(ctx, n)
	return n
}

func (s *Store) MarkRead(ctx context.Context, id string) bool {
	return s.list.UpdateOne(ctx, id, func(n *model.Notification) { n.Read = true })
}

func (s *Store) MarkAllRead(ctx context.Context) {
	s.list.UpdateAll(ctx, func(n *model.Notification) { n.Read = true })
}

func (s *Store) Remove(ctx context.Context, id string) bool {
	return s.list.RemoveOne(ctx, id)
}

func (s *Store) ClearAll(ctx context.Context) {
	s.list.Clear(ctx)
}

// List returns the feed newest first.
func (s *Store) List() []model.Notification {
	return s.list.Items()
}

// UnreadCount is computed from the collection on every call.
func (s *Store) UnreadCount() int {
	return s.list.Count(func(n model.Notification) bool { return !n.Read })
}

func (s *Store) Degraded() bool {
	return s.list.Degraded()
}

// Subscribe forwards feed snapshots to fn after every change.
func (s *Store) Subscribe(fn func([]model.Notification)) func() {
	return s.list.Subscribe(fn)
}
