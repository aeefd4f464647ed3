// Package liststore keeps an ordered collection of uniquely identified
// records in memory and mirrors it into one kv slot after every change.
//
// Storage failures never escape the store. A slot that cannot be read or
// decoded yields an empty collection, and a failed write switches the store
// to memory-only mode for the rest of its lifetime.
package liststore

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/samims/ecowatt/internal/kv"
)

// DefaultMaxSize is the cap applied when no WithMaxSize option is given.
const DefaultMaxSize = 50

// Record is anything the store can address by id.
type Record interface {
	RecordID() string
}

// Op names the storage operation passed to error hooks.
type Op string

const (
	OpLoad    Op = "load"
	OpDecode  Op = "decode"
	OpEncode  Op = "encode"
	OpPersist Op = "persist"
)

type options struct {
	maxSize int
	logger  *slog.Logger
	onError func(op Op, err error)
}

type Option func(*options)

// WithMaxSize caps the collection. Zero or less disables the cap.
func WithMaxSize(n int) Option {
	return func(o *options) { o.maxSize = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithErrorHook is called for every swallowed storage error.
func WithErrorHook(fn func(op Op, err error)) Option {
	return func(o *options) { o.onError = fn }
}

// Store is a persisted, newest-first list of T.
type Store[T Record] struct {
	mu       sync.Mutex
	storage  kv.Storage
	key      string
	items    []T
	loaded   bool
	degraded bool
	opts     options

	subMu  sync.Mutex
	nextID int
	subs   map[int]func([]T)
}

// New creates an empty store bound to key. Call Load before use.
func New[T Record](storage kv.Storage, key string, opts ...Option) *Store[T] {
	o := options{maxSize: DefaultMaxSize, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[T]{
		storage: storage,
		key:     key,
		opts:    o,
		subs:    make(map[int]func([]T)),
	}
}

// Load populates the collection from the slot. Only the first call reads.
func (s *Store[T]) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return
	}
	s.loaded = true

	raw, ok, err := s.storage.Get(ctx, s.key)
	if err != nil {
		s.degraded = true
		s.report(OpLoad, err)
		return
	}
	if !ok || len(raw) == 0 {
		return
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		s.report(OpDecode, err)
		return
	}
	s.items = s.truncate(items)
}

// Add prepends rec and evicts the oldest records beyond the cap.
func (s *Store[T]) Add(ctx context.Context, rec T) {
	s.Mutate(ctx, func(items []T) []T {
		return append([]T{rec}, items...)
	})
}

// UpdateOne applies fn to the record with id. It reports whether a record matched.
func (s *Store[T]) UpdateOne(ctx context.Context, id string, fn func(*T)) bool {
	found := false
	s.Mutate(ctx, func(items []T) []T {
		for i := range items {
			if items[i].RecordID() == id {
				fn(&items[i])
				found = true
				break
			}
		}
		return items
	})
	return found
}

// UpdateAll applies fn to every record.
func (s *Store[T]) UpdateAll(ctx context.Context, fn func(*T)) {
	s.Mutate(ctx, func(items []T) []T {
		for i := range items {
			fn(&items[i])
		}
		return items
	})
}

// RemoveOne drops the record with id. Absent ids leave the list untouched.
func (s *Store[T]) RemoveOne(ctx context.Context, id string) bool {
	found := false
	s.Mutate(ctx, func(items []T) []T {
		for i := range items {
			if items[i].RecordID() == id {
				found = true
				return append(items[:i], items[i+1:]...)
			}
		}
		return items
	})
	return found
}

// Clear empties the collection.
func (s *Store[T]) Clear(ctx context.Context) {
	s.Mutate(ctx, func([]T) []T { return nil })
}

// Mutate replaces the collection with fn's result, applies the cap and
// persists. fn receives a private copy it may modify in place.
func (s *Store[T]) Mutate(ctx context.Context, fn func([]T) []T) {
	s.mu.Lock()
	next := s.truncate(fn(clone(s.items)))
	s.items = next
	s.persist(ctx)
	snapshot := clone(next)
	s.mu.Unlock()

	s.notify(snapshot)
}

// Items returns a copy of the collection, newest first.
func (s *Store[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.items)
}

// Find returns the record with id.
func (s *Store[T]) Find(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, it := range s.items {
		if it.RecordID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Count returns how many records satisfy pred.
func (s *Store[T]) Count(pred func(T) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, it := range s.items {
		if pred(it) {
			n++
		}
	}
	return n
}

// Degraded reports whether the store stopped writing to its slot.
func (s *Store[T]) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

// Subscribe registers fn to receive a snapshot after every mutation.
// The returned func removes the subscription.
func (s *Store[T]) Subscribe(fn func([]T)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store[T]) notify(snapshot []T) {
	s.subMu.Lock()
	fns := make([]func([]T), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(clone(snapshot))
	}
}

// persist must be called with mu held.
func (s *Store[T]) persist(ctx context.Context) {
	if s.degraded {
		return
	}

	items := s.items
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		s.degraded = true
		s.report(OpEncode, err)
		return
	}
	if err := s.storage.Set(ctx, s.key, raw); err != nil {
		s.degraded = true
		s.report(OpPersist, err)
	}
}

func (s *Store[T]) truncate(items []T) []T {
	if s.opts.maxSize > 0 && len(items) > s.opts.maxSize {
		return items[:s.opts.maxSize]
	}
	return items
}

func (s *Store[T]) report(op Op, err error) {
	s.opts.logger.Warn("list store storage failure, continuing in memory",
		slog.String("key", s.key),
		slog.String("op", string(op)),
		slog.Any("error", err),
	)
	if s.opts.onError != nil {
		s.opts.onError(op, err)
	}
}

func clone[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
