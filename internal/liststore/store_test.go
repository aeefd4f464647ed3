package liststore_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samims/ecowatt/internal/kv"
	"github.com/samims/ecowatt/internal/kv/kvtest"
	"github.com/samims/ecowatt/internal/liststore"
)

type entry struct {
	ID        string    `json:"id"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at"`
}

func (e entry) RecordID() string { return e.ID }

func newStore(t *testing.T, storage kv.Storage, opts ...liststore.Option) *liststore.Store[entry] {
	t.Helper()
	s := liststore.New[entry](storage, "entries", opts...)
	s.Load(context.Background())
	return s
}

func TestStore_AddPrependsAndCaps(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, kv.NewMemoryStorage(), liststore.WithMaxSize(3))

	for i := 1; i <= 5; i++ {
		s.Add(ctx, entry{ID: fmt.Sprintf("e%d", i)})
		assert.LessOrEqual(t, s.Len(), 3)
	}

	ids := make([]string, 0, 3)
	for _, it := range s.Items() {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []string{"e5", "e4", "e3"}, ids)
}

func TestStore_DefaultCap(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, kv.NewMemoryStorage())

	for i := 0; i < liststore.DefaultMaxSize+10; i++ {
		s.Add(ctx, entry{ID: fmt.Sprintf("e%d", i)})
	}
	assert.Equal(t, liststore.DefaultMaxSize, s.Len())

	_, ok := s.Find("e0")
	assert.False(t, ok, "oldest record should have been evicted")
}

func TestStore_RemoveAndUpdateAbsentAreNoops(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, kv.NewMemoryStorage())
	s.Add(ctx, entry{ID: "a"})
	s.Add(ctx, entry{ID: "b"})
	before := s.Items()

	assert.False(t, s.RemoveOne(ctx, "missing"))
	assert.False(t, s.UpdateOne(ctx, "missing", func(e *entry) { e.Done = true }))
	assert.Equal(t, before, s.Items())
}

func TestStore_UpdateOneAndClear(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, kv.NewMemoryStorage())
	s.Add(ctx, entry{ID: "a"})
	s.Add(ctx, entry{ID: "b"})

	require.True(t, s.UpdateOne(ctx, "a", func(e *entry) { e.Done = true }))
	got, ok := s.Find("a")
	require.True(t, ok)
	assert.True(t, got.Done)
	assert.Equal(t, 1, s.Count(func(e entry) bool { return !e.Done }))

	require.True(t, s.RemoveOne(ctx, "b"))
	assert.Equal(t, 1, s.Len())

	s.Clear(ctx)
	assert.Equal(t, 0, s.Len())
}

func TestStore_RoundTripRevivesDates(t *testing.T) {
	ctx := context.Background()
	storage := kv.NewMemoryStorage()
	created := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	first := newStore(t, storage)
	first.Add(ctx, entry{ID: "a", CreatedAt: created})
	first.Add(ctx, entry{ID: "b", CreatedAt: created.Add(time.Hour), Done: true})

	raw, ok, err := storage.Get(ctx, "entries")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, string(raw), "2026-03-14T09:26:53Z")

	second := newStore(t, storage)
	require.Equal(t, first.Len(), second.Len())
	for i, want := range first.Items() {
		got := second.Items()[i]
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.Done, got.Done)
		assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
	}
}

func TestStore_CorruptPayloadLoadsEmpty(t *testing.T) {
	ctx := context.Background()
	storage := kv.NewMemoryStorage()
	require.NoError(t, storage.Set(ctx, "entries", []byte("{not json")))

	var ops []liststore.Op
	s := newStore(t, storage, liststore.WithErrorHook(func(op liststore.Op, _ error) {
		ops = append(ops, op)
	}))

	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Degraded())
	assert.Equal(t, []liststore.Op{liststore.OpDecode}, ops)

	s.Add(ctx, entry{ID: "fresh"})
	raw, _, err := storage.Get(ctx, "entries")
	require.NoError(t, err)
	assert.Contains(t, string(raw), "fresh")
}

func TestStore_WriteFailureDegradesToMemory(t *testing.T) {
	ctx := context.Background()
	storage := kvtest.NewFailingStorage(kv.NewMemoryStorage())
	s := newStore(t, storage)

	storage.FailSets(true)
	s.Add(ctx, entry{ID: "a"})
	assert.True(t, s.Degraded())

	storage.FailSets(false)
	s.Add(ctx, entry{ID: "b"})
	s.Add(ctx, entry{ID: "c"})

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 1, storage.SetCalls(), "degraded store must stop writing")
}

func TestStore_ReadFailureDegrades(t *testing.T) {
	ctx := context.Background()
	storage := kvtest.NewFailingStorage(kv.NewMemoryStorage())
	storage.FailGets(true)

	s := newStore(t, storage)
	assert.True(t, s.Degraded())

	s.Add(ctx, entry{ID: "a"})
	assert.Equal(t, 1, s.Len())
}

func TestStore_Subscribe(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, kv.NewMemoryStorage())

	var seen []int
	unsubscribe := s.Subscribe(func(items []entry) { seen = append(seen, len(items)) })

	s.Add(ctx, entry{ID: "a"})
	s.Add(ctx, entry{ID: "b"})
	unsubscribe()
	s.Add(ctx, entry{ID: "c"})

	assert.Equal(t, []int{1, 2}, seen)
}
