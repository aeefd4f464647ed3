// Package kvtest provides kv.Storage doubles for exercising failure paths.
package kvtest

import (
	"context"
	"errors"
	"sync"

	"github.com/samims/ecowatt/internal/kv"
)

// ErrQuotaExceeded mimics a full browser-style storage slot.
var ErrQuotaExceeded = errors.New("kvtest: quota exceeded")

// FailingStorage wraps a kv.Storage and fails reads or writes on demand.
type FailingStorage struct {
	kv.Storage

	mu        sync.Mutex
	failGet   bool
	failSet   bool
	setCalls  int
	lastWrite []byte
}

var _ kv.Storage = (*FailingStorage)(nil)

func NewFailingStorage(inner kv.Storage) *FailingStorage {
	return &FailingStorage{Storage: inner}
}

func (f *FailingStorage) FailGets(v bool) {
	f.mu.Lock()
	f.failGet = v
	f.mu.Unlock()
}

func (f *FailingStorage) FailSets(v bool) {
	f.mu.Lock()
	f.failSet = v
	f.mu.Unlock()
}

// SetCalls counts every Set attempt, failed or not.
func (f *FailingStorage) SetCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.setCalls
}

func (f *FailingStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	fail := f.failGet
	f.mu.Unlock()
	if fail {
		return nil, false, ErrQuotaExceeded
	}
	return f.Storage.Get(ctx, key)
}

func (f *FailingStorage) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	f.setCalls++
	fail := f.failSet
	f.mu.Unlock()
	if fail {
		return ErrQuotaExceeded
	}
	return f.Storage.Set(ctx, key, value)
}
