// Package kv is the key-value persistence port the list stores mirror
// their collections into. Each store owns exactly one key.
package kv

import "context"

// Storage is a byte-oriented key-value slot store.
// Get reports ok=false for a missing key rather than an error.
type Storage interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

type scoped struct {
	inner  Storage
	prefix string
}

// Scoped namespaces every key of inner under "prefix:".
func Scoped(inner Storage, prefix string) Storage {
	return &scoped{inner: inner, prefix: prefix + ":"}
}

func (s *scoped) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *scoped) Set(ctx context.Context, key string, value []byte) error {
	return s.inner.Set(ctx, s.prefix+key, value)
}

func (s *scoped) Remove(ctx context.Context, key string) error {
	return s.inner.Remove(ctx, s.prefix+key)
}
