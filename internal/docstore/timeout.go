package docstore

import (
	"context"
	"time"
)

// timeoutStore decorates a Store with a per-call deadline. Cancellation is
// otherwise entirely the store's concern; this is the one knob the app owns.
type timeoutStore struct {
	inner Store
	d     time.Duration
}

// WithTimeout wraps store so that every call runs under a deadline of d.
// A non-positive d returns the store unchanged.
func WithTimeout(store Store, d time.Duration) Store {
	if d <= 0 {
		return store
	}
	return &timeoutStore{inner: store, d: d}
}

func (s *timeoutStore) Get(ctx context.Context, path string) (Fields, error) {
	ctx, cancel := context.WithTimeout(ctx, s.d)
	defer cancel()
	return s.inner.Get(ctx, path)
}

func (s *timeoutStore) Set(ctx context.Context, path string, fields Fields) error {
	ctx, cancel := context.WithTimeout(ctx, s.d)
	defer cancel()
	return s.inner.Set(ctx, path, fields)
}

func (s *timeoutStore) Create(ctx context.Context, path string, fields Fields) error {
	ctx, cancel := context.WithTimeout(ctx, s.d)
	defer cancel()
	return s.inner.Create(ctx, path, fields)
}

func (s *timeoutStore) Update(ctx context.Context, path string, partial Fields) error {
	ctx, cancel := context.WithTimeout(ctx, s.d)
	defer cancel()
	return s.inner.Update(ctx, path, partial)
}

func (s *timeoutStore) Delete(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, s.d)
	defer cancel()
	return s.inner.Delete(ctx, path)
}

func (s *timeoutStore) Add(ctx context.Context, collection string, fields Fields) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.d)
	defer cancel()
	return s.inner.Add(ctx, collection, fields)
}

func (s *timeoutStore) ListChildren(ctx context.Context, collection string, orderBy string) ([]Document, error) {
	ctx, cancel := context.WithTimeout(ctx, s.d)
	defer cancel()
	return s.inner.ListChildren(ctx, collection, orderBy)
}

func (s *timeoutStore) Close() error {
	return s.inner.Close()
}
