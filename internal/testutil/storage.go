package testutil

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"nutri-go/internal/nutri"
	"nutri-go/internal/storage"
)

// ErrInjected is returned by FailingStore for the calls it is set to fail.
var ErrInjected = errors.New("injected storage failure")

// NewTestStore creates a new in-memory object store for testing.
func NewTestStore(clock nutri.Clock) *storage.MemoryStore {
	return storage.NewMemoryStore("test-store", clock)
}

// FailingStore wraps an ObjectStore and fails selected calls with ErrInjected.
type FailingStore struct {
	nutri.ObjectStore

	mu sync.Mutex
	// FailPutAfter lets that many Puts succeed before every later Put fails.
	// Negative never fails.
	FailPutAfter int
	// FailDelete fails every Delete.
	FailDelete bool
	// FailSignedURL fails every SignedURL.
	FailSignedURL bool

	puts    int
	deletes []string
}

// NewFailingStore wraps inner with no failures configured.
func NewFailingStore(inner nutri.ObjectStore) *FailingStore {
	return &FailingStore{ObjectStore: inner, FailPutAfter: -1}
}

func (s *FailingStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	s.mu.Lock()
	fail := s.FailPutAfter >= 0 && s.puts >= s.FailPutAfter
	s.puts++
	s.mu.Unlock()
	if fail {
		return ErrInjected
	}
	return s.ObjectStore.Put(ctx, key, r, size, contentType)
}

func (s *FailingStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	s.deletes = append(s.deletes, key)
	fail := s.FailDelete
	s.mu.Unlock()
	if fail {
		return ErrInjected
	}
	return s.ObjectStore.Delete(ctx, key)
}

func (s *FailingStore) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if s.FailSignedURL {
		return "", ErrInjected
	}
	return s.ObjectStore.SignedURL(ctx, key, ttl)
}

// Deletes returns every key Delete was called with, in order.
func (s *FailingStore) Deletes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deletes...)
}
