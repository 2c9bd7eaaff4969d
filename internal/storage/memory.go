package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"sort"
	"sync"
	"time"

	"nutri-go/internal/nutri"
)

type memoryObject struct {
	data        []byte
	contentType string
}

// MemoryStore is an in-memory implementation of the ObjectStore interface.
// It is useful for testing and safe for concurrent use. Signed URLs have the
// form memory://<name>/<key>?expires=<unix> and are resolved with Open.
type MemoryStore struct {
	name    string
	clock   nutri.Clock
	objects map[string]memoryObject
	mu      sync.RWMutex
}

// NewMemoryStore creates a new in-memory store with the given name.
func NewMemoryStore(name string, clock nutri.Clock) *MemoryStore {
	if clock == nil {
		clock = nutri.RealClock{}
	}
	return &MemoryStore{
		name:    name,
		clock:   clock,
		objects: make(map[string]memoryObject),
	}
}

// Put stores size bytes from r under key, replacing any previous object.
func (m *MemoryStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read object: %w", err)
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memoryObject{data: data, contentType: contentType}
	return nil
}

// Get writes the object stored under key to w.
func (m *MemoryStore) Get(ctx context.Context, key string, w io.Writer) error {
	m.mu.RLock()
	obj, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("object %s: %w", key, nutri.ErrNotFound)
	}

	if _, err := io.Copy(w, bytes.NewReader(obj.data)); err != nil {
		return fmt.Errorf("failed to write object: %w", err)
	}
	return nil
}

// Delete removes key. Missing keys are ignored.
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// SignedURL returns a memory:// URL for key that Open accepts until ttl elapses.
func (m *MemoryStore) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	m.mu.RLock()
	_, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("object %s: %w", key, nutri.ErrNotFound)
	}

	u := url.URL{
		Scheme:   "memory",
		Host:     m.name,
		Path:     "/" + key,
		RawQuery: expiryQuery(m.clock.Now().Add(ttl)),
	}
	return u.String(), nil
}

// Open resolves a URL produced by SignedURL and writes the object to w.
func (m *MemoryStore) Open(ctx context.Context, rawURL string, w io.Writer) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parsing url: %w", err)
	}
	if u.Scheme != "memory" || u.Host != m.name {
		return fmt.Errorf("url %s does not belong to store %s", rawURL, m.name)
	}
	if err := checkExpiry(u, m.clock.Now()); err != nil {
		return err
	}
	return m.Get(ctx, u.Path[1:], w)
}

// Keys returns the stored keys in sorted order.
func (m *MemoryStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ValidateSetup always succeeds for a memory store.
func (m *MemoryStore) ValidateSetup(ctx context.Context) error {
	return nil
}

// Compile-time check that MemoryStore implements nutri.ObjectStore interface
var _ nutri.ObjectStore = (*MemoryStore)(nil)
