package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"nutri-go/internal/nutri"
)

// FileSystemStore is a filesystem-based implementation of the ObjectStore
// interface. Each object is a file under root whose relative path is the key:
//
//	<root>/
//	  meals/
//	    <meal-id>/
//	      <uuid>.jpg
//
// Signed URLs are file:// URLs carrying an expires parameter; Open checks it.
type FileSystemStore struct {
	name  string
	root  string
	clock nutri.Clock
}

// NewFileSystemStore creates a new filesystem store rooted at the given path.
func NewFileSystemStore(name, root string, clock nutri.Clock) (*FileSystemStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving store root: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store root: %w", err)
	}
	if clock == nil {
		clock = nutri.RealClock{}
	}
	return &FileSystemStore{name: name, root: abs, clock: clock}, nil
}

func (s *FileSystemStore) path(key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(key)), nil
}

// Put writes the object atomically (temp file + rename).
func (s *FileSystemStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	dest, err := s.path(key)
	if err != nil {
		return err
	}
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmpFile, r)
	if err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if written != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, written)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// Get copies the object stored under key to w.
func (s *FileSystemStore) Get(ctx context.Context, key string, w io.Writer) error {
	src, err := s.path(key)
	if err != nil {
		return err
	}
	f, err := os.Open(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("object %s: %w", key, nutri.ErrNotFound)
		}
		return fmt.Errorf("failed to open object: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to read object: %w", err)
	}
	return nil
}

// Delete removes the object file. Missing keys are ignored.
func (s *FileSystemStore) Delete(ctx context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// SignedURL returns a file:// URL to the object valid for ttl.
func (s *FileSystemStore) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	p, err := s.path(key)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("object %s: %w", key, nutri.ErrNotFound)
		}
		return "", fmt.Errorf("stat object: %w", err)
	}

	u := url.URL{
		Scheme:   "file",
		Path:     filepath.ToSlash(p),
		RawQuery: expiryQuery(s.clock.Now().Add(ttl)),
	}
	return u.String(), nil
}

// Open resolves a URL produced by SignedURL and writes the object to w.
func (s *FileSystemStore) Open(ctx context.Context, rawURL string, w io.Writer) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parsing url: %w", err)
	}
	if u.Scheme != "file" {
		return fmt.Errorf("not a file url: %s", rawURL)
	}
	if err := checkExpiry(u, s.clock.Now()); err != nil {
		return err
	}
	rel, err := filepath.Rel(s.root, filepath.FromSlash(u.Path))
	if err != nil || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("url %s is outside store %s", rawURL, s.name)
	}
	return s.Get(ctx, filepath.ToSlash(rel), w)
}

// ValidateSetup verifies that the store root is a writable directory.
func (s *FileSystemStore) ValidateSetup(ctx context.Context) error {
	info, err := os.Stat(s.root)
	if err != nil {
		return fmt.Errorf("store root not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("store root is not a directory: %s", s.root)
	}

	f, err := os.CreateTemp(s.root, ".probe-*")
	if err != nil {
		return fmt.Errorf("store root not writable: %w", err)
	}
	f.Close()
	return os.Remove(f.Name())
}

// Compile-time check that FileSystemStore implements nutri.ObjectStore interface
var _ nutri.ObjectStore = (*FileSystemStore)(nil)
