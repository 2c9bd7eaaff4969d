package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"nutri-go/internal/auth"
	"nutri-go/internal/nutri"
)

// SessionFileName is the file under the base directory holding the signed-in user.
const SessionFileName = "session.jwt"

// FileSessionStore persists the signed-in user between CLI invocations as a
// signed token. A token that is missing, expired or fails verification loads
// as a signed-out session.
type FileSessionStore struct {
	path   string
	issuer *auth.TokenIssuer
}

// NewFileSessionStore creates a store for baseDir/session.jwt.
func NewFileSessionStore(baseDir string, issuer *auth.TokenIssuer) *FileSessionStore {
	return &FileSessionStore{
		path:   filepath.Join(baseDir, SessionFileName),
		issuer: issuer,
	}
}

// Path returns the token file location.
func (s *FileSessionStore) Path() string {
	return s.path
}

// Load returns the persisted session. Invalid tokens are discarded.
func (s *FileSessionStore) Load() (*nutri.Session, error) {
	sess := nutri.NewSession()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return sess, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}

	u, err := s.issuer.Parse(strings.TrimSpace(string(data)))
	if err != nil {
		if rmErr := s.remove(); rmErr != nil {
			return nil, rmErr
		}
		return sess, nil
	}
	sess.SetUser(u)
	return sess, nil
}

// Save writes the session's user as a fresh token, or removes the token
// file if nobody is signed in.
func (s *FileSessionStore) Save(sess *nutri.Session) error {
	u, ok := sess.CurrentUser()
	if !ok {
		return s.remove()
	}

	token, err := s.issuer.Issue(u)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*")
	if err != nil {
		return fmt.Errorf("creating session file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.WriteString(token + "\n"); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing session: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

func (s *FileSessionStore) remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}
