package auth

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
)

// Store persists the token as JSON at a single path. Reads and writes hold
// an advisory lock so a concurrent login never exposes a torn file.
type Store struct {
	path string
	lock *flock.Flock
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

func (s *Store) Path() string {
	return s.path
}

// Load returns ErrNoToken when the file is missing or holds no token.
func (s *Store) Load() (*Token, error) {
	if err := s.ensureDir(); err != nil {
		return nil, err
	}
	if err := s.lock.RLock(); err != nil {
		return nil, errors.Wrap(err, "lock token file")
	}
	defer func() { _ = s.lock.Unlock() }()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoToken
		}
		return nil, errors.Wrap(err, "read token file")
	}

	tok := &Token{}
	if err := json.Unmarshal(raw, tok); err != nil {
		return nil, errors.Wrapf(err, "parse token file %s", s.path)
	}
	if !tok.Valid() {
		return nil, ErrNoToken
	}
	return tok, nil
}

// Save writes tok with owner-only permissions, replacing any previous file.
func (s *Store) Save(tok *Token) error {
	if !tok.Valid() {
		return errors.New("refusing to save empty token")
	}

	raw, err := json.Marshal(tok)
	if err != nil {
		return errors.Wrap(err, "encode token")
	}

	if err := s.ensureDir(); err != nil {
		return err
	}
	if err := s.lock.Lock(); err != nil {
		return errors.Wrap(err, "lock token file")
	}
	defer func() { _ = s.lock.Unlock() }()

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return errors.Wrap(err, "write token file")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(err, "replace token file")
	}
	return nil
}

// Remove deletes the stored token. A missing file is not an error.
func (s *Store) Remove() error {
	if err := s.lock.Lock(); err != nil {
		return errors.Wrap(err, "lock token file")
	}
	defer func() { _ = s.lock.Unlock() }()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove token file")
	}
	return nil
}

func (s *Store) ensureDir() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "create token directory")
	}
	return nil
}
