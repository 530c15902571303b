package auth

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Authenticator exchanges credentials for a token.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*Token, error)
}

// CredentialSource supplies credentials when no stored token is usable.
type CredentialSource interface {
	Credentials() (email, password string, err error)
}

// StaticCredentials is a CredentialSource for non-interactive logins.
type StaticCredentials struct {
	Email    string
	Password string
}

func (s StaticCredentials) Credentials() (string, string, error) {
	if s.Email == "" || s.Password == "" {
		return "", "", errors.New("email and password are required")
	}
	return s.Email, s.Password, nil
}

// Manager owns the agent's current token. It loads the stored token, logs in
// when none is usable, and follows rewrites of the token file.
type Manager struct {
	store  *Store
	client Authenticator
	log    logrus.FieldLogger
	now    func() time.Time

	mu      sync.RWMutex
	current *Token
}

func NewManager(store *Store, client Authenticator, log logrus.FieldLogger) *Manager {
	return &Manager{
		store:  store,
		client: client,
		log:    log,
		now:    time.Now,
	}
}

// Load returns the stored token, treating an expired JWT as absent.
func (m *Manager) Load() (*Token, error) {
	tok, err := m.store.Load()
	if err != nil {
		return nil, err
	}
	if Expired(tok.Token, m.now()) {
		m.log.WithField("user", tok.User.Email).Warn("stored token has expired")
		return nil, ErrNoToken
	}
	m.set(tok)
	return tok, nil
}

// EnsureToken returns a usable token, logging in with creds when the store
// has none. A nil creds with no stored token yields ErrNoToken.
func (m *Manager) EnsureToken(ctx context.Context, creds CredentialSource) (*Token, error) {
	tok, err := m.Load()
	if err == nil {
		return tok, nil
	}
	if !errors.Is(err, ErrNoToken) {
		return nil, err
	}
	if creds == nil {
		return nil, ErrNoToken
	}
	return m.Login(ctx, creds)
}

// Login asks creds for an email and password, authenticates and persists the result.
func (m *Manager) Login(ctx context.Context, creds CredentialSource) (*Token, error) {
	email, password, err := creds.Credentials()
	if err != nil {
		return nil, err
	}

	tok, err := m.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := m.store.Save(tok); err != nil {
		return nil, err
	}

	m.set(tok)
	m.log.WithField("user", tok.User.Email).Info("login successful")
	return tok, nil
}

// Logout removes the stored token.
func (m *Manager) Logout() error {
	m.set(nil)
	return m.store.Remove()
}

// Token returns the current bearer token, or "" when none is loaded.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return ""
	}
	return m.current.Token
}

// Current returns the loaded token, or nil.
func (m *Manager) Current() *Token {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

func (m *Manager) set(tok *Token) {
	m.mu.Lock()
	m.current = tok
	m.mu.Unlock()
}

// Watch reloads the token whenever the token file is rewritten, until ctx
// is done. The parent directory is watched because Save replaces the file.
func (m *Manager) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create token watcher")
	}

	dir := filepath.Dir(m.store.Path())
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return errors.Wrapf(err, "watch %s", dir)
	}

	go func() {
		defer watcher.Close()
		target := filepath.Clean(m.store.Path())
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
					continue
				}
				if _, err := m.Load(); err != nil {
					m.log.WithError(err).Warn("token file changed but could not be reloaded")
					continue
				}
				m.log.Info("token reloaded")
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				m.log.WithError(err).Warn("token watcher error")
			}
		}
	}()

	return nil
}
