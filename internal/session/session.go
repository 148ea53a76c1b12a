package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/golang-jwt/jwt/v5"

	"github.com/julianstephens/neurogrowth/internal/api"
	"github.com/julianstephens/neurogrowth/internal/constants"
	"github.com/julianstephens/neurogrowth/internal/keyring"
	"github.com/julianstephens/neurogrowth/internal/logger"
	"github.com/julianstephens/neurogrowth/internal/models"
	"github.com/julianstephens/neurogrowth/internal/storage"
)

// ErrNoSession is returned when an operation needs a logged in user
var ErrNoSession = errors.New("not logged in, run 'neurogrowth auth login' first")

// Session is the authenticated identity of the current user
type Session struct {
	Token string
	User  models.User
}

// Claims is the unverified payload of the session token
type Claims struct {
	Role   string `json:"role"`
	UserID int    `json:"user_id"`
	jwt.RegisteredClaims
}

type Options struct {
	// UseKeyring keeps the bearer token in the OS keyring instead of the state store
	UseKeyring bool
}

// Store holds the session in memory and mirrors it to durable storage.
// It implements api.TokenSource.
type Store struct {
	mu       sync.RWMutex
	provider storage.Provider
	opts     Options
	current  *Session
}

var _ api.TokenSource = (*Store)(nil)

func New(provider storage.Provider, opts Options) *Store {
	return &Store{provider: provider, opts: opts}
}

// Load restores the persisted session. Missing or unreadable entries leave the
// store logged out.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil

	token, err := s.loadToken()
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	raw, err := s.provider.Get(constants.SessionUserKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to read session user: %w", err)
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		logger.Warn("Discarding unreadable session user", "error", err)
		return nil
	}

	s.current = &Session{Token: token, User: user}
	logger.Debug("Session restored", "user_id", user.ID, "role", user.Role)
	return nil
}

func (s *Store) loadToken() (string, error) {
	if s.opts.UseKeyring {
		token, err := keyring.GetToken()
		if err == nil {
			return token, nil
		}
		if !errors.Is(err, keyring.ErrNotFound) {
			logger.Warn("Keyring unavailable, falling back to state store", "error", err)
		}
	}

	token, err := s.provider.Get(constants.SessionTokenKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read session token: %w", err)
	}
	return token, nil
}

// SetSession replaces the current session and persists it
func (s *Store) SetSession(token string, user models.User) error {
	if token == "" {
		return errors.New("session token cannot be empty")
	}

	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode session user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	storedInKeyring := false
	if s.opts.UseKeyring {
		if err := keyring.SetToken(token); err != nil {
			logger.Warn("Keyring unavailable, storing token in state store", "error", err)
		} else {
			storedInKeyring = true
		}
	}

	if storedInKeyring {
		if err := s.provider.Delete(constants.SessionTokenKey); err != nil {
			return err
		}
	} else if err := s.provider.Set(constants.SessionTokenKey, token); err != nil {
		return err
	}
	if err := s.provider.Set(constants.SessionUserKey, string(raw)); err != nil {
		return err
	}

	s.current = &Session{Token: token, User: user}
	logger.Info("Session started", "user_id", user.ID, "role", user.Role)
	return nil
}

// UpdateUser replaces the stored user while keeping the token
func (s *Store) UpdateUser(user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return ErrNoSession
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode session user: %w", err)
	}
	if err := s.provider.Set(constants.SessionUserKey, string(raw)); err != nil {
		return err
	}
	s.current.User = user
	return nil
}

// GetSession returns a copy of the current session
func (s *Store) GetSession() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

// Require returns the current session or ErrNoSession
func (s *Store) Require() (Session, error) {
	sess, ok := s.GetSession()
	if !ok {
		return Session{}, ErrNoSession
	}
	return sess, nil
}

// ClearSession forgets the session in memory and in durable storage
func (s *Store) ClearSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil

	var errs []error
	if s.opts.UseKeyring {
		if err := keyring.DeleteToken(); err != nil {
			logger.Warn("Failed to remove token from keyring", "error", err)
		}
	}
	if err := s.provider.Delete(constants.SessionTokenKey); err != nil {
		errs = append(errs, err)
	}
	if err := s.provider.Delete(constants.SessionUserKey); err != nil {
		errs = append(errs, err)
	}
	logger.Info("Session cleared")
	return errors.Join(errs...)
}

// Token returns the bearer token, or "" when logged out
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// Claims decodes the token payload without verifying its signature.
// It is for display only.
func (s *Store) Claims() (Claims, error) {
	token := s.Token()
	if token == "" {
		return Claims{}, ErrNoSession
	}

	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return Claims{}, fmt.Errorf("failed to decode session token: %w", err)
	}
	return claims, nil
}

// HandleAuthError clears the session when err is a 401 from the backend and
// reports whether it did. Callers route to login when it returns true.
func (s *Store) HandleAuthError(err error) bool {
	if !api.IsUnauthorized(err) {
		return false
	}
	logger.Warn("Backend rejected session token, logging out")
	if clearErr := s.ClearSession(); clearErr != nil {
		logger.Error("Failed to clear session", "error", clearErr)
	}
	return true
}
