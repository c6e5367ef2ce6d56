// Package stores holds the client-side state for each backend area. Every
// store wraps the shared api.Client, caches the last response, and exposes
// derived views. Stores are safe for concurrent use.
package stores

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/colonyops/extguard/internal/api"
	"github.com/colonyops/extguard/internal/core/logging"
	datastores "github.com/colonyops/extguard/internal/data/stores"
)

// ErrLoginFailed is returned when the backend accepts the credentials but
// issues no token.
var ErrLoginFailed = errors.New("로그인 실패")

// AuthStore tracks the signed-in user and owns the access token.
type AuthStore struct {
	client *api.Client
	tokens *datastores.TokenStore // nil disables persistence
	log    zerolog.Logger

	mu      sync.RWMutex
	user    *api.User
	token   string
	loading bool
}

// NewAuthStore creates an AuthStore. tokens may be nil.
func NewAuthStore(client *api.Client, tokens *datastores.TokenStore) *AuthStore {
	return &AuthStore{
		client: client,
		tokens: tokens,
		log:    logging.Component("auth"),
	}
}

// Initialize restores a saved token and loads its user. A token the backend
// rejects is discarded without failing.
func (s *AuthStore) Initialize(ctx context.Context) error {
	if s.tokens == nil {
		return nil
	}

	sess, ok, err := s.tokens.Load(ctx)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return nil
	}
	if sess.BaseURL != "" && sess.BaseURL != s.client.BaseURL() {
		s.log.Info().Str("saved", sess.BaseURL).Str("current", s.client.BaseURL()).Msg("saved session is for another backend, ignoring")
		return nil
	}

	s.setToken(sess.AccessToken)
	if err := s.FetchCurrentUser(ctx); err != nil {
		s.log.Warn().Err(err).Msg("saved session rejected")
	}
	return nil
}

// Login exchanges credentials for a token, persists it, and loads the user.
func (s *AuthStore) Login(ctx context.Context, creds api.Credentials) (api.Token, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	tok, err := s.client.Login(ctx, creds)
	if err != nil {
		s.log.Error().Err(err).Str("username", creds.Username).Msg("login failed")
		return api.Token{}, err
	}
	if tok.AccessToken == "" {
		return api.Token{}, ErrLoginFailed
	}

	s.setToken(tok.AccessToken)
	if s.tokens != nil {
		err := s.tokens.Save(ctx, datastores.Session{
			AccessToken: tok.AccessToken,
			Username:    creds.Username,
			BaseURL:     s.client.BaseURL(),
		})
		if err != nil {
			return tok, fmt.Errorf("save session: %w", err)
		}
	}

	if err := s.FetchCurrentUser(ctx); err != nil {
		return api.Token{}, err
	}
	return tok, nil
}

// Signup registers an account. It does not sign in.
func (s *AuthStore) Signup(ctx context.Context, req api.Signup) (api.User, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	u, err := s.client.Signup(ctx, req)
	if err != nil {
		s.log.Error().Err(err).Str("username", req.Username).Msg("signup failed")
		return api.User{}, err
	}
	return u, nil
}

// FetchCurrentUser loads the user for the current token. Without a token it
// does nothing. Any failure signs the session out.
func (s *AuthStore) FetchCurrentUser(ctx context.Context) error {
	if s.Token() == "" {
		return nil
	}

	u, err := s.client.CurrentUser(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("fetch current user failed")
		if logoutErr := s.Logout(ctx); logoutErr != nil {
			s.log.Error().Err(logoutErr).Msg("logout after failed fetch")
		}
		return err
	}

	s.mu.Lock()
	s.user = &u
	s.mu.Unlock()

	if s.tokens != nil {
		if err := s.tokens.SetUsername(ctx, u.Username); err != nil {
			s.log.Warn().Err(err).Msg("record username")
		}
	}
	return nil
}

// Logout forgets the user and token locally and on disk.
func (s *AuthStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
	s.setToken("")

	if s.tokens != nil {
		if err := s.tokens.Clear(ctx); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
	}
	return nil
}

// IsAuthenticated reports whether a token is held.
func (s *AuthStore) IsAuthenticated() bool {
	return s.Token() != ""
}

// User returns the loaded user, if any.
func (s *AuthStore) User() (api.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return api.User{}, false
	}
	return *s.user, true
}

// Token returns the held access token.
func (s *AuthStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// IsLoading reports whether a login or signup is in flight.
func (s *AuthStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *AuthStore) setToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	s.client.SetToken(token)
}

func (s *AuthStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}
