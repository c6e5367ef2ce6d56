package stores

import (
	"context"
	"time"
)

const sessionKey = "session"

// Session is the persisted login.
type Session struct {
	AccessToken string    `json:"access_token"`
	Username    string    `json:"username,omitempty"`
	BaseURL     string    `json:"base_url"`
	SavedAt     time.Time `json:"saved_at"`
}

// TokenStore keeps the access token between runs.
type TokenStore struct {
	kv  *KVStore
	ttl time.Duration
}

// NewTokenStore creates a TokenStore over kv. A positive ttl makes saved
// sessions expire; zero keeps them until Clear.
func NewTokenStore(kv *KVStore, ttl time.Duration) *TokenStore {
	return &TokenStore{kv: kv, ttl: ttl}
}

// Load returns the saved session. ok is false when nothing is saved.
func (s *TokenStore) Load(ctx context.Context) (Session, bool, error) {
	var sess Session
	err := s.kv.Get(ctx, sessionKey, &sess)
	if IsNotFoundError(err) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, err
	}
	return sess, sess.AccessToken != "", nil
}

// Token returns the saved access token, or "".
func (s *TokenStore) Token(ctx context.Context) (string, error) {
	sess, _, err := s.Load(ctx)
	return sess.AccessToken, err
}

// Save replaces the saved session.
func (s *TokenStore) Save(ctx context.Context, sess Session) error {
	if sess.SavedAt.IsZero() {
		sess.SavedAt = s.kv.now()
	}
	return s.put(ctx, sess)
}

// SetUsername records who the saved token belongs to.
func (s *TokenStore) SetUsername(ctx context.Context, username string) error {
	sess, ok, err := s.Load(ctx)
	if err != nil || !ok {
		return err
	}
	sess.Username = username
	return s.put(ctx, sess)
}

// put writes sess, keeping the expiry relative to when it was saved.
func (s *TokenStore) put(ctx context.Context, sess Session) error {
	if s.ttl <= 0 {
		return s.kv.Put(ctx, sessionKey, sess, 0)
	}
	remaining := s.ttl - s.kv.now().Sub(sess.SavedAt)
	if remaining <= 0 {
		return s.kv.Delete(ctx, sessionKey)
	}
	return s.kv.Put(ctx, sessionKey, sess, remaining)
}

// Clear forgets the saved session.
func (s *TokenStore) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, sessionKey)
}
