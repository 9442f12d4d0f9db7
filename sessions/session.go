package sessions

import (
	"encoding/json"
	"strings"

	"github.com/jrsteele09/notoli/internal/errors"
	"github.com/rs/zerolog/log"
)

// Session is the authenticated state of the client.
// The refresh token is stored but never rotated.
type Session struct {
	AccessToken  string
	RefreshToken string
	Username     string // Optional profile field
	Email        string // Optional profile field
}

// Authenticated reports whether an access token is present.
func (s Session) Authenticated() bool {
	return s.AccessToken != ""
}

// Credentials is the token payload returned by the login and register endpoints.
type Credentials struct {
	Access   string `json:"access"`
	Refresh  string `json:"refresh"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// Store reads and writes the session through a Storage on a best-effort basis:
// storage failures are logged and swallowed, never returned.
type Store struct {
	storage Storage
}

// NewStore wraps storage. A nil storage behaves like one that always fails.
func NewStore(storage Storage) *Store {
	return &Store{storage: storage}
}

// Session returns whatever of the session could be read.
func (s *Store) Session() Session {
	return Session{
		AccessToken:  s.get(KeyAccessToken),
		RefreshToken: s.get(KeyRefreshToken),
		Username:     s.get(KeyUsername),
		Email:        s.get(KeyEmail),
	}
}

func (s *Store) AccessToken() string {
	return s.get(KeyAccessToken)
}

// Persist stores a freshly issued token pair and any profile fields.
// Both tokens are required; empty profile fields are not written.
func (s *Store) Persist(creds Credentials) error {
	if creds.Access == "" || creds.Refresh == "" {
		return errors.ErrMissingTokens
	}

	s.set(KeyAccessToken, creds.Access)
	s.set(KeyRefreshToken, creds.Refresh)
	if username := strings.TrimSpace(creds.Username); username != "" {
		s.set(KeyUsername, username)
	}
	if email := strings.TrimSpace(creds.Email); email != "" {
		s.set(KeyEmail, email)
	}
	return nil
}

// Clear removes the tokens and cached profile fields. Safe to call repeatedly.
func (s *Store) Clear() {
	for _, key := range sessionKeys {
		s.remove(key)
	}
}

// QueueNotification stores n for the next screen to display.
func (s *Store) QueueNotification(n Notification) {
	data, err := json.Marshal(n)
	if err != nil {
		log.Debug().Err(err).Msg("Failed to encode pending notification")
		return
	}
	s.set(KeyPendingNotification, string(data))
}

// TakeNotification returns the pending notification, if any, and deletes it,
// so it is shown exactly once.
func (s *Store) TakeNotification() (Notification, bool) {
	raw := s.get(KeyPendingNotification)
	if raw == "" {
		return Notification{}, false
	}
	s.remove(KeyPendingNotification)

	var n Notification
	if err := json.Unmarshal([]byte(raw), &n); err != nil || n.Message == "" {
		log.Debug().Err(err).Msg("Discarding unreadable pending notification")
		return Notification{}, false
	}
	return n, true
}

func (s *Store) get(key string) string {
	if s == nil || s.storage == nil {
		return ""
	}
	value, ok, err := s.storage.GetItem(key)
	if err != nil {
		log.Debug().Err(err).Str("key", key).Msg("Session storage read failed")
		return ""
	}
	if !ok {
		return ""
	}
	return value
}

func (s *Store) set(key, value string) {
	if s == nil || s.storage == nil {
		return
	}
	if err := s.storage.SetItem(key, value); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("Session storage write failed")
	}
}

func (s *Store) remove(key string) {
	if s == nil || s.storage == nil {
		return
	}
	if err := s.storage.RemoveItem(key); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("Session storage remove failed")
	}
}
