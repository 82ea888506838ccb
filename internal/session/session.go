package session

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"topodash/internal/models"
)

// storageKey is the single durable entry holding the signed-in user.
const storageKey = "topodash_user"

var (
	ErrMalformed    = errors.New("stored session is malformed")
	ErrTokenExpired = errors.New("session token has expired")
	ErrInvalidUser  = errors.New("user record must carry a username and a token")
)

// Storage is the durable side of a session. A gin-contrib sessions.Session
// satisfies it directly.
type Storage interface {
	Get(key interface{}) interface{}
	Set(key interface{}, val interface{})
	Delete(key interface{})
	Save() error
}

// NullStorage keeps nothing. A session over it is always signed out.
type NullStorage struct{}

func (NullStorage) Get(interface{}) interface{}   { return nil }
func (NullStorage) Set(interface{}, interface{}) {}
func (NullStorage) Delete(interface{})           {}
func (NullStorage) Save() error                  { return nil }

// User is the authenticated session record, persisted as JSON.
type User struct {
	Username    string          `json:"username"`
	Email       string          `json:"email,omitempty"`
	Role        models.UserRole `json:"role,omitempty"`
	PhoneNumber string          `json:"phoneNumber,omitempty"`
	Token       string          `json:"token"`
}

func (u User) IsAdmin() bool { return u.Role == models.RoleAdmin }

// Session is the current user, read once from storage when created.
// Nothing else in the process holds session state: every component
// that needs a token or a role gets the Session passed in.
type Session struct {
	mu    sync.RWMutex
	store Storage
	user  *User
	log   *slog.Logger
}

var now = time.Now

// New rehydrates the session from store. Malformed or expired content
// is removed and the session starts signed out; it never fails.
func New(store Storage, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	s := &Session{store: store, log: log}

	raw, ok := store.Get(storageKey).(string)
	if !ok || raw == "" {
		if store.Get(storageKey) != nil {
			s.discard("unexpected stored type")
		}
		return s
	}

	u, err := Decode(raw)
	if err != nil {
		s.discard(err.Error())
		return s
	}
	if expired(u.Token) {
		s.discard(ErrTokenExpired.Error())
		return s
	}
	s.user = u
	return s
}

func (s *Session) discard(reason string) {
	s.log.Warn("[Session] discarding stored session", "reason", reason)
	s.store.Delete(storageKey)
	if err := s.store.Save(); err != nil {
		s.log.Error("[Session] failed to persist discard", "error", err)
	}
}

// Decode parses a stored user record.
func Decode(raw string) (*User, error) {
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, ErrMalformed
	}
	if strings.TrimSpace(u.Username) == "" || strings.TrimSpace(u.Token) == "" {
		return nil, ErrMalformed
	}
	return &u, nil
}

// Login stores the full user record, token included, in memory and storage.
func (s *Session) Login(u User) error {
	if strings.TrimSpace(u.Username) == "" || strings.TrimSpace(u.Token) == "" {
		return ErrInvalidUser
	}
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Set(storageKey, string(raw))
	if err := s.store.Save(); err != nil {
		return err
	}
	s.user = &u
	return nil
}

// Logout clears memory and storage.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.store.Delete(storageKey)
	return s.store.Save()
}

// Current returns a copy of the signed-in user, or nil.
func (s *Session) Current() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) IsAuthenticated() bool {
	return s.Current() != nil
}

func (s *Session) Token() string {
	if u := s.Current(); u != nil {
		return u.Token
	}
	return ""
}

func (s *Session) Role() models.UserRole {
	if u := s.Current(); u != nil {
		return u.Role
	}
	return ""
}

func (s *Session) IsAdmin() bool {
	return s.Role() == models.RoleAdmin
}

// TokenExpiry reads the exp claim without verifying the signature; the
// backend stays the authority on validity. ok is false when the token is
// not a JWT or carries no exp.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func expired(token string) bool {
	exp, ok := TokenExpiry(token)
	return ok && !exp.After(now())
}
