package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/Skotchmaster/stockroom/internal/logging"
	"github.com/Skotchmaster/stockroom/internal/models"
)

const (
	LoginPath = "/login"
	HomePath  = "/"
)

// Verdict is the outcome of Authorize. Redirect is set only when Allowed is false.
type Verdict struct {
	Allowed  bool
	Redirect string
}

// SessionStore owns the single logged-in identity of the process.
// writeMu serialises Login and Logout so the persisted slot always matches
// the in-memory session; mu only guards the pointer for readers.
type SessionStore struct {
	writeMu     sync.Mutex
	mu          sync.Mutex
	session     *models.Session
	credentials []models.Credential
	kv          KV
	key         string
}

// NewSessionStore restores a persisted session under key if it is well-formed.
func NewSessionStore(ctx context.Context, kv KV, key string, credentials []models.Credential) *SessionStore {
	s := &SessionStore{
		credentials: append([]models.Credential(nil), credentials...),
		kv:          kv,
		key:         key,
	}
	s.session = s.restore(ctx)
	return s
}

func (s *SessionStore) restore(ctx context.Context) *models.Session {
	l := logging.FromContext(ctx).With("svc", "session.restore")

	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		l.Warn("restore_failed", "reason", "cannot read persisted session", "error", err)
		return nil
	}
	if !ok {
		return nil
	}

	var sess models.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		l.Warn("restore_failed", "reason", "malformed persisted session", "error", err)
		return nil
	}
	if strings.TrimSpace(sess.Email) == "" || sess.Role == models.RoleNone {
		l.Warn("restore_failed", "reason", "persisted session lacks email or role")
		return nil
	}

	l.Info("session_restored", "email", sess.Email, "role", sess.Role)
	return &sess
}

// Login matches email and password exactly. A failed persist is logged, not returned.
func (s *SessionStore) Login(ctx context.Context, email, password string) bool {
	_, ok := s.LoginSession(ctx, email, password)
	return ok
}

// LoginSession is Login returning the session it established.
func (s *SessionStore) LoginSession(ctx context.Context, email, password string) (models.Session, bool) {
	l := logging.FromContext(ctx).With("svc", "session.login", "email", email)

	var found *models.Credential
	for i := range s.credentials {
		if s.credentials[i].Email == email && s.credentials[i].Password == password {
			found = &s.credentials[i]
			break
		}
	}
	if found == nil {
		l.Warn("login_failed", "reason", "invalid email or password")
		return models.Session{}, false
	}

	sess := models.Session{Email: found.Email, Role: found.Role}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.session = &sess
	s.mu.Unlock()

	if data, err := json.Marshal(sess); err != nil {
		l.Error("persist_failed", "reason", "cannot encode session", "error", err)
	} else if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		l.Error("persist_failed", "reason", "cannot write session", "error", err)
	}

	l.Info("login_successful", "role", sess.Role)
	return sess, true
}

func (s *SessionStore) Logout(ctx context.Context) {
	s.LogoutSession(ctx)
}

// LogoutSession is Logout returning the session it ended, if any.
func (s *SessionStore) LogoutSession(ctx context.Context) (models.Session, bool) {
	l := logging.FromContext(ctx).With("svc", "session.logout")

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	prev := s.session
	s.session = nil
	s.mu.Unlock()

	if err := s.kv.Delete(ctx, s.key); err != nil {
		l.Error("logout_error", "reason", "cannot delete persisted session", "error", err)
	}
	if prev == nil {
		return models.Session{}, false
	}
	l.Info("successful_logout")
	return *prev, true
}

func (s *SessionStore) Current() (models.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return models.Session{}, false
	}
	return *s.session, true
}

func (s *SessionStore) CurrentRole() (models.Role, bool) {
	sess, ok := s.Current()
	if !ok {
		return models.RoleNone, false
	}
	return sess.Role, true
}

// Authorize decides whether a view requiring role may render. RoleNone means any session.
func (s *SessionStore) Authorize(required models.Role) Verdict {
	v, _ := s.AuthorizeSession(required)
	return v
}

// AuthorizeSession is Authorize plus the session snapshot the verdict was taken from.
func (s *SessionStore) AuthorizeSession(required models.Role) (Verdict, models.Session) {
	sess, ok := s.Current()
	if !ok {
		return Verdict{Redirect: LoginPath}, models.Session{}
	}
	if required != models.RoleNone && required != sess.Role {
		return Verdict{Redirect: HomePath}, sess
	}
	return Verdict{Allowed: true}, sess
}
