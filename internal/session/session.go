// Package session keeps the browser session server side. The browser only holds an
// HttpOnly cookie with the session id; token, broker identity and marketplace phone live
// in the sessions table.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"proptrackrr/web/internal/models"
)

const contextKey = "session"

// LoginBusyMessage is shown when a second login is submitted while one is running
const LoginBusyMessage = "Login already in progress"

var (
	ErrNotLoggedIn     = errors.New("not logged in")
	ErrLoginInProgress = errors.New("login already in progress")
)

// Store persists session records. SaveSession inserts a new record; UpdateSession writes
// only the named columns so concurrent requests do not overwrite each other's changes.
type Store interface {
	GetSession(id string) (*models.Session, error)
	SaveSession(s *models.Session) error
	UpdateSession(id string, fields map[string]interface{}) error
}

// session table columns
const (
	colToken        = "token"
	colBrokerID     = "broker_id"
	colBrokerName   = "broker_name"
	colPhone        = "marketplace_phone"
	colFlashKind    = "flash_kind"
	colFlashMessage = "flash_message"
	colLastSeenAt   = "last_seen_at"
)

type Options struct {
	CookieName string
	Secure     bool
	TTL        time.Duration
}

type Manager struct {
	store  Store
	opts   Options
	logger *logrus.Logger
	now    func() time.Time

	mu   sync.Mutex
	busy map[string]struct{}
}

func NewManager(store Store, opts Options, logger *logrus.Logger) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = "ptk_session"
	}
	if opts.TTL <= 0 {
		opts.TTL = 30 * 24 * time.Hour
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Manager{
		store:  store,
		opts:   opts,
		logger: logger,
		now:    time.Now,
		busy:   make(map[string]struct{}),
	}
}

// Load resolves the session for the request from its cookie, creating a new one when the
// cookie is missing, unknown or idle past the TTL. The session is stored on the context.
func (m *Manager) Load(c *gin.Context) (*models.Session, error) {
	now := m.now()

	var s *models.Session
	if id, err := c.Cookie(m.opts.CookieName); err == nil && id != "" {
		found, err := m.store.GetSession(id)
		if err != nil {
			return nil, err
		}
		if found != nil && now.Sub(found.LastSeenAt) <= m.opts.TTL {
			s = found
		}
	}

	if s == nil {
		s = &models.Session{ID: uuid.NewString(), LastSeenAt: now}
		if err := m.store.SaveSession(s); err != nil {
			return nil, err
		}
	} else {
		fields := map[string]interface{}{}
		if s.Token != "" && TokenExpired(s.Token, now) {
			m.logger.WithField("broker_id", s.BrokerID).Info("Stored token has expired, clearing login")
			fields = clearAuth(s)
		}
		if err := m.update(s, fields); err != nil {
			return nil, err
		}
	}

	m.setCookie(c, s.ID)
	c.Set(contextKey, s)
	return s, nil
}

func (m *Manager) setCookie(c *gin.Context, id string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.opts.CookieName, id, int(m.opts.TTL.Seconds()), "/", "", m.opts.Secure, true)
}

// FromContext returns the session loaded for this request, or nil
func FromContext(c *gin.Context) *models.Session {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil
	}
	s, _ := v.(*models.Session)
	return s
}

// Login records a successful authentication
func (m *Manager) Login(s *models.Session, auth *models.AuthResponse) error {
	if auth == nil || auth.Token == "" {
		return errors.New("authentication response carries no token")
	}
	s.Token = auth.Token
	s.BrokerID = auth.Broker.ID.String()
	s.BrokerName = auth.Broker.Name
	return m.update(s, map[string]interface{}{
		colToken:      s.Token,
		colBrokerID:   s.BrokerID,
		colBrokerName: s.BrokerName,
	})
}

// SeedBroker keeps the broker id of an account that still has to set a password. No
// token is stored.
func (m *Manager) SeedBroker(s *models.Session, brokerID string) error {
	fields := clearAuth(s)
	s.BrokerID = brokerID
	fields[colBrokerID] = brokerID
	return m.update(s, fields)
}

// ClearToken drops a stale token before a new login attempt
func (m *Manager) ClearToken(s *models.Session) error {
	if s.Token == "" {
		return nil
	}
	s.Token = ""
	return m.update(s, map[string]interface{}{colToken: ""})
}

// Logout forgets the broker. The marketplace phone is kept.
func (m *Manager) Logout(s *models.Session) error {
	return m.update(s, clearAuth(s))
}

// SetPhone remembers the buyer phone used on the marketplace
func (m *Manager) SetPhone(s *models.Session, phone string) error {
	if s.MarketplacePhone == phone {
		return nil
	}
	s.MarketplacePhone = phone
	return m.update(s, map[string]interface{}{colPhone: phone})
}

// Flash queues a one-shot notification for the next rendered page
func (m *Manager) Flash(s *models.Session, kind, message string) error {
	s.FlashKind = kind
	s.FlashMessage = message
	return m.update(s, map[string]interface{}{colFlashKind: kind, colFlashMessage: message})
}

// PopFlash returns and clears the pending notification
func (m *Manager) PopFlash(s *models.Session) (kind, message string) {
	if s.FlashMessage == "" {
		return "", ""
	}
	kind, message = s.FlashKind, s.FlashMessage
	s.FlashKind, s.FlashMessage = "", ""
	if err := m.update(s, map[string]interface{}{colFlashKind: "", colFlashMessage: ""}); err != nil {
		m.logger.WithError(err).Warn("Failed to clear flash message")
	}
	return kind, message
}

// TryBeginLogin marks a login as running for the session. It fails if one already is.
func (m *Manager) TryBeginLogin(s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, running := m.busy[s.ID]; running {
		return ErrLoginInProgress
	}
	m.busy[s.ID] = struct{}{}
	return nil
}

func (m *Manager) EndLogin(s *models.Session) {
	m.mu.Lock()
	delete(m.busy, s.ID)
	m.mu.Unlock()
}

// update writes fields and the last-seen time of s
func (m *Manager) update(s *models.Session, fields map[string]interface{}) error {
	s.LastSeenAt = m.now()
	fields[colLastSeenAt] = s.LastSeenAt
	if err := m.store.UpdateSession(s.ID, fields); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// clearAuth forgets the broker on s and returns the columns to write
func clearAuth(s *models.Session) map[string]interface{} {
	s.Token = ""
	s.BrokerID = ""
	s.BrokerName = ""
	return map[string]interface{}{
		colToken:      "",
		colBrokerID:   "",
		colBrokerName: "",
	}
}

// TokenExpired reports whether token is a JWT whose exp claim has passed. The signature is
// not checked; opaque tokens never expire here.
func TokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return now.After(exp.Time)
}
