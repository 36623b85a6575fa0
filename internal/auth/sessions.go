package auth

import (
	"crypto/subtle"
	"database/sql"
	"encoding/gob"
	"net"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/causeway-org/causeway/internal/config"
	"github.com/causeway-org/causeway/internal/entities"
	applog "github.com/causeway-org/causeway/internal/logger"
)

// Session data keys
const (
	SessionKeyUserID      = "user_id"
	SessionKeyUsername    = "username"
	SessionKeyRole        = "role"
	SessionKeyFullName    = "full_name"
	SessionKeyLoginAt     = "login_at"
	SessionKeyRenewedAt   = "renewed_at"
	SessionKeyFingerIP    = "fp_ip"
	SessionKeyFingerUA    = "fp_ua"
	SessionKeyCSRFToken   = "csrf_token"
	sessionKeyFlashPrefix = "flash_"
)

// sessionRenewInterval bounds how long one session token stays valid for an
// active user before it is rotated.
const sessionRenewInterval = 30 * time.Minute

func init() {
	gob.Register(entities.UserRole(""))
	gob.Register(time.Time{})
	gob.Register(FlashMessage{})
}

// FlashMessage is a one-shot notification carried across a redirect.
type FlashMessage struct {
	Kind string // "success", "error", "info"
	Text string
}

// SessionManager wraps scs.SessionManager with application-specific methods.
// Sessions are fingerprinted with the client IP and user agent; a request
// whose fingerprint does not match is treated as unauthenticated and the
// session is destroyed.
type SessionManager struct {
	*scs.SessionManager
	log *applog.Logger
}

// NewSessionManager creates a configured session manager backed by SQLite.
// The sqlDB parameter should be the underlying *sql.DB from GORM.
func NewSessionManager(sqlDB *sql.DB, cfg config.Auth, log *applog.Logger) (*SessionManager, error) {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)

	sm.Lifetime = cfg.SessionLifetime
	sm.IdleTimeout = cfg.SessionLifetime / 2

	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteStrictMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm, log: log}, nil
}

// Login binds a session to an authenticated user. The token is renewed to
// prevent fixation, the client fingerprint is captured, and a fresh CSRF
// token is issued.
func (sm *SessionManager) Login(r *http.Request, user *entities.User) error {
	if err := sm.RenewToken(r.Context()); err != nil {
		return err
	}

	now := time.Now()
	sm.Put(r.Context(), SessionKeyUserID, int(user.ID))
	sm.Put(r.Context(), SessionKeyUsername, user.Username)
	sm.Put(r.Context(), SessionKeyRole, user.Role)
	sm.Put(r.Context(), SessionKeyFullName, user.FullName)
	sm.Put(r.Context(), SessionKeyLoginAt, now)
	sm.Put(r.Context(), SessionKeyRenewedAt, now)
	sm.Put(r.Context(), SessionKeyFingerIP, clientIP(r))
	sm.Put(r.Context(), SessionKeyFingerUA, r.UserAgent())

	_, err := sm.RotateCSRFToken(r)
	return err
}

// Logout removes all session data and invalidates the session token.
func (sm *SessionManager) Logout(r *http.Request) error {
	return sm.Destroy(r.Context())
}

// IsLoggedIn reports whether the request carries a valid, fingerprint-matched
// session. A fingerprint mismatch destroys the session and fails closed.
func (sm *SessionManager) IsLoggedIn(r *http.Request) bool {
	if sm.GetInt(r.Context(), SessionKeyUserID) == 0 {
		return false
	}

	storedIP := sm.GetString(r.Context(), SessionKeyFingerIP)
	storedUA := sm.GetString(r.Context(), SessionKeyFingerUA)
	ip := clientIP(r)
	ua := r.UserAgent()

	ipOK := subtle.ConstantTimeCompare([]byte(storedIP), []byte(ip)) == 1
	uaOK := subtle.ConstantTimeCompare([]byte(storedUA), []byte(ua)) == 1
	if !ipOK || !uaOK {
		sm.log.Warning("session fingerprint mismatch for user {user_id} from {ip}", map[string]any{
			"user_id": sm.GetInt(r.Context(), SessionKeyUserID),
			"ip":      ip,
			"ua":      ua,
		})
		_ = sm.Destroy(r.Context())
		return false
	}

	sm.maybeRenew(r)
	return true
}

// maybeRenew rotates the session token periodically for long-lived sessions.
func (sm *SessionManager) maybeRenew(r *http.Request) {
	renewedAt, _ := sm.Get(r.Context(), SessionKeyRenewedAt).(time.Time)
	if time.Since(renewedAt) < sessionRenewInterval {
		return
	}
	if err := sm.RenewToken(r.Context()); err != nil {
		return
	}
	sm.Put(r.Context(), SessionKeyRenewedAt, time.Now())
}

// UserID retrieves the user ID from the session. Returns 0 if not logged in.
func (sm *SessionManager) UserID(r *http.Request) uint {
	return uint(sm.GetInt(r.Context(), SessionKeyUserID))
}

// Username retrieves the username from the session.
func (sm *SessionManager) Username(r *http.Request) string {
	return sm.GetString(r.Context(), SessionKeyUsername)
}

// UserRole retrieves the role from the session.
func (sm *SessionManager) UserRole(r *http.Request) entities.UserRole {
	role, ok := sm.Get(r.Context(), SessionKeyRole).(entities.UserRole)
	if !ok {
		return ""
	}
	return role
}

// Flash stores a one-shot message under the given slot.
func (sm *SessionManager) Flash(r *http.Request, slot string, msg FlashMessage) {
	sm.Put(r.Context(), sessionKeyFlashPrefix+slot, msg)
}

// PopFlash returns and removes the message in the given slot. The second
// return is false when the slot is empty; reading a flash consumes it.
func (sm *SessionManager) PopFlash(r *http.Request, slot string) (FlashMessage, bool) {
	raw := sm.Pop(r.Context(), sessionKeyFlashPrefix+slot)
	msg, ok := raw.(FlashMessage)
	return msg, ok
}

// clientIP returns the remote IP without the port.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
