package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/causeway-org/causeway/internal/entities"
)

// Context keys for user data
const (
	ContextKeyUserID   = "auth_user_id"
	ContextKeyUsername = "auth_username"
	ContextKeyRole     = "auth_role"
)

// RememberCookieName is the remember-me cookie.
const RememberCookieName = "remember_token"

// Middleware authenticates HTTP requests via the session, falling back to
// the remember-me cookie.
type Middleware struct {
	service  *Service
	sessions *SessionManager
	secure   bool
}

func NewMiddleware(service *Service, sessions *SessionManager, secureCookies bool) *Middleware {
	return &Middleware{service: service, sessions: sessions, secure: secureCookies}
}

// Handler resolves the current user and stores it in the Gin context. It
// never rejects; RequireAuth and RequireRole do that per route group.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.sessions.IsLoggedIn(c.Request) {
			c.Set(ContextKeyUserID, m.sessions.UserID(c.Request))
			c.Set(ContextKeyUsername, m.sessions.Username(c.Request))
			c.Set(ContextKeyRole, m.sessions.UserRole(c.Request))
			c.Next()
			return
		}

		if user := m.tryRememberCookie(c); user != nil {
			c.Set(ContextKeyUserID, user.ID)
			c.Set(ContextKeyUsername, user.Username)
			c.Set(ContextKeyRole, user.Role)
		}
		c.Next()
	}
}

// tryRememberCookie re-establishes a session from a valid remember-me
// cookie. Invalid or expired cookies are cleared.
func (m *Middleware) tryRememberCookie(c *gin.Context) *entities.User {
	cookie, err := c.Request.Cookie(RememberCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	user, err := m.service.ConsumeRememberToken(cookie.Value)
	if err != nil {
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     RememberCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   m.secure,
			SameSite: http.SameSiteStrictMode,
		})
		return nil
	}

	if err := m.sessions.Login(c.Request, user); err != nil {
		return nil
	}
	return user
}

// RequireAuth aborts unauthenticated requests. API clients get a JSON 401,
// browsers are redirected to the login page.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(ContextKeyUserID); exists {
			c.Next()
			return
		}

		if isAPIRequest(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Redirect(http.StatusFound, "/login?next="+c.Request.URL.Path)
		c.Abort()
	}
}

// RequireRole aborts requests whose user lacks one of the allowed roles.
func RequireRole(roles ...entities.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get(ContextKeyRole)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		current, _ := role.(entities.UserRole)
		for _, allowed := range roles {
			if current == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
	}
}

// CurrentUserID returns the authenticated user's ID, or 0.
func CurrentUserID(c *gin.Context) uint {
	if id, ok := c.Get(ContextKeyUserID); ok {
		if uid, ok := id.(uint); ok {
			return uid
		}
	}
	return 0
}

func isAPIRequest(c *gin.Context) bool {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}
