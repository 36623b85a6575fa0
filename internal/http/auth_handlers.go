package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/causeway-org/causeway/internal/auth"
)

// AuthController serves login, logout and the current-user endpoint.
type AuthController struct {
	service  *auth.Service
	sessions *auth.SessionManager
	secure   bool
}

func NewAuthController(service *auth.Service, sessions *auth.SessionManager, secureCookies bool) *AuthController {
	return &AuthController{service: service, sessions: sessions, secure: secureCookies}
}

type loginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
	Remember bool   `json:"remember" form:"remember"`
}

func (a *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	user, err := a.service.Authenticate(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrAccountLocked) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
			return
		}
		// Same response for unknown user and wrong password.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if err := a.sessions.Login(c.Request, user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start session"})
		return
	}

	if req.Remember {
		token, expiresAt, err := a.service.IssueRememberToken(user.ID)
		if err == nil {
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     auth.RememberCookieName,
				Value:    token,
				Path:     "/",
				Expires:  expiresAt,
				HttpOnly: true,
				Secure:   a.secure,
				SameSite: http.SameSiteStrictMode,
			})
		}
	}

	a.sessions.Flash(c.Request, "login", auth.FlashMessage{
		Kind: "success",
		Text: "Welcome back, " + user.Username,
	})
	c.JSON(http.StatusOK, gin.H{
		"id":        user.ID,
		"username":  user.Username,
		"full_name": user.FullName,
		"role":      user.Role,
	})
}

func (a *AuthController) Logout(c *gin.Context) {
	if userID := auth.CurrentUserID(c); userID != 0 {
		_ = a.service.RevokeRememberToken(userID)
	}
	_ = a.sessions.Logout(c.Request)

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     auth.RememberCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteStrictMode,
	})
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

func (a *AuthController) Me(c *gin.Context) {
	userID := auth.CurrentUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	user, err := a.service.GetUserByID(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	resp := gin.H{
		"id":        user.ID,
		"username":  user.Username,
		"email":     user.Email,
		"full_name": user.FullName,
		"role":      user.Role,
	}
	if msg, ok := a.sessions.PopFlash(c.Request, "login"); ok {
		resp["flash"] = msg
	}
	c.JSON(http.StatusOK, resp)
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

func (a *AuthController) ChangePassword(c *gin.Context) {
	userID := auth.CurrentUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "old and new passwords are required"})
		return
	}

	if err := a.service.ChangePassword(userID, req.OldPassword, req.NewPassword); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "password changed"})
}
