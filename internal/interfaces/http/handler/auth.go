package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/acme/invoicing/internal/application/form"
	identityapp "github.com/acme/invoicing/internal/application/identity"
	"github.com/acme/invoicing/internal/domain/identity"
	"github.com/acme/invoicing/internal/infrastructure/auth"
	"github.com/acme/invoicing/internal/infrastructure/config"
	"github.com/acme/invoicing/internal/interfaces/http/dto"
	"github.com/acme/invoicing/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Authenticator signs users in and out
type Authenticator interface {
	Authenticate(ctx context.Context, in identity.LoginForm) (*identityapp.LoginResult, error)
	Logout(ctx context.Context, claims *auth.Claims) error
}

// SignUpService creates accounts
type SignUpService interface {
	SignUp(ctx context.Context, in identity.UserForm) *form.State
}

// AuthHandler handles sign-up, sign-in and sign-out
type AuthHandler struct {
	BaseHandler
	authService Authenticator
	userService SignUpService
	cookie      config.CookieConfig
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService Authenticator, userService SignUpService, cookie config.CookieConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		cookie:      cookie,
	}
}

// SignUp handles the sign-up form
func (h *AuthHandler) SignUp(c *gin.Context) {
	var in identity.UserForm
	if !h.bindForm(c, &in) {
		return
	}
	h.RespondForm(c, "user", "create", h.userService.SignUp(c.Request.Context(), in))
}

// Login checks the credentials and starts a session. Rejected credentials
// and failed lookups answer 401 with their message; anything else is a 500.
func (h *AuthHandler) Login(c *gin.Context) {
	var in identity.LoginForm
	if !h.bindForm(c, &in) {
		return
	}

	result, err := h.authService.Authenticate(c.Request.Context(), in)
	if err != nil {
		if authErr, ok := identity.AsAuthError(err); ok {
			h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, authErr.Message())
			return
		}
		h.HandleError(c, err)
		return
	}

	h.setSessionCookie(c, result.Token, time.Until(result.ExpiresAt))
	if isFormPost(c) {
		c.Redirect(http.StatusSeeOther, result.Redirect)
		return
	}
	h.Success(c, result)
}

// Logout revokes the current session and clears the cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.GetJWTClaims(c)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.setSessionCookie(c, "", -1)
	if isFormPost(c) {
		c.Redirect(http.StatusSeeOther, form.LoginPath)
		return
	}
	h.Success(c, dto.RedirectResponse{Redirect: form.LoginPath})
}

// setSessionCookie writes the session cookie; a negative maxAge deletes it
func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge time.Duration) {
	seconds := -1
	if maxAge >= 0 {
		seconds = int(maxAge.Seconds())
	}
	c.SetSameSite(sameSiteMode(h.cookie.SameSite))
	c.SetCookie(h.cookie.Name, token, seconds, h.cookie.Path, h.cookie.Domain, h.cookie.Secure, true)
}

func sameSiteMode(s string) http.SameSite {
	switch s {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
