package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/acme/invoicing/internal/application/form"
	identityapp "github.com/acme/invoicing/internal/application/identity"
	"github.com/acme/invoicing/internal/domain/identity"
	"github.com/acme/invoicing/internal/infrastructure/auth"
	"github.com/acme/invoicing/internal/infrastructure/config"
	"github.com/acme/invoicing/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testCookie = config.CookieConfig{Name: "session", Path: "/", SameSite: "lax"}

func setupAuthRouter(authSvc *mockAuthenticator, userSvc *mockSignUpService, claims *auth.Claims) *gin.Engine {
	h := NewAuthHandler(authSvc, userSvc, testCookie)
	r := gin.New()
	r.POST("/signup", h.SignUp)
	r.POST("/login", h.Login)
	r.POST("/logout", func(c *gin.Context) {
		if claims != nil {
			c.Set(middleware.JWTClaimsKey, claims)
		}
		c.Next()
	}, h.Logout)
	return r
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == testCookie.Name {
			return c
		}
	}
	t.Fatalf("session cookie not set")
	return nil
}

func TestAuthHandler_Login(t *testing.T) {
	result := &identityapp.LoginResult{
		Token:     "signed.jwt.token",
		ExpiresAt: time.Now().Add(time.Hour),
		User:      identityapp.UserInfo{ID: uuid.New(), Name: "User", Email: "user@nextmail.com"},
		Redirect:  form.DashboardPath,
	}
	login := identity.LoginForm{Email: "user@nextmail.com", Password: "123456"}

	t.Run("json success returns the session and sets the cookie", func(t *testing.T) {
		authSvc := new(mockAuthenticator)
		authSvc.On("Authenticate", mock.Anything, login).Return(result, nil)

		w := httptest.NewRecorder()
		setupAuthRouter(authSvc, nil, nil).ServeHTTP(w, jsonRequest(http.MethodPost, "/login",
			`{"email":"user@nextmail.com","password":"123456"}`))

		require.Equal(t, http.StatusOK, w.Code)
		var body identityapp.LoginResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "signed.jwt.token", body.Token)
		assert.Equal(t, form.DashboardPath, body.Redirect)

		cookie := sessionCookie(t, w)
		assert.Equal(t, "signed.jwt.token", cookie.Value)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
		assert.InDelta(t, 3600, cookie.MaxAge, 5)
	})

	t.Run("form post redirects to the dashboard", func(t *testing.T) {
		authSvc := new(mockAuthenticator)
		authSvc.On("Authenticate", mock.Anything, login).Return(result, nil)

		w := httptest.NewRecorder()
		setupAuthRouter(authSvc, nil, nil).ServeHTTP(w, formRequest(http.MethodPost, "/login", url.Values{
			"email":    {"user@nextmail.com"},
			"password": {"123456"},
		}))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, form.DashboardPath, w.Header().Get("Location"))
	})

	t.Run("rejected credentials", func(t *testing.T) {
		authSvc := new(mockAuthenticator)
		authSvc.On("Authenticate", mock.Anything, mock.Anything).Return(nil, identity.NewCredentialsError())

		w := httptest.NewRecorder()
		setupAuthRouter(authSvc, nil, nil).ServeHTTP(w, jsonRequest(http.MethodPost, "/login", `{"email":"x@y.z","password":"wrong!"}`))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), `"message":"Invalid credentials"`)
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("failed lookup", func(t *testing.T) {
		authSvc := new(mockAuthenticator)
		authSvc.On("Authenticate", mock.Anything, mock.Anything).Return(nil, identity.NewCallbackError(errors.New("db down")))

		w := httptest.NewRecorder()
		setupAuthRouter(authSvc, nil, nil).ServeHTTP(w, jsonRequest(http.MethodPost, "/login", `{"email":"x@y.z","password":"secret"}`))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), `"message":"Something went wrong"`)
	})

	t.Run("unclassified errors are raised as 500", func(t *testing.T) {
		authSvc := new(mockAuthenticator)
		authSvc.On("Authenticate", mock.Anything, mock.Anything).Return(nil, errors.New("signing key unavailable"))

		w := httptest.NewRecorder()
		setupAuthRouter(authSvc, nil, nil).ServeHTTP(w, jsonRequest(http.MethodPost, "/login", `{"email":"x@y.z","password":"secret"}`))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), MsgUnexpected)
	})
}

func TestAuthHandler_SignUp(t *testing.T) {
	t.Run("success redirects to login", func(t *testing.T) {
		userSvc := new(mockSignUpService)
		userSvc.On("SignUp", mock.Anything, identity.UserForm{Name: "N", Email: "n@x.io", Password: "123456"}).
			Return(form.RedirectTo(form.LoginPath))

		w := httptest.NewRecorder()
		setupAuthRouter(nil, userSvc, nil).ServeHTTP(w, jsonRequest(http.MethodPost, "/signup",
			`{"name":"N","email":"n@x.io","password":"123456"}`))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"redirect":"/login"}`, w.Body.String())
	})

	t.Run("email in use", func(t *testing.T) {
		userSvc := new(mockSignUpService)
		userSvc.On("SignUp", mock.Anything, mock.Anything).Return(form.Conflict(identityapp.MsgEmailInUse))

		w := httptest.NewRecorder()
		setupAuthRouter(nil, userSvc, nil).ServeHTTP(w, jsonRequest(http.MethodPost, "/signup", `{"name":"N","email":"n@x.io","password":"123456"}`))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.JSONEq(t, `{"message":"Email is already in use."}`, w.Body.String())
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	claims := &auth.Claims{UserID: uuid.NewString()}
	claims.ID = "jti-1"

	t.Run("revokes and clears the cookie", func(t *testing.T) {
		authSvc := new(mockAuthenticator)
		authSvc.On("Logout", mock.Anything, claims).Return(nil)

		w := httptest.NewRecorder()
		setupAuthRouter(authSvc, nil, claims).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/logout", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"redirect":"/login"}`, w.Body.String())
		cookie := sessionCookie(t, w)
		assert.Empty(t, cookie.Value)
		assert.Negative(t, cookie.MaxAge)
		authSvc.AssertExpectations(t)
	})

	t.Run("revocation failure", func(t *testing.T) {
		authSvc := new(mockAuthenticator)
		authSvc.On("Logout", mock.Anything, claims).Return(errors.New("redis down"))

		w := httptest.NewRecorder()
		setupAuthRouter(authSvc, nil, claims).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/logout", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
