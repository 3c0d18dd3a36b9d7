package api

import (
	"alcyxob/gym-dashboard/internal/service"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestAuthMiddleware(t *testing.T) {
	t.Run("missing cookie", func(t *testing.T) {
		s := newTestServer(t)
		w, env := s.do(t, http.MethodGet, "/api/auth/me", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, false, env["success"])
		assert.Equal(t, "not authenticated", env["message"])
	})

	t.Run("invalid token", func(t *testing.T) {
		s := newTestServer(t)
		s.auth.On("ParseToken", "forged").Return(nil, service.ErrInvalidToken).Once()

		w, env := s.do(t, http.MethodGet, "/api/activities", nil, "forged")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "invalid token", env["message"])
	})

	t.Run("user deleted since login", func(t *testing.T) {
		s := newTestServer(t)
		claims := &service.Claims{UserID: "abc"}
		s.auth.On("ParseToken", "stale").Return(claims, nil).Once()
		s.auth.On("CurrentUser", mock.Anything, claims).Return(nil, service.ErrUserNotFound).Once()

		w, env := s.do(t, http.MethodGet, "/api/auth/me", nil, "stale")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "user not found", env["message"])
	})

	t.Run("storage failure", func(t *testing.T) {
		s := newTestServer(t)
		claims := &service.Claims{UserID: "abc"}
		s.auth.On("ParseToken", "tok").Return(claims, nil).Once()
		s.auth.On("CurrentUser", mock.Anything, claims).Return(nil, errors.New("mongo down")).Once()

		w, env := s.do(t, http.MethodGet, "/api/auth/me", nil, "tok")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "internal server error", env["message"])
	})

	t.Run("valid session", func(t *testing.T) {
		s := newTestServer(t)
		user := memberUser()
		token := s.signIn(user)

		w, env := s.do(t, http.MethodGet, "/api/auth/me", nil, token)
		assert.Equal(t, http.StatusOK, w.Code)
		got := env["user"].(map[string]any)
		assert.Equal(t, user.ID.Hex(), got["id"])
		assert.Equal(t, "member", got["role"])
		assert.NotContains(t, got, "passwordHash")
	})
}

func TestRoleMiddleware(t *testing.T) {
	s := newTestServer(t)
	token := s.signIn(memberUser())

	for _, path := range []string{"/api/clients", "/api/stats"} {
		w, env := s.do(t, http.MethodGet, path, nil, token)
		assert.Equal(t, http.StatusForbidden, w.Code, path)
		assert.Equal(t, "access denied", env["message"])
	}
	s.clients.AssertNotCalled(t, "ListClients", mock.Anything, mock.Anything)

	coachToken := s.signIn(coachUser())
	w, _ := s.do(t, http.MethodGet, "/api/membership", nil, coachToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	router := gin.New()
	router.POST("/login", RateLimitMiddleware(1, 2, zap.NewNop()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2"), "buckets are per IP")
}

func TestRequestLogger(t *testing.T) {
	router := gin.New()
	router.Use(RequestLogger(zap.NewNop()))
	router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRecovery(t *testing.T) {
	router := gin.New()
	router.Use(Recovery(zap.NewNop()))
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"internal server error"}`, w.Body.String())
}
