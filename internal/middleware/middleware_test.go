package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hris_backend/internal/model"
	"hris_backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubAuthService struct {
	users map[string]*model.User
	err   error
}

func (s *stubAuthService) Login(context.Context, string, string) (*model.User, *model.TokenPayload, error) {
	return nil, nil, errors.New("not implemented")
}

func (s *stubAuthService) Authenticate(_ context.Context, token string) (*model.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if u, ok := s.users[token]; ok {
		return u, nil
	}
	return nil, service.ErrInvalidToken
}

func (s *stubAuthService) Logout(context.Context, string) {}

func newTestRouter(auth service.AuthService, roleMW gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", JWTAuthMiddleware(auth), roleMW, func(c *gin.Context) {
		user, _ := GetCurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"id": user.ID})
	})
	return r
}

func doRequest(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware(t *testing.T) {
	auth := &stubAuthService{users: map[string]*model.User{
		"user-token":  {ID: "user-1", Role: model.RoleUser},
		"admin-token": {ID: "admin-1", Role: model.RoleAdmin},
	}}
	r := newTestRouter(auth, UserMiddleware())

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"bad scheme", "Basic abc", http.StatusUnauthorized},
		{"unknown token", "Bearer nope", http.StatusUnauthorized},
		{"valid user", "Bearer user-token", http.StatusOK},
		{"lowercase scheme", "bearer admin-token", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, tt.header)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestJWTAuthMiddleware_InternalError(t *testing.T) {
	r := newTestRouter(&stubAuthService{err: errors.New("db down")}, UserMiddleware())

	w := doRequest(r, "Bearer anything")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestJWTAuthMiddleware_RevokedToken(t *testing.T) {
	r := newTestRouter(&stubAuthService{err: service.ErrTokenRevoked}, UserMiddleware())

	w := doRequest(r, "Bearer revoked")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token revoked")
}

func TestRoleMiddleware(t *testing.T) {
	auth := &stubAuthService{users: map[string]*model.User{
		"user-token":  {ID: "user-1", Role: model.RoleUser},
		"admin-token": {ID: "admin-1", Role: model.RoleAdmin},
	}}

	admin := newTestRouter(auth, AdminMiddleware())
	assert.Equal(t, http.StatusForbidden, doRequest(admin, "Bearer user-token").Code)
	assert.Equal(t, http.StatusOK, doRequest(admin, "Bearer admin-token").Code)

	strict := newTestRouter(auth, StrictlyUserMiddleware())
	assert.Equal(t, http.StatusOK, doRequest(strict, "Bearer user-token").Code)
	assert.Equal(t, http.StatusForbidden, doRequest(strict, "Bearer admin-token").Code)
}

func TestRoleMiddleware_WithoutAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AdminMiddleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusForbidden, doRequest(r, "").Code)
}
