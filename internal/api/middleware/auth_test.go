package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/church-members-api/internal/api/middleware"
	"github.com/vietanh2810/church-members-api/internal/domain"
	"github.com/vietanh2810/church-members-api/internal/pkg/jwthelper"
)

const signingKey = "test-signing-key"

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	auth := middleware.NewAuthenticator(signingKey)
	r.GET("/me", auth.VerifyJWT(), func(ctx *gin.Context) {
		session, ok := middleware.SessionFrom(ctx)
		if !ok {
			ctx.Status(http.StatusInternalServerError)
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"id": session.UserID, "role": session.Role})
	})
	r.GET("/admin", auth.VerifyJWT(), middleware.RequireRole(domain.RoleAdmin), func(ctx *gin.Context) {
		ctx.Status(http.StatusNoContent)
	})

	return r
}

func token(t *testing.T, key string, id uint, role string, ttl time.Duration) string {
	t.Helper()
	tok, err := jwthelper.GenerateToken([]byte(key), id, role, ttl)
	require.NoError(t, err)
	return tok
}

func do(r http.Handler, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestVerifyJWT(t *testing.T) {
	r := newRouter()

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer not-a-token", http.StatusUnauthorized},
		{"wrong key", "Bearer " + token(t, "other", 1, "admin", time.Hour), http.StatusUnauthorized},
		{"expired", "Bearer " + token(t, signingKey, 1, "admin", -time.Minute), http.StatusUnauthorized},
		{"unknown role", "Bearer " + token(t, signingKey, 1, "pastor", time.Hour), http.StatusUnauthorized},
		{"valid", "Bearer " + token(t, signingKey, 7, "data-entry", time.Hour), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, "/me", tt.header)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestVerifyJWT_StoresSession(t *testing.T) {
	w := do(newRouter(), "/me", "Bearer "+token(t, signingKey, 7, "data-entry", time.Hour))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":7,"role":"data-entry"}`, w.Body.String())
}

func TestRequireRole(t *testing.T) {
	r := newRouter()

	w := do(r, "/admin", "Bearer "+token(t, signingKey, 2, "data-entry", time.Hour))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, "/admin", "Bearer "+token(t, signingKey, 1, "admin", time.Hour))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
