package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estate-api/internal/core/auth"
	"estate-api/internal/domain"
)

func newJWTer() *auth.JWTer {
	return &auth.JWTer{Secret: []byte("test-secret"), Issuer: "estate-api", TTL: time.Hour}
}

func engineWith(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/who", func(c *gin.Context) {
		caller, ok := CallerOf(c)
		c.JSON(http.StatusOK, gin.H{"ok": ok, "id": caller.ID, "role": caller.Role})
	})
	return r
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthJWT(t *testing.T) {
	j := newJWTer()
	r := engineWith(AuthJWT(j, ""))

	w := do(r, httptest.NewRequest(http.MethodGet, "/who", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Not Authenticated!")

	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = do(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token is not Valid!")

	tok, err := j.Issue("u-1", "user")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/who", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: tok})
	w = do(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"id":"u-1","role":"user"}`, w.Body.String())
}

func TestAuthJWT_RequireRole(t *testing.T) {
	j := newJWTer()
	r := engineWith(AuthJWT(j, domain.RoleAdmin))

	tok, err := j.Issue("u-1", "user")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	assert.Equal(t, http.StatusForbidden, do(r, req).Code)

	tok, err = j.Issue("a-1", "admin")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	assert.Equal(t, http.StatusOK, do(r, req).Code)
}

func TestOptionalAuth(t *testing.T) {
	j := newJWTer()
	r := engineWith(OptionalAuth(j))

	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := do(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":false,"id":"","role":""}`, w.Body.String())
}

func TestRateLimitPerIP(t *testing.T) {
	r := engineWith(RateLimitPerIP(0, 1))

	first := httptest.NewRequest(http.MethodGet, "/who", nil)
	first.RemoteAddr = "10.0.0.1:1234"
	assert.Equal(t, http.StatusOK, do(r, first).Code)

	second := httptest.NewRequest(http.MethodGet, "/who", nil)
	second.RemoteAddr = "10.0.0.1:1234"
	assert.Equal(t, http.StatusTooManyRequests, do(r, second).Code)

	other := httptest.NewRequest(http.MethodGet, "/who", nil)
	other.RemoteAddr = "10.0.0.2:1234"
	assert.Equal(t, http.StatusOK, do(r, other).Code)
}

func TestRequestIDEchoed(t *testing.T) {
	r := engineWith(RequestID())
	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set(KeyRequestID, "abc")
	assert.Equal(t, "abc", do(r, req).Header().Get(KeyRequestID))
	assert.NotEmpty(t, do(r, httptest.NewRequest(http.MethodGet, "/who", nil)).Header().Get(KeyRequestID))
}
