package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNewRouter_RecoversPanics(t *testing.T) {
	r := NewRouter(zap.NewNop(), Options{Mode: gin.TestMode}, func(c *gin.Context, _ any) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"code": 500})
	})
	r.GET("/panic", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"code":500}`, w.Body.String())
}

func TestNewRouter_CORSWithOrigins(t *testing.T) {
	r := NewRouter(zap.NewNop(), Options{Mode: gin.TestMode, AllowOrigins: []string{"http://localhost:5173"}}, nil)
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestAddr(t *testing.T) {
	assert.Equal(t, "0.0.0.0:8800", Addr("0.0.0.0", 8800))
}
