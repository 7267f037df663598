package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func apiKeyRouter(key string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/guarded", APIKeyAuth(key), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestAPIKeyAuth(t *testing.T) {
	t.Run("matching key passes", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/guarded", nil)
		req.Header.Set("x-api-key", "secret")
		apiKeyRouter("secret").ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing key is rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		apiKeyRouter("secret").ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/guarded", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
	})

	t.Run("wrong key is rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/guarded", nil)
		req.Header.Set("x-api-key", "nope")
		apiKeyRouter("secret").ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("empty configured key disables the gate", func(t *testing.T) {
		w := httptest.NewRecorder()
		apiKeyRouter("").ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/guarded", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
