package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := NewRateLimiter(0.001, 2)

	router := gin.New()
	router.POST("/login", limiter.Middleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	send := func(remote string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = remote
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusNoContent, send("192.0.2.1:1000"))
	assert.Equal(t, http.StatusNoContent, send("192.0.2.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, send("192.0.2.1:1002"))

	// other clients have their own bucket
	assert.Equal(t, http.StatusNoContent, send("192.0.2.2:1000"))
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	assert.Nil(t, CORS(nil))
	assert.Nil(t, CORS([]string{" ", ""}))

	mw := CORS([]string{"https://app.example.com"})
	require.NotNil(t, mw)

	router := gin.New()
	router.Use(mw)
	router.GET("/api/marketplace/properties", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		name     string
		origin   string
		expected string
	}{
		{name: "Allowed origin", origin: "https://app.example.com", expected: "https://app.example.com"},
		{name: "Unknown origin", origin: "https://evil.example.com", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/api/marketplace/properties", nil)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expected, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestRequireBrokerWithoutSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/dashboard", RequireBroker(), func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/api/dashboard/properties", RequireBroker(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/dashboard/properties", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
