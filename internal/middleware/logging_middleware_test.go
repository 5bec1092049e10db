package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ikkim/animeroast-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLoggingTest() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(LoggingMiddleware(util.NewIPHasher("test-ip-key")))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"request_id": c.GetString(RequestIDKey),
			"ip_hash":    GetIPHash(c),
			"has_logger": GetLoggerFromContext(c) != nil,
		})
	})
	return router
}

func TestLoggingMiddleware_GeneratesRequestID(t *testing.T) {
	router := setupLoggingTest()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	require.Equal(t, http.StatusOK, w.Code)
	id := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)

	body := decodeBody(t, w)
	assert.Equal(t, id, body["request_id"])
	assert.Len(t, body["ip_hash"], 32)
	assert.Equal(t, true, body["has_logger"])
}

func TestLoggingMiddleware_HonoursInboundRequestID(t *testing.T) {
	router := setupLoggingTest()

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(RequestIDHeader, "edge-7f3a.42_x")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "edge-7f3a.42_x", w.Header().Get(RequestIDHeader))
}

func TestLoggingMiddleware_ReplacesUnsafeRequestID(t *testing.T) {
	for _, bad := range []string{"has spaces", "<script>", strings.Repeat("a", 65)} {
		router := setupLoggingTest()

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(RequestIDHeader, bad)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		got := w.Header().Get(RequestIDHeader)
		assert.NotEqual(t, bad, got)
		_, err := uuid.Parse(got)
		assert.NoError(t, err, "header %q", bad)
	}
}

func TestLoggingMiddleware_HashesClientIP(t *testing.T) {
	router := setupLoggingTest()

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "203.0.113.9:5555"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	body := decodeBody(t, w)
	assert.Equal(t, util.NewIPHasher("test-ip-key").Hash("203.0.113.9"), body["ip_hash"])
	assert.NotContains(t, w.Body.String(), "203.0.113.9")
}
