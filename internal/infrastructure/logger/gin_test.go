package logger

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newLoggedRouter(t *testing.T, level zapcore.Level) (*gin.Engine, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(level)
	l := zap.New(core)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(RequestIDGinKey, "req-abc")
		c.Next()
	})
	router.Use(Recovery(l), GinMiddleware(l))
	return router, recorded
}

func httpEntries(recorded *observer.ObservedLogs) []observer.LoggedEntry {
	return recorded.FilterMessage("http request").All()
}

func TestGinMiddleware(t *testing.T) {
	t.Run("logs successful requests at info", func(t *testing.T) {
		router, recorded := newLoggedRouter(t, zapcore.InfoLevel)
		router.GET("/api/v1/orders/:orderNumber", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true})
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/PF-2026-000001?x=1", nil)
		router.ServeHTTP(w, req)

		entries := httpEntries(recorded)
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
		fields := entries[0].ContextMap()
		assert.Equal(t, "GET", fields["method"])
		assert.Equal(t, "/api/v1/orders/PF-2026-000001", fields["path"])
		assert.Equal(t, "/api/v1/orders/:orderNumber", fields["route"])
		assert.Equal(t, "x=1", fields["query"])
		assert.Equal(t, int64(http.StatusOK), fields["status"])
		assert.Equal(t, "req-abc", fields["request_id"])
	})

	t.Run("client errors are warnings and carry the user", func(t *testing.T) {
		router, recorded := newLoggedRouter(t, zapcore.InfoLevel)
		router.GET("/cart", func(c *gin.Context) {
			c.Request = c.Request.WithContext(WithUserID(c.Request.Context(), "user-1"))
			c.JSON(http.StatusBadRequest, gin.H{"success": false})
		})

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/cart", nil))

		entries := httpEntries(recorded)
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		assert.Equal(t, "user-1", entries[0].ContextMap()["user_id"])
	})

	t.Run("server errors are errors", func(t *testing.T) {
		router, recorded := newLoggedRouter(t, zapcore.InfoLevel)
		router.GET("/boom", func(c *gin.Context) {
			_ = c.Error(assert.AnError)
			c.Status(http.StatusServiceUnavailable)
		})

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

		entries := httpEntries(recorded)
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
		assert.Contains(t, entries[0].ContextMap(), "errors")
	})

	t.Run("handlers reach the request logger through the context", func(t *testing.T) {
		router, recorded := newLoggedRouter(t, zapcore.InfoLevel)
		router.GET("/products", func(c *gin.Context) {
			L(c.Request.Context()).Info("listing products")
			c.Status(http.StatusNoContent)
		})

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products", nil))

		entries := recorded.FilterMessage("listing products").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "req-abc", entries[0].ContextMap()["request_id"])
		assert.Equal(t, "/products", entries[0].ContextMap()["path"])
	})
}

func TestRecovery(t *testing.T) {
	router, recorded := newLoggedRouter(t, zapcore.InfoLevel)
	router.GET("/panic", func(c *gin.Context) {
		panic("stock ledger exploded")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code      string `json:"code"`
			RequestID string `json:"request_id"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	assert.Equal(t, "req-abc", body.Error.RequestID)

	panics := recorded.FilterMessage("panic recovered").All()
	require.Len(t, panics, 1)
	assert.Equal(t, "stock ledger exploded", panics[0].ContextMap()["panic"])
}
