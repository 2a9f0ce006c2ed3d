package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pantryfresh/backend/internal/domain/shared"
	"github.com/pantryfresh/backend/internal/infrastructure/logger"
	"github.com/pantryfresh/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

const (
	// IdempotencyKeyHeader is the request header naming a retry-safe attempt
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotentReplayHeader is set on responses served from the store
	IdempotentReplayHeader = "Idempotent-Replayed"
	// MaxIdempotencyKeyLength bounds the header value
	MaxIdempotencyKeyLength = 128
)

// releaseTimeout bounds store cleanup after the request context is gone
const releaseTimeout = 2 * time.Second

// Idempotency makes a mutating endpoint safe to retry. The first request with
// a key runs normally and its 2xx response is stored for cfg.TTL; repeats get
// that response back, and a repeat that arrives while the first is still
// running gets 409. Any other outcome releases the key. Keys are scoped to
// the authenticated user and the route.
func Idempotency(store shared.IdempotencyStore, cfg shared.IdempotencyConfig, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = shared.DefaultIdempotencyConfig().TTL
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if !cfg.Enabled || store == nil || key == "" {
			c.Next()
			return
		}
		if len(key) > MaxIdempotencyKeyLength {
			abortWithError(c, http.StatusBadRequest, dto.ErrCodeValidation, "Idempotency-Key must be at most 128 characters")
			return
		}

		ctx := c.Request.Context()
		l := logger.For(ctx, log)
		scoped := scopedIdempotencyKey(c, key)

		claimed, err := store.Claim(ctx, scoped, cfg.TTL)
		if err != nil {
			l.Warn("idempotency store unavailable, running request without it", zap.Error(err))
			c.Next()
			return
		}
		if !claimed {
			replayIdempotent(c, store, scoped, l)
			return
		}

		recorder := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = recorder
		c.Next()

		status := recorder.Status()
		storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
		defer cancel()

		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			if err := store.Release(storeCtx, scoped); err != nil {
				l.Warn("failed to release idempotency key", zap.Error(err))
			}
			return
		}
		result := shared.IdempotentResult{StatusCode: status, Body: recorder.body.Bytes()}
		if err := store.Complete(storeCtx, scoped, result, cfg.TTL); err != nil {
			l.Error("failed to store idempotent response", zap.Error(err))
		}
	}
}

func replayIdempotent(c *gin.Context, store shared.IdempotencyStore, key string, l *zap.Logger) {
	result, err := store.Result(c.Request.Context(), key)
	switch {
	case err == nil:
		l.Info("replaying idempotent response", zap.Int("status", result.StatusCode))
		c.Header(IdempotentReplayHeader, "true")
		c.Data(result.StatusCode, "application/json; charset=utf-8", result.Body)
		c.Abort()
	case errors.Is(err, shared.ErrIdempotencyKeyInFlight), errors.Is(err, shared.ErrNotFound):
		// a missing result means the first attempt released the key a moment ago
		abortWithError(c, http.StatusConflict, dto.ErrCodeIdempotencyInFlight, "A request with this Idempotency-Key is already being processed")
	default:
		l.Error("failed to read idempotent response", zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
	}
}

func scopedIdempotencyKey(c *gin.Context, key string) string {
	user := "anonymous"
	if claims := GetClaims(c); claims != nil {
		user = claims.UserID
	}
	return user + ":" + c.Request.Method + ":" + c.FullPath() + ":" + key
}

// bodyRecorder tees the response body so it can be stored
type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
