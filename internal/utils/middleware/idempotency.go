package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/carzone/server/internal/port/outbound"
	apperrors "github.com/carzone/server/internal/utils/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// IdempotencyKeyHeader is the header for idempotency key.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotentReplayHeader marks a replayed response.
	IdempotentReplayHeader = "Idempotent-Replayed"

	defaultIdempotencyTTL     = 24 * time.Hour
	defaultIdempotencyLockTTL = 2 * time.Minute
	maxIdempotencyKeyLen  = 255
)

// IdempotencyConfig holds idempotency middleware configuration.
type IdempotencyConfig struct {
	// TTL is how long a completed response is replayed.
	TTL time.Duration
	// LockTTL bounds an in-flight reservation whose request never finished.
	LockTTL time.Duration
	Logger  *zap.Logger
}

// idempotencyResponseWriter captures the response body.
type idempotencyResponseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *idempotencyResponseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *idempotencyResponseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency replays the stored response for a repeated Idempotency-Key.
// Keys are scoped to the caller and route; reusing a key with a different
// body is rejected. Requests without the header pass through.
func Idempotency(store outbound.IdempotencyStorePort, cfg IdempotencyConfig) gin.HandlerFunc {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultIdempotencyTTL
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = defaultIdempotencyLockTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if store == nil || key == "" {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLen {
			abortWithError(c, apperrors.ValidationError("Idempotency-Key is too long"))
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			abortWithError(c, apperrors.BadRequest("unreadable request body"))
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		ctx := c.Request.Context()
		storeKey := idempotencyScope(c, key)
		fingerprint := fingerprintRequest(c, body)

		reserved, existing, err := store.Reserve(ctx, storeKey, fingerprint, cfg.LockTTL)
		if err != nil {
			cfg.Logger.Warn("idempotency store unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !reserved {
			replayOrReject(c, existing, fingerprint)
			return
		}

		w := &idempotencyResponseWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = w

		// Runs on panic too, before Recovery writes its 500.
		completed := false
		defer func() {
			if completed {
				return
			}
			if err := store.Release(context.WithoutCancel(ctx), storeKey); err != nil {
				cfg.Logger.Warn("failed to release idempotency key", zap.Error(err))
			}
		}()

		c.Next()

		status := w.Status()
		if status >= http.StatusInternalServerError {
			// Server errors may be transient; let the client retry.
			return
		}
		completed = true
		record := &outbound.IdempotencyRecord{
			Fingerprint: fingerprint,
			StatusCode:  status,
			ContentType: w.Header().Get("Content-Type"),
			Body:        w.body.Bytes(),
		}
		if err := store.Complete(ctx, storeKey, record, cfg.TTL); err != nil {
			cfg.Logger.Warn("failed to store idempotent response", zap.Error(err))
		}
	}
}

func replayOrReject(c *gin.Context, existing *outbound.IdempotencyRecord, fingerprint string) {
	switch {
	case existing == nil || !existing.Completed():
		abortWithError(c, apperrors.Conflict("REQUEST_IN_PROGRESS",
			"a request with this idempotency key is already being processed"))
	case existing.Fingerprint != fingerprint:
		abortWithError(c, apperrors.Unprocessable("IDEMPOTENCY_KEY_REUSED",
			"idempotency key was used with a different request"))
	default:
		c.Header(IdempotentReplayHeader, "true")
		c.Data(existing.StatusCode, existing.ContentType, existing.Body)
		c.Abort()
	}
}

// idempotencyScope namespaces a client key by caller and route.
func idempotencyScope(c *gin.Context, key string) string {
	caller := "anon"
	if IsAuthenticated(c) {
		caller = GetUserID(c).String()
	}
	return caller + ":" + c.Request.Method + ":" + c.Request.URL.Path + ":" + key
}

func fingerprintRequest(c *gin.Context, body []byte) string {
	h := sha256.New()
	h.Write([]byte(c.Request.Method))
	h.Write([]byte(c.Request.URL.Path))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}
