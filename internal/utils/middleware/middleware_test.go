package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/port/outbound"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error.Code
}

func TestRequestID(t *testing.T) {
	t.Run("generates new request ID when not provided", func(t *testing.T) {
		router := gin.New()
		router.Use(RequestID())
		router.GET("/test", func(c *gin.Context) {
			c.String(http.StatusOK, GetRequestID(c))
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		headerID := w.Header().Get(RequestIDHeader)
		assert.NotEmpty(t, headerID)
		assert.Equal(t, headerID, w.Body.String())
	})

	t.Run("uses existing request ID from header", func(t *testing.T) {
		router := gin.New()
		router.Use(RequestID())
		router.GET("/test", func(c *gin.Context) {
			c.String(http.StatusOK, GetRequestID(c))
		})

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(RequestIDHeader, "existing-request-id-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "existing-request-id-123", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "existing-request-id-123", w.Body.String())
	})

	t.Run("replaces oversized request ID", func(t *testing.T) {
		router := gin.New()
		router.Use(RequestID())
		router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("x", 500))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Len(t, w.Header().Get(RequestIDHeader), 36)
	})
}

func TestLogging(t *testing.T) {
	newRouter := func() (*gin.Engine, *observer.ObservedLogs) {
		core, logs := observer.New(zapcore.DebugLevel)
		router := gin.New()
		router.Use(RequestID(), Logging(zap.New(core)))
		router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
		router.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
		router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
		return router, logs
	}

	tests := []struct {
		path  string
		level zapcore.Level
	}{
		{"/ok?x=1", zapcore.InfoLevel},
		{"/bad", zapcore.WarnLevel},
		{"/boom", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			router, logs := newRouter()
			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))

			require.Equal(t, 1, logs.Len())
			entry := logs.All()[0]
			assert.Equal(t, tt.level, entry.Level)
			fields := entry.ContextMap()
			assert.NotEmpty(t, fields["request_id"])
			assert.Equal(t, http.MethodGet, fields["method"])
		})
	}
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) { panic("test panic") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", errorCode(t, w))
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

// fakeValidator accepts "good-<role>" tokens.
type fakeValidator struct {
	userID uuid.UUID
}

func (v fakeValidator) ValidateToken(token string) (*outbound.JWTClaims, error) {
	role, ok := strings.CutPrefix(token, "good-")
	if !ok {
		return nil, errors.New("bad token")
	}
	return &outbound.JWTClaims{UserID: v.userID, Email: "u@example.com", Role: model.UserRole(role)}, nil
}

func TestAuth(t *testing.T) {
	userID := uuid.New()
	validator := fakeValidator{userID: userID}

	router := gin.New()
	router.GET("/private", RequireAuth(validator), func(c *gin.Context) {
		actor, ok := GetActor(c)
		require.True(t, ok)
		c.String(http.StatusOK, actor.UserID.String()+"|"+string(actor.Role))
	})
	router.GET("/public", OptionalAuth(validator), func(c *gin.Context) {
		c.String(http.StatusOK, "%v", IsAuthenticated(c))
	})
	router.GET("/admin", RequireAuth(validator), RequireRole(model.UserRoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	do := func(path, header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if header != "" {
			req.Header.Set(AuthorizationHeader, header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("valid token sets actor", func(t *testing.T) {
		w := do("/private", "Bearer good-seller")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, userID.String()+"|seller", w.Body.String())
	})

	t.Run("missing token is unauthorized", func(t *testing.T) {
		w := do("/private", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "UNAUTHORIZED", errorCode(t, w))
	})

	t.Run("invalid token is unauthorized", func(t *testing.T) {
		w := do("/private", "Bearer nope")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "INVALID_TOKEN", errorCode(t, w))
	})

	t.Run("non-bearer scheme is ignored", func(t *testing.T) {
		w := do("/private", "Basic abc")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("optional auth passes anonymous callers", func(t *testing.T) {
		assert.Equal(t, "false", do("/public", "").Body.String())
		assert.Equal(t, "false", do("/public", "Bearer nope").Body.String())
		assert.Equal(t, "true", do("/public", "Bearer good-customer").Body.String())
	})

	t.Run("role guard", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, do("/admin", "Bearer good-admin").Code)

		w := do("/admin", "Bearer good-customer")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "FORBIDDEN", errorCode(t, w))
	})
}

// memoryLimiter counts requests per key without expiry.
type memoryLimiter struct {
	mu     sync.Mutex
	counts map[string]int
	err    error
}

func (l *memoryLimiter) Allow(_ context.Context, key string, limit int, _ time.Duration) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.counts[key] >= limit {
		return false, nil
	}
	l.counts[key]++
	return true, nil
}

func (l *memoryLimiter) GetRemaining(_ context.Context, key string, limit int, _ time.Duration) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return limit - l.counts[key], nil
}

func TestRateLimit(t *testing.T) {
	t.Run("rejects after the limit", func(t *testing.T) {
		limiter := &memoryLimiter{counts: map[string]int{}}
		router := gin.New()
		router.Use(RateLimitByIP(limiter, 2, time.Minute))
		router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		var last *httptest.ResponseRecorder
		for i := 0; i < 3; i++ {
			last = httptest.NewRecorder()
			router.ServeHTTP(last, httptest.NewRequest(http.MethodGet, "/", nil))
		}

		assert.Equal(t, http.StatusTooManyRequests, last.Code)
		assert.Equal(t, "RATE_LIMITED", errorCode(t, last))
		assert.Equal(t, "60", last.Header().Get(RetryAfter))
		assert.Equal(t, "2", last.Header().Get(RateLimitLimit))
	})

	t.Run("budgets each signed-in user separately", func(t *testing.T) {
		limiter := &memoryLimiter{counts: map[string]int{}}
		alice, bob := uuid.New(), uuid.New()
		router := gin.New()
		router.Use(func(c *gin.Context) {
			if id, err := uuid.Parse(c.GetHeader("X-Test-User")); err == nil {
				c.Set(UserIDKey, id)
			}
			c.Next()
		})
		router.Use(RateLimitByUser(limiter, 1, time.Minute))
		router.POST("/pay", func(c *gin.Context) { c.Status(http.StatusOK) })

		send := func(user uuid.UUID) int {
			req := httptest.NewRequest(http.MethodPost, "/pay", nil)
			req.Header.Set("X-Test-User", user.String())
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			return w.Code
		}

		assert.Equal(t, http.StatusOK, send(alice))
		assert.Equal(t, http.StatusTooManyRequests, send(alice))
		assert.Equal(t, http.StatusOK, send(bob))
		assert.Equal(t, 1, limiter.counts["user:"+alice.String()])
	})

	t.Run("fails open when the limiter errors", func(t *testing.T) {
		router := gin.New()
		router.Use(RateLimitByIP(&memoryLimiter{err: errors.New("redis down")}, 1, time.Minute))
		router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

// memoryIdempotencyStore is an in-process IdempotencyStorePort.
type memoryIdempotencyStore struct {
	mu      sync.Mutex
	records map[string]*outbound.IdempotencyRecord
	ttls    map[string]time.Duration
}

func newMemoryIdempotencyStore() *memoryIdempotencyStore {
	return &memoryIdempotencyStore{
		records: map[string]*outbound.IdempotencyRecord{},
		ttls:    map[string]time.Duration{},
	}
}

func (s *memoryIdempotencyStore) Reserve(_ context.Context, key, fingerprint string, ttl time.Duration) (bool, *outbound.IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.records[key]; ok {
		return false, existing, nil
	}
	s.records[key] = &outbound.IdempotencyRecord{Fingerprint: fingerprint}
	s.ttls[key] = ttl
	return true, nil, nil
}

func (s *memoryIdempotencyStore) Complete(_ context.Context, key string, record *outbound.IdempotencyRecord, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = record
	s.ttls[key] = ttl
	return nil
}

func (s *memoryIdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}

func TestIdempotency(t *testing.T) {
	newRouter := func(store outbound.IdempotencyStorePort, status *int) (*gin.Engine, *int) {
		calls := 0
		router := gin.New()
		router.Use(Idempotency(store, IdempotencyConfig{}))
		router.POST("/pay", func(c *gin.Context) {
			calls++
			c.JSON(*status, gin.H{"call": calls})
		})
		return router, &calls
	}
	post := func(router *gin.Engine, key, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/pay", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if key != "" {
			req.Header.Set(IdempotencyKeyHeader, key)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("replays the first response", func(t *testing.T) {
		status := http.StatusCreated
		router, calls := newRouter(newMemoryIdempotencyStore(), &status)

		first := post(router, "k1", `{"a":1}`)
		second := post(router, "k1", `{"a":1}`)

		assert.Equal(t, 1, *calls)
		assert.Equal(t, http.StatusCreated, second.Code)
		assert.JSONEq(t, first.Body.String(), second.Body.String())
		assert.Equal(t, "true", second.Header().Get(IdempotentReplayHeader))
	})

	t.Run("rejects a reused key with a different body", func(t *testing.T) {
		status := http.StatusOK
		router, _ := newRouter(newMemoryIdempotencyStore(), &status)

		post(router, "k2", `{"a":1}`)
		w := post(router, "k2", `{"a":2}`)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "IDEMPOTENCY_KEY_REUSED", errorCode(t, w))
	})

	t.Run("rejects while the first request is in flight", func(t *testing.T) {
		store := newMemoryIdempotencyStore()
		_, _, err := store.Reserve(context.Background(), "anon:POST:/pay:k3", "x", time.Minute)
		require.NoError(t, err)

		status := http.StatusOK
		router, calls := newRouter(store, &status)
		w := post(router, "k3", `{}`)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "REQUEST_IN_PROGRESS", errorCode(t, w))
		assert.Zero(t, *calls)
	})

	t.Run("server errors release the key", func(t *testing.T) {
		status := http.StatusInternalServerError
		router, calls := newRouter(newMemoryIdempotencyStore(), &status)

		post(router, "k4", `{}`)
		status = http.StatusOK
		w := post(router, "k4", `{}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 2, *calls)
	})

	t.Run("a panicking handler releases the key", func(t *testing.T) {
		calls := 0
		router := gin.New()
		router.Use(Recovery(zap.NewNop()))
		router.Use(Idempotency(newMemoryIdempotencyStore(), IdempotencyConfig{}))
		router.POST("/pay", func(c *gin.Context) {
			calls++
			if calls == 1 {
				panic("provider client blew up")
			}
			c.JSON(http.StatusCreated, gin.H{"call": calls})
		})

		first := post(router, "k5", `{}`)
		second := post(router, "k5", `{}`)

		assert.Equal(t, http.StatusInternalServerError, first.Code)
		assert.Equal(t, http.StatusCreated, second.Code)
		assert.Equal(t, 2, calls)
	})

	t.Run("in-flight reservations expire sooner than replays", func(t *testing.T) {
		store := newMemoryIdempotencyStore()
		var seen time.Duration
		router := gin.New()
		router.Use(Idempotency(store, IdempotencyConfig{TTL: time.Hour, LockTTL: 30 * time.Second}))
		router.POST("/pay", func(c *gin.Context) {
			seen = store.ttls["anon:POST:/pay:k6"]
			c.Status(http.StatusNoContent)
		})

		post(router, "k6", `{}`)

		assert.Equal(t, 30*time.Second, seen)
		assert.Equal(t, time.Hour, store.ttls["anon:POST:/pay:k6"])
	})

	t.Run("requests without a key pass through", func(t *testing.T) {
		status := http.StatusOK
		router, calls := newRouter(newMemoryIdempotencyStore(), &status)

		post(router, "", `{}`)
		post(router, "", `{}`)
		assert.Equal(t, 2, *calls)
	})
}

func TestCORS(t *testing.T) {
	router := gin.New()
	router.Use(CORS(CORSConfig{AllowOrigins: []string{"https://shop.example.com"}}))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "https://shop.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestDefaultCORSConfig(t *testing.T) {
	cfg := DefaultCORSConfig()
	assert.Equal(t, []string{"*"}, cfg.AllowOrigins)
	assert.Contains(t, cfg.AllowHeaders, IdempotencyKeyHeader)
	assert.Equal(t, 12*time.Hour, cfg.MaxAge)
}
