package security

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func newLimiter(t *testing.T, cfg RateLimiterConfig) (*RateLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cfg.Redis = client
	if cfg.Interval == 0 {
		cfg.Interval = time.Hour
	}
	return NewRateLimiter(cfg), mr
}

func newRouter(rl *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(rl.GinMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.POST("/api/v1/auth/login", func(c *gin.Context) {
		if c.Query("ok") == "1" {
			c.Status(http.StatusOK)
			return
		}
		c.Status(http.StatusUnauthorized)
	})
	return r
}

func do(r http.Handler, method, path, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = ip + ":40000"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAllowCountsPerKey(t *testing.T) {
	rl, _ := newLimiter(t, RateLimiterConfig{Limit: 2})
	ctx := context.Background()

	for i, want := range []bool{true, true, false} {
		allowed, _, reset, err := rl.Allow(ctx, "a")
		if err != nil {
			t.Fatalf("allow: %v", err)
		}
		if allowed != want {
			t.Fatalf("request %d: allowed = %v, want %v", i, allowed, want)
		}
		if reset <= 0 || reset > time.Hour {
			t.Fatalf("unexpected reset %s", reset)
		}
	}
	if allowed, remaining, _, _ := rl.Allow(ctx, "b"); !allowed || remaining != 1 {
		t.Fatalf("other keys have their own budget, got %v/%d", allowed, remaining)
	}
}

func TestMiddlewareRejectsOverLimit(t *testing.T) {
	rl, _ := newLimiter(t, RateLimiterConfig{Limit: 2})
	r := newRouter(rl)

	for i := 0; i < 2; i++ {
		if w := do(r, http.MethodGet, "/ping", "192.0.2.1"); w.Code != http.StatusOK {
			t.Fatalf("request %d: status %d", i, w.Code)
		}
	}
	w := do(r, http.MethodGet, "/ping", "192.0.2.1")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" || w.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Fatalf("missing rate limit headers: %v", w.Header())
	}
	if w := do(r, http.MethodGet, "/ping", "192.0.2.2"); w.Code != http.StatusOK {
		t.Fatalf("other client should pass, got %d", w.Code)
	}
}

func TestMiddlewareSkipsSuccessfulAuth(t *testing.T) {
	rl, _ := newLimiter(t, RateLimiterConfig{Limit: 1, SkipSuccessfulAuth: true})
	r := newRouter(rl)

	for i := 0; i < 3; i++ {
		if w := do(r, http.MethodPost, "/api/v1/auth/login?ok=1", "192.0.2.1"); w.Code != http.StatusOK {
			t.Fatalf("successful login %d was limited: %d", i, w.Code)
		}
	}
	if w := do(r, http.MethodPost, "/api/v1/auth/login", "192.0.2.1"); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected failed login to pass through, got %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/api/v1/auth/login", "192.0.2.1"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected failed attempts to be limited, got %d", w.Code)
	}
}

func TestMiddlewareFailsOpen(t *testing.T) {
	rl, mr := newLimiter(t, RateLimiterConfig{Limit: 1})
	r := newRouter(rl)
	mr.Close()

	for i := 0; i < 3; i++ {
		if w := do(r, http.MethodGet, "/ping", "192.0.2.1"); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected pass through, got %d", i, w.Code)
		}
	}
}
