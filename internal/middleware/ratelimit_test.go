package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Feature: storefront-catalog, Property: the search rate limit is exact
func TestProperty_RateLimitBlocksExcessRequests(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("excess requests within the window are rejected with 429", prop.ForAll(
		func(requestsPerWindow int, excessRequests int) bool {
			mr, err := miniredis.Run()
			if err != nil {
				t.Fatalf("failed to start miniredis: %v", err)
				return false
			}
			defer mr.Close()

			redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			defer redisClient.Close()

			logger := zap.NewNop()

			config := RateLimitConfig{
				RequestsPerWindow: requestsPerWindow,
				Window:            time.Second,
				KeyPrefix:         "test:ratelimit",
			}

			handler := RateLimitMiddleware(redisClient, config, logger)(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusOK)
				}))

			allowed := 0
			blocked := 0
			for i := 0; i < requestsPerWindow+excessRequests; i++ {
				req := httptest.NewRequest("POST", "/api/smart-search", nil)
				req.RemoteAddr = "192.168.1.100:4242"
				w := httptest.NewRecorder()

				handler.ServeHTTP(w, req)

				switch w.Code {
				case http.StatusOK:
					allowed++
				case http.StatusTooManyRequests:
					blocked++
				}
			}

			return allowed == requestsPerWindow && blocked == excessRequests
		},
		gen.IntRange(1, 20),
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t)
}

func TestRateLimit_SetsHeaders(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer redisClient.Close()

	handler := RateLimitMiddleware(redisClient, RateLimitConfig{
		RequestsPerWindow: 2,
		Window:            time.Minute,
		KeyPrefix:         "test:headers",
	}, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("POST", "/api/smart-search", nil)
	req.RemoteAddr = "10.0.0.1:1111"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := w.Header().Get("X-RateLimit-Limit"); got != "2" {
		t.Errorf("expected limit header 2, got %q", got)
	}
	if got := w.Header().Get("X-RateLimit-Remaining"); got != "1" {
		t.Errorf("expected remaining header 1, got %q", got)
	}
}

func TestRateLimit_AllowsTrafficWhenRedisDown(t *testing.T) {
	redisClient := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer redisClient.Close()

	handler := RateLimitMiddleware(redisClient, RateLimitConfig{
		RequestsPerWindow: 1,
		Window:            time.Minute,
		KeyPrefix:         "test:down",
	}, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("POST", "/api/smart-search", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("redis outage must not block traffic, got %d", w.Code)
	}
}
