package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/evently/venue-booking/internal/config"
)

func newGetContext(t *testing.T, target, authorization string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func TestCacheIdentitySeparatesAccounts(t *testing.T) {
	resolved, _ := newGetContext(t, "/v1/reservations", "Bearer aaa")
	resolved.Set(CtxUserID, uint64(7))
	if got := cacheIdentity(resolved); got != "u7" {
		t.Fatalf("resolved identity = %q, want u7", got)
	}

	tokenA, _ := newGetContext(t, "/v1/reservations", "Bearer aaa")
	tokenB, _ := newGetContext(t, "/v1/reservations", "Bearer bbb")
	a, b := cacheIdentity(tokenA), cacheIdentity(tokenB)
	if a == "guest" || b == "guest" {
		t.Fatalf("credentialed requests keyed as guest: %q, %q", a, b)
	}
	if a == b {
		t.Fatalf("different credentials share key component %q", a)
	}

	anon, _ := newGetContext(t, "/v1/spaces", "")
	if got := cacheIdentity(anon); got != "guest" {
		t.Fatalf("anonymous identity = %q, want guest", got)
	}
}

func TestRateKeySeparatesCredentials(t *testing.T) {
	cfg := config.LoadRateLimitConfig()
	cfg.KeyStrategy = "user"
	a, _ := newGetContext(t, "/v1/reservations", "Bearer aaa")
	b, _ := newGetContext(t, "/v1/reservations", "Bearer bbb")
	if buildRateKey(cfg, a) == buildRateKey(cfg, b) {
		t.Fatal("distinct credentials share one rate-limit bucket")
	}
}

// Requests carrying credentials must never touch the cache: no lookup,
// no store, no X-Cache header.  The bogus Redis address proves the
// client is never dialed on this path.
func TestCacheBypassesAuthenticatedRequests(t *testing.T) {
	cfg := config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{"GET": true},
		TTL:          time.Minute,
		KeyStrategy:  "route_query",
		Prefix:       "cache",
		MaxBodyBytes: 1 << 20,
	}
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	mw := NewRedisCache(cfg, rdb)

	called := false
	handler := mw(func(c echo.Context) error {
		called = true
		return c.JSON(http.StatusOK, echo.Map{"reservations": []string{"private"}})
	})

	c, rec := newGetContext(t, "/v1/reservations", "Bearer secret")
	if err := handler(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !called {
		t.Fatal("next handler was not called")
	}
	if got := rec.Header().Get("X-Cache"); got != "" {
		t.Fatalf("X-Cache = %q, want unset for authenticated traffic", got)
	}
}
