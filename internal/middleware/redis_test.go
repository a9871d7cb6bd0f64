package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easycontent/contentgen/internal/config"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func rateCfg() config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Minute,
		TTL:            10 * time.Minute,
		KeyStrategy:    "user_route",
		Prefix:         "test:rl",
	}
}

func TestTokenBucket_BlocksAfterCapacity(t *testing.T) {
	_, rdb := newRedis(t)
	e := echo.New()
	e.POST("/v1/generate", func(c echo.Context) error { return c.NoContent(http.StatusCreated) },
		Authenticate(fakeAuth{}), NewTokenBucket(rateCfg(), rdb))

	for i := 0; i < 2; i++ {
		rec := serve(e, http.MethodPost, "/v1/generate", "Bearer user")
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, strconv.Itoa(1-i), rec.Header().Get("X-RateLimit-Remaining"))
	}

	rec := serve(e, http.MethodPost, "/v1/generate", "Bearer user")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "too_many_requests")

	rec = serve(e, http.MethodPost, "/v1/generate", "Bearer admin")
	assert.Equal(t, http.StatusCreated, rec.Code, "buckets are per user")
}

func TestTokenBucket_FailsOpen(t *testing.T) {
	mr, rdb := newRedis(t)
	mr.Close()
	e := echo.New()
	e.POST("/x", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, NewTokenBucket(rateCfg(), rdb))

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusNoContent, serve(e, http.MethodPost, "/x", "").Code)
	}
}

func TestTokenBucket_DisabledWithoutClient(t *testing.T) {
	e := echo.New()
	e.POST("/x", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, NewTokenBucket(rateCfg(), nil))
	rec := serve(e, http.MethodPost, "/x", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/generate", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/generate")

	cfg := rateCfg()
	assert.Equal(t, "test:rl:user:anon:route:POST /v1/generate", buildRateKey(cfg, c))

	c.Set(ctxUserID, "7")
	cfg.KeyStrategy = "ip_user"
	assert.Equal(t, "test:rl:ip:10.0.0.1:user:7", buildRateKey(cfg, c))
}

func cacheCfg() config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{http.MethodGet: true},
		TTL:          time.Minute,
		KeyStrategy:  "route_query",
		Prefix:       "test:cache",
		MaxBodyBytes: 1 << 10,
	}
}

func TestRedisCache_HitReplaysResponse(t *testing.T) {
	_, rdb := newRedis(t)
	var calls int32
	e := echo.New()
	e.GET("/v1/templates/defaults", func(c echo.Context) error {
		atomic.AddInt32(&calls, 1)
		return c.JSON(http.StatusOK, []string{"blog", "email"})
	}, NewRedisCache(cacheCfg(), rdb))

	first := serve(e, http.MethodGet, "/v1/templates/defaults", "")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := serve(e, http.MethodGet, "/v1/templates/defaults", "")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, echo.MIMEApplicationJSON, second.Header().Get(echo.HeaderContentType))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRedisCache_SkipsErrorsAndLargeBodies(t *testing.T) {
	_, rdb := newRedis(t)
	var calls int32
	e := echo.New()
	mw := NewRedisCache(cacheCfg(), rdb)
	e.GET("/fail", func(c echo.Context) error {
		atomic.AddInt32(&calls, 1)
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "down"})
	}, mw)
	e.GET("/big", func(c echo.Context) error {
		atomic.AddInt32(&calls, 1)
		return c.String(http.StatusOK, string(make([]byte, 4<<10)))
	}, mw)

	serve(e, http.MethodGet, "/fail", "")
	serve(e, http.MethodGet, "/fail", "")
	serve(e, http.MethodGet, "/big", "")
	rec := serve(e, http.MethodGet, "/big", "")
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
}

func TestRouteCache_InvalidateDropsEveryVariant(t *testing.T) {
	_, rdb := newRedis(t)
	var calls int32
	e := echo.New()
	mw := NewRedisCache(cacheCfg(), rdb)
	e.GET("/v1/templates/defaults", func(c echo.Context) error {
		atomic.AddInt32(&calls, 1)
		return c.JSON(http.StatusOK, []string{"blog"})
	}, mw)
	e.GET("/other", func(c echo.Context) error {
		return c.String(http.StatusOK, "other")
	}, mw)

	serve(e, http.MethodGet, "/v1/templates/defaults", "")
	serve(e, http.MethodGet, "/v1/templates/defaults?lang=de", "")
	serve(e, http.MethodGet, "/other", "")
	assert.Equal(t, "HIT", serve(e, http.MethodGet, "/v1/templates/defaults", "").Header().Get("X-Cache"))

	rc := NewRouteCache(cacheCfg(), rdb, "/v1/templates/defaults")
	require.NoError(t, rc.Invalidate(context.Background()))

	assert.Equal(t, "MISS", serve(e, http.MethodGet, "/v1/templates/defaults", "").Header().Get("X-Cache"))
	assert.Equal(t, "MISS", serve(e, http.MethodGet, "/v1/templates/defaults?lang=de", "").Header().Get("X-Cache"))
	assert.Equal(t, "HIT", serve(e, http.MethodGet, "/other", "").Header().Get("X-Cache"))
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
}

func TestRouteCache_DisabledIsNoop(t *testing.T) {
	assert.NoError(t, NewRouteCache(cacheCfg(), nil, "/x").Invalidate(context.Background()))
	var rc *RouteCache
	assert.NoError(t, rc.Invalidate(context.Background()))
}

func TestPayloadRoundTrip(t *testing.T) {
	h := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, h, []byte(`{"a":1}`))
	require.NoError(t, err)
	status, hdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", hdr.Get("Content-Type"))
	assert.Equal(t, `{"a":1}`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 0})
	assert.False(t, ok)
}
