package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/car-rental/internal/config"
	"github.com/iliyamo/car-rental/internal/utils"
)

const secret = "test-secret"

func serve(t *testing.T, e *echo.Echo, method, path, auth string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func bearer(t *testing.T, uid uint64, role string) string {
	t.Helper()
	tok, err := utils.NewAccessToken(secret, uid, role, 5)
	require.NoError(t, err)
	return "Bearer " + tok.Token
}

func newGuardedEcho() *echo.Echo {
	e := echo.New()
	g := e.Group("", JWTAuth(secret))
	g.GET("/me", func(c echo.Context) error {
		id, ok := UserID(c)
		return c.JSON(http.StatusOK, echo.Map{"id": id, "ok": ok, "role": Role(c)})
	})
	g.GET("/admin", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, RequireRole("ADMIN"))
	return e
}

func TestJWTAuth(t *testing.T) {
	e := newGuardedEcho()

	rec := serve(t, e, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"missing bearer token"}`, rec.Body.String())

	rec = serve(t, e, http.MethodGet, "/me", "Bearer nope")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"invalid token"}`, rec.Body.String())

	other, err := utils.NewAccessToken("other-secret", 7, "ADMIN", 5)
	require.NoError(t, err)
	rec = serve(t, e, http.MethodGet, "/me", "Bearer "+other.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(t, e, http.MethodGet, "/me", bearer(t, 7, "CLIENT"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":7,"ok":true,"role":"CLIENT"}`, rec.Body.String())
}

func TestRequireRole(t *testing.T) {
	e := newGuardedEcho()

	rec := serve(t, e, http.MethodGet, "/admin", bearer(t, 2, "CLIENT"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"forbidden"}`, rec.Body.String())

	rec = serve(t, e, http.MethodGet, "/admin", bearer(t, 1, "ADMIN"))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAnonymousIdentity(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	_, ok := UserID(c)
	assert.False(t, ok)
	assert.Equal(t, "", Role(c))
	assert.Equal(t, "anon", currentUserID(c))

	c.Set(ctxUserID, uint64(12))
	assert.Equal(t, "12", currentUserID(c))
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(AccessLog(zerolog.New(&buf)))
	e.GET("/cars/:id", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "car not found")
	})

	rec := serve(t, e, http.MethodGet, "/cars/9", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, buf.String(), `"status":404`)
	assert.Contains(t, buf.String(), `"path":"/cars/9"`)
	assert.Contains(t, buf.String(), `"route":"/cars/:id"`)
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestDisabledRedisMiddlewaresPassThrough(t *testing.T) {
	e := echo.New()
	log := zerolog.Nop()
	e.Use(NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil, log))
	e.Use(NewRedisCache(config.CacheConfig{Enabled: true}, nil, log))
	e.Use(InvalidateCache(config.CacheConfig{Enabled: true}, nil, log))
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })

	rec := serve(t, e, http.MethodGet, "/ping", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestCacheKeyFrom(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "drivehub:cache", KeyStrategy: "route_query"}
	k1 := cacheKeyFrom(cfg, httptest.NewRequest(http.MethodGet, "/api/cars/1", nil))
	k2 := cacheKeyFrom(cfg, httptest.NewRequest(http.MethodGet, "/api/cars/2", nil))
	k1q := cacheKeyFrom(cfg, httptest.NewRequest(http.MethodGet, "/api/cars/1?x=1", nil))

	assert.NotEqual(t, k1, k2)
	assert.NotEqual(t, k1, k1q)
	assert.Regexp(t, `^drivehub:cache:[0-9a-f]{40}$`, k1)

	cfg.KeyStrategy = "route"
	assert.Equal(t,
		cacheKeyFrom(cfg, httptest.NewRequest(http.MethodGet, "/api/cars/1", nil)),
		cacheKeyFrom(cfg, httptest.NewRequest(http.MethodGet, "/api/cars/1?x=1", nil)))
}

func TestPayloadEncoding(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`[{"id":1}]`))
	require.NoError(t, err)

	status, got, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, `[{"id":1}]`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 1})
	assert.False(t, ok)
	_, _, _, ok = decodePayload([]byte{0, 0, 0, 200, 0, 0, 1, 0})
	assert.False(t, ok)
}

func TestCaptureWriterLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}
	_, err := cw.Write([]byte("abc"))
	require.NoError(t, err)
	_, err = cw.Write([]byte("defg"))
	require.NoError(t, err)

	assert.Equal(t, "abcd", cw.buf.String())
	assert.EqualValues(t, 7, cw.size)
	assert.Equal(t, "abcdefg", rec.Body.String())
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/rentals", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/api/rentals")
	c.Set(ctxUserID, uint64(3))

	cfg := config.RateLimitConfig{Prefix: "drivehub:rl"}
	assert.Equal(t, "drivehub:rl:ip:10.0.0.1:user:3:route:POST /api/rentals", buildRateKey(cfg, c))
	cfg.KeyStrategy = "ip"
	assert.Equal(t, "drivehub:rl:ip:10.0.0.1", buildRateKey(cfg, c))
	cfg.KeyStrategy = "user"
	assert.Equal(t, "drivehub:rl:user:3", buildRateKey(cfg, c))
}

func TestChainRunsRateKeyAfterJWT(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "drivehub:rl", KeyStrategy: "user"}
	var order []string
	mark := func(name string) echo.MiddlewareFunc {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				order = append(order, name)
				return next(c)
			}
		}
	}

	var key string
	e := echo.New()
	e.GET("/rentals", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, Chain(mark("outer"), JWTAuth(secret), func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			order = append(order, "limiter")
			key = buildRateKey(cfg, c)
			return next(c)
		}
	}))

	rec := serve(t, e, http.MethodGet, "/rentals", bearer(t, 42, "CLIENT"))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"outer", "limiter"}, order)
	assert.Equal(t, "drivehub:rl:user:42", key)

	order, key = nil, ""
	rec = serve(t, e, http.MethodGet, "/rentals", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, []string{"outer"}, order)
	assert.Empty(t, key)
}
