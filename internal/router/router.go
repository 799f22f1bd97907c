// Package router assembles the echo server: global middleware, the
// handlers and their route groups.
package router

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iliyamo/car-rental/internal/config"
	"github.com/iliyamo/car-rental/internal/handler"
	"github.com/iliyamo/car-rental/internal/middleware"
	"github.com/iliyamo/car-rental/internal/repository"
	"github.com/iliyamo/car-rental/internal/service"
	"github.com/iliyamo/car-rental/internal/validation"
)

// Deps is everything the HTTP layer needs. Redis and Events may be nil.
type Deps struct {
	Config config.Config
	Log    zerolog.Logger
	DB     *sql.DB
	Redis  *redis.Client
	Events service.EventPublisher
}

// handlers groups the handler set built from Deps.
type handlers struct {
	cars    *handler.CarHandler
	rentals *handler.RentalHandler
	users   *handler.UserHandler
	stats   *handler.StatisticsHandler
	auth    *handler.AuthHandler
}

func newHandlers(d Deps) handlers {
	store := repository.NewStore(d.DB)
	cfg := d.Config
	return handlers{
		cars:    handler.NewCarHandler(service.NewCarService(store), d.Log),
		rentals: handler.NewRentalHandler(service.NewRentalService(store, d.Events, cfg.StatusPolicy, d.Log), d.Log),
		users:   handler.NewUserHandler(service.NewUserService(store), d.Log),
		stats:   handler.NewStatisticsHandler(service.NewStatsService(store), d.Log),
		auth: handler.NewAuthHandler(service.NewAuthService(store, service.AuthConfig{
			Secret:         cfg.JWTSecret,
			AccessTTLMin:   cfg.AccessTTLMin,
			RefreshTTLDays: cfg.RefreshTTLDays,
			BcryptCost:     cfg.BcryptCost,
		}), d.Log),
	}
}

// New returns a ready echo instance with every route registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = errorHandler(d.Log)

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(middleware.AccessLog(d.Log))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: d.Config.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.NewTokenBucket(d.Config.RateLimit, d.Redis, d.Log))

	e.GET("/healthz", handler.Health(d.DB))

	h := newHandlers(d)
	// successful writes anywhere under /api drop cached reads
	api := e.Group("/api", middleware.InvalidateCache(d.Config.Cache, d.Redis, d.Log))
	cache := middleware.NewRedisCache(d.Config.Cache, d.Redis, d.Log)
	// authenticated routes get a second bucket keyed by the caller
	userRL := d.Config.RateLimit
	userRL.Prefix += ":auth"
	jwt := middleware.Chain(
		middleware.JWTAuth(d.Config.JWTSecret),
		middleware.NewTokenBucket(userRL, d.Redis, d.Log),
	)

	RegisterPublic(api, h.cars, cache)
	RegisterAuth(api, h.auth, jwt)
	RegisterClient(api, h.rentals, jwt)
	RegisterAdmin(api, h.cars, h.rentals, h.users, h.stats, jwt)
	return e
}

// RegisterPublic exposes the car catalogue to anonymous callers.
func RegisterPublic(api *echo.Group, cars *handler.CarHandler, cache echo.MiddlewareFunc) {
	api.GET("/cars", cars.List, cache)
	api.GET("/cars/search", cars.Search, cache)
	api.GET("/cars/:id", cars.Get, cache)
}

// RegisterAuth wires signup, login and token management. Only /me and
// /logout-all need an access token.
func RegisterAuth(api *echo.Group, a *handler.AuthHandler, jwt echo.MiddlewareFunc) {
	g := api.Group("/auth")
	g.POST("/signup", a.Signup)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	g.GET("/me", a.Me, jwt)
	g.POST("/logout-all", a.LogoutAll, jwt)
}

// errorHandler renders echo's own errors (unknown route, bad method,
// panics) in the API's {"error": msg} shape.
func errorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		msg := "internal server error"
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			} else {
				msg = http.StatusText(code)
			}
		} else {
			log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("unhandled error")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, echo.Map{"error": msg})
		}
		if err != nil {
			log.Error().Err(err).Msg("write error response")
		}
	}
}
