package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/car-rental/internal/handler"
	"github.com/iliyamo/car-rental/internal/middleware"
	"github.com/iliyamo/car-rental/internal/model"
)

// RegisterAdmin registers fleet, rental, user and statistics
// administration. Every route requires the ADMIN role.
func RegisterAdmin(api *echo.Group, cars *handler.CarHandler, rentals *handler.RentalHandler,
	users *handler.UserHandler, stats *handler.StatisticsHandler, jwt echo.MiddlewareFunc) {
	admin := []echo.MiddlewareFunc{jwt, middleware.RequireRole(model.RoleAdmin)}

	cg := api.Group("/cars", admin...)
	cg.POST("", cars.Create)
	cg.PUT("/:id", cars.Update)
	cg.DELETE("/:id", cars.Delete)

	rg := api.Group("/rentals", admin...)
	rg.GET("", rentals.List)
	rg.GET("/:id", rentals.Get)
	rg.PATCH("/:id/status", rentals.UpdateStatus)

	ug := api.Group("/users", admin...)
	ug.GET("", users.List)
	ug.GET("/:id", users.Get)
	ug.DELETE("/:id", users.Delete)

	api.GET("/statistics", stats.Get, admin...)
}
