package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/car-rental/internal/handler"
	"github.com/iliyamo/car-rental/internal/middleware"
	"github.com/iliyamo/car-rental/internal/model"
)

// RegisterClient registers the booking endpoints open to CLIENT and ADMIN.
// The handlers restrict a CLIENT to their own user id.
func RegisterClient(api *echo.Group, h *handler.RentalHandler, jwt echo.MiddlewareFunc) {
	g := api.Group("/rentals", jwt, middleware.RequireRole(model.RoleClient, model.RoleAdmin))
	g.POST("", h.Create)
	g.GET("/user/:userId", h.ListByUser)
}
