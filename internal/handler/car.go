package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/car-rental/internal/service"
)

// CarHandler serves the fleet catalogue. Reads are public; writes are
// restricted to ADMIN by the router.
type CarHandler struct {
	Cars *service.CarService
	Log  zerolog.Logger
}

func NewCarHandler(cars *service.CarService, log zerolog.Logger) *CarHandler {
	return &CarHandler{Cars: cars, Log: log}
}

// List handles GET /api/cars.
func (h *CarHandler) List(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()

	cars, err := h.Cars.List(ctx)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, mapSlice(cars, toCarResp))
}

// Get handles GET /api/cars/:id.
func (h *CarHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.Log, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	car, err := h.Cars.Get(ctx, id)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, toCarResp(car))
}

// Create handles POST /api/cars.
func (h *CarHandler) Create(c echo.Context) error {
	var req carReq
	if err := bind(c, &req); err != nil {
		return respondError(c, h.Log, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	car, err := h.Cars.Create(ctx, req.input())
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, toCarResp(car))
}

// Update handles PUT /api/cars/:id. Every field is overwritten.
func (h *CarHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.Log, err)
	}
	var req carReq
	if err := bind(c, &req); err != nil {
		return respondError(c, h.Log, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	car, err := h.Cars.Update(ctx, id, req.input())
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, toCarResp(car))
}

// Delete handles DELETE /api/cars/:id.
func (h *CarHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.Log, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	if err := h.Cars.Delete(ctx, id); err != nil {
		return respondError(c, h.Log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
