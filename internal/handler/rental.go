package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/car-rental/internal/middleware"
	"github.com/iliyamo/car-rental/internal/model"
	"github.com/iliyamo/car-rental/internal/service"
)

type RentalHandler struct {
	Rentals *service.RentalService
	Log     zerolog.Logger
}

func NewRentalHandler(rentals *service.RentalService, log zerolog.Logger) *RentalHandler {
	return &RentalHandler{Rentals: rentals, Log: log}
}

// authorizeUser lets ADMIN act for anyone and everyone else only for
// themselves.
func authorizeUser(c echo.Context, userID uint64) error {
	if middleware.Role(c) == model.RoleAdmin {
		return nil
	}
	if self, ok := middleware.UserID(c); ok && self == userID {
		return nil
	}
	return &service.Error{Kind: service.ErrForbidden, Msg: "forbidden"}
}

// List handles GET /api/rentals (ADMIN).
func (h *RentalHandler) List(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()

	list, err := h.Rentals.ListAllRentals(ctx)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, mapSlice(list, toRentalResp))
}

// Get handles GET /api/rentals/:id (ADMIN).
func (h *RentalHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.Log, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	d, err := h.Rentals.GetRental(ctx, id)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, toRentalResp(d))
}

// ListByUser handles GET /api/rentals/user/:userId.
func (h *RentalHandler) ListByUser(c echo.Context) error {
	userID, err := parseID(c, "userId")
	if err != nil {
		return respondError(c, h.Log, err)
	}
	if err := authorizeUser(c, userID); err != nil {
		return respondError(c, h.Log, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	list, err := h.Rentals.ListRentalsByUser(ctx, userID)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, mapSlice(list, toRentalResp))
}

// Create handles POST /api/rentals. An omitted userId books for the caller.
func (h *RentalHandler) Create(c echo.Context) error {
	var req rentalReq
	if err := bind(c, &req); err != nil {
		return respondError(c, h.Log, err)
	}
	if req.UserID == 0 {
		req.UserID, _ = middleware.UserID(c)
	}
	if err := authorizeUser(c, req.UserID); err != nil {
		return respondError(c, h.Log, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	d, err := h.Rentals.CreateRental(ctx, service.CreateRentalInput{
		CarID:     req.CarID,
		UserID:    req.UserID,
		StartDate: *req.StartDate,
		EndDate:   *req.EndDate,
	})
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, toRentalResp(d))
}

// UpdateStatus handles PATCH /api/rentals/:id/status?status=X (ADMIN).
func (h *RentalHandler) UpdateStatus(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.Log, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	d, err := h.Rentals.UpdateStatus(ctx, id, c.QueryParam("status"))
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, toRentalResp(d))
}
