package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/car-rental/internal/service"
)

// UserHandler exposes account administration to ADMIN. Password hashes
// never leave the service layer.
type UserHandler struct {
	Users *service.UserService
	Log   zerolog.Logger
}

func NewUserHandler(users *service.UserService, log zerolog.Logger) *UserHandler {
	return &UserHandler{Users: users, Log: log}
}

func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, mapSlice(users, toUserResp))
}

func (h *UserHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.Log, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	u, err := h.Users.Get(ctx, id)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, toUserResp(u))
}

func (h *UserHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.Log, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		return respondError(c, h.Log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
