// Package handler contains the HTTP handlers of the rental API. Handlers
// bind and validate requests, call a service and render its result or
// error as JSON.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/car-rental/internal/service"
	"github.com/iliyamo/car-rental/internal/validation"
)

const requestTimeout = 5 * time.Second

// requestCtx bounds the database work of one request.
func requestCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

func errorJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"error": msg})
}

// respondError maps service and validation errors to status codes.
// Anything unrecognised is a 500 whose cause only reaches the log.
func respondError(c echo.Context, log zerolog.Logger, err error) error {
	var (
		svcErr *service.Error
		valErr *validation.Error
	)
	switch {
	case errors.As(err, &valErr):
		return errorJSON(c, http.StatusBadRequest, valErr.Error())
	case errors.As(err, &svcErr):
		return errorJSON(c, statusOf(svcErr), svcErr.Msg)
	}
	log.Error().Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Request().URL.Path).
		Str("req_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("request failed")
	return errorJSON(c, http.StatusInternalServerError, "internal server error")
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrCarUnavailable), errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrEmailExists):
		return http.StatusConflict
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// bind decodes the body and runs the echo validator on it. A body that
// cannot be decoded is a plain 400.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return &service.Error{Kind: service.ErrValidation, Msg: "invalid request body", Err: err}
	}
	return c.Validate(dst)
}

func parseID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, &service.Error{Kind: service.ErrValidation, Msg: "invalid " + name}
	}
	return id, nil
}
