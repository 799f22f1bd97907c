package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/car-rental/internal/middleware"
	"github.com/iliyamo/car-rental/internal/service"
)

// AuthHandler bundles the account and token endpoints.
type AuthHandler struct {
	Auth *service.AuthService
	Log  zerolog.Logger
}

func NewAuthHandler(auth *service.AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Log: log}
}

// Signup creates a CLIENT account and returns tokens immediately.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := bind(c, &req); err != nil {
		return respondError(c, h.Log, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	sess, err := h.Auth.Signup(ctx, service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, toAuthResp(sess))
}

// Login verifies credentials and returns a new token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bind(c, &req); err != nil {
		return respondError(c, h.Log, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	sess, err := h.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, toAuthResp(sess))
}

// Refresh rotates a refresh token.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := bind(c, &req); err != nil {
		return respondError(c, h.Log, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	sess, err := h.Auth.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, toAuthResp(sess))
}

// Logout revokes the given refresh token.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := bind(c, &req); err != nil {
		return respondError(c, h.Log, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	if err := h.Auth.Logout(ctx, req.RefreshToken); err != nil {
		return respondError(c, h.Log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// LogoutAll revokes every refresh token of the caller.
func (h *AuthHandler) LogoutAll(c echo.Context) error {
	uid, _ := middleware.UserID(c)
	ctx, cancel := requestCtx(c)
	defer cancel()

	if err := h.Auth.LogoutAll(ctx, uid); err != nil {
		return respondError(c, h.Log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the principal carried by the access token.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, _ := middleware.UserID(c)
	return c.JSON(http.StatusOK, echo.Map{"id": uid, "role": middleware.Role(c)})
}
