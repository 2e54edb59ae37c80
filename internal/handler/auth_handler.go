package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"bistro/internal/auth"
	"bistro/internal/config"
	apperrors "bistro/internal/errors"
	"bistro/internal/service"
)

// AuthHandler handles registration, login, logout and token refresh. Tokens
// travel in HttpOnly cookies; response bodies never contain them.
type AuthHandler struct {
	authService  service.AuthService
	cookieSecure bool
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cookieSecure: cfg.CookieSecure}
}

// RegisterRequest represents a user registration request. Role fields are not
// part of the schema; submitting them has no effect.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register godoc
// @Summary Register a new customer account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /register/ [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, user)
}

// Login godoc
// @Summary Login and receive token cookies
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /login/ [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	accessToken, refreshToken, _, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if errors.Is(err, apperrors.ErrInvalidCredentials) {
		// Invalid credentials read as 400, not 401: the caller is not
		// presenting a token, they are failing to obtain one.
		return c.JSON(http.StatusBadRequest, echo.Map{"error": apperrors.ErrInvalidCredentials.Error()})
	}
	if err != nil {
		return respondError(err)
	}

	h.setCookie(c, auth.AccessTokenCookie, accessToken, auth.AccessTokenExpiry)
	h.setCookie(c, auth.RefreshTokenCookie, refreshToken, auth.RefreshTokenExpiry)
	return c.JSON(http.StatusOK, echo.Map{"message": "Login successful"})
}

// Logout godoc
// @Summary Logout and clear token cookies
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /logout/ [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(auth.RefreshTokenCookie); err == nil {
		// Best effort revocation; logout succeeds either way.
		_ = h.authService.Logout(c.Request().Context(), cookie.Value)
	}

	h.clearCookie(c, auth.AccessTokenCookie)
	h.clearCookie(c, auth.RefreshTokenCookie)
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out successfully"})
}

// Refresh godoc
// @Summary Exchange the refresh cookie for a new access cookie
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Router /token/refresh/ [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(auth.RefreshTokenCookie)
	if err != nil || cookie.Value == "" {
		return respondError(apperrors.ErrInvalidRefreshToken)
	}

	accessToken, err := h.authService.Refresh(c.Request().Context(), cookie.Value)
	if err != nil {
		return respondError(err)
	}

	h.setCookie(c, auth.AccessTokenCookie, accessToken, auth.AccessTokenExpiry)
	return c.JSON(http.StatusOK, echo.Map{"message": "Token refreshed"})
}

func (h *AuthHandler) setCookie(c echo.Context, name, value string, ttl time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearCookie(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
