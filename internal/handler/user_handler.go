package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"bistro/internal/service"
)

// UserHandler handles the self-profile endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Me godoc
// @Summary Get the caller's profile
// @Tags users
// @Produce json
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/me/ [get]
func (h *UserHandler) Me(c echo.Context) error {
	user, err := h.userService.Profile(c.Request().Context(), currentUser(c))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateMe godoc
// @Summary Partially update the caller's profile
// @Tags users
// @Accept mpfd
// @Produce json
// @Param username formData string false "New username"
// @Param email formData string false "New email"
// @Param password formData string false "New password"
// @Param profile_image formData file false "Profile image"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/me/ [patch]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	var update service.ProfileUpdate

	// Form fields are optional; absent fields stay untouched.
	if v := c.FormValue("username"); v != "" {
		update.Username = &v
	}
	if v := c.FormValue("email"); v != "" {
		update.Email = &v
	}
	if v := c.FormValue("password"); v != "" {
		update.Password = &v
	}

	if fileHeader, err := c.FormFile("profile_image"); err == nil {
		src, err := fileHeader.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "unreadable profile image")
		}
		defer src.Close()
		update.Image = src
		update.ImageName = fileHeader.Filename
	}

	user, err := h.userService.UpdateProfile(c.Request().Context(), currentUser(c), update)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, user)
}
