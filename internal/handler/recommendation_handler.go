package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"bistro/internal/service"
)

// RecommendationHandler handles the recommendations endpoint.
type RecommendationHandler struct {
	recService service.RecommendationService
}

// NewRecommendationHandler creates a new recommendation handler.
func NewRecommendationHandler(recService service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{recService: recService}
}

// List godoc
// @Summary Get up to 5 recommended food items for the caller
// @Tags recommendations
// @Produce json
// @Success 200 {array} model.FoodItem
// @Failure 401 {object} errors.ErrorResponse
// @Router /recommendations/ [get]
func (h *RecommendationHandler) List(c echo.Context) error {
	items, err := h.recService.Recommend(c.Request().Context(), currentUser(c))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, items)
}
