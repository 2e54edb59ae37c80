package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	apperrors "bistro/internal/errors"
	"bistro/internal/repository"
	"bistro/internal/service"
)

// FoodHandler handles catalog endpoints.
type FoodHandler struct {
	foodService service.FoodService
}

// NewFoodHandler creates a new catalog handler.
func NewFoodHandler(foodService service.FoodService) *FoodHandler {
	return &FoodHandler{foodService: foodService}
}

// FoodRequest represents a catalog write payload.
type FoodRequest struct {
	Name         string          `json:"name" validate:"required,max=100"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Category     string          `json:"category" validate:"required,max=50"`
	Availability *bool           `json:"availability"`
	Image        string          `json:"image"`
}

func (r FoodRequest) toInput() service.FoodInput {
	availability := true
	if r.Availability != nil {
		availability = *r.Availability
	}
	return service.FoodInput{
		Name:         r.Name,
		Description:  r.Description,
		Price:        r.Price,
		Category:     r.Category,
		Availability: availability,
		Image:        r.Image,
	}
}

// List godoc
// @Summary List food items
// @Tags food-items
// @Produce json
// @Param search query string false "Text search across name, description and category"
// @Param category query string false "Category substring filter"
// @Param min_price query string false "Inclusive lower price bound"
// @Param max_price query string false "Inclusive upper price bound"
// @Param ordering query string false "price or name"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size, capped at 50"
// @Success 200 {object} PageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /food-items/ [get]
func (h *FoodHandler) List(c echo.Context) error {
	filter, err := parseFoodFilter(c)
	if err != nil {
		return respondError(err)
	}

	items, total, err := h.foodService.List(c.Request().Context(), currentUser(c), filter)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, newPageResponse(items, filter.Page, filter.PageSize, total))
}

// Get godoc
// @Summary Retrieve a food item
// @Tags food-items
// @Produce json
// @Param id path int true "Food item ID"
// @Success 200 {object} model.FoodItem
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /food-items/{id}/ [get]
func (h *FoodHandler) Get(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return respondError(err)
	}
	item, err := h.foodService.Get(c.Request().Context(), currentUser(c), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, item)
}

// Create godoc
// @Summary Create a food item
// @Tags food-items
// @Accept json
// @Produce json
// @Param request body FoodRequest true "Food item"
// @Success 201 {object} model.FoodItem
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /food-items/ [post]
func (h *FoodHandler) Create(c echo.Context) error {
	var req FoodRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	item, err := h.foodService.Create(c.Request().Context(), currentUser(c), req.toInput())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, item)
}

// Update godoc
// @Summary Update a food item
// @Tags food-items
// @Accept json
// @Produce json
// @Param id path int true "Food item ID"
// @Param request body FoodRequest true "Food item"
// @Success 200 {object} model.FoodItem
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /food-items/{id}/ [patch]
func (h *FoodHandler) Update(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return respondError(err)
	}

	var req FoodRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	item, err := h.foodService.Update(c.Request().Context(), currentUser(c), id, req.toInput())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, item)
}

// Delete godoc
// @Summary Delete a food item
// @Tags food-items
// @Param id path int true "Food item ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /food-items/{id}/ [delete]
func (h *FoodHandler) Delete(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return respondError(err)
	}
	if err := h.foodService.Delete(c.Request().Context(), currentUser(c), id); err != nil {
		return respondError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func parseIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apperrors.Validation("id", "id must be a positive integer")
	}
	return uint(id), nil
}

func parseFoodFilter(c echo.Context) (repository.FoodFilter, error) {
	filter := repository.FoodFilter{
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
		Ordering: c.QueryParam("ordering"),
	}

	if v := c.QueryParam("min_price"); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil {
			return filter, apperrors.Validation("min_price", "min_price must be a decimal number")
		}
		filter.MinPrice = &price
	}
	if v := c.QueryParam("max_price"); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil {
			return filter, apperrors.Validation("max_price", "max_price must be a decimal number")
		}
		filter.MaxPrice = &price
	}
	if v := c.QueryParam("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return filter, apperrors.Validation("page", "page must be a positive integer")
		}
		filter.Page = page
	}
	if v := c.QueryParam("page_size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size < 1 {
			return filter, apperrors.Validation("page_size", "page_size must be a positive integer")
		}
		filter.PageSize = size
	}

	// Defaults and cap line up with the service so the response envelope
	// reports the page shape actually used.
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = 5
	}
	if filter.PageSize > 50 {
		filter.PageSize = 50
	}
	return filter, nil
}
