package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"bistro/internal/auth"
	"bistro/internal/cache"
	apperrors "bistro/internal/errors"
	"bistro/internal/model"
	"bistro/internal/repository"
)

const (
	foodCacheTTL    = 5 * time.Minute
	defaultPageSize = 5
	maxPageSize     = 50
)

// FoodInput is a catalog write payload. Price must be non-negative.
type FoodInput struct {
	Name         string
	Description  string
	Price        decimal.Decimal
	Category     string
	Availability bool
	Image        string
}

// FoodService handles catalog operations, consulting the access policy
// before acting.
type FoodService interface {
	List(ctx context.Context, actor *model.User, filter repository.FoodFilter) ([]model.FoodItem, int64, error)
	Get(ctx context.Context, actor *model.User, id uint) (*model.FoodItem, error)
	Create(ctx context.Context, actor *model.User, input FoodInput) (*model.FoodItem, error)
	Update(ctx context.Context, actor *model.User, id uint, input FoodInput) (*model.FoodItem, error)
	Delete(ctx context.Context, actor *model.User, id uint) error
}

type foodService struct {
	foods repository.FoodRepository
	cache *cache.Client
}

// NewFoodService creates a new catalog service.
func NewFoodService(foods repository.FoodRepository, cache *cache.Client) FoodService {
	return &foodService{foods: foods, cache: cache}
}

func (s *foodService) cacheKey(id uint) string {
	return fmt.Sprintf("food:%d", id)
}

// List returns one catalog page. Page size defaults to 5 and is capped at 50.
func (s *foodService) List(ctx context.Context, actor *model.User, filter repository.FoodFilter) ([]model.FoodItem, int64, error) {
	if err := auth.Authorize(actor, auth.OpCatalogRead); err != nil {
		return nil, 0, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return nil, 0, apperrors.Validation("min_price", "min_price must not exceed max_price")
	}

	return s.foods.List(ctx, filter)
}

// Get retrieves a single food item, cached.
func (s *foodService) Get(ctx context.Context, actor *model.User, id uint) (*model.FoodItem, error) {
	if err := auth.Authorize(actor, auth.OpCatalogRead); err != nil {
		return nil, err
	}

	var cached model.FoodItem
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	item, err := s.foods.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFoodItemNotFound
		}
		return nil, err
	}
	s.cache.SetJSON(ctx, s.cacheKey(id), item, foodCacheTTL)
	return item, nil
}

// Create adds a catalog entry. Admin only.
func (s *foodService) Create(ctx context.Context, actor *model.User, input FoodInput) (*model.FoodItem, error) {
	if err := auth.Authorize(actor, auth.OpCatalogWrite); err != nil {
		return nil, err
	}
	if err := validateFoodInput(input); err != nil {
		return nil, err
	}

	item := &model.FoodItem{
		Name:         input.Name,
		Description:  input.Description,
		Price:        input.Price,
		Category:     input.Category,
		Availability: input.Availability,
		Image:        input.Image,
	}
	if err := s.foods.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create food item: %w", err)
	}
	return item, nil
}

// Update replaces a catalog entry's fields. Admin only.
func (s *foodService) Update(ctx context.Context, actor *model.User, id uint, input FoodInput) (*model.FoodItem, error) {
	if err := auth.Authorize(actor, auth.OpCatalogWrite); err != nil {
		return nil, err
	}
	if err := validateFoodInput(input); err != nil {
		return nil, err
	}

	item, err := s.foods.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFoodItemNotFound
		}
		return nil, err
	}

	item.Name = input.Name
	item.Description = input.Description
	item.Price = input.Price
	item.Category = input.Category
	item.Availability = input.Availability
	if input.Image != "" {
		item.Image = input.Image
	}

	if err := s.foods.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("update food item: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return item, nil
}

// Delete removes a catalog entry. Admin only.
func (s *foodService) Delete(ctx context.Context, actor *model.User, id uint) error {
	if err := auth.Authorize(actor, auth.OpCatalogWrite); err != nil {
		return err
	}
	if err := s.foods.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrFoodItemNotFound
		}
		return fmt.Errorf("delete food item: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

func validateFoodInput(input FoodInput) error {
	fields := map[string]string{}
	if input.Name == "" {
		fields["name"] = "name is required"
	}
	if input.Category == "" {
		fields["category"] = "category is required"
	}
	if input.Price.IsNegative() {
		fields["price"] = "price must not be negative"
	}
	if len(fields) > 0 {
		return &apperrors.ValidationError{Fields: fields}
	}
	return nil
}
