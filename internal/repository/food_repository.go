package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"bistro/internal/model"
)

// FoodFilter narrows and pages a catalog listing. Nil price bounds mean
// unbounded; Category matches as a substring; Search spans name, description
// and category.
type FoodFilter struct {
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Search   string
	Ordering string // "price" or "name"; anything else falls back to name
	Page     int
	PageSize int
}

// FoodRepository defines catalog persistence operations.
type FoodRepository interface {
	Create(ctx context.Context, item *model.FoodItem) error
	Update(ctx context.Context, item *model.FoodItem) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.FoodItem, error)
	FindByIDs(ctx context.Context, ids []uint) ([]model.FoodItem, error)
	List(ctx context.Context, filter FoodFilter) ([]model.FoodItem, int64, error)
	ListRecentAvailable(ctx context.Context, limit int) ([]model.FoodItem, error)
}

type foodRepository struct {
	db *gorm.DB
}

// NewFoodRepository builds a GORM-backed catalog repository.
func NewFoodRepository(db *gorm.DB) FoodRepository {
	return &foodRepository{db: db}
}

func (r *foodRepository) Create(ctx context.Context, item *model.FoodItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *foodRepository) Update(ctx context.Context, item *model.FoodItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *foodRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.FoodItem{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *foodRepository) FindByID(ctx context.Context, id uint) (*model.FoodItem, error) {
	var item model.FoodItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *foodRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.FoodItem, error) {
	var items []model.FoodItem
	if len(ids) == 0 {
		return items, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// List applies the filter, counts the unpaged result, then returns one page.
func (r *foodRepository) List(ctx context.Context, filter FoodFilter) ([]model.FoodItem, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.FoodItem{})

	if filter.Category != "" {
		query = query.Where("category LIKE ?", "%"+filter.Category+"%")
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR description LIKE ? OR category LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Ordering is whitelisted: never interpolate client input into SQL.
	order := "name"
	if filter.Ordering == "price" {
		order = "price"
	}

	var items []model.FoodItem
	offset := (filter.Page - 1) * filter.PageSize
	if err := query.Order(order).Offset(offset).Limit(filter.PageSize).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *foodRepository) ListRecentAvailable(ctx context.Context, limit int) ([]model.FoodItem, error) {
	var items []model.FoodItem
	err := r.db.WithContext(ctx).
		Where("availability = ?", true).
		Order("id DESC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
