package repository

import (
	"context"

	"gorm.io/gorm"

	"bistro/internal/model"
)

// ItemReferenceCount is the number of orders referencing a food item.
type ItemReferenceCount struct {
	FoodItemID uint
	Refs       int64
}

// OrderRepository defines order persistence operations.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	Save(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id uint) (*model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	ListByCustomer(ctx context.Context, customerID uint) ([]model.Order, error)
	ItemReferenceCounts(ctx context.Context) ([]ItemReferenceCount, error)
	ItemIDsForCustomer(ctx context.Context, customerID uint) ([]uint, error)
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository builds a GORM-backed order repository.
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// Save persists the order's scalar fields. The item set is fixed at creation,
// so the join table is left untouched.
func (r *orderRepository) Save(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Omit("Items").Save(order).Error
}

func (r *orderRepository) FindByID(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Customer").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListAll(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Order("id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customerID uint) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("customer_id = ?", customerID).
		Order("id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// ItemReferenceCounts counts, per food item, how many orders reference it.
// An order references an item at most once (set semantics), so join-table
// rows equal referencing orders.
func (r *orderRepository) ItemReferenceCounts(ctx context.Context) ([]ItemReferenceCount, error) {
	var counts []ItemReferenceCount
	err := r.db.WithContext(ctx).
		Table("order_items").
		Select("food_item_id, COUNT(*) AS refs").
		Group("food_item_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// ItemIDsForCustomer returns the distinct food item ids appearing in the
// customer's own orders.
func (r *orderRepository) ItemIDsForCustomer(ctx context.Context, customerID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Table("order_items").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.customer_id = ?", customerID).
		Distinct("order_items.food_item_id").
		Pluck("order_items.food_item_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
