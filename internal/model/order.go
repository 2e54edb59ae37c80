package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is one of the defined statuses.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is a customer's order. The customer is fixed at creation and never
// changes; total_price is a derived field recomputed from current item prices
// on every save.
type Order struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	CustomerID uint            `json:"customer_id" gorm:"not null;index"`
	Customer   User            `json:"-" gorm:"foreignKey:CustomerID"`
	Items      []FoodItem      `json:"items" gorm:"many2many:order_items"`
	TotalPrice decimal.Decimal `json:"total_price" gorm:"type:decimal(10,2);not null"`
	Status     OrderStatus     `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// RecomputeTotal refreshes TotalPrice from the attached items' current prices.
func (o *Order) RecomputeTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Price)
	}
	o.TotalPrice = total
}
