package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FoodItem is a catalog entry. Mutable only by admins; customers only read.
type FoodItem struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	Name         string          `json:"name" gorm:"size:100;not null;index"`
	Description  string          `json:"description,omitempty" gorm:"type:text"`
	Price        decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Category     string          `json:"category" gorm:"size:50;not null;index"`
	Availability bool            `json:"availability" gorm:"default:true;index"`
	Image        string          `json:"image,omitempty" gorm:"size:255"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `json:"-" gorm:"index"`
}
