package model

import "time"

// User represents a registered account. Role flags are independent booleans:
// registration always produces is_customer=true, is_admin=false regardless of
// the submitted payload; admins are provisioned out of band (see cmd/seed).
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:150;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	IsCustomer   bool      `json:"is_customer" gorm:"default:true;index"`
	IsAdmin      bool      `json:"is_admin" gorm:"default:false;index"`
	ProfileImage string    `json:"profile_image,omitempty" gorm:"size:255"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
