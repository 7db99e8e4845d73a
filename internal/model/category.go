package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups inventory items for reporting and search
type Category struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CategoryName string         `gorm:"type:varchar(255);not null" json:"category_name"`
	Code         string         `gorm:"type:varchar(100)" json:"code,omitempty"`
	Description  string         `gorm:"type:varchar(255)" json:"description,omitempty"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	CreatedBy    *uuid.UUID     `gorm:"type:uuid" json:"created_by"`
	UpdatedBy    *uuid.UUID     `gorm:"type:uuid" json:"updated_by"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName keeps the original plural form
func (Category) TableName() string {
	return "categories"
}
