package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Unit is a measurement unit attached to inventory items (e.g. bag, tonne)
type Unit struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UnitName  string         `gorm:"type:varchar(255);not null" json:"unit_name"`
	UnitValue string         `gorm:"type:varchar(100)" json:"unit_value,omitempty"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedBy *uuid.UUID     `gorm:"type:uuid" json:"created_by"`
	UpdatedBy *uuid.UUID     `gorm:"type:uuid" json:"updated_by"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
