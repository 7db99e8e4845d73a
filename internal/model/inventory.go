package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Inventory represents a stocked item held by a store
type Inventory struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ItemName    string          `gorm:"type:varchar(255);not null" json:"item_name"`
	Quantity    int64           `gorm:"type:bigint;default:0" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);default:0" json:"unit_price"`
	IsAvailable bool            `gorm:"default:false" json:"is_available"`
	Description string          `gorm:"type:varchar(255)" json:"description,omitempty"`
	StoreID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"store_id"`
	Store       *Store          `gorm:"foreignKey:StoreID" json:"store,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName keeps the original plural form
func (Inventory) TableName() string {
	return "inventories"
}

// StoreInventory links stores to the inventory items they carry
type StoreInventory struct {
	StoreID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"store_id"`
	InventoryID uuid.UUID `gorm:"type:uuid;primaryKey" json:"inventory_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName matches the original join table
func (StoreInventory) TableName() string {
	return "store_inventory"
}
