package types

import (
	"time"

	"github.com/google/uuid"
)

type InventoryRecord struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DatasetID    uuid.UUID `gorm:"type:uuid;not null;index" json:"dataset_id"`
	ProductName  string    `gorm:"column:product_name;not null" json:"product_name"`
	ProductID    string    `gorm:"column:product_id;index" json:"product_id,omitempty"`
	CurrentStock float64   `gorm:"column:current_stock;not null" json:"current_stock"`
	UnitCost     float64   `gorm:"column:unit_cost;not null" json:"unit_cost"`
	Category     string    `gorm:"column:category" json:"category,omitempty"`
	AsOfDate     time.Time `gorm:"column:as_of_date;not null" json:"as_of_date"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

func (InventoryRecord) TableName() string { return "raw_inventory" }

type RawInventory struct {
	ProductName  string  `json:"product_name" binding:"required"`
	ProductID    string  `json:"product_id"`
	CurrentStock float64 `json:"current_stock"`
	UnitCost     float64 `json:"unit_cost"`
	Category     string  `json:"category"`
	AsOfDate     string  `json:"as_of_date"`
}
