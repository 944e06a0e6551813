package types

import (
	"time"

	"github.com/google/uuid"
)

// SaleRecord is one normalized sales line. Records are immutable once stored;
// a changed dataset is modeled as a new fingerprint over the same identity.
type SaleRecord struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DatasetID   uuid.UUID `gorm:"type:uuid;not null;index" json:"dataset_id"`
	Date        time.Time `gorm:"column:date;not null;index" json:"date"`
	ProductName string    `gorm:"column:product_name;not null" json:"product_name"`
	ProductID   string    `gorm:"column:product_id;index" json:"product_id,omitempty"`
	Quantity    float64   `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice   float64   `gorm:"column:unit_price;not null" json:"unit_price"`
	TotalAmount float64   `gorm:"column:total_amount;not null" json:"total_amount"`
	Category    string    `gorm:"column:category" json:"category,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}

func (SaleRecord) TableName() string { return "raw_sale" }

// RawSale is the ingestion wire form of a sale record. Parsing and field
// validation happen upstream; the core only consumes normalized rows.
type RawSale struct {
	Date        string  `json:"date" binding:"required"`
	ProductName string  `json:"product_name" binding:"required"`
	ProductID   string  `json:"product_id"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalAmount float64 `json:"total_amount"`
	Category    string  `json:"category"`
}
