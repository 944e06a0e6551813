package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Dataset struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	// Fingerprint is the content hash of the dataset's current record set.
	// It changes iff the logical record set changes and is the only trigger
	// for cache invalidation.
	Fingerprint string         `gorm:"column:fingerprint;not null;index" json:"fingerprint"`
	RowCount    int            `gorm:"column:row_count;not null;default:0" json:"row_count"`
	Status      string         `gorm:"column:status;not null;default:'ready'" json:"status"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Dataset) TableName() string { return "dataset" }
