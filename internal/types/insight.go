package types

import (
	"time"

	"github.com/google/uuid"
)

// Insight is the persisted form of a generated insight candidate. Insights
// are regenerated wholesale per dataset fingerprint; rows carrying a stale
// fingerprint are deactivated, never merged.
type Insight struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DatasetID uuid.UUID `gorm:"type:uuid;not null;index:idx_insight_dataset" json:"dataset_id"`
	// InsightID is the stable identifier derived from rule + subject,
	// e.g. "dead_stock_<product_id>".
	InsightID         string    `gorm:"column:insight_id;not null;index" json:"insight_id"`
	Fingerprint       string    `gorm:"column:fingerprint;not null;index" json:"fingerprint"`
	Title             string    `gorm:"column:title;not null" json:"title"`
	Category          string    `gorm:"column:category;not null;index" json:"category"`
	Confidence        string    `gorm:"column:confidence;not null;index" json:"confidence"`
	SupportingMetrics string    `gorm:"column:supporting_metrics;type:text" json:"-"`
	RecommendedAction string    `gorm:"column:recommended_action" json:"recommended_action"`
	Position          int       `gorm:"column:position;not null;default:0" json:"position"`
	IsActive          bool      `gorm:"column:is_active;not null;default:true;index" json:"is_active"`
	GeneratedAt       time.Time `gorm:"not null" json:"generated_at"`
}

func (Insight) TableName() string { return "insight" }
