package models

import (
	"time"

	"gorm.io/datatypes"
)

// ImportLog records one bulk import run. Skipped holds the per-row skip
// reasons as JSON.
type ImportLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Kind      string         `gorm:"size:20;index;not null" json:"kind"`
	Source    string         `gorm:"size:255" json:"source"`
	Total     int            `gorm:"not null;default:0" json:"total"`
	Created   int            `gorm:"not null;default:0" json:"created"`
	Skipped   datatypes.JSON `json:"skipped"`
	CreatedAt time.Time      `json:"createdAt"`
}

func (ImportLog) TableName() string { return "import_logs" }
