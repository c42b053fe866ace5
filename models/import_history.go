package models

import (
	"time"

	"gorm.io/datatypes"
)

// ImportHistory is the persisted form of a completed import run.
type ImportHistory struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	EntityType   string         `gorm:"not null;index" json:"entity_type"`
	Method       string         `gorm:"not null" json:"method"`
	UserID       uint           `gorm:"index" json:"user_id"`
	TotalRecords int            `json:"total_records"`
	SuccessCount int            `json:"success_count"`
	ErrorCount   int            `json:"error_count"`
	Errors       datatypes.JSON `gorm:"type:jsonb" json:"errors"`
	Warnings     datatypes.JSON `gorm:"type:jsonb" json:"warnings"`
	ElapsedMS    int64          `json:"elapsed_ms"`
	ValidateOnly bool           `json:"validate_only"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
}
