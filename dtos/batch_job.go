package dtos

import (
	"time"

	"github.com/google/uuid"
)

// ImportJob tracks an import running in the background.
type ImportJob struct {
	ID          uuid.UUID     `json:"id"`
	Type        string        `json:"type"`
	Status      string        `json:"status"`   // pending, processing, completed, failed
	Progress    int           `json:"progress"` // 0-100 percentage
	Total       int           `json:"total"`
	Processed   int           `json:"processed"`
	UserID      uint          `json:"user_id"`
	Error       string        `json:"error,omitempty"`
	Result      *ImportResult `json:"result,omitempty"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt *time.Time    `json:"completed_at"`
}

// JobStatus constants
const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)
