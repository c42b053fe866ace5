package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"orgmanager-backend/dtos"
	"orgmanager-backend/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// HistoryStore keeps completed import runs, oldest first.
type HistoryStore interface {
	Append(ctx context.Context, entry dtos.ImportHistoryEntry) error
	List(ctx context.Context) ([]dtos.ImportHistoryEntry, error)
}

// MemoryHistory is a fixed-size ring buffer. Once full, the oldest entry is
// overwritten.
type MemoryHistory struct {
	mu      sync.RWMutex
	entries []dtos.ImportHistoryEntry
	next    int
	full    bool
}

func NewMemoryHistory(limit int) *MemoryHistory {
	if limit <= 0 {
		limit = 1
	}
	return &MemoryHistory{entries: make([]dtos.ImportHistoryEntry, limit)}
}

func (h *MemoryHistory) Append(_ context.Context, entry dtos.ImportHistoryEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries[h.next] = cloneEntry(entry)
	h.next = (h.next + 1) % len(h.entries)
	if h.next == 0 {
		h.full = true
	}
	return nil
}

func (h *MemoryHistory) List(_ context.Context) ([]dtos.ImportHistoryEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if !h.full {
		out := make([]dtos.ImportHistoryEntry, h.next)
		for i := range out {
			out[i] = cloneEntry(h.entries[i])
		}
		return out, nil
	}
	out := make([]dtos.ImportHistoryEntry, 0, len(h.entries))
	for i := 0; i < len(h.entries); i++ {
		out = append(out, cloneEntry(h.entries[(h.next+i)%len(h.entries)]))
	}
	return out, nil
}

func cloneEntry(e dtos.ImportHistoryEntry) dtos.ImportHistoryEntry {
	e.Errors = slices.Clone(e.Errors)
	e.Warnings = slices.Clone(e.Warnings)
	return e
}

// GormHistory persists entries to the import_histories table and keeps only
// the newest limit rows.
type GormHistory struct {
	db    *gorm.DB
	limit int
}

func NewGormHistory(db *gorm.DB, limit int) *GormHistory {
	return &GormHistory{db: db, limit: limit}
}

func (h *GormHistory) Append(ctx context.Context, entry dtos.ImportHistoryEntry) error {
	errs, err := json.Marshal(nonNil(entry.Errors))
	if err != nil {
		return fmt.Errorf("encode history errors: %w", err)
	}
	warnings, err := json.Marshal(nonNil(entry.Warnings))
	if err != nil {
		return fmt.Errorf("encode history warnings: %w", err)
	}

	row := models.ImportHistory{
		EntityType:   entry.Type,
		Method:       entry.Method,
		UserID:       entry.UserID,
		TotalRecords: entry.TotalRecords,
		SuccessCount: entry.SuccessCount,
		ErrorCount:   entry.ErrorCount,
		Errors:       datatypes.JSON(errs),
		Warnings:     datatypes.JSON(warnings),
		ElapsedMS:    entry.ElapsedTime,
		ValidateOnly: entry.ValidateOnly,
		CreatedAt:    entry.Date,
	}

	db := h.db.WithContext(ctx)
	if err := db.Create(&row).Error; err != nil {
		return fmt.Errorf("save import history: %w", err)
	}
	if h.limit <= 0 {
		return nil
	}

	var ids []uint
	if err := db.Model(&models.ImportHistory{}).Order("id desc").Pluck("id", &ids).Error; err != nil {
		return fmt.Errorf("list import history: %w", err)
	}
	if len(ids) > h.limit {
		if err := db.Where("id IN ?", ids[h.limit:]).Delete(&models.ImportHistory{}).Error; err != nil {
			return fmt.Errorf("prune import history: %w", err)
		}
	}
	return nil
}

func (h *GormHistory) List(ctx context.Context) ([]dtos.ImportHistoryEntry, error) {
	var rows []models.ImportHistory
	if err := h.db.WithContext(ctx).Order("id asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list import history: %w", err)
	}

	out := make([]dtos.ImportHistoryEntry, 0, len(rows))
	for _, row := range rows {
		entry := dtos.ImportHistoryEntry{
			ImportResult: dtos.ImportResult{
				TotalRecords: row.TotalRecords,
				SuccessCount: row.SuccessCount,
				ErrorCount:   row.ErrorCount,
				Errors:       []dtos.ImportIssue{},
				Warnings:     []dtos.ImportIssue{},
				ElapsedTime:  row.ElapsedMS,
				Type:         row.EntityType,
				ValidateOnly: row.ValidateOnly,
			},
			Date:   row.CreatedAt,
			UserID: row.UserID,
			Method: row.Method,
		}
		if len(row.Errors) > 0 {
			if err := json.Unmarshal(row.Errors, &entry.Errors); err != nil {
				return nil, fmt.Errorf("decode history %d errors: %w", row.ID, err)
			}
		}
		if len(row.Warnings) > 0 {
			if err := json.Unmarshal(row.Warnings, &entry.Warnings); err != nil {
				return nil, fmt.Errorf("decode history %d warnings: %w", row.ID, err)
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

func nonNil(issues []dtos.ImportIssue) []dtos.ImportIssue {
	if issues == nil {
		return []dtos.ImportIssue{}
	}
	return issues
}
