package importer

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"orgmanager-backend/dtos"

	"gorm.io/gorm"
)

type writePolicy int

const (
	// policyUpsert updates the row matching the natural key or inserts a new one.
	policyUpsert writePolicy = iota
	// policyAppend always inserts.
	policyAppend
)

type writeAction string

const (
	actionCreated writeAction = "created"
	actionUpdated writeAction = "updated"
)

// fieldSchema lists the columns an entity understands. Text fields bypass
// date/number coercion during normalization.
type fieldSchema struct {
	known map[string]bool
	text  map[string]bool
}

func newSchema(text []string, other ...string) fieldSchema {
	s := fieldSchema{known: map[string]bool{}, text: map[string]bool{}}
	add := func(m map[string]bool, f string) {
		m[f] = true
		m[strings.ReplaceAll(f, "_", "")] = true
	}
	for _, f := range text {
		add(s.known, f)
		add(s.text, f)
	}
	for _, f := range other {
		add(s.known, f)
	}
	return s
}

// entityHandler is implemented once per EntityType.
type entityHandler interface {
	kind() EntityType
	policy() writePolicy
	schema() fieldSchema
	// naturalKey returns "" for append-only entities or when key fields are
	// missing; process reports the missing fields.
	naturalKey(rec Record) string
	process(ctx context.Context, tx *gorm.DB, rec Record, row *rowContext) (writeAction, error)
}

var handlers = map[EntityType]entityHandler{
	Organizations:         organizationHandler{},
	Users:                 userHandler{},
	Doctors:               doctorHandler{},
	Patients:              patientHandler{},
	Appointments:          appointmentHandler{},
	Plants:                plantHandler{},
	Modules:               moduleHandler{},
	CostCenters:           costCenterHandler{},
	FinancialCategories:   financialCategoryHandler{},
	FinancialTransactions: financialTransactionHandler{},
	Products:              productHandler{},
}

type rowContext struct {
	line     int
	warnings *[]dtos.ImportIssue
}

func (r *rowContext) warn(format string, args ...any) {
	*r.warnings = append(*r.warnings, dtos.ImportIssue{Line: r.line, Message: fmt.Sprintf(format, args...)})
}

// Outcome is the aggregate of a processed batch.
type Outcome struct {
	Success  int
	Error    int
	Created  int
	Updated  int
	Errors   []dtos.ImportIssue
	Warnings []dtos.ImportIssue
}

// Processor writes normalized records to the database, one transaction per row.
type Processor struct {
	db    *gorm.DB
	locks *keyLocker
}

func NewProcessor(db *gorm.DB) *Processor {
	return &Processor{db: db, locks: newKeyLocker()}
}

// ProcessEntities normalizes and persists every record. A failing row is
// recorded in Errors and never stops the batch; only context cancellation
// ends processing early.
func (p *Processor) ProcessEntities(ctx context.Context, entity EntityType, records []Record, progress ProgressFunc) (Outcome, error) {
	out := Outcome{Errors: []dtos.ImportIssue{}, Warnings: []dtos.ImportIssue{}}

	h, ok := handlers[entity]
	if !ok {
		return out, &ConfigError{Msg: fmt.Sprintf("unsupported entity type: %s", entity), Err: ErrUnknownEntity}
	}
	schema := h.schema()

	unknown := map[string]bool{}
	total := len(records)
	for i, raw := range records {
		if err := ctx.Err(); err != nil {
			return out, fmt.Errorf("import cancelled after %d of %d records: %w", i, total, err)
		}

		line := i + 1
		row := &rowContext{line: line, warnings: &out.Warnings}

		action, err := p.processRecord(ctx, h, schema, raw, row, unknown)
		if err != nil {
			out.Error++
			out.Errors = append(out.Errors, dtos.ImportIssue{Line: line, Message: err.Error(), Code: rowCode(err)})
		} else {
			out.Success++
			if action == actionCreated {
				out.Created++
			} else {
				out.Updated++
			}
		}

		if progress != nil {
			progress(line, total)
		}
	}

	if len(unknown) > 0 {
		cols := make([]string, 0, len(unknown))
		for c := range unknown {
			cols = append(cols, c)
		}
		sort.Strings(cols)
		out.Warnings = append(out.Warnings, dtos.ImportIssue{
			Line:    0,
			Message: fmt.Sprintf("ignored unknown columns for %s: %s", entity, strings.Join(cols, ", ")),
		})
	}

	return out, nil
}

func (p *Processor) processRecord(ctx context.Context, h entityHandler, schema fieldSchema, raw Record, row *rowContext, unknown map[string]bool) (writeAction, error) {
	if raw == nil {
		return "", invalidRow("record is not an object")
	}
	rec := normalizeFor(raw, schema.text)
	for k := range rec {
		if !schema.known[k] {
			unknown[k] = true
		}
	}

	if h.policy() == policyUpsert {
		if key := h.naturalKey(rec); key != "" {
			unlock := p.locks.Lock(string(h.kind()) + "|" + key)
			defer unlock()
		}
	}

	var action writeAction
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		action, err = h.process(ctx, tx, rec, row)
		return err
	})
	if err != nil {
		if rowCode(err) == CodePersistence {
			log.Printf("[import] %s line %d: %v", h.kind(), row.line, err)
		}
		return "", err
	}
	return action, nil
}
