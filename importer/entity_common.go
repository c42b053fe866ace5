package importer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"orgmanager-backend/models"

	"gorm.io/gorm"
)

// fieldParser reads typed fields from a normalized record and keeps the
// first error, so handlers can read every field before checking once.
type fieldParser struct {
	rec Record
	err error
}

func parse(rec Record) *fieldParser { return &fieldParser{rec: rec} }

func (p *fieldParser) keep(err error) {
	if p.err == nil && err != nil {
		p.err = err
	}
}

func (p *fieldParser) requireString(key string) string {
	s, err := p.rec.requireString(key)
	p.keep(err)
	return s
}

func (p *fieldParser) optString(key string) *string { return p.rec.optString(key) }

func (p *fieldParser) stringOr(key, def string) string { return p.rec.stringOr(key, def) }

func (p *fieldParser) lowerOr(key, def string) string {
	return strings.ToLower(p.rec.stringOr(key, def))
}

func (p *fieldParser) requireID(key string) uint {
	id, err := p.rec.requireID(key)
	p.keep(err)
	return id
}

func (p *fieldParser) optID(key string) *uint {
	id, err := p.rec.optID(key)
	p.keep(err)
	return id
}

func (p *fieldParser) idOr(key string, def uint) uint {
	id, err := p.rec.idOr(key, def)
	p.keep(err)
	return id
}

func (p *fieldParser) requireFloat(key string) float64 {
	f, err := p.rec.requireFloat(key)
	p.keep(err)
	return f
}

func (p *fieldParser) optFloat(key string) *float64 {
	f, err := p.rec.optFloat(key)
	p.keep(err)
	return f
}

func (p *fieldParser) floatOr(key string, def float64) float64 {
	f, err := p.rec.floatOr(key, def)
	p.keep(err)
	return f
}

func (p *fieldParser) intOr(key string, def int) int {
	n, err := p.rec.intOr(key, def)
	p.keep(err)
	return n
}

func (p *fieldParser) boolOr(key string, def bool) bool {
	b, err := p.rec.boolOr(key, def)
	p.keep(err)
	return b
}

func (p *fieldParser) requireTime(key string) time.Time {
	t, err := p.rec.requireTime(key)
	p.keep(err)
	return t
}

func (p *fieldParser) optTime(key string) *time.Time {
	t, err := p.rec.optTime(key)
	p.keep(err)
	return t
}

// oneOf lowercases key's value and checks it against allowed.
func (p *fieldParser) oneOf(key string, value string, allowed ...string) string {
	v := strings.ToLower(value)
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	p.keep(invalidRow("invalid value for %s: %q (expected one of %s)", key, value, strings.Join(allowed, ", ")))
	return v
}

// findOne loads the row matching query into dest and reports whether it exists.
func findOne(tx *gorm.DB, dest any, query string, args ...any) (bool, error) {
	err := tx.Where(query, args...).Take(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, persistenceFailed("lookup failed", err)
	}
	return true, nil
}

// write saves model, updating in place when found and inserting otherwise.
func write(tx *gorm.DB, found bool, model any, label string) (writeAction, error) {
	if found {
		if err := tx.Save(model).Error; err != nil {
			return "", persistenceFailed("failed to update "+label, err)
		}
		return actionUpdated, nil
	}
	if err := tx.Create(model).Error; err != nil {
		return "", persistenceFailed("failed to create "+label, err)
	}
	return actionCreated, nil
}

// ensureExists rejects references to rows that do not exist. When orgID is
// set the referenced row must also belong to that organization.
func ensureExists(tx *gorm.DB, model any, label string, id uint, orgID *uint) error {
	q := tx.Model(model).Where("id = ?", id)
	if orgID != nil {
		q = q.Where("organization_id = ?", *orgID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return persistenceFailed(fmt.Sprintf("failed to look up %s %d", label, id), err)
	}
	if n == 0 {
		if orgID != nil {
			return &RowError{Code: CodeReference, Msg: fmt.Sprintf("%s %d not found in organization %d", label, id, *orgID)}
		}
		return referenceNotFound(label, id)
	}
	return nil
}

func ensureOrganization(tx *gorm.DB, id uint) error {
	return ensureExists(tx, &models.Organization{}, "organization", id, nil)
}

func scopedKey(rec Record, parts ...string) string {
	org := rec.keyID("organization_id")
	if org == "" {
		return ""
	}
	vals := []string{org}
	for _, p := range parts {
		v := rec.keyString(p)
		if v == "" {
			return ""
		}
		vals = append(vals, v)
	}
	return strings.Join(vals, "|")
}
