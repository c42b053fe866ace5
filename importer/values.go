package importer

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// lookup finds key, also accepting the underscore-free spelling produced by
// camelCase JSON keys (organizationId -> organizationid).
func (r Record) lookup(key string) (any, bool) {
	if v, ok := r[key]; ok && v != nil {
		return v, true
	}
	if compact := strings.ReplaceAll(key, "_", ""); compact != key {
		if v, ok := r[compact]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func (r Record) has(key string) bool {
	_, ok := r.lookup(key)
	return ok
}

func (r Record) requireString(key string) (string, error) {
	v, ok := r.lookup(key)
	if !ok {
		return "", missingField(key)
	}
	s := strings.TrimSpace(stringify(v))
	if s == "" {
		return "", missingField(key)
	}
	return s, nil
}

func (r Record) stringOr(key, def string) string {
	if p := r.optString(key); p != nil {
		return *p
	}
	return def
}

func (r Record) optString(key string) *string {
	v, ok := r.lookup(key)
	if !ok {
		return nil
	}
	s := strings.TrimSpace(stringify(v))
	if s == "" {
		return nil
	}
	return &s
}

func (r Record) optFloat(key string) (*float64, error) {
	v, ok := r.lookup(key)
	if !ok {
		return nil, nil
	}
	f, err := toFloat(v)
	if err != nil {
		return nil, invalidField(key, v, err)
	}
	return &f, nil
}

func (r Record) requireFloat(key string) (float64, error) {
	if !r.has(key) {
		return 0, missingField(key)
	}
	f, err := r.optFloat(key)
	if err != nil {
		return 0, err
	}
	return *f, nil
}

func (r Record) floatOr(key string, def float64) (float64, error) {
	f, err := r.optFloat(key)
	if err != nil || f == nil {
		return def, err
	}
	return *f, nil
}

func (r Record) intOr(key string, def int) (int, error) {
	f, err := r.optFloat(key)
	if err != nil || f == nil {
		return def, err
	}
	if *f != math.Trunc(*f) {
		return def, invalidField(key, *f, fmt.Errorf("not a whole number"))
	}
	return int(*f), nil
}

func (r Record) boolOr(key string, def bool) (bool, error) {
	v, ok := r.lookup(key)
	if !ok {
		return def, nil
	}
	b, err := toBool(v)
	if err != nil {
		return def, invalidField(key, v, err)
	}
	return b, nil
}

func (r Record) optID(key string) (*uint, error) {
	v, ok := r.lookup(key)
	if !ok {
		return nil, nil
	}
	id, err := toID(v)
	if err != nil {
		return nil, invalidField(key, v, err)
	}
	return &id, nil
}

func (r Record) requireID(key string) (uint, error) {
	id, err := r.optID(key)
	if err != nil {
		return 0, err
	}
	if id == nil {
		return 0, missingField(key)
	}
	return *id, nil
}

func (r Record) idOr(key string, def uint) (uint, error) {
	id, err := r.optID(key)
	if err != nil || id == nil {
		return def, err
	}
	return *id, nil
}

func (r Record) optTime(key string) (*time.Time, error) {
	v, ok := r.lookup(key)
	if !ok {
		return nil, nil
	}
	t, err := toTime(v)
	if err != nil {
		return nil, invalidField(key, v, err)
	}
	return &t, nil
}

func (r Record) requireTime(key string) (time.Time, error) {
	t, err := r.optTime(key)
	if err != nil {
		return time.Time{}, err
	}
	if t == nil {
		return time.Time{}, missingField(key)
	}
	return *t, nil
}

// keyID is used for natural keys, where a malformed id simply yields no key.
func (r Record) keyID(key string) string {
	id, err := r.optID(key)
	if err != nil || id == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*id), 10)
}

func (r Record) keyString(key string) string {
	if p := r.optString(key); p != nil {
		return *p
	}
	return ""
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case bool:
		return strconv.FormatBool(val)
	case json.Number:
		return val.String()
	case time.Time:
		return val.Format("2006-01-02")
	default:
		return fmt.Sprint(val)
	}
}

func toFloat(v any) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case uint:
		return float64(val), nil
	case json.Number:
		return val.Float64()
	case string:
		s := strings.TrimSpace(val)
		// Accept a decimal comma ("12,5") when no dot is present.
		if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
			s = strings.Replace(s, ",", ".", 1)
		}
		return strconv.ParseFloat(s, 64)
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
}

func toID(v any) (uint, error) {
	f, err := toFloat(v)
	if err != nil {
		return 0, err
	}
	if f <= 0 || f != math.Trunc(f) || f > math.MaxUint32 {
		return 0, fmt.Errorf("not a valid id")
	}
	return uint(f), nil
}

func toBool(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case float64:
		return val != 0, nil
	case int:
		return val != 0, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "t", "yes", "y", "sim", "s", "1", "active", "ativo":
			return true, nil
		case "false", "f", "no", "n", "nao", "não", "0", "inactive", "inativo":
			return false, nil
		}
	}
	return false, fmt.Errorf("expected a boolean")
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
	"2006/01/02",
	"02-01-2006",
}

func toTime(v any) (time.Time, error) {
	switch val := v.(type) {
	case time.Time:
		return val, nil
	case string:
		s := strings.TrimSpace(val)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized date format")
	default:
		return time.Time{}, fmt.Errorf("expected a date, got %T", v)
	}
}
