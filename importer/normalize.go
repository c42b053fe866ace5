package importer

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Record is one source row keyed by column header or JSON key.
type Record map[string]any

var (
	whitespaceRun  = regexp.MustCompile(`\s+`)
	numericPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

	datePatterns = []struct {
		re     *regexp.Regexp
		layout string
	}{
		{regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`), "2006-01-02"},
		{regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`), "02/01/2006"},
		{regexp.MustCompile(`^\d{4}/\d{2}/\d{2}$`), "2006/01/02"},
		{regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`), "02-01-2006"},
	}
)

// NormalizeKey trims the key, collapses whitespace runs into one underscore
// and lowercases it.
func NormalizeKey(key string) string {
	return strings.ToLower(whitespaceRun.ReplaceAllString(strings.TrimSpace(key), "_"))
}

// NormalizeValue coerces blank strings to nil, date-looking strings to
// time.Time and numeric strings to float64. Other values pass through.
func NormalizeValue(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, p := range datePatterns {
		if p.re.MatchString(s) {
			if t, err := time.Parse(p.layout, s); err == nil {
				return t
			}
			return s
		}
	}
	if numericPattern.MatchString(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}

// NormalizeEntity returns a canonicalized copy of raw.
func NormalizeEntity(raw Record) Record {
	return normalizeFor(raw, nil)
}

// normalizeFor is NormalizeEntity except that keys listed in text keep their
// value as a string, so identifiers such as SKUs are never read as numbers
// or dates.
func normalizeFor(raw Record, text map[string]bool) Record {
	out := make(Record, len(raw))
	for k, v := range raw {
		key := NormalizeKey(k)
		if key == "" {
			continue
		}
		if text[key] {
			out[key] = textValue(v)
			continue
		}
		if n, ok := v.(json.Number); ok {
			v = n.String()
		}
		out[key] = NormalizeValue(v)
	}
	return out
}

func textValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		if s := strings.TrimSpace(val); s != "" {
			return s
		}
		return nil
	default:
		return stringify(val)
	}
}
