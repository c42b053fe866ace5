package importer

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// EntityType names one of the import targets.
type EntityType string

const (
	Organizations         EntityType = "organizations"
	Users                 EntityType = "users"
	Doctors               EntityType = "doctors"
	Patients              EntityType = "patients"
	Appointments          EntityType = "appointments"
	Plants                EntityType = "plants"
	Modules               EntityType = "modules"
	CostCenters           EntityType = "cost_centers"
	FinancialCategories   EntityType = "financial_categories"
	FinancialTransactions EntityType = "financial_transactions"
	Products              EntityType = "products"
)

// EntityTypes lists every supported import target.
var EntityTypes = []EntityType{
	Organizations, Users, Doctors, Patients, Appointments, Plants,
	Modules, CostCenters, FinancialCategories, FinancialTransactions, Products,
}

// ParseEntityType accepts the canonical tag case-insensitively, with either
// underscores or hyphens as separators.
func ParseEntityType(s string) (EntityType, error) {
	tag := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for _, t := range EntityTypes {
		if string(t) == tag {
			return t, nil
		}
	}
	if tag == "" {
		return "", &ConfigError{Msg: "entity type is required", Err: ErrUnknownEntity}
	}
	return "", &ConfigError{Msg: fmt.Sprintf("unsupported entity type: %s", s), Err: ErrUnknownEntity}
}

// Format is the encoding of a file source.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
	FormatJSON Format = "json"
)

var extensionFormats = map[string]Format{
	".csv":  FormatCSV,
	".xlsx": FormatXLSX,
	".xls":  FormatXLS,
	".json": FormatJSON,
}

// FormatFromPath infers the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extensionFormats[ext]; ok {
		return f, nil
	}
	return "", &ConfigError{Msg: fmt.Sprintf("unsupported file extension: %q", ext), Err: ErrUnsupportedFormat}
}

// AllowedExtension reports whether uploads with this extension can be imported.
func AllowedExtension(ext string) bool {
	_, ok := extensionFormats[strings.ToLower(ext)]
	return ok
}

// SupportedExtensions lists the importable file extensions, sorted.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(extensionFormats))
	for ext := range extensionFormats {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

type BasicAuth struct {
	Username string
	Password string
}

// ProgressFunc is called after every processed record.
type ProgressFunc func(processed, total int)

// Options describes one import. Exactly one source is used, checked in the
// order file, API endpoint, inline JSON.
type Options struct {
	Type EntityType

	FilePath string
	Format   Format // inferred from FilePath when empty

	APIEndpoint string
	APIAuth     *BasicAuth

	JSONData string

	Progress     ProgressFunc
	ValidateOnly bool
}
