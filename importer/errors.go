package importer

import (
	"errors"
	"fmt"
)

var (
	ErrNoSource          = errors.New("no import source specified")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrUnknownEntity     = errors.New("unsupported entity type")
	ErrNotArray          = errors.New("JSON data must be an array")
	ErrBlockedEndpoint   = errors.New("endpoint not allowed")
)

// ConfigError reports an import that was rejected before any I/O happened.
type ConfigError struct {
	Msg string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Msg == "" {
		return e.Err.Error()
	}
	return e.Msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

// SourceError reports a failure reading or fetching the import source.
// It aborts the whole import.
type SourceError struct {
	Op  string
	Err error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// Row error codes.
const (
	CodeValidation  = "validation"
	CodeReference   = "reference"
	CodePersistence = "persistence"
)

// RowError fails a single record. The processor records it and moves on.
type RowError struct {
	Code string
	Msg  string
	Err  error
}

func (e *RowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *RowError) Unwrap() error { return e.Err }

func missingField(field string) error {
	return &RowError{Code: CodeValidation, Msg: fmt.Sprintf("missing required field: %s", field)}
}

func invalidField(field string, value any, err error) error {
	return &RowError{Code: CodeValidation, Msg: fmt.Sprintf("invalid value for %s: %v", field, value), Err: err}
}

func invalidRow(format string, args ...any) error {
	return &RowError{Code: CodeValidation, Msg: fmt.Sprintf(format, args...)}
}

func referenceNotFound(entity string, id uint) error {
	return &RowError{Code: CodeReference, Msg: fmt.Sprintf("%s %d not found", entity, id)}
}

func persistenceFailed(op string, err error) error {
	return &RowError{Code: CodePersistence, Msg: op, Err: err}
}

func rowCode(err error) string {
	var rowErr *RowError
	if errors.As(err, &rowErr) {
		return rowErr.Code
	}
	return CodePersistence
}
