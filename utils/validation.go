package utils

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"orgmanager-backend/importer"

	"github.com/go-playground/validator/v10"
)

// MaxImportUploadSize is the default upload limit for import files (10MB).
const MaxImportUploadSize = 10 << 20

// ValidateImportUpload checks the extension and size of an uploaded import
// file. A maxSize of 0 applies MaxImportUploadSize.
func ValidateImportUpload(fh *multipart.FileHeader, maxSize int64) error {
	if maxSize <= 0 {
		maxSize = MaxImportUploadSize
	}
	if fh.Size > maxSize {
		return fmt.Errorf("file size %d bytes exceeds maximum allowed size of %dMB", fh.Size, maxSize>>20)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !importer.AllowedExtension(ext) {
		return fmt.Errorf("unsupported file extension: %q; allowed: %s", ext, strings.Join(importer.SupportedExtensions(), ", "))
	}

	return nil
}

// SanitizeValidationError takes a validator error and returns a user-friendly message
// without leaking internal Go struct names.
func SanitizeValidationError(err error) string {
	if err == nil {
		return ""
	}

	// Try to cast to validator.ValidationErrors
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		// If it's not a validation error, return a generic message
		// Check for common binding error patterns
		errMsg := err.Error()
		if strings.Contains(errMsg, "cannot unmarshal") || strings.Contains(errMsg, "invalid character") {
			return "Invalid request body"
		}
		return "Invalid request body"
	}

	// Build user-friendly error messages from field-level errors
	var messages []string
	for _, fe := range validationErrors {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email address", field))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		case "url":
			messages = append(messages, fmt.Sprintf("%s must be a valid URL", field))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", field))
		}
	}

	if len(messages) == 0 {
		return "Invalid request body"
	}

	return strings.Join(messages, "; ")
}
