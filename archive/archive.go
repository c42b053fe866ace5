// Package archive keeps a copy of every uploaded import file in object
// storage. Archiving is best effort: callers log failures and carry on.
package archive

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"orgmanager-backend/config"
)

// Archiver stores the file at localPath under a key derived from name and
// returns the object's location.
type Archiver interface {
	Archive(ctx context.Context, localPath, name string) (string, error)
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// sanitizeFilename removes special characters from filenames and limits length.
func sanitizeFilename(filename string) string {
	sanitized := unsafeChars.ReplaceAllString(filepath.Base(filename), "_")
	if len(sanitized) > 100 {
		sanitized = sanitized[:100]
	}
	if sanitized == "" || sanitized == "." || sanitized == ".." {
		sanitized = "file"
	}
	return sanitized
}

func objectKey(name string, now time.Time) string {
	return fmt.Sprintf("imports/%d_%s", now.Unix(), sanitizeFilename(name))
}

var contentTypes = map[string]string{
	".csv":  "text/csv",
	".json": "application/json",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".xls":  "application/vnd.ms-excel",
}

func contentType(name string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Nop discards archive requests.
type Nop struct{}

func (Nop) Archive(context.Context, string, string) (string, error) { return "", nil }

// NewFromConfig builds the archiver selected by IMPORT_ARCHIVE_DRIVER.
func NewFromConfig(ctx context.Context, driver string) (Archiver, error) {
	switch strings.ToLower(driver) {
	case "", config.ArchiveNone:
		return Nop{}, nil
	case config.ArchiveFirebase:
		a, err := NewFirebase(ctx, config.GetEnv("FIREBASE_STORAGE_BUCKET", ""))
		if err != nil {
			return nil, err
		}
		log.Printf("[archive] archiving uploads to Firebase bucket %s", a.bucket)
		return a, nil
	case config.ArchiveS3:
		a, err := NewS3(ctx, S3Config{
			Bucket:    config.GetEnv("IMPORT_ARCHIVE_S3_BUCKET", ""),
			Region:    config.GetEnv("IMPORT_ARCHIVE_S3_REGION", ""),
			Endpoint:  config.GetEnv("IMPORT_ARCHIVE_S3_ENDPOINT", ""),
			PathStyle: config.GetEnvBool("IMPORT_ARCHIVE_S3_PATH_STYLE", false),
		})
		if err != nil {
			return nil, err
		}
		log.Printf("[archive] archiving uploads to S3 bucket %s", a.bucket)
		return a, nil
	default:
		return nil, fmt.Errorf("unknown archive driver %q", driver)
	}
}
