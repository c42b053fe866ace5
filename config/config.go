package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

func LoadEnv() error {
	// A missing .env is fine: in production the variables are set directly.
	_ = godotenv.Load()
	return nil
}

// ValidateEnv checks that critical environment variables are set.
// Returns an error if any critical variable is missing.
func ValidateEnv() error {
	var missing []string

	if os.Getenv("JWT_SECRET") == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if os.Getenv("DATABASE_URL") == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return fmt.Errorf("critical environment variables not set: %v", missing)
	}

	// Non-critical variables - log warnings but don't fail
	if os.Getenv("FRONTEND_URL") == "" {
		log.Println("WARNING: FRONTEND_URL not set - CORS may not work correctly")
	}
	if os.Getenv("ADMIN_URL") == "" {
		log.Println("WARNING: ADMIN_URL not set")
	}
	if os.Getenv("SMTP_HOST") == "" || os.Getenv("SMTP_PORT") == "" || os.Getenv("SMTP_FROM") == "" {
		log.Println("WARNING: SMTP not fully configured - import job summaries will not be emailed")
	}

	switch GetEnv("IMPORT_ARCHIVE_DRIVER", ArchiveNone) {
	case ArchiveFirebase:
		if os.Getenv("FIREBASE_STORAGE_BUCKET") == "" {
			log.Println("WARNING: FIREBASE_STORAGE_BUCKET not set - upload archiving will fail")
		}
	case ArchiveS3:
		if os.Getenv("IMPORT_ARCHIVE_S3_BUCKET") == "" {
			log.Println("WARNING: IMPORT_ARCHIVE_S3_BUCKET not set - upload archiving will fail")
		}
	}

	return nil
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetEnvInt returns the integer value of key, or defaultValue when unset or malformed.
func GetEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		log.Printf("WARNING: %s=%q is not an integer, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func GetEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		log.Printf("WARNING: %s=%q is not a boolean, using %t", key, value, defaultValue)
		return defaultValue
	}
	return b
}

func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		log.Printf("WARNING: %s=%q is not a duration, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

const (
	HistoryMemory   = "memory"
	HistoryDatabase = "database"

	ArchiveNone     = "none"
	ArchiveFirebase = "firebase"
	ArchiveS3       = "s3"
)

// ImportConfig holds the tunables of the bulk importer and its HTTP endpoints.
type ImportConfig struct {
	UploadDir             string
	MaxUploadSize         int64
	HistoryDriver         string
	HistoryLimit          int
	APITimeout            time.Duration
	AllowPrivateEndpoints bool
	ArchiveDriver         string
	RateLimit             int // import requests per minute per user
}

func LoadImportConfig() ImportConfig {
	cfg := ImportConfig{
		UploadDir:             GetEnv("IMPORT_UPLOAD_DIR", "uploads"),
		MaxUploadSize:         10 << 20,
		HistoryDriver:         strings.ToLower(GetEnv("IMPORT_HISTORY_DRIVER", HistoryMemory)),
		HistoryLimit:          GetEnvInt("IMPORT_HISTORY_LIMIT", 500),
		APITimeout:            GetEnvDuration("IMPORT_API_TIMEOUT", 30*time.Second),
		AllowPrivateEndpoints: GetEnvBool("IMPORT_ALLOW_PRIVATE_ENDPOINTS", false),
		ArchiveDriver:         strings.ToLower(GetEnv("IMPORT_ARCHIVE_DRIVER", ArchiveNone)),
		RateLimit:             GetEnvInt("IMPORT_RATE_LIMIT", 20),
	}

	if cfg.HistoryDriver != HistoryMemory && cfg.HistoryDriver != HistoryDatabase {
		log.Printf("WARNING: unknown IMPORT_HISTORY_DRIVER %q, falling back to %s", cfg.HistoryDriver, HistoryMemory)
		cfg.HistoryDriver = HistoryMemory
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 500
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 20
	}
	if cfg.APITimeout <= 0 {
		cfg.APITimeout = 30 * time.Second
	}
	return cfg
}
