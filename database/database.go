package database

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"orgmanager-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=orgmanager port=5432 sslmode=disable"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}

// Models lists every table the importer writes to, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.Organization{},
		&models.User{},
		&models.Doctor{},
		&models.Patient{},
		&models.Appointment{},
		&models.Plant{},
		&models.Module{},
		&models.OrganizationModule{},
		&models.CostCenter{},
		&models.FinancialCategory{},
		&models.FinancialTransaction{},
		&models.Product{},
		&models.ImportHistory{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// CreateDefaultAdmin creates the bootstrap admin account unless it exists.
// Without ADMIN_PASSWORD a random password is generated and logged once.
func CreateDefaultAdmin(db *gorm.DB) error {
	adminEmail := strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL")))
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" {
		adminEmail = "admin@orgmanager.local"
	}

	var existingUser models.User
	result := db.Where("email = ?", adminEmail).First(&existingUser)
	if result.Error == nil {
		// Admin already exists
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}

	generated := false
	if adminPassword == "" {
		buf := make([]byte, 12)
		if _, err := rand.Read(buf); err != nil {
			return fmt.Errorf("failed to generate admin password: %w", err)
		}
		adminPassword = hex.EncodeToString(buf)
		generated = true
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:    adminEmail,
		Password: string(hashedPassword),
		Role:     "admin",
		Status:   "active",
		Name:     "Admin User",
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	if generated {
		log.Printf("Default admin created: %s (generated password: %s)", adminEmail, adminPassword)
	} else {
		log.Printf("Default admin created: %s", adminEmail)
	}
	return nil
}
