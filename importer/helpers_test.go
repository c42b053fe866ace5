package importer

import (
	"context"
	"testing"

	"orgmanager-backend/dtos"
	"orgmanager-backend/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	// One connection so every query sees the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
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
	))
	return db
}

func newTestImporter(t *testing.T) (*Importer, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return New(db, NewMemoryHistory(50), Config{AllowPrivateEndpoints: true}), db
}

func seedOrganization(t *testing.T, db *gorm.DB, name string) models.Organization {
	t.Helper()
	org := models.Organization{Name: name, Status: "active", PlanID: 1}
	require.NoError(t, db.Create(&org).Error)
	return org
}

func importJSON(t *testing.T, im *Importer, entity EntityType, data string) *dtos.ImportResult {
	t.Helper()
	res, err := im.Import(context.Background(), Options{Type: entity, JSONData: data}, 1)
	require.NoError(t, err)
	return res
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
