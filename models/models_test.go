package models

import (
	"encoding/json"
	"testing"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&Organization{}, &User{}, &Doctor{}, &Patient{}, &Appointment{}, &Plant{},
		&Module{}, &OrganizationModule{}, &CostCenter{}, &FinancialCategory{},
		&FinancialTransaction{}, &Product{}, &ImportHistory{},
	); err != nil {
		t.Fatal(err)
	}
	return db
}

func TestOrganizationNameIsUnique(t *testing.T) {
	db := setupTestDB(t)

	if err := db.Create(&Organization{Name: "Clinic", Status: "active", PlanID: 1}).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&Organization{Name: "Clinic", Status: "pending", PlanID: 1}).Error; err == nil {
		t.Error("expected duplicate organization name to be rejected")
	}
}

func TestUserEmailIsUnique(t *testing.T) {
	db := setupTestDB(t)

	if err := db.Create(&User{Name: "A", Email: "a@test.com", Password: "x", Role: "user", Status: "active"}).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&User{Name: "B", Email: "a@test.com", Password: "y", Role: "user", Status: "active"}).Error; err == nil {
		t.Error("expected duplicate email to be rejected")
	}
}

func TestProductSKUUniquePerOrganization(t *testing.T) {
	db := setupTestDB(t)

	product := func(orgID uint) *Product {
		return &Product{OrganizationID: orgID, SKU: "SKU-1", Name: "Oil", Price: 10, Unit: "un", Status: "active"}
	}

	if err := db.Create(product(1)).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(product(2)).Error; err != nil {
		t.Errorf("same SKU in another organization should be allowed: %v", err)
	}
	if err := db.Create(product(1)).Error; err == nil {
		t.Error("expected duplicate SKU in the same organization to be rejected")
	}
}

func TestFinancialCategoryKeyIncludesType(t *testing.T) {
	db := setupTestDB(t)

	if err := db.Create(&FinancialCategory{OrganizationID: 1, Name: "Consulting", Type: "income"}).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&FinancialCategory{OrganizationID: 1, Name: "Consulting", Type: "expense"}).Error; err != nil {
		t.Errorf("same name with another type should be allowed: %v", err)
	}
	if err := db.Create(&FinancialCategory{OrganizationID: 1, Name: "Consulting", Type: "income"}).Error; err == nil {
		t.Error("expected duplicate category to be rejected")
	}
}

func TestOrganizationModuleLinkIsUnique(t *testing.T) {
	db := setupTestDB(t)

	if err := db.Create(&OrganizationModule{OrganizationID: 1, ModuleID: 2, Active: true}).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&OrganizationModule{OrganizationID: 1, ModuleID: 2, Active: true}).Error; err == nil {
		t.Error("expected duplicate module link to be rejected")
	}
}

func TestImportHistoryStoresIssuesAsJSON(t *testing.T) {
	db := setupTestDB(t)

	issues, _ := json.Marshal([]map[string]interface{}{{"line": 2, "message": "missing required field: name"}})
	row := ImportHistory{
		EntityType: "organizations",
		Method:     "Upload CSV",
		Errors:     datatypes.JSON(issues),
		Warnings:   datatypes.JSON("[]"),
		ErrorCount: 1,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatal(err)
	}

	var loaded ImportHistory
	if err := db.First(&loaded, row.ID).Error; err != nil {
		t.Fatal(err)
	}
	var decoded []map[string]interface{}
	if err := json.Unmarshal(loaded.Errors, &decoded); err != nil {
		t.Fatalf("errors column is not valid JSON: %v", err)
	}
	if len(decoded) != 1 || decoded[0]["message"] != "missing required field: name" {
		t.Errorf("unexpected decoded errors: %v", decoded)
	}
}
