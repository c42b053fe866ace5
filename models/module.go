package models

import "time"

type Module struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Slug        *string   `json:"slug"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Price       float64   `gorm:"not null" json:"price"`
	Active      bool      `gorm:"not null" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OrganizationModule enables a module for an organization.
type OrganizationModule struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrganizationID uint      `gorm:"not null;uniqueIndex:idx_org_modules_pair" json:"organization_id"`
	ModuleID       uint      `gorm:"not null;uniqueIndex:idx_org_modules_pair" json:"module_id"`
	Active         bool      `gorm:"not null" json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
