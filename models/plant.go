package models

import "time"

// Plant is a cultivation unit tracked by its tag code within an organization.
type Plant struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	OrganizationID uint       `gorm:"not null;uniqueIndex:idx_plants_code_org" json:"organization_id"`
	Code           string     `gorm:"not null;uniqueIndex:idx_plants_code_org" json:"code"`
	Strain         string     `gorm:"not null" json:"strain"`
	Stage          string     `gorm:"not null" json:"stage"` // seedling, vegetative, flowering, harvested
	PlantedAt      *time.Time `json:"planted_at"`
	Location       *string    `json:"location"`
	Status         string     `gorm:"not null" json:"status"`
	Notes          *string    `json:"notes"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
