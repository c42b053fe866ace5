package models

import "time"

type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       *string   `json:"username"`
	Name           string    `gorm:"not null" json:"name"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	Password       string    `gorm:"not null" json:"-"`
	Role           string    `gorm:"not null" json:"role"` // admin, org_admin, doctor, patient, user
	Status         string    `gorm:"not null" json:"status"`
	Phone          *string   `json:"phone"`
	OrganizationID *uint     `gorm:"index" json:"organization_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
