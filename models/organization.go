package models

import "time"

// Organization is a tenant of the platform. Every other imported entity except
// users and modules is scoped to one.
type Organization struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Type        *string   `json:"type"`
	CNPJ        *string   `gorm:"column:cnpj" json:"cnpj"`
	Email       *string   `json:"email"`
	Phone       *string   `json:"phone"`
	Address     *string   `json:"address"`
	City        *string   `json:"city"`
	State       *string   `json:"state"`
	ZipCode     *string   `json:"zip_code"`
	Website     *string   `json:"website"`
	AdminName   *string   `json:"admin_name"`
	Description *string   `json:"description"`
	Status      string    `gorm:"not null;index" json:"status"` // pending, active, suspended
	PlanID      uint      `gorm:"not null" json:"plan_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
