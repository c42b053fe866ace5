package models

import "time"

type Doctor struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrganizationID uint      `gorm:"not null;uniqueIndex:idx_doctors_crm_org" json:"organization_id"`
	CRM            string    `gorm:"column:crm;not null;uniqueIndex:idx_doctors_crm_org" json:"crm"`
	CRMState       *string   `gorm:"column:crm_state" json:"crm_state"`
	Name           string    `gorm:"not null" json:"name"`
	Specialty      *string   `json:"specialty"`
	Email          *string   `json:"email"`
	Phone          *string   `json:"phone"`
	Status         string    `gorm:"not null" json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
