package models

import "time"

type Patient struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	OrganizationID uint       `gorm:"not null;uniqueIndex:idx_patients_cpf_org" json:"organization_id"`
	CPF            string     `gorm:"column:cpf;not null;uniqueIndex:idx_patients_cpf_org" json:"cpf"`
	Name           string     `gorm:"not null" json:"name"`
	Email          *string    `json:"email"`
	Phone          *string    `json:"phone"`
	BirthDate      *time.Time `json:"birth_date"`
	Gender         *string    `json:"gender"`
	Address        *string    `json:"address"`
	Diagnosis      *string    `json:"diagnosis"`
	DoctorID       *uint      `gorm:"index" json:"doctor_id"`
	Status         string     `gorm:"not null" json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Appointment rows are append-only; imports never de-duplicate them.
type Appointment struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrganizationID uint      `gorm:"not null;index" json:"organization_id"`
	PatientID      uint      `gorm:"not null;index" json:"patient_id"`
	DoctorID       uint      `gorm:"not null;index" json:"doctor_id"`
	Date           time.Time `gorm:"not null;index" json:"date"`
	Time           *string   `json:"time"`
	Duration       int       `gorm:"not null" json:"duration"` // minutes
	Type           string    `gorm:"not null" json:"type"`
	Status         string    `gorm:"not null" json:"status"`
	Notes          *string   `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
