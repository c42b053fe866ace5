package models

import "time"

type CostCenter struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrganizationID uint      `gorm:"not null;uniqueIndex:idx_cost_centers_code_org" json:"organization_id"`
	Code           string    `gorm:"not null;uniqueIndex:idx_cost_centers_code_org" json:"code"`
	Name           string    `gorm:"not null" json:"name"`
	Description    *string   `json:"description"`
	ParentID       *uint     `gorm:"index" json:"parent_id"`
	Budget         float64   `gorm:"not null" json:"budget"`
	Active         bool      `gorm:"not null" json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type FinancialCategory struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrganizationID uint      `gorm:"not null;uniqueIndex:idx_financial_categories_key" json:"organization_id"`
	Name           string    `gorm:"not null;uniqueIndex:idx_financial_categories_key" json:"name"`
	Type           string    `gorm:"not null;uniqueIndex:idx_financial_categories_key" json:"type"` // income, expense
	ParentID       *uint     `gorm:"index" json:"parent_id"`
	Color          *string   `json:"color"`
	Description    *string   `json:"description"`
	Active         bool      `gorm:"not null" json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FinancialTransaction rows are an append-only ledger.
type FinancialTransaction struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrganizationID uint      `gorm:"not null;index" json:"organization_id"`
	Description    string    `gorm:"not null" json:"description"`
	Amount         float64   `gorm:"not null" json:"amount"`
	Type           string    `gorm:"not null" json:"type"` // income, expense
	Date           time.Time `gorm:"not null;index" json:"date"`
	CategoryID     *uint     `gorm:"index" json:"category_id"`
	CostCenterID   *uint     `gorm:"index" json:"cost_center_id"`
	Status         string    `gorm:"not null" json:"status"`
	PaymentMethod  *string   `json:"payment_method"`
	Reference      *string   `json:"reference"`
	Notes          *string   `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
