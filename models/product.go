package models

import "time"

type Product struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrganizationID uint      `gorm:"not null;uniqueIndex:idx_products_sku_org" json:"organization_id"`
	SKU            string    `gorm:"column:sku;not null;uniqueIndex:idx_products_sku_org" json:"sku"`
	Name           string    `gorm:"not null" json:"name"`
	Description    *string   `json:"description"`
	Category       *string   `gorm:"index" json:"category"`
	Price          float64   `gorm:"not null" json:"price"`
	Cost           *float64  `json:"cost"`
	Stock          int       `gorm:"not null" json:"stock"`
	Unit           string    `gorm:"not null" json:"unit"`
	THCContent     *float64  `gorm:"column:thc_content" json:"thc_content"`
	CBDContent     *float64  `gorm:"column:cbd_content" json:"cbd_content"`
	Status         string    `gorm:"not null;index" json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
