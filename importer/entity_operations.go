package importer

import (
	"context"

	"orgmanager-backend/models"

	"gorm.io/gorm"
)

type plantHandler struct{}

var plantSchema = newSchema(
	[]string{"code", "strain", "stage", "location", "status", "notes"},
	"organization_id", "planted_at",
)

func (plantHandler) kind() EntityType             { return Plants }
func (plantHandler) policy() writePolicy          { return policyUpsert }
func (plantHandler) schema() fieldSchema          { return plantSchema }
func (plantHandler) naturalKey(rec Record) string { return scopedKey(rec, "code") }

func (plantHandler) process(ctx context.Context, tx *gorm.DB, rec Record, row *rowContext) (writeAction, error) {
	p := parse(rec)
	code := p.requireString("code")
	strain := p.requireString("strain")
	orgID := p.requireID("organization_id")
	plantedAt := p.optTime("planted_at")
	if p.err != nil {
		return "", p.err
	}
	if err := ensureOrganization(tx, orgID); err != nil {
		return "", err
	}

	var plant models.Plant
	found, err := findOne(tx, &plant, "code = ? AND organization_id = ?", code, orgID)
	if err != nil {
		return "", err
	}

	plant.OrganizationID = orgID
	plant.Code = code
	plant.Strain = strain
	plant.Stage = p.lowerOr("stage", "seedling")
	plant.PlantedAt = plantedAt
	plant.Location = p.optString("location")
	plant.Status = p.lowerOr("status", "active")
	plant.Notes = p.optString("notes")

	return write(tx, found, &plant, "plant")
}

type productHandler struct{}

var productSchema = newSchema(
	[]string{"sku", "name", "description", "category", "unit", "status"},
	"organization_id", "price", "cost", "stock", "thc_content", "cbd_content",
)

func (productHandler) kind() EntityType             { return Products }
func (productHandler) policy() writePolicy          { return policyUpsert }
func (productHandler) schema() fieldSchema          { return productSchema }
func (productHandler) naturalKey(rec Record) string { return scopedKey(rec, "sku") }

func (productHandler) process(ctx context.Context, tx *gorm.DB, rec Record, row *rowContext) (writeAction, error) {
	p := parse(rec)
	name := p.requireString("name")
	sku := p.requireString("sku")
	orgID := p.requireID("organization_id")
	price := p.floatOr("price", 0)
	cost := p.optFloat("cost")
	stock := p.intOr("stock", 0)
	thc := p.optFloat("thc_content")
	cbd := p.optFloat("cbd_content")
	if p.err != nil {
		return "", p.err
	}
	if price < 0 {
		return "", invalidRow("invalid value for price: %v", price)
	}
	if err := ensureOrganization(tx, orgID); err != nil {
		return "", err
	}

	var product models.Product
	found, err := findOne(tx, &product, "sku = ? AND organization_id = ?", sku, orgID)
	if err != nil {
		return "", err
	}

	product.OrganizationID = orgID
	product.SKU = sku
	product.Name = name
	product.Description = p.optString("description")
	product.Category = p.optString("category")
	product.Price = price
	product.Cost = cost
	product.Stock = stock
	product.Unit = p.stringOr("unit", "un")
	product.THCContent = thc
	product.CBDContent = cbd
	product.Status = p.lowerOr("status", "active")

	return write(tx, found, &product, "product")
}
