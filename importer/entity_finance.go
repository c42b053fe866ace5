package importer

import (
	"context"

	"orgmanager-backend/models"

	"gorm.io/gorm"
)

var financialTypes = []string{"income", "expense"}

type costCenterHandler struct{}

var costCenterSchema = newSchema(
	[]string{"code", "name", "description"},
	"organization_id", "parent_id", "budget", "active",
)

func (costCenterHandler) kind() EntityType             { return CostCenters }
func (costCenterHandler) policy() writePolicy          { return policyUpsert }
func (costCenterHandler) schema() fieldSchema          { return costCenterSchema }
func (costCenterHandler) naturalKey(rec Record) string { return scopedKey(rec, "code") }

func (costCenterHandler) process(ctx context.Context, tx *gorm.DB, rec Record, row *rowContext) (writeAction, error) {
	p := parse(rec)
	code := p.requireString("code")
	name := p.requireString("name")
	orgID := p.requireID("organization_id")
	parentID := p.optID("parent_id")
	budget := p.floatOr("budget", 0)
	active := p.boolOr("active", true)
	if p.err != nil {
		return "", p.err
	}
	if err := ensureOrganization(tx, orgID); err != nil {
		return "", err
	}
	if parentID != nil {
		if err := ensureExists(tx, &models.CostCenter{}, "parent cost center", *parentID, &orgID); err != nil {
			return "", err
		}
	}

	var center models.CostCenter
	found, err := findOne(tx, &center, "code = ? AND organization_id = ?", code, orgID)
	if err != nil {
		return "", err
	}
	if found && parentID != nil && *parentID == center.ID {
		return "", invalidRow("cost center %s cannot be its own parent", code)
	}

	center.OrganizationID = orgID
	center.Code = code
	center.Name = name
	center.Description = p.optString("description")
	center.ParentID = parentID
	center.Budget = budget
	center.Active = active

	return write(tx, found, &center, "cost center")
}

type financialCategoryHandler struct{}

var financialCategorySchema = newSchema(
	[]string{"name", "type", "color", "description"},
	"organization_id", "parent_id", "active",
)

func (financialCategoryHandler) kind() EntityType    { return FinancialCategories }
func (financialCategoryHandler) policy() writePolicy { return policyUpsert }
func (financialCategoryHandler) schema() fieldSchema { return financialCategorySchema }
func (financialCategoryHandler) naturalKey(rec Record) string {
	return scopedKey(rec, "name", "type")
}

func (financialCategoryHandler) process(ctx context.Context, tx *gorm.DB, rec Record, row *rowContext) (writeAction, error) {
	p := parse(rec)
	name := p.requireString("name")
	kind := p.oneOf("type", p.requireString("type"), financialTypes...)
	orgID := p.requireID("organization_id")
	parentID := p.optID("parent_id")
	active := p.boolOr("active", true)
	if p.err != nil {
		return "", p.err
	}
	if err := ensureOrganization(tx, orgID); err != nil {
		return "", err
	}
	if parentID != nil {
		if err := ensureExists(tx, &models.FinancialCategory{}, "parent financial category", *parentID, &orgID); err != nil {
			return "", err
		}
	}

	var category models.FinancialCategory
	found, err := findOne(tx, &category, "name = ? AND type = ? AND organization_id = ?", name, kind, orgID)
	if err != nil {
		return "", err
	}

	category.OrganizationID = orgID
	category.Name = name
	category.Type = kind
	category.ParentID = parentID
	category.Color = p.optString("color")
	category.Description = p.optString("description")
	category.Active = active

	return write(tx, found, &category, "financial category")
}

type financialTransactionHandler struct{}

var financialTransactionSchema = newSchema(
	[]string{"description", "type", "status", "payment_method", "reference", "notes"},
	"organization_id", "amount", "date", "category_id", "cost_center_id",
)

func (financialTransactionHandler) kind() EntityType         { return FinancialTransactions }
func (financialTransactionHandler) policy() writePolicy      { return policyAppend }
func (financialTransactionHandler) schema() fieldSchema      { return financialTransactionSchema }
func (financialTransactionHandler) naturalKey(Record) string { return "" }

func (financialTransactionHandler) process(ctx context.Context, tx *gorm.DB, rec Record, row *rowContext) (writeAction, error) {
	p := parse(rec)
	orgID := p.requireID("organization_id")
	description := p.requireString("description")
	amount := p.requireFloat("amount")
	kind := p.oneOf("type", p.requireString("type"), financialTypes...)
	date := p.requireTime("date")
	categoryID := p.optID("category_id")
	costCenterID := p.optID("cost_center_id")
	if p.err != nil {
		return "", p.err
	}
	if err := ensureOrganization(tx, orgID); err != nil {
		return "", err
	}
	if categoryID != nil {
		if err := ensureExists(tx, &models.FinancialCategory{}, "financial category", *categoryID, &orgID); err != nil {
			return "", err
		}
	}
	if costCenterID != nil {
		if err := ensureExists(tx, &models.CostCenter{}, "cost center", *costCenterID, &orgID); err != nil {
			return "", err
		}
	}

	transaction := models.FinancialTransaction{
		OrganizationID: orgID,
		Description:    description,
		Amount:         amount,
		Type:           kind,
		Date:           date,
		CategoryID:     categoryID,
		CostCenterID:   costCenterID,
		Status:         p.lowerOr("status", "pending"),
		PaymentMethod:  p.optString("payment_method"),
		Reference:      p.optString("reference"),
		Notes:          p.optString("notes"),
	}
	return write(tx, false, &transaction, "financial transaction")
}
