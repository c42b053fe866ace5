package importer

import (
	"context"
	"strings"

	"orgmanager-backend/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultOrganizationStatus = "pending"
	defaultPlanID             = 1
)

type organizationHandler struct{}

var organizationSchema = newSchema(
	[]string{
		"name", "type", "cnpj", "email", "phone", "address", "city", "state",
		"zip_code", "website", "admin_name", "description", "status",
	},
	"plan_id",
)

func (organizationHandler) kind() EntityType             { return Organizations }
func (organizationHandler) policy() writePolicy          { return policyUpsert }
func (organizationHandler) schema() fieldSchema          { return organizationSchema }
func (organizationHandler) naturalKey(rec Record) string { return rec.keyString("name") }

func (organizationHandler) process(ctx context.Context, tx *gorm.DB, rec Record, row *rowContext) (writeAction, error) {
	p := parse(rec)
	name := p.requireString("name")
	planID := p.idOr("plan_id", defaultPlanID)
	if p.err != nil {
		return "", p.err
	}

	var org models.Organization
	found, err := findOne(tx, &org, "name = ?", name)
	if err != nil {
		return "", err
	}

	org.Name = name
	org.Type = p.optString("type")
	org.CNPJ = p.optString("cnpj")
	org.Email = p.optString("email")
	org.Phone = p.optString("phone")
	org.Address = p.optString("address")
	org.City = p.optString("city")
	org.State = p.optString("state")
	org.ZipCode = p.optString("zip_code")
	org.Website = p.optString("website")
	org.AdminName = p.optString("admin_name")
	org.Description = p.optString("description")
	org.Status = p.lowerOr("status", defaultOrganizationStatus)
	org.PlanID = planID

	return write(tx, found, &org, "organization")
}

var userRoles = []string{"admin", "org_admin", "doctor", "patient", "user"}

type userHandler struct{}

var userSchema = newSchema(
	[]string{"email", "name", "role", "password", "username", "status", "phone"},
	"organization_id",
)

func (userHandler) kind() EntityType    { return Users }
func (userHandler) policy() writePolicy { return policyUpsert }
func (userHandler) schema() fieldSchema { return userSchema }
func (userHandler) naturalKey(rec Record) string {
	return strings.ToLower(rec.keyString("email"))
}

func (userHandler) process(ctx context.Context, tx *gorm.DB, rec Record, row *rowContext) (writeAction, error) {
	p := parse(rec)
	email := strings.ToLower(p.requireString("email"))
	name := p.requireString("name")
	role := p.oneOf("role", p.stringOr("role", "user"), userRoles...)
	orgID := p.optID("organization_id")
	if p.err != nil {
		return "", p.err
	}
	if !strings.Contains(email, "@") {
		return "", invalidRow("invalid value for email: %q", email)
	}
	if orgID != nil {
		if err := ensureOrganization(tx, *orgID); err != nil {
			return "", err
		}
	}

	var user models.User
	found, err := findOne(tx, &user, "email = ?", email)
	if err != nil {
		return "", err
	}

	generated := false
	password := p.optString("password")
	if password == nil && !found {
		tmp := uuid.NewString()
		password = &tmp
		generated = true
	}
	if password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
		if err != nil {
			return "", invalidField("password", "***", err)
		}
		user.Password = string(hashed)
	}

	user.Email = email
	user.Name = name
	user.Username = p.optString("username")
	user.Role = role
	user.Status = p.lowerOr("status", "active")
	user.Phone = p.optString("phone")
	user.OrganizationID = orgID

	action, err := write(tx, found, &user, "user")
	if err == nil && generated {
		row.warn("user %s created with a generated password; a password reset is required", email)
	}
	return action, err
}

type moduleHandler struct{}

var moduleSchema = newSchema(
	[]string{"name", "slug", "description", "category"},
	"price", "active", "organization_id",
)

func (moduleHandler) kind() EntityType             { return Modules }
func (moduleHandler) policy() writePolicy          { return policyUpsert }
func (moduleHandler) schema() fieldSchema          { return moduleSchema }
func (moduleHandler) naturalKey(rec Record) string { return rec.keyString("name") }

// process upserts the module definition, then links it to the organization
// when one is given. An existing link is left untouched.
func (moduleHandler) process(ctx context.Context, tx *gorm.DB, rec Record, row *rowContext) (writeAction, error) {
	p := parse(rec)
	name := p.requireString("name")
	price := p.floatOr("price", 0)
	active := p.boolOr("active", true)
	orgID := p.optID("organization_id")
	if p.err != nil {
		return "", p.err
	}
	if orgID != nil {
		if err := ensureOrganization(tx, *orgID); err != nil {
			return "", err
		}
	}

	var module models.Module
	found, err := findOne(tx, &module, "name = ?", name)
	if err != nil {
		return "", err
	}

	module.Name = name
	module.Slug = p.optString("slug")
	module.Description = p.optString("description")
	module.Category = p.optString("category")
	module.Price = price
	module.Active = active

	action, err := write(tx, found, &module, "module")
	if err != nil || orgID == nil {
		return action, err
	}

	link := models.OrganizationModule{OrganizationID: *orgID, ModuleID: module.ID, Active: true}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
		return "", persistenceFailed("failed to link module to organization", err)
	}
	return action, nil
}
