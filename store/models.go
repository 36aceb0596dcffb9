package store

import (
	"time"

	"github.com/goliatone/go-crm/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Bun models for the CRM schema. Scoped tables carry tenant_id with nullzero
// so uuid.Nil round-trips as SQL NULL, which is what marks a shared row.

// TenantModel maps the tenants table.
type TenantModel struct {
	bun.BaseModel `bun:"table:tenants"`

	ID          uuid.UUID  `bun:",pk,type:uuid"`
	Name        string     `bun:"name,notnull"`
	TaxID       string     `bun:"tax_id"`
	Address     string     `bun:"address"`
	Phone       string     `bun:"phone"`
	Email       string     `bun:"email"`
	Active      bool       `bun:"active"`
	TrialEndsAt *time.Time `bun:"trial_ends_at,nullzero"`
	CreatedAt   time.Time  `bun:"created_at,notnull"`
	UpdatedAt   time.Time  `bun:"updated_at,notnull"`
}

// CompanyModel maps the crm_companies table.
type CompanyModel struct {
	bun.BaseModel `bun:"table:crm_companies"`

	ID         uuid.UUID `bun:",pk,type:uuid"`
	TenantID   uuid.UUID `bun:"tenant_id,type:uuid,nullzero"`
	Name       string    `bun:"name,notnull"`
	Address    string    `bun:"address"`
	PostalCode string    `bun:"postal_code"`
	Locality   string    `bun:"locality"`
	Country    string    `bun:"country"`
	Phone      string    `bun:"phone"`
	Email      string    `bun:"email"`
	Website    string    `bun:"website"`
	Notes      string    `bun:"notes"`
	Status     string    `bun:"status"`
	CreatedAt  time.Time `bun:"created_at,notnull"`
	UpdatedAt  time.Time `bun:"updated_at,notnull"`
}

// ContactModel maps the crm_contacts table.
type ContactModel struct {
	bun.BaseModel `bun:"table:crm_contacts"`

	ID        uuid.UUID `bun:",pk,type:uuid"`
	TenantID  uuid.UUID `bun:"tenant_id,type:uuid,nullzero"`
	FirstName string    `bun:"first_name,notnull"`
	LastName  string    `bun:"last_name"`
	CompanyID uuid.UUID `bun:"company_id,type:uuid,nullzero"`
	RoleID    uuid.UUID `bun:"role_id,type:uuid,nullzero"`
	Phone     string    `bun:"phone"`
	Mobile    string    `bun:"mobile"`
	Email     string    `bun:"email"`
	Notes     string    `bun:"notes"`
	Status    string    `bun:"status"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// EngagementModel maps the crm_engagements table.
type EngagementModel struct {
	bun.BaseModel `bun:"table:crm_engagements"`

	ID        uuid.UUID `bun:",pk,type:uuid"`
	TenantID  uuid.UUID `bun:"tenant_id,type:uuid,nullzero"`
	Date      time.Time `bun:"date,notnull"`
	StartTime string    `bun:"start_time"`
	Duration  int       `bun:"duration"`
	CompanyID uuid.UUID `bun:"company_id,type:uuid,nullzero"`
	ContactID uuid.UUID `bun:"contact_id,type:uuid,nullzero"`
	TypeID    uuid.UUID `bun:"type_id,type:uuid,nullzero"`
	Notes     string    `bun:"notes"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// DealModel maps the crm_deals table. Contact links live in DealContactModel.
type DealModel struct {
	bun.BaseModel `bun:"table:crm_deals"`

	ID        uuid.UUID `bun:",pk,type:uuid"`
	TenantID  uuid.UUID `bun:"tenant_id,type:uuid,nullzero"`
	Name      string    `bun:"name,notnull"`
	TypeID    uuid.UUID `bun:"type_id,type:uuid,nullzero"`
	CompanyID uuid.UUID `bun:"company_id,type:uuid,nullzero"`
	Value     float64   `bun:"value"`
	Stage     string    `bun:"stage,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// DealContactModel maps the crm_deal_contacts pivot.
type DealContactModel struct {
	bun.BaseModel `bun:"table:crm_deal_contacts"`

	DealID    uuid.UUID `bun:"deal_id,pk,type:uuid"`
	ContactID uuid.UUID `bun:"contact_id,pk,type:uuid"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}

// LookupModel maps the crm_lookups table shared by every lookup kind.
type LookupModel struct {
	bun.BaseModel `bun:"table:crm_lookups"`

	ID        uuid.UUID `bun:",pk,type:uuid"`
	TenantID  uuid.UUID `bun:"tenant_id,type:uuid,nullzero"`
	Kind      string    `bun:"kind,notnull"`
	Name      string    `bun:"name,notnull"`
	Position  int       `bun:"position"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

func toCompany(model *CompanyModel) *types.Company {
	if model == nil {
		return nil
	}
	return &types.Company{
		ID:         model.ID,
		TenantID:   model.TenantID,
		Name:       model.Name,
		Address:    model.Address,
		PostalCode: model.PostalCode,
		Locality:   model.Locality,
		Country:    model.Country,
		Phone:      model.Phone,
		Email:      model.Email,
		Website:    model.Website,
		Notes:      model.Notes,
		Status:     types.EntityStatus(model.Status),
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

func toContact(model *ContactModel) *types.Contact {
	if model == nil {
		return nil
	}
	return &types.Contact{
		ID:        model.ID,
		TenantID:  model.TenantID,
		FirstName: model.FirstName,
		LastName:  model.LastName,
		CompanyID: model.CompanyID,
		RoleID:    model.RoleID,
		Phone:     model.Phone,
		Mobile:    model.Mobile,
		Email:     model.Email,
		Notes:     model.Notes,
		Status:    types.EntityStatus(model.Status),
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func toEngagement(model *EngagementModel) *types.Engagement {
	if model == nil {
		return nil
	}
	return &types.Engagement{
		ID:        model.ID,
		TenantID:  model.TenantID,
		Date:      model.Date,
		StartTime: model.StartTime,
		Duration:  model.Duration,
		CompanyID: model.CompanyID,
		ContactID: model.ContactID,
		TypeID:    model.TypeID,
		Notes:     model.Notes,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func toDeal(model *DealModel, contactIDs []uuid.UUID) *types.Deal {
	if model == nil {
		return nil
	}
	return &types.Deal{
		ID:         model.ID,
		TenantID:   model.TenantID,
		Name:       model.Name,
		TypeID:     model.TypeID,
		CompanyID:  model.CompanyID,
		Value:      model.Value,
		Stage:      types.DealStage(model.Stage),
		ContactIDs: contactIDs,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

func toLookupEntry(model *LookupModel) *types.LookupEntry {
	if model == nil {
		return nil
	}
	return &types.LookupEntry{
		ID:        model.ID,
		TenantID:  model.TenantID,
		Name:      model.Name,
		Position:  model.Position,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func toTenant(model *TenantModel) *types.Tenant {
	if model == nil {
		return nil
	}
	return &types.Tenant{
		ID:          model.ID,
		Name:        model.Name,
		TaxID:       model.TaxID,
		Address:     model.Address,
		Phone:       model.Phone,
		Email:       model.Email,
		Active:      model.Active,
		TrialEndsAt: model.TrialEndsAt,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}
