package types

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EntityStatus enumerates the lifecycle states shared by companies and
// contacts. There is no soft-delete tier; deletion is always hard.
type EntityStatus string

const (
	EntityStatusActive   EntityStatus = "active"
	EntityStatusInactive EntityStatus = "inactive"
)

// Tenant represents an isolated customer organization.
type Tenant struct {
	ID          uuid.UUID
	Name        string
	TaxID       string
	Address     string
	Phone       string
	Email       string
	Active      bool
	TrialEndsAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Company is the top-level CRM entity (a customer/prospect organization).
// TenantID of uuid.Nil marks a shared/global row visible to every tenant.
type Company struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	Name       string
	Address    string
	PostalCode string
	Locality   string
	Country    string
	Phone      string
	Email      string
	Website    string
	Notes      string
	Status     EntityStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Contact is a person attached to a company.
type Contact struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	FirstName string
	LastName  string
	CompanyID uuid.UUID
	RoleID    uuid.UUID
	Phone     string
	Mobile    string
	Email     string
	Notes     string
	Status    EntityStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName joins first and last name for display.
func (c Contact) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// Engagement is a calendar activity (call, meeting, visit) tied to a company
// and optionally one of its contacts.
type Engagement struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Date      time.Time
	StartTime string
	Duration  int
	CompanyID uuid.UUID
	ContactID uuid.UUID
	TypeID    uuid.UUID
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FormattedDuration renders the duration in minutes as "1h 30m" style text.
func (e Engagement) FormattedDuration() string {
	if e.Duration <= 0 {
		return "0h"
	}
	hours := e.Duration / 60
	minutes := e.Duration % 60
	switch {
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// DealStage enumerates the pipeline stages a deal moves through.
type DealStage string

const (
	DealStageNew         DealStage = "new"
	DealStageContacted   DealStage = "contacted"
	DealStageNegotiating DealStage = "negotiating"
	DealStageProposal    DealStage = "proposal"
	DealStageWon         DealStage = "won"
	DealStageLost        DealStage = "lost"
)

// DealStages lists every pipeline stage in board order.
var DealStages = []DealStage{
	DealStageNew,
	DealStageContacted,
	DealStageNegotiating,
	DealStageProposal,
	DealStageWon,
	DealStageLost,
}

// ValidDealStage reports whether the stage belongs to the pipeline.
func ValidDealStage(stage DealStage) bool {
	for _, s := range DealStages {
		if s == stage {
			return true
		}
	}
	return false
}

// Deal is a sales opportunity (negócio) against a company.
type Deal struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	Name       string
	TypeID     uuid.UUID
	CompanyID  uuid.UUID
	Value      float64
	Stage      DealStage
	ContactIDs []uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// LookupEntry is the shared shape of tenant-scoped lookup tables
// (engagement types, deal types, contact roles).
type LookupEntry struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Name      string
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CompanyPatch represents partial updates applied to a company. Nil fields are
// left untouched; a non-nil TenantID is subject to the assignment guard.
type CompanyPatch struct {
	Name       *string
	Address    *string
	PostalCode *string
	Locality   *string
	Country    *string
	Phone      *string
	Email      *string
	Website    *string
	Notes      *string
	Status     *EntityStatus
	TenantID   *uuid.UUID
}

// ContactPatch represents partial updates applied to a contact.
type ContactPatch struct {
	FirstName *string
	LastName  *string
	CompanyID *uuid.UUID
	RoleID    *uuid.UUID
	Phone     *string
	Mobile    *string
	Email     *string
	Notes     *string
	Status    *EntityStatus
	TenantID  *uuid.UUID
}

// EngagementPatch represents partial updates applied to an engagement.
type EngagementPatch struct {
	Date      *time.Time
	StartTime *string
	Duration  *int
	CompanyID *uuid.UUID
	ContactID *uuid.UUID
	TypeID    *uuid.UUID
	Notes     *string
	TenantID  *uuid.UUID
}

// DealPatch represents partial updates applied to a deal. ContactIDs, when
// non-nil, replaces the linked contact set (sync semantics).
type DealPatch struct {
	Name       *string
	TypeID     *uuid.UUID
	CompanyID  *uuid.UUID
	Value      *float64
	Stage      *DealStage
	ContactIDs []uuid.UUID
	TenantID   *uuid.UUID
}

// CompanyFilter narrows company listings. The actor is mandatory input for
// scope resolution; uuid.Nil actor means unauthenticated.
type CompanyFilter struct {
	Actor      ActorRef
	Keyword    string
	Status     EntityStatus
	Country    string
	Pagination Pagination
}

// Type implements gocommand.Message for query inputs.
func (CompanyFilter) Type() string {
	return "query.company.list"
}

// Validate implements gocommand.Message.
func (CompanyFilter) Validate() error { return nil }

// CompanyPage represents a paginated company listing.
type CompanyPage struct {
	Companies  []Company
	Total      int
	NextOffset int
	HasMore    bool
}

// ContactFilter narrows contact listings.
type ContactFilter struct {
	Actor      ActorRef
	CompanyID  uuid.UUID
	RoleID     uuid.UUID
	Keyword    string
	Status     EntityStatus
	Pagination Pagination
}

// Type implements gocommand.Message for query inputs.
func (ContactFilter) Type() string {
	return "query.contact.list"
}

// Validate implements gocommand.Message.
func (ContactFilter) Validate() error { return nil }

// ContactPage represents a paginated contact listing.
type ContactPage struct {
	Contacts   []Contact
	Total      int
	NextOffset int
	HasMore    bool
}

// EngagementFilter narrows engagement listings (calendar views).
type EngagementFilter struct {
	Actor      ActorRef
	CompanyID  uuid.UUID
	ContactID  uuid.UUID
	TypeID     uuid.UUID
	From       *time.Time
	Until      *time.Time
	Pagination Pagination
}

// Type implements gocommand.Message for query inputs.
func (EngagementFilter) Type() string {
	return "query.engagement.list"
}

// Validate implements gocommand.Message.
func (EngagementFilter) Validate() error { return nil }

// EngagementPage represents a paginated engagement listing.
type EngagementPage struct {
	Engagements []Engagement
	Total       int
	NextOffset  int
	HasMore     bool
}

// DealFilter narrows deal listings (pipeline/kanban views).
type DealFilter struct {
	Actor      ActorRef
	CompanyID  uuid.UUID
	TypeID     uuid.UUID
	Stage      DealStage
	Keyword    string
	Pagination Pagination
}

// Type implements gocommand.Message for query inputs.
func (DealFilter) Type() string {
	return "query.deal.list"
}

// Validate implements gocommand.Message.
func (DealFilter) Validate() error { return nil }

// DealPage represents a paginated deal listing.
type DealPage struct {
	Deals      []Deal
	Total      int
	NextOffset int
	HasMore    bool
}

// CompanyRepository persists companies with tenant scoping applied to reads
// and the assignment guard applied to writes.
type CompanyRepository interface {
	GetCompany(ctx context.Context, actor ActorRef, id uuid.UUID) (*Company, error)
	ListCompanies(ctx context.Context, filter CompanyFilter) (CompanyPage, error)
	CreateCompany(ctx context.Context, actor ActorRef, company Company) (*Company, error)
	UpdateCompany(ctx context.Context, actor ActorRef, id uuid.UUID, patch CompanyPatch) (*Company, error)
}

// ContactRepository persists contacts.
type ContactRepository interface {
	GetContact(ctx context.Context, actor ActorRef, id uuid.UUID) (*Contact, error)
	ListContacts(ctx context.Context, filter ContactFilter) (ContactPage, error)
	CreateContact(ctx context.Context, actor ActorRef, contact Contact) (*Contact, error)
	UpdateContact(ctx context.Context, actor ActorRef, id uuid.UUID, patch ContactPatch) (*Contact, error)
}

// EngagementRepository persists engagements.
type EngagementRepository interface {
	GetEngagement(ctx context.Context, actor ActorRef, id uuid.UUID) (*Engagement, error)
	ListEngagements(ctx context.Context, filter EngagementFilter) (EngagementPage, error)
	CreateEngagement(ctx context.Context, actor ActorRef, engagement Engagement) (*Engagement, error)
	UpdateEngagement(ctx context.Context, actor ActorRef, id uuid.UUID, patch EngagementPatch) (*Engagement, error)
}

// DealRepository persists deals and their contact links.
type DealRepository interface {
	GetDeal(ctx context.Context, actor ActorRef, id uuid.UUID) (*Deal, error)
	ListDeals(ctx context.Context, filter DealFilter) (DealPage, error)
	CreateDeal(ctx context.Context, actor ActorRef, deal Deal) (*Deal, error)
	UpdateDeal(ctx context.Context, actor ActorRef, id uuid.UUID, patch DealPatch) (*Deal, error)
}

// LookupKind discriminates the lookup tables sharing LookupEntry.
type LookupKind string

const (
	LookupKindEngagementType LookupKind = "engagement_type"
	LookupKindDealType       LookupKind = "deal_type"
	LookupKindContactRole    LookupKind = "contact_role"
)

// ValidLookupKind reports whether kind names one of the lookup tables.
func ValidLookupKind(kind LookupKind) bool {
	switch kind {
	case LookupKindEngagementType, LookupKindDealType, LookupKindContactRole:
		return true
	}
	return false
}

// LookupRepository exposes read/write access to tenant-scoped lookup tables.
type LookupRepository interface {
	ListLookup(ctx context.Context, actor ActorRef, kind LookupKind) ([]LookupEntry, error)
	CreateLookup(ctx context.Context, actor ActorRef, kind LookupKind, entry LookupEntry) (*LookupEntry, error)
}

// TenantRepository manages tenant records. Tenants sit above the scoping
// rule; callers restrict these operations to admins.
type TenantRepository interface {
	GetTenant(ctx context.Context, id uuid.UUID) (*Tenant, error)
	ListTenants(ctx context.Context) ([]Tenant, error)
	CreateTenant(ctx context.Context, tenant Tenant) (*Tenant, error)
}
