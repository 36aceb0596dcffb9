package command

import (
	"context"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-crm/audit"
	"github.com/goliatone/go-crm/pkg/types"
	"github.com/goliatone/go-crm/scope"
	"github.com/google/uuid"
)

// CompanyCreateInput captures the payload for company creation.
type CompanyCreateInput struct {
	Company types.Company
	Actor   types.ActorRef
	Result  *types.Company
}

// Type implements gocommand.Message.
func (CompanyCreateInput) Type() string {
	return "command.company.create"
}

// Validate implements gocommand.Message.
func (input CompanyCreateInput) Validate() error {
	if strings.TrimSpace(input.Company.Name) == "" {
		return ErrCompanyNameRequired
	}
	return nil
}

// CompanyCreateCommand creates companies and records the creation trail.
type CompanyCreateCommand struct {
	repo   types.CompanyRepository
	clock  types.Clock
	sink   types.AuditSink
	hooks  types.Hooks
	logger types.Logger
	guard  scope.Guard
}

// CompanyCreateCommandConfig wires dependencies for the create command.
type CompanyCreateCommandConfig struct {
	Repository types.CompanyRepository
	Clock      types.Clock
	Audit      types.AuditSink
	Hooks      types.Hooks
	Logger     types.Logger
	ScopeGuard scope.Guard
}

// NewCompanyCreateCommand constructs the create handler.
func NewCompanyCreateCommand(cfg CompanyCreateCommandConfig) *CompanyCreateCommand {
	return &CompanyCreateCommand{
		repo:   cfg.Repository,
		clock:  safeClock(cfg.Clock),
		sink:   cfg.Audit,
		hooks:  safeHooks(cfg.Hooks),
		logger: safeLogger(cfg.Logger),
		guard:  safeScopeGuard(cfg.ScopeGuard),
	}
}

var _ gocommand.Commander[CompanyCreateInput] = (*CompanyCreateCommand)(nil)

// Execute creates the company and logs the creation.
func (c *CompanyCreateCommand) Execute(ctx context.Context, input CompanyCreateInput) error {
	if c.repo == nil {
		return types.ErrMissingCompanyRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}
	if _, err := c.guard.Enforce(ctx, input.Actor, types.PolicyActionCompaniesWrite, uuid.Nil); err != nil {
		return err
	}

	created, err := c.repo.CreateCompany(ctx, input.Actor, input.Company)
	if err != nil {
		return err
	}

	entry := types.AuditEntry{
		EntityType:  types.EntityTypeCompany,
		EntityID:    created.ID,
		ActorID:     input.Actor.ID,
		TenantID:    created.TenantID,
		Kind:        types.OperationCreation,
		Description: audit.Describe(types.OperationCreation, types.EntityTypeCompany, input.Actor.Name),
		New:         audit.CompanySnapshot(*created),
		CreatedAt:   now(c.clock),
	}
	recordAudit(ctx, c.sink, entry)
	emitAuditHook(ctx, c.hooks, entry)

	if input.Result != nil {
		*input.Result = *created
	}
	return nil
}
