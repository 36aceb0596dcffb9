package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-crm/audit"
	"github.com/goliatone/go-crm/pkg/types"
	"github.com/goliatone/go-crm/scope"
	"github.com/google/uuid"
)

// CompanyUpdateInput captures a partial company update.
type CompanyUpdateInput struct {
	ID     uuid.UUID
	Patch  types.CompanyPatch
	Actor  types.ActorRef
	Result *types.Company
}

// Type implements gocommand.Message.
func (CompanyUpdateInput) Type() string {
	return "command.company.update"
}

// Validate implements gocommand.Message.
func (input CompanyUpdateInput) Validate() error {
	if input.ID == uuid.Nil {
		return ErrCompanyIDRequired
	}
	return nil
}

// CompanyUpdateCommand applies partial updates and logs alterations when at
// least one field actually changed.
type CompanyUpdateCommand struct {
	repo   types.CompanyRepository
	clock  types.Clock
	sink   types.AuditSink
	hooks  types.Hooks
	logger types.Logger
	guard  scope.Guard
}

// CompanyUpdateCommandConfig wires dependencies for the update command.
type CompanyUpdateCommandConfig struct {
	Repository types.CompanyRepository
	Clock      types.Clock
	Audit      types.AuditSink
	Hooks      types.Hooks
	Logger     types.Logger
	ScopeGuard scope.Guard
}

// NewCompanyUpdateCommand constructs the update handler.
func NewCompanyUpdateCommand(cfg CompanyUpdateCommandConfig) *CompanyUpdateCommand {
	return &CompanyUpdateCommand{
		repo:   cfg.Repository,
		clock:  safeClock(cfg.Clock),
		sink:   cfg.Audit,
		hooks:  safeHooks(cfg.Hooks),
		logger: safeLogger(cfg.Logger),
		guard:  safeScopeGuard(cfg.ScopeGuard),
	}
}

var _ gocommand.Commander[CompanyUpdateInput] = (*CompanyUpdateCommand)(nil)

// Execute updates the company and logs the before/after states.
func (c *CompanyUpdateCommand) Execute(ctx context.Context, input CompanyUpdateInput) error {
	if c.repo == nil {
		return types.ErrMissingCompanyRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}
	if _, err := c.guard.Enforce(ctx, input.Actor, types.PolicyActionCompaniesWrite, input.ID); err != nil {
		return err
	}

	prior, err := c.repo.GetCompany(ctx, input.Actor, input.ID)
	if err != nil {
		return err
	}
	priorSnapshot := audit.CompanySnapshot(*prior)

	updated, err := c.repo.UpdateCompany(ctx, input.Actor, input.ID, input.Patch)
	if err != nil {
		return err
	}
	newSnapshot := audit.CompanySnapshot(*updated)

	if audit.Changed(priorSnapshot, newSnapshot) {
		entry := types.AuditEntry{
			EntityType:  types.EntityTypeCompany,
			EntityID:    updated.ID,
			ActorID:     input.Actor.ID,
			TenantID:    updated.TenantID,
			Kind:        types.OperationAlteration,
			Description: audit.Describe(types.OperationAlteration, types.EntityTypeCompany, input.Actor.Name),
			Prior:       priorSnapshot,
			New:         newSnapshot,
			CreatedAt:   now(c.clock),
		}
		recordAudit(ctx, c.sink, entry)
		emitAuditHook(ctx, c.hooks, entry)
	}

	if input.Result != nil {
		*input.Result = *updated
	}
	return nil
}
