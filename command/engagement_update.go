package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-crm/audit"
	"github.com/goliatone/go-crm/pkg/types"
	"github.com/goliatone/go-crm/scope"
	"github.com/google/uuid"
)

// EngagementUpdateInput captures a partial engagement update.
type EngagementUpdateInput struct {
	ID     uuid.UUID
	Patch  types.EngagementPatch
	Actor  types.ActorRef
	Result *types.Engagement
}

// Type implements gocommand.Message.
func (EngagementUpdateInput) Type() string {
	return "command.engagement.update"
}

// Validate implements gocommand.Message.
func (input EngagementUpdateInput) Validate() error {
	if input.ID == uuid.Nil {
		return ErrEngagementIDRequired
	}
	return nil
}

// EngagementUpdateCommand applies partial updates and logs alterations when
// at least one field actually changed.
type EngagementUpdateCommand struct {
	repo   types.EngagementRepository
	clock  types.Clock
	sink   types.AuditSink
	hooks  types.Hooks
	logger types.Logger
	guard  scope.Guard
}

// EngagementUpdateCommandConfig wires dependencies for the update command.
type EngagementUpdateCommandConfig struct {
	Repository types.EngagementRepository
	Clock      types.Clock
	Audit      types.AuditSink
	Hooks      types.Hooks
	Logger     types.Logger
	ScopeGuard scope.Guard
}

// NewEngagementUpdateCommand constructs the update handler.
func NewEngagementUpdateCommand(cfg EngagementUpdateCommandConfig) *EngagementUpdateCommand {
	return &EngagementUpdateCommand{
		repo:   cfg.Repository,
		clock:  safeClock(cfg.Clock),
		sink:   cfg.Audit,
		hooks:  safeHooks(cfg.Hooks),
		logger: safeLogger(cfg.Logger),
		guard:  safeScopeGuard(cfg.ScopeGuard),
	}
}

var _ gocommand.Commander[EngagementUpdateInput] = (*EngagementUpdateCommand)(nil)

// Execute updates the engagement and logs the before/after states.
func (c *EngagementUpdateCommand) Execute(ctx context.Context, input EngagementUpdateInput) error {
	if c.repo == nil {
		return types.ErrMissingEngagementRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}
	if _, err := c.guard.Enforce(ctx, input.Actor, types.PolicyActionEngagementsWrite, input.ID); err != nil {
		return err
	}

	prior, err := c.repo.GetEngagement(ctx, input.Actor, input.ID)
	if err != nil {
		return err
	}
	priorSnapshot := audit.EngagementSnapshot(*prior)

	updated, err := c.repo.UpdateEngagement(ctx, input.Actor, input.ID, input.Patch)
	if err != nil {
		return err
	}
	newSnapshot := audit.EngagementSnapshot(*updated)

	if audit.Changed(priorSnapshot, newSnapshot) {
		entry := types.AuditEntry{
			EntityType:  types.EntityTypeEngagement,
			EntityID:    updated.ID,
			ActorID:     input.Actor.ID,
			TenantID:    updated.TenantID,
			Kind:        types.OperationAlteration,
			Description: audit.Describe(types.OperationAlteration, types.EntityTypeEngagement, input.Actor.Name),
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
