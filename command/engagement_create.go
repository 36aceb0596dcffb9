package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-crm/audit"
	"github.com/goliatone/go-crm/pkg/types"
	"github.com/goliatone/go-crm/scope"
	"github.com/google/uuid"
)

// EngagementCreateInput captures the payload for engagement creation.
type EngagementCreateInput struct {
	Engagement types.Engagement
	Actor      types.ActorRef
	Result     *types.Engagement
}

// Type implements gocommand.Message.
func (EngagementCreateInput) Type() string {
	return "command.engagement.create"
}

// Validate implements gocommand.Message.
func (input EngagementCreateInput) Validate() error {
	switch {
	case input.Engagement.Date.IsZero():
		return ErrEngagementDateRequired
	case input.Engagement.CompanyID == uuid.Nil:
		return ErrEngagementCompanyRequired
	default:
		return nil
	}
}

// EngagementCreateCommand creates engagements and records the creation trail.
type EngagementCreateCommand struct {
	repo   types.EngagementRepository
	clock  types.Clock
	sink   types.AuditSink
	hooks  types.Hooks
	logger types.Logger
	guard  scope.Guard
}

// EngagementCreateCommandConfig wires dependencies for the create command.
type EngagementCreateCommandConfig struct {
	Repository types.EngagementRepository
	Clock      types.Clock
	Audit      types.AuditSink
	Hooks      types.Hooks
	Logger     types.Logger
	ScopeGuard scope.Guard
}

// NewEngagementCreateCommand constructs the create handler.
func NewEngagementCreateCommand(cfg EngagementCreateCommandConfig) *EngagementCreateCommand {
	return &EngagementCreateCommand{
		repo:   cfg.Repository,
		clock:  safeClock(cfg.Clock),
		sink:   cfg.Audit,
		hooks:  safeHooks(cfg.Hooks),
		logger: safeLogger(cfg.Logger),
		guard:  safeScopeGuard(cfg.ScopeGuard),
	}
}

var _ gocommand.Commander[EngagementCreateInput] = (*EngagementCreateCommand)(nil)

// Execute creates the engagement and logs the creation.
func (c *EngagementCreateCommand) Execute(ctx context.Context, input EngagementCreateInput) error {
	if c.repo == nil {
		return types.ErrMissingEngagementRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}
	if _, err := c.guard.Enforce(ctx, input.Actor, types.PolicyActionEngagementsWrite, uuid.Nil); err != nil {
		return err
	}

	created, err := c.repo.CreateEngagement(ctx, input.Actor, input.Engagement)
	if err != nil {
		return err
	}

	entry := types.AuditEntry{
		EntityType:  types.EntityTypeEngagement,
		EntityID:    created.ID,
		ActorID:     input.Actor.ID,
		TenantID:    created.TenantID,
		Kind:        types.OperationCreation,
		Description: audit.Describe(types.OperationCreation, types.EntityTypeEngagement, input.Actor.Name),
		New:         audit.EngagementSnapshot(*created),
		CreatedAt:   now(c.clock),
	}
	recordAudit(ctx, c.sink, entry)
	emitAuditHook(ctx, c.hooks, entry)

	if input.Result != nil {
		*input.Result = *created
	}
	return nil
}
