package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-crm/audit"
	"github.com/goliatone/go-crm/pkg/types"
	"github.com/goliatone/go-crm/scope"
	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/google/uuid"
)

// DealUpdateInput captures a partial deal update.
type DealUpdateInput struct {
	ID     uuid.UUID
	Patch  types.DealPatch
	Actor  types.ActorRef
	Result *types.Deal
}

// Type implements gocommand.Message.
func (DealUpdateInput) Type() string {
	return "command.deal.update"
}

// Validate implements gocommand.Message.
func (input DealUpdateInput) Validate() error {
	if input.ID == uuid.Nil {
		return ErrDealIDRequired
	}
	if input.Patch.Stage != nil && !types.ValidDealStage(*input.Patch.Stage) {
		return ErrInvalidDealStage
	}
	return nil
}

// DealUpdateCommand applies partial updates, including contact link syncs,
// and logs alterations when at least one field actually changed.
type DealUpdateCommand struct {
	repo   types.DealRepository
	clock  types.Clock
	sink   types.AuditSink
	hooks  types.Hooks
	logger types.Logger
	guard  scope.Guard
	gate   featuregate.FeatureGate
	policy types.StagePolicy
}

// DealUpdateCommandConfig wires dependencies for the update command.
type DealUpdateCommandConfig struct {
	Repository  types.DealRepository
	Clock       types.Clock
	Audit       types.AuditSink
	Hooks       types.Hooks
	Logger      types.Logger
	ScopeGuard  scope.Guard
	FeatureGate featuregate.FeatureGate
	StagePolicy types.StagePolicy
}

// NewDealUpdateCommand constructs the update handler.
func NewDealUpdateCommand(cfg DealUpdateCommandConfig) *DealUpdateCommand {
	policy := cfg.StagePolicy
	if policy == nil {
		policy = types.DefaultStagePolicy()
	}
	return &DealUpdateCommand{
		repo:   cfg.Repository,
		clock:  safeClock(cfg.Clock),
		sink:   cfg.Audit,
		hooks:  safeHooks(cfg.Hooks),
		logger: safeLogger(cfg.Logger),
		guard:  safeScopeGuard(cfg.ScopeGuard),
		gate:   cfg.FeatureGate,
		policy: policy,
	}
}

var _ gocommand.Commander[DealUpdateInput] = (*DealUpdateCommand)(nil)

// Execute updates the deal and logs the before/after states. Stage changes go
// through the stage policy and emit the pipeline hook.
func (c *DealUpdateCommand) Execute(ctx context.Context, input DealUpdateInput) error {
	if c.repo == nil {
		return types.ErrMissingDealRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}
	enabled, err := featureEnabled(ctx, c.gate, featureDeals, input.Actor)
	if err != nil {
		return err
	}
	if !enabled {
		return ErrDealsDisabled
	}
	if _, err := c.guard.Enforce(ctx, input.Actor, types.PolicyActionDealsWrite, input.ID); err != nil {
		return err
	}

	prior, err := c.repo.GetDeal(ctx, input.Actor, input.ID)
	if err != nil {
		return err
	}
	if input.Patch.Stage != nil && *input.Patch.Stage != prior.Stage {
		if err := c.policy.Validate(prior.Stage, *input.Patch.Stage); err != nil {
			return err
		}
	}
	priorSnapshot := audit.DealSnapshot(*prior)

	updated, err := c.repo.UpdateDeal(ctx, input.Actor, input.ID, input.Patch)
	if err != nil {
		return err
	}
	newSnapshot := audit.DealSnapshot(*updated)

	if audit.Changed(priorSnapshot, newSnapshot) {
		entry := types.AuditEntry{
			EntityType:  types.EntityTypeDeal,
			EntityID:    updated.ID,
			ActorID:     input.Actor.ID,
			TenantID:    updated.TenantID,
			Kind:        types.OperationAlteration,
			Description: audit.Describe(types.OperationAlteration, types.EntityTypeDeal, input.Actor.Name),
			Prior:       priorSnapshot,
			New:         newSnapshot,
			CreatedAt:   now(c.clock),
		}
		recordAudit(ctx, c.sink, entry)
		emitAuditHook(ctx, c.hooks, entry)
	}

	if updated.Stage != prior.Stage {
		emitDealStageHook(ctx, c.hooks, types.DealStageEvent{
			DealID:     updated.ID,
			ActorID:    input.Actor.ID,
			TenantID:   updated.TenantID,
			FromStage:  prior.Stage,
			ToStage:    updated.Stage,
			OccurredAt: now(c.clock),
		})
	}

	if input.Result != nil {
		*input.Result = *updated
	}
	return nil
}
