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

// DealStageInput captures a pipeline move (kanban drag).
type DealStageInput struct {
	ID     uuid.UUID
	Stage  types.DealStage
	Actor  types.ActorRef
	Result *types.Deal
}

// Type implements gocommand.Message.
func (DealStageInput) Type() string {
	return "command.deal.stage"
}

// Validate implements gocommand.Message.
func (input DealStageInput) Validate() error {
	if input.ID == uuid.Nil {
		return ErrDealIDRequired
	}
	if !types.ValidDealStage(input.Stage) {
		return ErrInvalidDealStage
	}
	return nil
}

// DealStageCommand moves a deal through the pipeline. It is the dedicated
// handler behind board views; field edits go through DealUpdateCommand.
type DealStageCommand struct {
	repo   types.DealRepository
	clock  types.Clock
	sink   types.AuditSink
	hooks  types.Hooks
	logger types.Logger
	guard  scope.Guard
	gate   featuregate.FeatureGate
	policy types.StagePolicy
}

// DealStageCommandConfig wires dependencies for the stage command.
type DealStageCommandConfig struct {
	Repository  types.DealRepository
	Clock       types.Clock
	Audit       types.AuditSink
	Hooks       types.Hooks
	Logger      types.Logger
	ScopeGuard  scope.Guard
	FeatureGate featuregate.FeatureGate
	StagePolicy types.StagePolicy
}

// NewDealStageCommand constructs the stage handler.
func NewDealStageCommand(cfg DealStageCommandConfig) *DealStageCommand {
	policy := cfg.StagePolicy
	if policy == nil {
		policy = types.DefaultStagePolicy()
	}
	return &DealStageCommand{
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

var _ gocommand.Commander[DealStageInput] = (*DealStageCommand)(nil)

// Execute moves the deal to the requested stage. Same-stage moves are a
// no-op: no update, no log, no hook.
func (c *DealStageCommand) Execute(ctx context.Context, input DealStageInput) error {
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
	if prior.Stage == input.Stage {
		if input.Result != nil {
			*input.Result = *prior
		}
		return nil
	}
	if err := c.policy.Validate(prior.Stage, input.Stage); err != nil {
		return err
	}

	stage := input.Stage
	updated, err := c.repo.UpdateDeal(ctx, input.Actor, input.ID, types.DealPatch{Stage: &stage})
	if err != nil {
		return err
	}

	occurredAt := now(c.clock)
	entry := types.AuditEntry{
		EntityType:  types.EntityTypeDeal,
		EntityID:    updated.ID,
		ActorID:     input.Actor.ID,
		TenantID:    updated.TenantID,
		Kind:        types.OperationAlteration,
		Description: audit.Describe(types.OperationAlteration, types.EntityTypeDeal, input.Actor.Name),
		Prior:       audit.DealSnapshot(*prior),
		New:         audit.DealSnapshot(*updated),
		CreatedAt:   occurredAt,
	}
	recordAudit(ctx, c.sink, entry)
	emitAuditHook(ctx, c.hooks, entry)
	emitDealStageHook(ctx, c.hooks, types.DealStageEvent{
		DealID:     updated.ID,
		ActorID:    input.Actor.ID,
		TenantID:   updated.TenantID,
		FromStage:  prior.Stage,
		ToStage:    updated.Stage,
		OccurredAt: occurredAt,
	})

	if input.Result != nil {
		*input.Result = *updated
	}
	return nil
}
