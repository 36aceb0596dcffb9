package types

import (
	"fmt"
)

// ErrStageNotAllowed reports that the target pipeline stage is not reachable
// from the current stage according to the configured policy.
var ErrStageNotAllowed = fmt.Errorf("go-crm: deal stage transition not allowed")

// StagePolicy validates deal pipeline moves.
type StagePolicy interface {
	Validate(current, target DealStage) error
	AllowedTargets(current DealStage) []DealStage
}

// FreeStagePolicy allows any move between valid pipeline stages. This matches
// kanban-style boards where cards can be dragged to any column.
type FreeStagePolicy struct{}

// Validate ensures both stages belong to the pipeline.
func (FreeStagePolicy) Validate(current, target DealStage) error {
	if !ValidDealStage(target) {
		return ErrStageNotAllowed
	}
	if current != "" && !ValidDealStage(current) {
		return ErrStageNotAllowed
	}
	return nil
}

// AllowedTargets returns every stage except the current one.
func (FreeStagePolicy) AllowedTargets(current DealStage) []DealStage {
	out := make([]DealStage, 0, len(DealStages))
	for _, stage := range DealStages {
		if stage == current {
			continue
		}
		out = append(out, stage)
	}
	return out
}

// StaticStagePolicy enforces a fixed transition graph for hosts that want a
// forward-only pipeline.
type StaticStagePolicy struct {
	graph map[DealStage]map[DealStage]struct{}
}

// NewStaticStagePolicy creates a policy from a transition graph.
func NewStaticStagePolicy(graph map[DealStage][]DealStage) *StaticStagePolicy {
	internal := make(map[DealStage]map[DealStage]struct{}, len(graph))
	for from, targets := range graph {
		targetSet := make(map[DealStage]struct{}, len(targets))
		for _, to := range targets {
			if to == "" {
				continue
			}
			targetSet[to] = struct{}{}
		}
		internal[from] = targetSet
	}
	return &StaticStagePolicy{graph: internal}
}

// DefaultStagePolicy returns the policy used when hosts do not supply one:
// free movement across the board, matching the original kanban behavior.
func DefaultStagePolicy() StagePolicy {
	return FreeStagePolicy{}
}

// Validate ensures the target is allowed from the current stage.
func (p *StaticStagePolicy) Validate(current, target DealStage) error {
	if current == "" || target == "" {
		return ErrStageNotAllowed
	}
	targets, ok := p.graph[current]
	if !ok {
		return ErrStageNotAllowed
	}
	if _, ok := targets[target]; !ok {
		return ErrStageNotAllowed
	}
	return nil
}

// AllowedTargets returns the slice of valid targets from the provided stage.
func (p *StaticStagePolicy) AllowedTargets(current DealStage) []DealStage {
	targets := p.graph[current]
	if len(targets) == 0 {
		return nil
	}
	out := make([]DealStage, 0, len(targets))
	for _, stage := range DealStages {
		if _, ok := targets[stage]; ok {
			out = append(out, stage)
		}
	}
	return out
}
