package store

import (
	"context"
	"errors"

	"github.com/goliatone/go-crm/pkg/types"
	"github.com/goliatone/go-crm/scope"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// EngagementStoreConfig wires the Bun-backed engagement store.
type EngagementStoreConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*EngagementModel]
	Clock      types.Clock
	IDGen      types.IDGenerator
}

type engagementStore interface {
	repository.Repository[*EngagementModel]
}

// EngagementStore persists engagements.
type EngagementStore struct {
	engagementStore
	clock types.Clock
	idGen types.IDGenerator
}

// NewEngagementStore constructs the default engagement store.
func NewEngagementStore(cfg EngagementStoreConfig) (*EngagementStore, error) {
	if cfg.Repository == nil && cfg.DB == nil {
		return nil, errors.New("store: db or engagement repository required")
	}
	repo := cfg.Repository
	if repo == nil {
		repo = repository.NewRepository(cfg.DB, repository.ModelHandlers[*EngagementModel]{
			NewRecord: func() *EngagementModel { return &EngagementModel{} },
			GetID: func(model *EngagementModel) uuid.UUID {
				if model == nil {
					return uuid.Nil
				}
				return model.ID
			},
			SetID: func(model *EngagementModel, id uuid.UUID) {
				if model != nil {
					model.ID = id
				}
			},
		})
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	idGen := cfg.IDGen
	if idGen == nil {
		idGen = types.UUIDGenerator{}
	}

	return &EngagementStore{
		engagementStore: repo,
		clock:           clock,
		idGen:           idGen,
	}, nil
}

var (
	_ repository.Repository[*EngagementModel] = (*EngagementStore)(nil)
	_ types.EngagementRepository              = (*EngagementStore)(nil)
)

// GetEngagement fetches a single engagement visible to the actor.
func (s *EngagementStore) GetEngagement(ctx context.Context, actor types.ActorRef, id uuid.UUID) (*types.Engagement, error) {
	model, err := s.GetByID(ctx, id.String(), scope.SelectCriteria(scope.Resolve(actor)))
	if err != nil {
		return nil, err
	}
	return toEngagement(model), nil
}

// ListEngagements returns a paginated calendar listing ordered newest first.
func (s *EngagementStore) ListEngagements(ctx context.Context, filter types.EngagementFilter) (types.EngagementPage, error) {
	pagination := normalizePagination(filter.Pagination, 25, 100)
	criteria := []repository.SelectCriteria{
		scope.SelectCriteria(scope.Resolve(filter.Actor)),
		func(q *bun.SelectQuery) *bun.SelectQuery {
			if filter.CompanyID != uuid.Nil {
				q = q.Where("company_id = ?", filter.CompanyID)
			}
			if filter.ContactID != uuid.Nil {
				q = q.Where("contact_id = ?", filter.ContactID)
			}
			if filter.TypeID != uuid.Nil {
				q = q.Where("type_id = ?", filter.TypeID)
			}
			if filter.From != nil {
				q = q.Where("date >= ?", *filter.From)
			}
			if filter.Until != nil {
				q = q.Where("date <= ?", *filter.Until)
			}
			return q.OrderExpr("date DESC, start_time DESC").
				Limit(pagination.Limit).
				Offset(pagination.Offset)
		},
	}

	rows, total, err := s.List(ctx, criteria...)
	if err != nil {
		return types.EngagementPage{}, err
	}
	engagements := make([]types.Engagement, 0, len(rows))
	for _, row := range rows {
		engagements = append(engagements, *toEngagement(row))
	}
	return types.EngagementPage{
		Engagements: engagements,
		Total:       total,
		NextOffset:  pagination.Offset + pagination.Limit,
		HasMore:     pagination.Offset+pagination.Limit < total,
	}, nil
}

// CreateEngagement inserts an engagement, stamping the actor's tenant when
// none is supplied.
func (s *EngagementStore) CreateEngagement(ctx context.Context, actor types.ActorRef, engagement types.Engagement) (*types.Engagement, error) {
	now := s.clock.Now()
	model := &EngagementModel{
		ID:        engagement.ID,
		TenantID:  scope.AssignTenant(actor, engagement.TenantID),
		Date:      engagement.Date,
		StartTime: engagement.StartTime,
		Duration:  engagement.Duration,
		CompanyID: engagement.CompanyID,
		ContactID: engagement.ContactID,
		TypeID:    engagement.TypeID,
		Notes:     engagement.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if model.ID == uuid.Nil {
		model.ID = s.idGen.UUID()
	}
	created, err := s.Create(ctx, model)
	if err != nil {
		return nil, err
	}
	return toEngagement(created), nil
}

// UpdateEngagement applies a partial update with the tenant assignment guard.
func (s *EngagementStore) UpdateEngagement(ctx context.Context, actor types.ActorRef, id uuid.UUID, patch types.EngagementPatch) (*types.Engagement, error) {
	model, err := s.GetByID(ctx, id.String(), scope.SelectCriteria(scope.Resolve(actor)))
	if err != nil {
		return nil, err
	}
	original := model.TenantID

	if patch.Date != nil {
		model.Date = *patch.Date
	}
	if patch.StartTime != nil {
		model.StartTime = *patch.StartTime
	}
	if patch.Duration != nil {
		model.Duration = *patch.Duration
	}
	if patch.CompanyID != nil {
		model.CompanyID = *patch.CompanyID
	}
	if patch.ContactID != nil {
		model.ContactID = *patch.ContactID
	}
	if patch.TypeID != nil {
		model.TypeID = *patch.TypeID
	}
	if patch.Notes != nil {
		model.Notes = *patch.Notes
	}
	requested := original
	if patch.TenantID != nil {
		requested = *patch.TenantID
	}
	model.TenantID = scope.GuardTenantChange(actor, original, requested)
	model.UpdatedAt = s.clock.Now()

	updated, err := s.Update(ctx, model)
	if err != nil {
		return nil, err
	}
	return toEngagement(updated), nil
}
