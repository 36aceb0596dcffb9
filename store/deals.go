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

// DealStoreConfig wires the Bun-backed deal store. DB is required even when a
// repository is supplied: contact links live in a pivot table queried
// directly.
type DealStoreConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*DealModel]
	Clock      types.Clock
	IDGen      types.IDGenerator
}

type dealStore interface {
	repository.Repository[*DealModel]
}

// DealStore persists deals and their contact links.
type DealStore struct {
	dealStore
	db    *bun.DB
	clock types.Clock
	idGen types.IDGenerator
}

// NewDealStore constructs the default deal store.
func NewDealStore(cfg DealStoreConfig) (*DealStore, error) {
	if cfg.DB == nil {
		return nil, errors.New("store: deal store requires db")
	}
	repo := cfg.Repository
	if repo == nil {
		repo = repository.NewRepository(cfg.DB, repository.ModelHandlers[*DealModel]{
			NewRecord: func() *DealModel { return &DealModel{} },
			GetID: func(model *DealModel) uuid.UUID {
				if model == nil {
					return uuid.Nil
				}
				return model.ID
			},
			SetID: func(model *DealModel, id uuid.UUID) {
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

	return &DealStore{
		dealStore: repo,
		db:        cfg.DB,
		clock:     clock,
		idGen:     idGen,
	}, nil
}

var (
	_ repository.Repository[*DealModel] = (*DealStore)(nil)
	_ types.DealRepository              = (*DealStore)(nil)
)

// GetDeal fetches a single deal visible to the actor, with its contact links.
func (s *DealStore) GetDeal(ctx context.Context, actor types.ActorRef, id uuid.UUID) (*types.Deal, error) {
	model, err := s.GetByID(ctx, id.String(), scope.SelectCriteria(scope.Resolve(actor)))
	if err != nil {
		return nil, err
	}
	contacts, err := s.contactLinks(ctx, model.ID)
	if err != nil {
		return nil, err
	}
	return toDeal(model, contacts), nil
}

// ListDeals returns a paginated pipeline listing ordered by last update.
// Contact links are resolved in a single batch for the page.
func (s *DealStore) ListDeals(ctx context.Context, filter types.DealFilter) (types.DealPage, error) {
	pagination := normalizePagination(filter.Pagination, 25, 100)
	criteria := []repository.SelectCriteria{
		scope.SelectCriteria(scope.Resolve(filter.Actor)),
		func(q *bun.SelectQuery) *bun.SelectQuery {
			if filter.CompanyID != uuid.Nil {
				q = q.Where("company_id = ?", filter.CompanyID)
			}
			if filter.TypeID != uuid.Nil {
				q = q.Where("type_id = ?", filter.TypeID)
			}
			if filter.Stage != "" {
				q = q.Where("stage = ?", string(filter.Stage))
			}
			if filter.Keyword != "" {
				q = q.Where("lower(name) LIKE ?", keywordPattern(filter.Keyword))
			}
			return q.OrderExpr("updated_at DESC").
				Limit(pagination.Limit).
				Offset(pagination.Offset)
		},
	}

	rows, total, err := s.List(ctx, criteria...)
	if err != nil {
		return types.DealPage{}, err
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	linkIndex, err := s.contactLinkIndex(ctx, ids)
	if err != nil {
		return types.DealPage{}, err
	}

	deals := make([]types.Deal, 0, len(rows))
	for _, row := range rows {
		deals = append(deals, *toDeal(row, linkIndex[row.ID]))
	}
	return types.DealPage{
		Deals:      deals,
		Total:      total,
		NextOffset: pagination.Offset + pagination.Limit,
		HasMore:    pagination.Offset+pagination.Limit < total,
	}, nil
}

// CreateDeal inserts a deal plus its contact links. The stage defaults to the
// start of the pipeline when unset.
func (s *DealStore) CreateDeal(ctx context.Context, actor types.ActorRef, deal types.Deal) (*types.Deal, error) {
	now := s.clock.Now()
	model := &DealModel{
		ID:        deal.ID,
		TenantID:  scope.AssignTenant(actor, deal.TenantID),
		Name:      deal.Name,
		TypeID:    deal.TypeID,
		CompanyID: deal.CompanyID,
		Value:     deal.Value,
		Stage:     string(deal.Stage),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if model.ID == uuid.Nil {
		model.ID = s.idGen.UUID()
	}
	if model.Stage == "" {
		model.Stage = string(types.DealStageNew)
	}
	created, err := s.Create(ctx, model)
	if err != nil {
		return nil, err
	}
	contacts, err := s.visibleContactIDs(ctx, actor, dedupeIDs(deal.ContactIDs))
	if err != nil {
		return nil, err
	}
	if err := s.replaceContactLinks(ctx, created.ID, contacts); err != nil {
		return nil, err
	}
	return toDeal(created, contacts), nil
}

// UpdateDeal applies a partial update. A non-nil ContactIDs replaces the
// linked contact set.
func (s *DealStore) UpdateDeal(ctx context.Context, actor types.ActorRef, id uuid.UUID, patch types.DealPatch) (*types.Deal, error) {
	model, err := s.GetByID(ctx, id.String(), scope.SelectCriteria(scope.Resolve(actor)))
	if err != nil {
		return nil, err
	}
	original := model.TenantID

	if patch.Name != nil {
		model.Name = *patch.Name
	}
	if patch.TypeID != nil {
		model.TypeID = *patch.TypeID
	}
	if patch.CompanyID != nil {
		model.CompanyID = *patch.CompanyID
	}
	if patch.Value != nil {
		model.Value = *patch.Value
	}
	if patch.Stage != nil {
		model.Stage = string(*patch.Stage)
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

	var contacts []uuid.UUID
	if patch.ContactIDs != nil {
		contacts, err = s.visibleContactIDs(ctx, actor, dedupeIDs(patch.ContactIDs))
		if err != nil {
			return nil, err
		}
		if err := s.replaceContactLinks(ctx, updated.ID, contacts); err != nil {
			return nil, err
		}
	} else {
		contacts, err = s.contactLinks(ctx, updated.ID)
		if err != nil {
			return nil, err
		}
	}
	return toDeal(updated, contacts), nil
}

func (s *DealStore) contactLinks(ctx context.Context, dealID uuid.UUID) ([]uuid.UUID, error) {
	index, err := s.contactLinkIndex(ctx, []uuid.UUID{dealID})
	if err != nil {
		return nil, err
	}
	return index[dealID], nil
}

func (s *DealStore) contactLinkIndex(ctx context.Context, dealIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	index := make(map[uuid.UUID][]uuid.UUID, len(dealIDs))
	if len(dealIDs) == 0 {
		return index, nil
	}
	var links []DealContactModel
	err := s.db.NewSelect().
		Model(&links).
		Where("deal_id IN (?)", bun.In(idStrings(dealIDs))).
		OrderExpr("contact_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	for _, link := range links {
		index[link.DealID] = append(index[link.DealID], link.ContactID)
	}
	return index, nil
}

// visibleContactIDs narrows candidate contact links to contacts the actor can
// see. Cross-tenant IDs (and IDs with no contact row) are dropped silently,
// the same posture the tenant guard takes on scoped reads.
func (s *DealStore) visibleContactIDs(ctx context.Context, actor types.ActorRef, candidates []uuid.UUID) ([]uuid.UUID, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	query := s.db.NewSelect().
		Model((*ContactModel)(nil)).
		Column("id").
		Where("id IN (?)", bun.In(idStrings(candidates)))
	query = scope.SelectCriteria(scope.Resolve(actor))(query)

	var ids []uuid.UUID
	if err := query.Scan(ctx, &ids); err != nil {
		return nil, err
	}
	allowed := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		allowed[id] = struct{}{}
	}
	linked := make([]uuid.UUID, 0, len(candidates))
	for _, id := range candidates {
		if _, ok := allowed[id]; ok {
			linked = append(linked, id)
		}
	}
	return linked, nil
}

func (s *DealStore) replaceContactLinks(ctx context.Context, dealID uuid.UUID, contactIDs []uuid.UUID) error {
	_, err := s.db.NewDelete().
		Model((*DealContactModel)(nil)).
		Where("deal_id = ?", dealID).
		Exec(ctx)
	if err != nil {
		return err
	}
	if len(contactIDs) == 0 {
		return nil
	}
	now := s.clock.Now()
	links := make([]DealContactModel, 0, len(contactIDs))
	for _, contactID := range contactIDs {
		links = append(links, DealContactModel{
			DealID:    dealID,
			ContactID: contactID,
			CreatedAt: now,
		})
	}
	_, err = s.db.NewInsert().Model(&links).Exec(ctx)
	return err
}
