package crudsvc

import (
	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-crm/command"
	"github.com/goliatone/go-crm/crudguard"
	"github.com/goliatone/go-crm/pkg/types"
	"github.com/goliatone/go-crm/query"
	"github.com/goliatone/go-crud"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// EngagementServiceConfig wires dependencies for the engagement resource
// controller.
type EngagementServiceConfig struct {
	Guard  GuardAdapter
	Lister gocommand.Querier[types.EngagementFilter, types.EngagementPage]
	Getter gocommand.Querier[query.EngagementGetInput, *types.Engagement]
	Create gocommand.Commander[command.EngagementCreateInput]
	Update gocommand.Commander[command.EngagementUpdateInput]
	Delete gocommand.Commander[command.EngagementDeleteInput]
}

// EngagementService exposes engagements through go-crud. The list endpoint
// accepts a date window (from/until, RFC 3339) for calendar views.
type EngagementService struct {
	guard  GuardAdapter
	lister gocommand.Querier[types.EngagementFilter, types.EngagementPage]
	getter gocommand.Querier[query.EngagementGetInput, *types.Engagement]
	create gocommand.Commander[command.EngagementCreateInput]
	update gocommand.Commander[command.EngagementUpdateInput]
	delete gocommand.Commander[command.EngagementDeleteInput]
	logger types.Logger
}

// NewEngagementService constructs the adapter.
func NewEngagementService(cfg EngagementServiceConfig, opts ...ServiceOption) *EngagementService {
	options := applyOptions(opts)
	return &EngagementService{
		guard:  cfg.Guard,
		lister: cfg.Lister,
		getter: cfg.Getter,
		create: cfg.Create,
		update: cfg.Update,
		delete: cfg.Delete,
		logger: options.logger,
	}
}

func (s *EngagementService) Index(ctx crud.Context, _ []repository.SelectCriteria) ([]*types.Engagement, int, error) {
	if s.lister == nil {
		return nil, 0, goerrors.New("engagement list query missing", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
	}
	res, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpList,
	})
	if err != nil {
		return nil, 0, err
	}
	filter := types.EngagementFilter{
		Actor:      res.Actor,
		CompanyID:  queryUUID(ctx, "company_id"),
		ContactID:  queryUUID(ctx, "contact_id"),
		TypeID:     queryUUID(ctx, "type_id"),
		From:       queryTime(ctx, "from"),
		Until:      queryTime(ctx, "until"),
		Pagination: types.Pagination{Limit: queryInt(ctx, "limit", 50), Offset: queryInt(ctx, "offset", 0)},
	}
	page, err := s.lister.Query(ctx.UserContext(), filter)
	if err != nil {
		return nil, 0, err
	}
	records := make([]*types.Engagement, 0, len(page.Engagements))
	for i := range page.Engagements {
		record := page.Engagements[i]
		records = append(records, &record)
	}
	return records, page.Total, nil
}

func (s *EngagementService) Show(ctx crud.Context, id string, _ []repository.SelectCriteria) (*types.Engagement, error) {
	if s.getter == nil {
		return nil, goerrors.New("engagement get query missing", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
	}
	engagementID, err := uuid.Parse(id)
	if err != nil {
		return nil, goerrors.New("invalid engagement id", goerrors.CategoryValidation).WithCode(goerrors.CodeBadRequest)
	}
	res, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpRead,
		TargetID:  engagementID,
	})
	if err != nil {
		return nil, err
	}
	return s.getter.Query(ctx.UserContext(), query.EngagementGetInput{ID: engagementID, Actor: res.Actor})
}

func (s *EngagementService) Create(ctx crud.Context, record *types.Engagement) (*types.Engagement, error) {
	if s.create == nil {
		return nil, notSupported(crud.OpCreate)
	}
	res, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpCreate,
	})
	if err != nil {
		return nil, err
	}
	var created types.Engagement
	input := command.EngagementCreateInput{Engagement: *record, Actor: res.Actor, Result: &created}
	if err := s.create.Execute(ctx.UserContext(), input); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *EngagementService) Update(ctx crud.Context, record *types.Engagement) (*types.Engagement, error) {
	if s.update == nil {
		return nil, notSupported(crud.OpUpdate)
	}
	res, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpUpdate,
		TargetID:  record.ID,
	})
	if err != nil {
		return nil, err
	}
	var updated types.Engagement
	input := command.EngagementUpdateInput{
		ID:     record.ID,
		Patch:  engagementPatchFromRecord(record),
		Actor:  res.Actor,
		Result: &updated,
	}
	if err := s.update.Execute(ctx.UserContext(), input); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *EngagementService) Delete(ctx crud.Context, record *types.Engagement) error {
	if s.delete == nil {
		return notSupported(crud.OpDelete)
	}
	res, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpDelete,
		TargetID:  record.ID,
	})
	if err != nil {
		return err
	}
	return s.delete.Execute(ctx.UserContext(), command.EngagementDeleteInput{ID: record.ID, Actor: res.Actor})
}

func (s *EngagementService) CreateBatch(crud.Context, []*types.Engagement) ([]*types.Engagement, error) {
	return nil, notSupported(crud.OpCreateBatch)
}

func (s *EngagementService) UpdateBatch(crud.Context, []*types.Engagement) ([]*types.Engagement, error) {
	return nil, notSupported(crud.OpUpdateBatch)
}

func (s *EngagementService) DeleteBatch(crud.Context, []*types.Engagement) error {
	return notSupported(crud.OpDeleteBatch)
}

func engagementPatchFromRecord(record *types.Engagement) types.EngagementPatch {
	date := record.Date
	patch := types.EngagementPatch{
		Date:      &date,
		StartTime: &record.StartTime,
		Duration:  &record.Duration,
		Notes:     &record.Notes,
	}
	if record.CompanyID != uuid.Nil {
		company := record.CompanyID
		patch.CompanyID = &company
	}
	if record.ContactID != uuid.Nil {
		contact := record.ContactID
		patch.ContactID = &contact
	}
	if record.TypeID != uuid.Nil {
		typeID := record.TypeID
		patch.TypeID = &typeID
	}
	if record.TenantID != uuid.Nil {
		tenant := record.TenantID
		patch.TenantID = &tenant
	}
	return patch
}
