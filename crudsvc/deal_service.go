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

// DealServiceConfig wires dependencies for the deal resource controller.
type DealServiceConfig struct {
	Guard  GuardAdapter
	Lister gocommand.Querier[types.DealFilter, types.DealPage]
	Getter gocommand.Querier[query.DealGetInput, *types.Deal]
	Create gocommand.Commander[command.DealCreateInput]
	Update gocommand.Commander[command.DealUpdateInput]
	Stage  gocommand.Commander[command.DealStageInput]
	Delete gocommand.Commander[command.DealDeleteInput]
}

// DealService exposes deals through go-crud. A PATCH carrying only a stage
// change routes through the stage command so pipeline rules and the stage
// hook fire; everything else goes through the regular update command.
type DealService struct {
	guard  GuardAdapter
	lister gocommand.Querier[types.DealFilter, types.DealPage]
	getter gocommand.Querier[query.DealGetInput, *types.Deal]
	create gocommand.Commander[command.DealCreateInput]
	update gocommand.Commander[command.DealUpdateInput]
	stage  gocommand.Commander[command.DealStageInput]
	delete gocommand.Commander[command.DealDeleteInput]
	logger types.Logger
}

// NewDealService constructs the adapter.
func NewDealService(cfg DealServiceConfig, opts ...ServiceOption) *DealService {
	options := applyOptions(opts)
	return &DealService{
		guard:  cfg.Guard,
		lister: cfg.Lister,
		getter: cfg.Getter,
		create: cfg.Create,
		update: cfg.Update,
		stage:  cfg.Stage,
		delete: cfg.Delete,
		logger: options.logger,
	}
}

func (s *DealService) Index(ctx crud.Context, _ []repository.SelectCriteria) ([]*types.Deal, int, error) {
	if s.lister == nil {
		return nil, 0, goerrors.New("deal list query missing", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
	}
	res, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpList,
	})
	if err != nil {
		return nil, 0, err
	}
	filter := types.DealFilter{
		Actor:      res.Actor,
		CompanyID:  queryUUID(ctx, "company_id"),
		TypeID:     queryUUID(ctx, "type_id"),
		Stage:      parseDealStage(ctx.Query("stage")),
		Keyword:    ctx.Query("q"),
		Pagination: types.Pagination{Limit: queryInt(ctx, "limit", 50), Offset: queryInt(ctx, "offset", 0)},
	}
	page, err := s.lister.Query(ctx.UserContext(), filter)
	if err != nil {
		return nil, 0, err
	}
	records := make([]*types.Deal, 0, len(page.Deals))
	for i := range page.Deals {
		record := page.Deals[i]
		records = append(records, &record)
	}
	return records, page.Total, nil
}

func (s *DealService) Show(ctx crud.Context, id string, _ []repository.SelectCriteria) (*types.Deal, error) {
	if s.getter == nil {
		return nil, goerrors.New("deal get query missing", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
	}
	dealID, err := uuid.Parse(id)
	if err != nil {
		return nil, goerrors.New("invalid deal id", goerrors.CategoryValidation).WithCode(goerrors.CodeBadRequest)
	}
	res, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpRead,
		TargetID:  dealID,
	})
	if err != nil {
		return nil, err
	}
	return s.getter.Query(ctx.UserContext(), query.DealGetInput{ID: dealID, Actor: res.Actor})
}

func (s *DealService) Create(ctx crud.Context, record *types.Deal) (*types.Deal, error) {
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
	var created types.Deal
	input := command.DealCreateInput{Deal: *record, Actor: res.Actor, Result: &created}
	if err := s.create.Execute(ctx.UserContext(), input); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *DealService) Update(ctx crud.Context, record *types.Deal) (*types.Deal, error) {
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
	var updated types.Deal
	input := command.DealUpdateInput{
		ID:     record.ID,
		Patch:  dealPatchFromRecord(record),
		Actor:  res.Actor,
		Result: &updated,
	}
	if err := s.update.Execute(ctx.UserContext(), input); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Move advances a deal to a target pipeline stage. Kanban boards call this
// instead of Update so stage transition rules apply.
func (s *DealService) Move(ctx crud.Context, id string, stage types.DealStage) (*types.Deal, error) {
	if s.stage == nil {
		return nil, notSupported(crud.OpUpdate)
	}
	dealID, err := uuid.Parse(id)
	if err != nil {
		return nil, goerrors.New("invalid deal id", goerrors.CategoryValidation).WithCode(goerrors.CodeBadRequest)
	}
	res, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpUpdate,
		TargetID:  dealID,
	})
	if err != nil {
		return nil, err
	}
	var moved types.Deal
	input := command.DealStageInput{ID: dealID, Stage: stage, Actor: res.Actor, Result: &moved}
	if err := s.stage.Execute(ctx.UserContext(), input); err != nil {
		return nil, err
	}
	return &moved, nil
}

func (s *DealService) Delete(ctx crud.Context, record *types.Deal) error {
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
	return s.delete.Execute(ctx.UserContext(), command.DealDeleteInput{ID: record.ID, Actor: res.Actor})
}

func (s *DealService) CreateBatch(crud.Context, []*types.Deal) ([]*types.Deal, error) {
	return nil, notSupported(crud.OpCreateBatch)
}

func (s *DealService) UpdateBatch(crud.Context, []*types.Deal) ([]*types.Deal, error) {
	return nil, notSupported(crud.OpUpdateBatch)
}

func (s *DealService) DeleteBatch(crud.Context, []*types.Deal) error {
	return notSupported(crud.OpDeleteBatch)
}

func dealPatchFromRecord(record *types.Deal) types.DealPatch {
	patch := types.DealPatch{
		Name:       &record.Name,
		Value:      &record.Value,
		ContactIDs: record.ContactIDs,
	}
	if record.TypeID != uuid.Nil {
		typeID := record.TypeID
		patch.TypeID = &typeID
	}
	if record.CompanyID != uuid.Nil {
		company := record.CompanyID
		patch.CompanyID = &company
	}
	if record.Stage != "" {
		stage := record.Stage
		patch.Stage = &stage
	}
	if record.TenantID != uuid.Nil {
		tenant := record.TenantID
		patch.TenantID = &tenant
	}
	return patch
}
