package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-crm/pkg/types"
	"github.com/goliatone/go-crm/scope"
	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestCompanyCreateCommand_RecordsCreation(t *testing.T) {
	repo := newFakeCompanyRepo()
	sink := &recordingAuditSink{}
	var hooked []types.AuditEntry
	hooks := types.Hooks{
		AfterAudit: func(_ context.Context, entry types.AuditEntry) {
			hooked = append(hooked, entry)
		},
	}
	fixedTime := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	cmd := NewCompanyCreateCommand(CompanyCreateCommandConfig{
		Repository: repo,
		Clock:      fixedClock{t: fixedTime},
		Audit:      sink,
		Hooks:      hooks,
	})

	actor := types.ActorRef{ID: uuid.New(), TenantID: uuid.New(), Name: "Jane"}
	result := &types.Company{}
	err := cmd.Execute(context.Background(), CompanyCreateInput{
		Company: types.Company{Name: "Acme"},
		Actor:   actor,
		Result:  result,
	})

	require.NoError(t, err)
	require.NotNil(t, repo.lastCreated)
	require.Equal(t, "Acme", result.Name)
	require.Len(t, sink.entries, 1)
	entry := sink.entries[0]
	require.Equal(t, types.EntityTypeCompany, entry.EntityType)
	require.Equal(t, types.OperationCreation, entry.Kind)
	require.Equal(t, actor.ID, entry.ActorID)
	require.Equal(t, "company created by Jane", entry.Description)
	require.Nil(t, entry.Prior)
	require.NotNil(t, entry.New)
	require.Equal(t, fixedTime, entry.CreatedAt)
	require.Len(t, hooked, 1)
}

func TestCompanyCreateCommand_ValidatesName(t *testing.T) {
	repo := newFakeCompanyRepo()
	cmd := NewCompanyCreateCommand(CompanyCreateCommandConfig{Repository: repo})

	err := cmd.Execute(context.Background(), CompanyCreateInput{
		Company: types.Company{Name: "   "},
	})

	require.ErrorIs(t, err, ErrCompanyNameRequired)
	require.Nil(t, repo.lastCreated)
}

func TestCompanyCreateCommand_MissingRepository(t *testing.T) {
	cmd := NewCompanyCreateCommand(CompanyCreateCommandConfig{})

	err := cmd.Execute(context.Background(), CompanyCreateInput{
		Company: types.Company{Name: "Acme"},
	})

	require.ErrorIs(t, err, types.ErrMissingCompanyRepository)
}

func TestCompanyCreateCommand_PolicyRejects(t *testing.T) {
	repo := newFakeCompanyRepo()
	policyErr := errors.New("blocked")
	guard := scope.NewGuard(policyFunc(func(_ context.Context, check types.PolicyCheck) error {
		require.Equal(t, types.PolicyActionCompaniesWrite, check.Action)
		return policyErr
	}))
	cmd := NewCompanyCreateCommand(CompanyCreateCommandConfig{
		Repository: repo,
		ScopeGuard: guard,
	})

	err := cmd.Execute(context.Background(), CompanyCreateInput{
		Company: types.Company{Name: "Acme"},
		Actor:   types.ActorRef{ID: uuid.New()},
	})

	require.ErrorIs(t, err, policyErr)
	require.Nil(t, repo.lastCreated)
}

func TestCompanyUpdateCommand_LogsOnlyWhenChanged(t *testing.T) {
	companyID := uuid.New()
	repo := newFakeCompanyRepo()
	repo.companies[companyID] = &types.Company{
		ID:     companyID,
		Name:   "Acme",
		Status: types.EntityStatusActive,
	}
	sink := &recordingAuditSink{}
	cmd := NewCompanyUpdateCommand(CompanyUpdateCommandConfig{
		Repository: repo,
		Audit:      sink,
	})

	// same name, nothing changes, nothing logged
	same := "Acme"
	err := cmd.Execute(context.Background(), CompanyUpdateInput{
		ID:    companyID,
		Patch: types.CompanyPatch{Name: &same},
		Actor: types.ActorRef{ID: uuid.New()},
	})
	require.NoError(t, err)
	require.Empty(t, sink.entries)

	renamed := "Acme Industries"
	err = cmd.Execute(context.Background(), CompanyUpdateInput{
		ID:    companyID,
		Patch: types.CompanyPatch{Name: &renamed},
		Actor: types.ActorRef{ID: uuid.New(), Name: "Jane"},
	})
	require.NoError(t, err)
	require.Len(t, sink.entries, 1)
	entry := sink.entries[0]
	require.Equal(t, types.OperationAlteration, entry.Kind)
	require.Equal(t, "company updated by Jane", entry.Description)
	require.Equal(t, "Acme", entry.Prior["name"])
	require.Equal(t, "Acme Industries", entry.New["name"])
}

func TestCompanyUpdateCommand_SinkFailureDoesNotAbort(t *testing.T) {
	companyID := uuid.New()
	repo := newFakeCompanyRepo()
	repo.companies[companyID] = &types.Company{ID: companyID, Name: "Acme"}
	sink := &recordingAuditSink{err: errors.New("sink down")}
	cmd := NewCompanyUpdateCommand(CompanyUpdateCommandConfig{
		Repository: repo,
		Audit:      sink,
	})

	renamed := "Acme Industries"
	result := &types.Company{}
	err := cmd.Execute(context.Background(), CompanyUpdateInput{
		ID:     companyID,
		Patch:  types.CompanyPatch{Name: &renamed},
		Actor:  types.ActorRef{ID: uuid.New()},
		Result: result,
	})

	require.NoError(t, err)
	require.Equal(t, "Acme Industries", result.Name)
}

func TestContactCreateCommand_RecordsCreation(t *testing.T) {
	repo := newFakeContactRepo()
	sink := &recordingAuditSink{}
	cmd := NewContactCreateCommand(ContactCreateCommandConfig{
		Repository: repo,
		Audit:      sink,
	})

	err := cmd.Execute(context.Background(), ContactCreateInput{
		Contact: types.Contact{FirstName: "Maria", LastName: "Silva"},
		Actor:   types.ActorRef{ID: uuid.New()},
	})

	require.NoError(t, err)
	require.Len(t, sink.entries, 1)
	require.Equal(t, types.EntityTypeContact, sink.entries[0].EntityType)
	require.Equal(t, "contact created", sink.entries[0].Description)
}

func TestContactCreateCommand_RequiresFirstName(t *testing.T) {
	cmd := NewContactCreateCommand(ContactCreateCommandConfig{
		Repository: newFakeContactRepo(),
	})

	err := cmd.Execute(context.Background(), ContactCreateInput{
		Contact: types.Contact{LastName: "Silva"},
	})

	require.ErrorIs(t, err, ErrContactNameRequired)
}

func TestEngagementCreateCommand_Validation(t *testing.T) {
	cmd := NewEngagementCreateCommand(EngagementCreateCommandConfig{
		Repository: newFakeEngagementRepo(),
	})

	err := cmd.Execute(context.Background(), EngagementCreateInput{
		Engagement: types.Engagement{CompanyID: uuid.New()},
	})
	require.ErrorIs(t, err, ErrEngagementDateRequired)

	err = cmd.Execute(context.Background(), EngagementCreateInput{
		Engagement: types.Engagement{Date: time.Now()},
	})
	require.ErrorIs(t, err, ErrEngagementCompanyRequired)
}

func TestDealCreateCommand_FeatureGateDisabled(t *testing.T) {
	repo := newFakeDealRepo()
	gate := &stubFeatureGate{enabled: false}
	cmd := NewDealCreateCommand(DealCreateCommandConfig{
		Repository:  repo,
		FeatureGate: gate,
	})

	err := cmd.Execute(context.Background(), DealCreateInput{
		Deal:  types.Deal{Name: "Big deal"},
		Actor: types.ActorRef{ID: uuid.New(), TenantID: uuid.New()},
	})

	require.ErrorIs(t, err, ErrDealsDisabled)
	require.Nil(t, repo.lastCreated)
	require.Equal(t, []string{"crm.deals"}, gate.keys)
}

func TestDealCreateCommand_FeatureGateError(t *testing.T) {
	gateErr := errors.New("gate backend down")
	cmd := NewDealCreateCommand(DealCreateCommandConfig{
		Repository:  newFakeDealRepo(),
		FeatureGate: &stubFeatureGate{err: gateErr},
	})

	err := cmd.Execute(context.Background(), DealCreateInput{
		Deal: types.Deal{Name: "Big deal"},
	})

	require.ErrorIs(t, err, gateErr)
}

func TestDealCreateCommand_NilGateAllows(t *testing.T) {
	repo := newFakeDealRepo()
	sink := &recordingAuditSink{}
	cmd := NewDealCreateCommand(DealCreateCommandConfig{
		Repository: repo,
		Audit:      sink,
	})

	err := cmd.Execute(context.Background(), DealCreateInput{
		Deal:  types.Deal{Name: "Big deal", Stage: types.DealStageNew},
		Actor: types.ActorRef{ID: uuid.New()},
	})

	require.NoError(t, err)
	require.NotNil(t, repo.lastCreated)
	require.Len(t, sink.entries, 1)
	require.Equal(t, types.EntityTypeDeal, sink.entries[0].EntityType)
}

func TestDealUpdateCommand_StagePolicyRejects(t *testing.T) {
	dealID := uuid.New()
	repo := newFakeDealRepo()
	repo.deals[dealID] = &types.Deal{ID: dealID, Name: "Big deal", Stage: types.DealStageNew}
	policy := types.NewStaticStagePolicy(map[types.DealStage][]types.DealStage{
		types.DealStageNew: {types.DealStageContacted},
	})
	cmd := NewDealUpdateCommand(DealUpdateCommandConfig{
		Repository:  repo,
		StagePolicy: policy,
	})

	won := types.DealStageWon
	err := cmd.Execute(context.Background(), DealUpdateInput{
		ID:    dealID,
		Patch: types.DealPatch{Stage: &won},
		Actor: types.ActorRef{ID: uuid.New()},
	})

	require.Error(t, err)
	require.False(t, repo.updateCalled)
}

func TestDealUpdateCommand_EmitsStageHook(t *testing.T) {
	dealID := uuid.New()
	repo := newFakeDealRepo()
	repo.deals[dealID] = &types.Deal{ID: dealID, Name: "Big deal", Stage: types.DealStageNew}
	var events []types.DealStageEvent
	hooks := types.Hooks{
		AfterDealStage: func(_ context.Context, e types.DealStageEvent) {
			events = append(events, e)
		},
	}
	cmd := NewDealUpdateCommand(DealUpdateCommandConfig{
		Repository: repo,
		Hooks:      hooks,
	})

	contacted := types.DealStageContacted
	err := cmd.Execute(context.Background(), DealUpdateInput{
		ID:    dealID,
		Patch: types.DealPatch{Stage: &contacted},
		Actor: types.ActorRef{ID: uuid.New()},
	})

	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, types.DealStageNew, events[0].FromStage)
	require.Equal(t, types.DealStageContacted, events[0].ToStage)
	require.Equal(t, dealID, events[0].DealID)
}

func TestDealStageCommand_SameStageNoOp(t *testing.T) {
	dealID := uuid.New()
	repo := newFakeDealRepo()
	repo.deals[dealID] = &types.Deal{ID: dealID, Name: "Big deal", Stage: types.DealStageProposal}
	sink := &recordingAuditSink{}
	var events []types.DealStageEvent
	cmd := NewDealStageCommand(DealStageCommandConfig{
		Repository: repo,
		Audit:      sink,
		Hooks: types.Hooks{
			AfterDealStage: func(_ context.Context, e types.DealStageEvent) {
				events = append(events, e)
			},
		},
	})

	result := &types.Deal{}
	err := cmd.Execute(context.Background(), DealStageInput{
		ID:     dealID,
		Stage:  types.DealStageProposal,
		Actor:  types.ActorRef{ID: uuid.New()},
		Result: result,
	})

	require.NoError(t, err)
	require.False(t, repo.updateCalled)
	require.Empty(t, sink.entries)
	require.Empty(t, events)
	require.Equal(t, types.DealStageProposal, result.Stage)
}

func TestDealStageCommand_MovesAndLogs(t *testing.T) {
	dealID := uuid.New()
	repo := newFakeDealRepo()
	repo.deals[dealID] = &types.Deal{ID: dealID, Name: "Big deal", Stage: types.DealStageProposal}
	sink := &recordingAuditSink{}
	var events []types.DealStageEvent
	cmd := NewDealStageCommand(DealStageCommandConfig{
		Repository: repo,
		Audit:      sink,
		Hooks: types.Hooks{
			AfterDealStage: func(_ context.Context, e types.DealStageEvent) {
				events = append(events, e)
			},
		},
	})

	err := cmd.Execute(context.Background(), DealStageInput{
		ID:    dealID,
		Stage: types.DealStageWon,
		Actor: types.ActorRef{ID: uuid.New(), Name: "Jane"},
	})

	require.NoError(t, err)
	require.True(t, repo.updateCalled)
	require.Len(t, sink.entries, 1)
	require.Equal(t, types.OperationAlteration, sink.entries[0].Kind)
	require.Equal(t, "deal updated by Jane", sink.entries[0].Description)
	require.Len(t, events, 1)
	require.Equal(t, types.DealStageWon, events[0].ToStage)
}

func TestDealStageCommand_InvalidStage(t *testing.T) {
	cmd := NewDealStageCommand(DealStageCommandConfig{
		Repository: newFakeDealRepo(),
	})

	err := cmd.Execute(context.Background(), DealStageInput{
		ID:    uuid.New(),
		Stage: "shipped",
	})

	require.ErrorIs(t, err, ErrInvalidDealStage)
}

func TestLookupCreateCommand_Validation(t *testing.T) {
	repo := newFakeLookupRepo()
	cmd := NewLookupCreateCommand(LookupCreateCommandConfig{Repository: repo})

	err := cmd.Execute(context.Background(), LookupCreateInput{
		Kind:  "colors",
		Entry: types.LookupEntry{Name: "Call"},
	})
	require.ErrorIs(t, err, ErrInvalidLookupKind)

	err = cmd.Execute(context.Background(), LookupCreateInput{
		Kind:  types.LookupKindEngagementType,
		Entry: types.LookupEntry{Name: "  "},
	})
	require.ErrorIs(t, err, ErrLookupNameRequired)

	result := &types.LookupEntry{}
	err = cmd.Execute(context.Background(), LookupCreateInput{
		Kind:   types.LookupKindEngagementType,
		Entry:  types.LookupEntry{Name: "Call"},
		Actor:  types.ActorRef{ID: uuid.New()},
		Result: result,
	})
	require.NoError(t, err)
	require.Equal(t, "Call", result.Name)
	require.Equal(t, types.LookupKindEngagementType, repo.lastKind)
}

func TestTenantCreateCommand_RequiresAdmin(t *testing.T) {
	repo := newFakeTenantRepo()
	cmd := NewTenantCreateCommand(TenantCreateCommandConfig{Repository: repo})

	err := cmd.Execute(context.Background(), TenantCreateInput{
		Tenant: types.Tenant{Name: "New Org"},
		Actor:  types.ActorRef{ID: uuid.New()},
	})
	require.ErrorIs(t, err, ErrAdminRequired)
	require.Nil(t, repo.lastCreated)

	result := &types.Tenant{}
	err = cmd.Execute(context.Background(), TenantCreateInput{
		Tenant: types.Tenant{Name: "New Org"},
		Actor:  types.ActorRef{ID: uuid.New(), Admin: true},
		Result: result,
	})
	require.NoError(t, err)
	require.Equal(t, "New Org", result.Name)
}

// --- Test helpers ---

type policyFunc func(ctx context.Context, check types.PolicyCheck) error

func (f policyFunc) Authorize(ctx context.Context, check types.PolicyCheck) error {
	return f(ctx, check)
}

type recordingAuditSink struct {
	entries []types.AuditEntry
	err     error
}

func (s *recordingAuditSink) Record(_ context.Context, entry types.AuditEntry) error {
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, entry)
	return nil
}

type stubFeatureGate struct {
	enabled bool
	err     error
	keys    []string
}

func (s *stubFeatureGate) Enabled(_ context.Context, key string, _ ...featuregate.ResolveOption) (bool, error) {
	s.keys = append(s.keys, key)
	if s.err != nil {
		return false, s.err
	}
	return s.enabled, nil
}

type fixedClock struct {
	t time.Time
}

func (f fixedClock) Now() time.Time {
	return f.t
}

type fakeCompanyRepo struct {
	companies   map[uuid.UUID]*types.Company
	lastCreated *types.Company
}

func newFakeCompanyRepo() *fakeCompanyRepo {
	return &fakeCompanyRepo{companies: make(map[uuid.UUID]*types.Company)}
}

func (f *fakeCompanyRepo) GetCompany(_ context.Context, _ types.ActorRef, id uuid.UUID) (*types.Company, error) {
	company, ok := f.companies[id]
	if !ok {
		return nil, errors.New("not found")
	}
	copied := *company
	return &copied, nil
}

func (f *fakeCompanyRepo) ListCompanies(context.Context, types.CompanyFilter) (types.CompanyPage, error) {
	return types.CompanyPage{}, nil
}

func (f *fakeCompanyRepo) CreateCompany(_ context.Context, actor types.ActorRef, company types.Company) (*types.Company, error) {
	if company.ID == uuid.Nil {
		company.ID = uuid.New()
	}
	if company.TenantID == uuid.Nil {
		company.TenantID = actor.TenantID
	}
	f.lastCreated = &company
	f.companies[company.ID] = &company
	copied := company
	return &copied, nil
}

func (f *fakeCompanyRepo) UpdateCompany(_ context.Context, _ types.ActorRef, id uuid.UUID, patch types.CompanyPatch) (*types.Company, error) {
	company, ok := f.companies[id]
	if !ok {
		return nil, errors.New("not found")
	}
	if patch.Name != nil {
		company.Name = *patch.Name
	}
	if patch.Status != nil {
		company.Status = *patch.Status
	}
	copied := *company
	return &copied, nil
}

type fakeContactRepo struct {
	contacts    map[uuid.UUID]*types.Contact
	lastCreated *types.Contact
}

func newFakeContactRepo() *fakeContactRepo {
	return &fakeContactRepo{contacts: make(map[uuid.UUID]*types.Contact)}
}

func (f *fakeContactRepo) GetContact(_ context.Context, _ types.ActorRef, id uuid.UUID) (*types.Contact, error) {
	contact, ok := f.contacts[id]
	if !ok {
		return nil, errors.New("not found")
	}
	copied := *contact
	return &copied, nil
}

func (f *fakeContactRepo) ListContacts(context.Context, types.ContactFilter) (types.ContactPage, error) {
	return types.ContactPage{}, nil
}

func (f *fakeContactRepo) CreateContact(_ context.Context, actor types.ActorRef, contact types.Contact) (*types.Contact, error) {
	if contact.ID == uuid.Nil {
		contact.ID = uuid.New()
	}
	if contact.TenantID == uuid.Nil {
		contact.TenantID = actor.TenantID
	}
	f.lastCreated = &contact
	f.contacts[contact.ID] = &contact
	copied := contact
	return &copied, nil
}

func (f *fakeContactRepo) UpdateContact(_ context.Context, _ types.ActorRef, id uuid.UUID, patch types.ContactPatch) (*types.Contact, error) {
	contact, ok := f.contacts[id]
	if !ok {
		return nil, errors.New("not found")
	}
	if patch.FirstName != nil {
		contact.FirstName = *patch.FirstName
	}
	copied := *contact
	return &copied, nil
}

type fakeEngagementRepo struct {
	engagements map[uuid.UUID]*types.Engagement
	lastCreated *types.Engagement
}

func newFakeEngagementRepo() *fakeEngagementRepo {
	return &fakeEngagementRepo{engagements: make(map[uuid.UUID]*types.Engagement)}
}

func (f *fakeEngagementRepo) GetEngagement(_ context.Context, _ types.ActorRef, id uuid.UUID) (*types.Engagement, error) {
	engagement, ok := f.engagements[id]
	if !ok {
		return nil, errors.New("not found")
	}
	copied := *engagement
	return &copied, nil
}

func (f *fakeEngagementRepo) ListEngagements(context.Context, types.EngagementFilter) (types.EngagementPage, error) {
	return types.EngagementPage{}, nil
}

func (f *fakeEngagementRepo) CreateEngagement(_ context.Context, actor types.ActorRef, engagement types.Engagement) (*types.Engagement, error) {
	if engagement.ID == uuid.Nil {
		engagement.ID = uuid.New()
	}
	if engagement.TenantID == uuid.Nil {
		engagement.TenantID = actor.TenantID
	}
	f.lastCreated = &engagement
	f.engagements[engagement.ID] = &engagement
	copied := engagement
	return &copied, nil
}

func (f *fakeEngagementRepo) UpdateEngagement(_ context.Context, _ types.ActorRef, id uuid.UUID, patch types.EngagementPatch) (*types.Engagement, error) {
	engagement, ok := f.engagements[id]
	if !ok {
		return nil, errors.New("not found")
	}
	if patch.Notes != nil {
		engagement.Notes = *patch.Notes
	}
	copied := *engagement
	return &copied, nil
}

type fakeDealRepo struct {
	deals        map[uuid.UUID]*types.Deal
	lastCreated  *types.Deal
	updateCalled bool
}

func newFakeDealRepo() *fakeDealRepo {
	return &fakeDealRepo{deals: make(map[uuid.UUID]*types.Deal)}
}

func (f *fakeDealRepo) GetDeal(_ context.Context, _ types.ActorRef, id uuid.UUID) (*types.Deal, error) {
	deal, ok := f.deals[id]
	if !ok {
		return nil, errors.New("not found")
	}
	copied := *deal
	return &copied, nil
}

func (f *fakeDealRepo) ListDeals(context.Context, types.DealFilter) (types.DealPage, error) {
	return types.DealPage{}, nil
}

func (f *fakeDealRepo) CreateDeal(_ context.Context, actor types.ActorRef, deal types.Deal) (*types.Deal, error) {
	if deal.ID == uuid.Nil {
		deal.ID = uuid.New()
	}
	if deal.TenantID == uuid.Nil {
		deal.TenantID = actor.TenantID
	}
	if deal.Stage == "" {
		deal.Stage = types.DealStageNew
	}
	f.lastCreated = &deal
	f.deals[deal.ID] = &deal
	copied := deal
	return &copied, nil
}

func (f *fakeDealRepo) UpdateDeal(_ context.Context, _ types.ActorRef, id uuid.UUID, patch types.DealPatch) (*types.Deal, error) {
	f.updateCalled = true
	deal, ok := f.deals[id]
	if !ok {
		return nil, errors.New("not found")
	}
	if patch.Name != nil {
		deal.Name = *patch.Name
	}
	if patch.Stage != nil {
		deal.Stage = *patch.Stage
	}
	copied := *deal
	return &copied, nil
}

type fakeLookupRepo struct {
	lastKind    types.LookupKind
	lastCreated *types.LookupEntry
}

func newFakeLookupRepo() *fakeLookupRepo {
	return &fakeLookupRepo{}
}

func (f *fakeLookupRepo) ListLookup(context.Context, types.ActorRef, types.LookupKind) ([]types.LookupEntry, error) {
	return nil, nil
}

func (f *fakeLookupRepo) CreateLookup(_ context.Context, actor types.ActorRef, kind types.LookupKind, entry types.LookupEntry) (*types.LookupEntry, error) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.TenantID == uuid.Nil {
		entry.TenantID = actor.TenantID
	}
	f.lastKind = kind
	f.lastCreated = &entry
	copied := entry
	return &copied, nil
}

type fakeTenantRepo struct {
	lastCreated *types.Tenant
}

func newFakeTenantRepo() *fakeTenantRepo {
	return &fakeTenantRepo{}
}

func (f *fakeTenantRepo) GetTenant(context.Context, uuid.UUID) (*types.Tenant, error) {
	return nil, errors.New("not found")
}

func (f *fakeTenantRepo) ListTenants(context.Context) ([]types.Tenant, error) {
	return nil, nil
}

func (f *fakeTenantRepo) CreateTenant(_ context.Context, tenant types.Tenant) (*types.Tenant, error) {
	if tenant.ID == uuid.Nil {
		tenant.ID = uuid.New()
	}
	f.lastCreated = &tenant
	copied := tenant
	return &copied, nil
}
