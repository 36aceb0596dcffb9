package command

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-crm/audit"
	"github.com/goliatone/go-crm/pkg/types"
	"github.com/goliatone/go-crm/store"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

func newCascadeDB(t *testing.T) *bun.DB {
	t.Helper()
	sqldb, err := sql.Open("sqlite3", ":memory:?cache=shared")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() {
		_ = db.Close()
		_ = sqldb.Close()
	})
	files := []string{
		"../data/sql/migrations/sqlite/00001_crm_core.up.sql",
		"../data/sql/migrations/sqlite/00002_crm_pipeline.up.sql",
		"../data/sql/migrations/sqlite/00003_crm_audit_log.up.sql",
	}
	for _, file := range files {
		content, err := os.ReadFile(file)
		require.NoError(t, err)
		for _, stmt := range splitSchemaStatements(string(content)) {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			_, err := db.Exec(stmt)
			require.NoError(t, err)
		}
	}
	return db
}

func splitSchemaStatements(schema string) []string {
	lines := strings.Split(schema, "\n")
	var builder strings.Builder
	var statements []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		builder.WriteString(line)
		if strings.HasSuffix(line, ";") {
			statements = append(statements, strings.TrimSuffix(builder.String(), ";"))
			builder.Reset()
			continue
		}
		builder.WriteString("\n")
	}
	if builder.Len() > 0 {
		statements = append(statements, builder.String())
	}
	return statements
}

type cascadeFixture struct {
	db          *bun.DB
	auditRepo   *audit.Repository
	companies   *store.CompanyStore
	contacts    *store.ContactStore
	engagements *store.EngagementStore
	deals       *store.DealStore
}

func newCascadeFixture(t *testing.T) *cascadeFixture {
	t.Helper()
	db := newCascadeDB(t)
	auditRepo, err := audit.NewRepository(audit.RepositoryConfig{DB: db})
	require.NoError(t, err)
	companies, err := store.NewCompanyStore(store.CompanyStoreConfig{DB: db})
	require.NoError(t, err)
	contacts, err := store.NewContactStore(store.ContactStoreConfig{DB: db})
	require.NoError(t, err)
	engagements, err := store.NewEngagementStore(store.EngagementStoreConfig{DB: db})
	require.NoError(t, err)
	deals, err := store.NewDealStore(store.DealStoreConfig{DB: db})
	require.NoError(t, err)
	return &cascadeFixture{
		db:          db,
		auditRepo:   auditRepo,
		companies:   companies,
		contacts:    contacts,
		engagements: engagements,
		deals:       deals,
	}
}

func (f *cascadeFixture) seedCompanyTree(t *testing.T, actor types.ActorRef) (*types.Company, *types.Contact, *types.Engagement, *types.Deal) {
	t.Helper()
	ctx := context.Background()
	company, err := f.companies.CreateCompany(ctx, actor, types.Company{Name: "Acme"})
	require.NoError(t, err)
	contact, err := f.contacts.CreateContact(ctx, actor, types.Contact{
		FirstName: "Maria",
		LastName:  "Silva",
		CompanyID: company.ID,
	})
	require.NoError(t, err)
	engagement, err := f.engagements.CreateEngagement(ctx, actor, types.Engagement{
		Date:      time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		StartTime: "10:00",
		Duration:  60,
		CompanyID: company.ID,
		ContactID: contact.ID,
	})
	require.NoError(t, err)
	deal, err := f.deals.CreateDeal(ctx, actor, types.Deal{
		Name:       "Big deal",
		CompanyID:  company.ID,
		Value:      1500,
		ContactIDs: []uuid.UUID{contact.ID},
	})
	require.NoError(t, err)
	return company, contact, engagement, deal
}

func (f *cascadeFixture) count(t *testing.T, model any, column string, id uuid.UUID) int {
	t.Helper()
	query := f.db.NewSelect().Model(model)
	if column != "" {
		query = query.Where(column+" = ?", id)
	}
	count, err := query.Count(context.Background())
	require.NoError(t, err)
	return count
}

func TestCompanyDeleteCommand_CascadesAndLogs(t *testing.T) {
	f := newCascadeFixture(t)
	actor := types.ActorRef{ID: uuid.New(), TenantID: uuid.New(), Name: "Jane"}
	company, _, _, _ := f.seedCompanyTree(t, actor)

	var deleted []types.DeleteEvent
	cmd := NewCompanyDeleteCommand(CompanyDeleteCommandConfig{
		DB:         f.db,
		Repository: f.companies,
		Audit:      f.auditRepo,
		Hooks: types.Hooks{
			AfterDelete: func(_ context.Context, e types.DeleteEvent) {
				deleted = append(deleted, e)
			},
		},
	})

	event := &types.DeleteEvent{}
	err := cmd.Execute(context.Background(), CompanyDeleteInput{
		ID:     company.ID,
		Actor:  actor,
		Result: event,
	})
	require.NoError(t, err)

	require.Zero(t, f.count(t, (*store.CompanyModel)(nil), "id", company.ID))
	require.Zero(t, f.count(t, (*store.ContactModel)(nil), "company_id", company.ID))
	require.Zero(t, f.count(t, (*store.EngagementModel)(nil), "company_id", company.ID))
	require.Zero(t, f.count(t, (*store.DealModel)(nil), "company_id", company.ID))
	require.Zero(t, f.count(t, (*store.DealContactModel)(nil), "", uuid.Nil))

	page, err := f.auditRepo.ListAudit(context.Background(), types.AuditFilter{
		Actor:      actor,
		EntityType: types.EntityTypeCompany,
		EntityID:   company.ID,
	})
	require.NoError(t, err)
	require.Len(t, page.Entries, 1)
	require.Equal(t, types.OperationDeletion, page.Entries[0].Kind)
	require.Equal(t, "company deleted by Jane", page.Entries[0].Description)
	require.Equal(t, "Acme", page.Entries[0].Prior["name"])
	require.Nil(t, page.Entries[0].New)

	require.Len(t, deleted, 1)
	require.Equal(t, company.ID, deleted[0].EntityID)
	require.Equal(t, company.ID, event.EntityID)
}

func TestCompanyDeleteCommand_SinkFailureRollsBack(t *testing.T) {
	f := newCascadeFixture(t)
	actor := types.ActorRef{ID: uuid.New(), TenantID: uuid.New()}
	company, contact, _, _ := f.seedCompanyTree(t, actor)

	cmd := NewCompanyDeleteCommand(CompanyDeleteCommandConfig{
		DB:         f.db,
		Repository: f.companies,
		Audit:      failingTxSink{},
	})

	err := cmd.Execute(context.Background(), CompanyDeleteInput{
		ID:    company.ID,
		Actor: actor,
	})
	require.Error(t, err)

	// nothing deleted, nothing logged
	require.Equal(t, 1, f.count(t, (*store.CompanyModel)(nil), "id", company.ID))
	require.Equal(t, 1, f.count(t, (*store.ContactModel)(nil), "id", contact.ID))
	require.Zero(t, f.count(t, (*audit.Entry)(nil), "", uuid.Nil))
}

func TestContactDeleteCommand_CascadesAndLogs(t *testing.T) {
	f := newCascadeFixture(t)
	actor := types.ActorRef{ID: uuid.New(), TenantID: uuid.New(), Name: "Jane"}
	company, contact, _, deal := f.seedCompanyTree(t, actor)

	cmd := NewContactDeleteCommand(ContactDeleteCommandConfig{
		DB:         f.db,
		Repository: f.contacts,
		Audit:      f.auditRepo,
	})

	err := cmd.Execute(context.Background(), ContactDeleteInput{
		ID:    contact.ID,
		Actor: actor,
	})
	require.NoError(t, err)

	require.Zero(t, f.count(t, (*store.ContactModel)(nil), "id", contact.ID))
	require.Zero(t, f.count(t, (*store.EngagementModel)(nil), "contact_id", contact.ID))
	require.Zero(t, f.count(t, (*store.DealContactModel)(nil), "contact_id", contact.ID))

	// company and deal survive, only the link is gone
	require.Equal(t, 1, f.count(t, (*store.CompanyModel)(nil), "id", company.ID))
	require.Equal(t, 1, f.count(t, (*store.DealModel)(nil), "id", deal.ID))

	page, err := f.auditRepo.ListAudit(context.Background(), types.AuditFilter{
		Actor:      actor,
		EntityType: types.EntityTypeContact,
		EntityID:   contact.ID,
	})
	require.NoError(t, err)
	require.Len(t, page.Entries, 1)
	require.Equal(t, types.OperationDeletion, page.Entries[0].Kind)
}

func TestEngagementDeleteCommand_Logs(t *testing.T) {
	f := newCascadeFixture(t)
	actor := types.ActorRef{ID: uuid.New(), TenantID: uuid.New()}
	_, _, engagement, _ := f.seedCompanyTree(t, actor)

	cmd := NewEngagementDeleteCommand(EngagementDeleteCommandConfig{
		DB:         f.db,
		Repository: f.engagements,
		Audit:      f.auditRepo,
	})

	err := cmd.Execute(context.Background(), EngagementDeleteInput{
		ID:    engagement.ID,
		Actor: actor,
	})
	require.NoError(t, err)

	require.Zero(t, f.count(t, (*store.EngagementModel)(nil), "id", engagement.ID))
	page, err := f.auditRepo.ListAudit(context.Background(), types.AuditFilter{
		Actor:      actor,
		EntityType: types.EntityTypeEngagement,
		EntityID:   engagement.ID,
	})
	require.NoError(t, err)
	require.Len(t, page.Entries, 1)
}

func TestDealDeleteCommand_RemovesLinks(t *testing.T) {
	f := newCascadeFixture(t)
	actor := types.ActorRef{ID: uuid.New(), TenantID: uuid.New()}
	_, contact, _, deal := f.seedCompanyTree(t, actor)

	cmd := NewDealDeleteCommand(DealDeleteCommandConfig{
		DB:         f.db,
		Repository: f.deals,
		Audit:      f.auditRepo,
	})

	err := cmd.Execute(context.Background(), DealDeleteInput{
		ID:    deal.ID,
		Actor: actor,
	})
	require.NoError(t, err)

	require.Zero(t, f.count(t, (*store.DealModel)(nil), "id", deal.ID))
	require.Zero(t, f.count(t, (*store.DealContactModel)(nil), "deal_id", deal.ID))
	require.Equal(t, 1, f.count(t, (*store.ContactModel)(nil), "id", contact.ID))

	page, err := f.auditRepo.ListAudit(context.Background(), types.AuditFilter{
		Actor:      actor,
		EntityType: types.EntityTypeDeal,
		EntityID:   deal.ID,
	})
	require.NoError(t, err)
	require.Len(t, page.Entries, 1)
	require.Equal(t, types.OperationDeletion, page.Entries[0].Kind)
}

func TestCompanyDeleteCommand_EnrichedSinkJoinsTransaction(t *testing.T) {
	f := newCascadeFixture(t)
	actor := types.ActorRef{ID: uuid.New(), TenantID: uuid.New()}
	company, _, _, _ := f.seedCompanyTree(t, actor)

	cmd := NewCompanyDeleteCommand(CompanyDeleteCommandConfig{
		DB:         f.db,
		Repository: f.companies,
		Audit: &audit.EnrichedSink{
			Sink:       f.auditRepo,
			Enricher:   audit.ActorNameEnricher(staticActorNames{actor.ID: "Jane"}),
			BestEffort: true,
		},
	})

	// break the cascade after the log write so the transaction aborts
	_, err := f.db.Exec("DROP TABLE crm_deal_contacts")
	require.NoError(t, err)

	err = cmd.Execute(context.Background(), CompanyDeleteInput{
		ID:    company.ID,
		Actor: actor,
	})
	require.Error(t, err)

	// the deletion log rolled back together with the cascade
	require.Equal(t, 1, f.count(t, (*store.CompanyModel)(nil), "id", company.ID))
	require.Zero(t, f.count(t, (*audit.Entry)(nil), "", uuid.Nil))
}

func TestCompanyDeleteCommand_EnrichedSinkDescribesActor(t *testing.T) {
	f := newCascadeFixture(t)
	actor := types.ActorRef{ID: uuid.New(), TenantID: uuid.New()}
	company, _, _, _ := f.seedCompanyTree(t, actor)

	cmd := NewCompanyDeleteCommand(CompanyDeleteCommandConfig{
		DB:         f.db,
		Repository: f.companies,
		Audit: &audit.EnrichedSink{
			Sink:       f.auditRepo,
			Enricher:   audit.ActorNameEnricher(staticActorNames{actor.ID: "Jane"}),
			BestEffort: true,
		},
	})

	err := cmd.Execute(context.Background(), CompanyDeleteInput{
		ID:    company.ID,
		Actor: actor,
	})
	require.NoError(t, err)

	page, err := f.auditRepo.ListAudit(context.Background(), types.AuditFilter{
		Actor:      actor,
		EntityType: types.EntityTypeCompany,
		EntityID:   company.ID,
	})
	require.NoError(t, err)
	require.Len(t, page.Entries, 1)
	require.Equal(t, "company deleted by Jane", page.Entries[0].Description)
}

type staticActorNames map[uuid.UUID]string

func (r staticActorNames) ActorName(_ context.Context, id uuid.UUID) (string, error) {
	return r[id], nil
}

// failingTxSink joins the delete transaction and fails, forcing a rollback.
type failingTxSink struct{}

func (failingTxSink) Record(context.Context, types.AuditEntry) error {
	return errors.New("audit store unavailable")
}

func (failingTxSink) RecordTx(context.Context, bun.IDB, types.AuditEntry) error {
	return errors.New("audit store unavailable")
}
