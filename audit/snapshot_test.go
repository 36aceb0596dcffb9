package audit

import (
	"testing"
	"time"

	"github.com/goliatone/go-crm/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestCompanySnapshot(t *testing.T) {
	tenantID := uuid.New()
	company := types.Company{
		ID:       uuid.New(),
		TenantID: tenantID,
		Name:     "Acme",
		Locality: "Lisbon",
		Email:    "hello@acme.test",
		Status:   types.EntityStatusActive,
	}

	snapshot := CompanySnapshot(company)
	require.Equal(t, "Acme", snapshot["name"])
	require.Equal(t, "Lisbon", snapshot["locality"])
	require.Equal(t, "active", snapshot["status"])
	require.Equal(t, tenantID.String(), snapshot["tenant_id"])

	company.TenantID = uuid.Nil
	require.Nil(t, CompanySnapshot(company)["tenant_id"])
}

func TestEngagementSnapshotDate(t *testing.T) {
	engagement := types.Engagement{
		Date:      time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
		StartTime: "10:30",
		Duration:  90,
	}
	snapshot := EngagementSnapshot(engagement)
	require.Equal(t, "2026-03-14", snapshot["date"])
	require.Equal(t, 90, snapshot["duration"])

	require.Nil(t, EngagementSnapshot(types.Engagement{})["date"])
}

func TestDealSnapshotContactsOrderInsensitive(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	deal := types.Deal{
		Name:       "Renewal",
		Stage:      types.DealStageNew,
		ContactIDs: []uuid.UUID{a, b},
	}
	reordered := deal
	reordered.ContactIDs = []uuid.UUID{b, a}

	require.False(t, Changed(DealSnapshot(deal), DealSnapshot(reordered)))

	reordered.ContactIDs = []uuid.UUID{a}
	require.True(t, Changed(DealSnapshot(deal), DealSnapshot(reordered)))
}

func TestChanged(t *testing.T) {
	contact := types.Contact{
		FirstName: "Ana",
		LastName:  "Silva",
		Email:     "ana@acme.test",
		Status:    types.EntityStatusActive,
	}
	prior := ContactSnapshot(contact)

	require.False(t, Changed(prior, ContactSnapshot(contact)))

	contact.Email = "ana.silva@acme.test"
	require.True(t, Changed(prior, ContactSnapshot(contact)))
}
