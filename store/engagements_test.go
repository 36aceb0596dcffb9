package store

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-crm/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestEngagementStore_CreateAndListByDateRange(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	store, err := NewEngagementStore(EngagementStoreConfig{DB: db})
	require.NoError(t, err)

	actor := types.ActorRef{ID: uuid.New(), TenantID: uuid.New()}
	companyID := uuid.New()
	day := func(d int) time.Time {
		return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
	}

	for d := 1; d <= 5; d++ {
		_, err := store.CreateEngagement(ctx, actor, types.Engagement{
			Date:      day(d),
			StartTime: "09:00",
			Duration:  60,
			CompanyID: companyID,
		})
		require.NoError(t, err)
	}

	from := day(2)
	until := day(4)
	page, err := store.ListEngagements(ctx, types.EngagementFilter{
		Actor: actor,
		From:  &from,
		Until: &until,
	})
	require.NoError(t, err)
	require.Equal(t, 3, page.Total)
	// newest first
	require.True(t, page.Engagements[0].Date.After(page.Engagements[2].Date))
}

func TestEngagementStore_ListFiltersByContact(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	store, err := NewEngagementStore(EngagementStoreConfig{DB: db})
	require.NoError(t, err)

	actor := types.ActorRef{ID: uuid.New(), TenantID: uuid.New()}
	contactID := uuid.New()
	date := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	_, err = store.CreateEngagement(ctx, actor, types.Engagement{Date: date, ContactID: contactID})
	require.NoError(t, err)
	_, err = store.CreateEngagement(ctx, actor, types.Engagement{Date: date})
	require.NoError(t, err)

	page, err := store.ListEngagements(ctx, types.EngagementFilter{Actor: actor, ContactID: contactID})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	require.Equal(t, contactID, page.Engagements[0].ContactID)
}

func TestEngagementStore_UpdateGuardsTenant(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	store, err := NewEngagementStore(EngagementStoreConfig{DB: db})
	require.NoError(t, err)

	tenantID := uuid.New()
	actor := types.ActorRef{ID: uuid.New(), TenantID: tenantID}
	created, err := store.CreateEngagement(ctx, actor, types.Engagement{
		Date:     time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		Duration: 30,
	})
	require.NoError(t, err)

	foreign := uuid.New()
	duration := 90
	updated, err := store.UpdateEngagement(ctx, actor, created.ID, types.EngagementPatch{
		Duration: &duration,
		TenantID: &foreign,
	})
	require.NoError(t, err)
	require.Equal(t, 90, updated.Duration)
	require.Equal(t, tenantID, updated.TenantID)
	require.Equal(t, "1h 30m", updated.FormattedDuration())
}
