package store

import (
	"context"
	"testing"

	"github.com/goliatone/go-crm/pkg/types"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestLookupStore_CreateAndListByKind(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	store, err := NewLookupStore(LookupStoreConfig{DB: db})
	require.NoError(t, err)

	actor := types.ActorRef{ID: uuid.New(), TenantID: uuid.New()}

	_, err = store.CreateLookup(ctx, actor, types.LookupKindEngagementType, types.LookupEntry{Name: "Meeting", Position: 2})
	require.NoError(t, err)
	_, err = store.CreateLookup(ctx, actor, types.LookupKindEngagementType, types.LookupEntry{Name: "Call", Position: 1})
	require.NoError(t, err)
	_, err = store.CreateLookup(ctx, actor, types.LookupKindDealType, types.LookupEntry{Name: "New Business"})
	require.NoError(t, err)

	entries, err := store.ListLookup(ctx, actor, types.LookupKindEngagementType)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "Call", entries[0].Name)
	require.Equal(t, "Meeting", entries[1].Name)
}

func TestLookupStore_SharedEntriesVisibleAcrossTenants(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	store, err := NewLookupStore(LookupStoreConfig{DB: db})
	require.NoError(t, err)

	admin := types.ActorRef{ID: uuid.New(), Admin: true}
	_, err = store.CreateLookup(ctx, admin, types.LookupKindContactRole, types.LookupEntry{Name: "CEO"})
	require.NoError(t, err)

	actor := types.ActorRef{ID: uuid.New(), TenantID: uuid.New()}
	_, err = store.CreateLookup(ctx, actor, types.LookupKindContactRole, types.LookupEntry{Name: "CTO"})
	require.NoError(t, err)

	entries, err := store.ListLookup(ctx, actor, types.LookupKindContactRole)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	other := types.ActorRef{ID: uuid.New(), TenantID: uuid.New()}
	entries, err = store.ListLookup(ctx, other, types.LookupKindContactRole)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "CEO", entries[0].Name)
}

func TestLookupStore_CacheWrapsRepository(t *testing.T) {
	db := newTestDB(t)
	store, err := NewLookupStore(LookupStoreConfig{DB: db}, WithLookupCache(true))
	require.NoError(t, err)

	_, ok := store.lookupStore.(*repositorycache.CachedRepository[*LookupModel])
	require.True(t, ok)
}
