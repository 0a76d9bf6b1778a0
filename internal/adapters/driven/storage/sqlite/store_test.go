package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/calbridge/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNewStoreCreatesDatabase(t *testing.T) {
	store := newTestStore(t)
	assert.NotEmpty(t, store.Path())
}

func TestMigrationsAreIdempotent(t *testing.T) {
	dir := t.TempDir()

	store1, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store1.Close())

	// Reopening runs migrations against an already-migrated database
	store2, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store2.Close())
}

func TestTokenStoreRoundTrip(t *testing.T) {
	tokens := newTestStore(t).TokenStore()
	ctx := context.Background()

	_, err := tokens.Get(ctx)
	assert.ErrorIs(t, err, domain.ErrNoToken)

	expiry := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	require.NoError(t, tokens.Save(ctx, domain.OAuthToken{AccessToken: "tok-1", Expiry: expiry}))

	token, err := tokens.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token.AccessToken)
	assert.True(t, expiry.Equal(token.Expiry.UTC()), "expiry survives the round trip")
}

func TestTokenStoreSingleRecord(t *testing.T) {
	tokens := newTestStore(t).TokenStore()
	ctx := context.Background()

	require.NoError(t, tokens.Save(ctx, domain.OAuthToken{AccessToken: "old"}))
	require.NoError(t, tokens.Save(ctx, domain.OAuthToken{AccessToken: "new"}))

	token, err := tokens.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", token.AccessToken)
}

func TestTokenStoreZeroExpiry(t *testing.T) {
	tokens := newTestStore(t).TokenStore()
	ctx := context.Background()

	require.NoError(t, tokens.Save(ctx, domain.OAuthToken{AccessToken: "tok"}))

	token, err := tokens.Get(ctx)
	require.NoError(t, err)
	assert.True(t, token.Expiry.IsZero())
}

func TestTokenStoreDelete(t *testing.T) {
	tokens := newTestStore(t).TokenStore()
	ctx := context.Background()

	require.NoError(t, tokens.Save(ctx, domain.OAuthToken{AccessToken: "tok"}))
	require.NoError(t, tokens.Delete(ctx))

	_, err := tokens.Get(ctx)
	assert.ErrorIs(t, err, domain.ErrNoToken)

	// Deleting an absent record is not an error
	require.NoError(t, tokens.Delete(ctx))
}

func TestTokenSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store1, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store1.TokenStore().Save(ctx, domain.OAuthToken{AccessToken: "persisted"}))
	require.NoError(t, store1.Close())

	store2, err := NewStore(dir)
	require.NoError(t, err)
	defer store2.Close()

	token, err := store2.TokenStore().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "persisted", token.AccessToken)
}

func TestMappingStoreRoundTrip(t *testing.T) {
	mappings := newTestStore(t).MappingStore()
	ctx := context.Background()

	_, err := mappings.Get(ctx, "card-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, mappings.Save(ctx, domain.EventMapping{CardID: "card-1", EventID: "evt-1"}))

	eventID, err := mappings.Get(ctx, "card-1")
	require.NoError(t, err)
	assert.Equal(t, "evt-1", eventID)
}

func TestMappingStoreOverwrite(t *testing.T) {
	mappings := newTestStore(t).MappingStore()
	ctx := context.Background()

	require.NoError(t, mappings.Save(ctx, domain.EventMapping{CardID: "card-1", EventID: "evt-1"}))
	require.NoError(t, mappings.Save(ctx, domain.EventMapping{CardID: "card-1", EventID: "evt-2"}))

	eventID, err := mappings.Get(ctx, "card-1")
	require.NoError(t, err)
	assert.Equal(t, "evt-2", eventID)
}

func TestMappingStoreList(t *testing.T) {
	mappings := newTestStore(t).MappingStore()
	ctx := context.Background()

	require.NoError(t, mappings.Save(ctx, domain.EventMapping{CardID: "card-1", EventID: "evt-1"}))
	require.NoError(t, mappings.Save(ctx, domain.EventMapping{CardID: "card-2", EventID: "evt-2"}))

	all, err := mappings.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
