package keyring

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/custodia-labs/calbridge/internal/core/domain"
)

func newMockStore(t *testing.T) *TokenStore {
	t.Helper()
	keyring.MockInit()
	store := NewTokenStore()
	t.Cleanup(func() { _ = store.Delete(context.Background()) })
	return store
}

func TestTokenStoreRoundTrip(t *testing.T) {
	store := newMockStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx)
	assert.ErrorIs(t, err, domain.ErrNoToken)

	expiry := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	require.NoError(t, store.Save(ctx, domain.OAuthToken{AccessToken: "tok-1", Expiry: expiry}))

	token, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token.AccessToken)
	assert.True(t, expiry.Equal(token.Expiry))
}

func TestTokenStoreZeroExpiry(t *testing.T) {
	store := newMockStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.OAuthToken{AccessToken: "tok"}))

	token, err := store.Get(ctx)
	require.NoError(t, err)
	assert.True(t, token.Expiry.IsZero())
}

func TestTokenStoreDelete(t *testing.T) {
	store := newMockStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.OAuthToken{AccessToken: "tok"}))
	require.NoError(t, store.Delete(ctx))

	_, err := store.Get(ctx)
	assert.ErrorIs(t, err, domain.ErrNoToken)

	// Deleting an absent record is not an error
	require.NoError(t, store.Delete(ctx))
}
