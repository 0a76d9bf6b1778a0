// Package keyring stores the delegated token in the operating system
// keychain. Preferred over the SQLite store on desktops where a keychain is
// available, since the bearer token then never touches disk in plain text.
package keyring

import (
	"context"
	"errors"
	"time"

	"github.com/zalando/go-keyring"

	"github.com/custodia-labs/calbridge/internal/core/domain"
	"github.com/custodia-labs/calbridge/internal/core/ports/driven"
)

const (
	keychainService     = "calbridge"
	keychainAccessToken = "access_token"
	keychainExpiry      = "token_expiry"
)

// Ensure TokenStore implements the interface.
var _ driven.TokenStore = (*TokenStore)(nil)

// TokenStore is a keychain-backed implementation of driven.TokenStore.
type TokenStore struct {
	service string
}

// NewTokenStore creates a keychain-backed token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{service: keychainService}
}

// Save stores the token, replacing any previous record.
func (s *TokenStore) Save(_ context.Context, token domain.OAuthToken) error {
	if err := keyring.Set(s.service, keychainAccessToken, token.AccessToken); err != nil {
		return err
	}

	expiry := ""
	if !token.Expiry.IsZero() {
		expiry = token.Expiry.UTC().Format(time.RFC3339)
	}
	return keyring.Set(s.service, keychainExpiry, expiry)
}

// Get retrieves the stored token.
func (s *TokenStore) Get(_ context.Context) (*domain.OAuthToken, error) {
	accessToken, err := keyring.Get(s.service, keychainAccessToken)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, domain.ErrNoToken
		}
		return nil, err
	}

	token := &domain.OAuthToken{AccessToken: accessToken}

	expiryStr, err := keyring.Get(s.service, keychainExpiry)
	if err == nil && expiryStr != "" {
		if expiry, perr := time.Parse(time.RFC3339, expiryStr); perr == nil {
			token.Expiry = expiry
		}
	}

	return token, nil
}

// Delete removes the stored token. Deleting an absent record is not an
// error.
func (s *TokenStore) Delete(_ context.Context) error {
	for _, key := range []string{keychainAccessToken, keychainExpiry} {
		if err := keyring.Delete(s.service, key); err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return err
		}
	}
	return nil
}
