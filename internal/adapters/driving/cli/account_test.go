package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/calbridge/internal/core/domain"
	"github.com/custodia-labs/calbridge/internal/core/ports/driving"
)

// mockAuthService implements driving.AuthService for testing.
type mockAuthService struct {
	status     driving.AuthStatus
	loginErr   error
	switchErr  error
	loggedIn   bool
	switchedAt int
}

func (m *mockAuthService) Login(context.Context) error {
	m.loggedIn = true
	return m.loginErr
}

func (m *mockAuthService) SwitchAccount(context.Context) error {
	m.switchedAt++
	return m.switchErr
}

func (m *mockAuthService) Status(context.Context) driving.AuthStatus {
	return m.status
}

func setupAccountTest(mock *mockAuthService) func() {
	oldAuth := authService
	oldSync := syncService
	authService = mock
	syncService = &mockCLISyncService{}
	return func() {
		authService = oldAuth
		syncService = oldSync
	}
}

func TestAccountCmd_Use(t *testing.T) {
	assert.Equal(t, "account", accountCmd.Use)
}

func TestAccountLoginCmd_Executes(t *testing.T) {
	mock := &mockAuthService{}
	cleanup := setupAccountTest(mock)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"account", "login"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.True(t, mock.loggedIn)
	assert.Contains(t, buf.String(), "Signed in.")
}

func TestAccountLoginCmd_ConsentDenied(t *testing.T) {
	mock := &mockAuthService{loginErr: domain.ErrConsentDenied}
	cleanup := setupAccountTest(mock)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"account", "login"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.ErrorIs(t, err, domain.ErrConsentDenied)
}

func TestAccountSwitchCmd_ClearsCredential(t *testing.T) {
	mock := &mockAuthService{}
	cleanup := setupAccountTest(mock)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"account", "switch"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Equal(t, 1, mock.switchedAt)
	assert.Contains(t, buf.String(), "Credential cleared")
}

func TestAccountStatusCmd_Ready(t *testing.T) {
	mock := &mockAuthService{status: driving.AuthStatus{
		State:     domain.StateReady,
		ExpiresAt: time.Date(2025, 3, 1, 11, 0, 0, 0, time.UTC),
	}}
	cleanup := setupAccountTest(mock)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"account", "status"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Signed in")
	assert.Contains(t, buf.String(), "2025-03-01")
}

func TestAccountStatusCmd_Idle(t *testing.T) {
	mock := &mockAuthService{status: driving.AuthStatus{State: domain.StateIdle}}
	cleanup := setupAccountTest(mock)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"account", "status"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Not signed in.")
}

func TestAccountStatusCmd_Pending(t *testing.T) {
	mock := &mockAuthService{status: driving.AuthStatus{State: domain.StatePending}}
	cleanup := setupAccountTest(mock)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"account", "status"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Consent flow in progress.")
}
