package consent

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/custodia-labs/calbridge/internal/core/domain"
	"github.com/custodia-labs/calbridge/internal/core/ports/driven"
	"github.com/custodia-labs/calbridge/internal/logger"
)

// GoogleAuthURL is the Google OAuth 2.0 authorization endpoint.
const GoogleAuthURL = "https://accounts.google.com/o/oauth2/v2/auth"

// DefaultScope grants event-level calendar access only.
const DefaultScope = "https://www.googleapis.com/auth/calendar.events"

// Config holds the consent flow configuration.
type Config struct {
	// ClientID is the OAuth client id registered with Google.
	ClientID string
	// Scopes requested at consent time. Defaults to DefaultScope.
	Scopes []string
	// Port for the local callback server. 0 picks a free port.
	Port int
	// AuthURL overrides the authorization endpoint. Tests use this.
	AuthURL string
	// OpenURL opens the consent page in the user's browser.
	// Defaults to OpenBrowser.
	OpenURL func(url string) error
}

// Flow implements driven.ConsentFlow with the implicit grant: the access
// token comes back in the redirect fragment, no client secret and no refresh
// token involved.
type Flow struct {
	cfg Config
}

var _ driven.ConsentFlow = (*Flow)(nil)

// NewFlow creates a consent flow with the given configuration.
func NewFlow(cfg Config) *Flow {
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = []string{DefaultScope}
	}
	if cfg.AuthURL == "" {
		cfg.AuthURL = GoogleAuthURL
	}
	if cfg.OpenURL == nil {
		cfg.OpenURL = OpenBrowser
	}
	return &Flow{cfg: cfg}
}

// Authorize opens the consent UI and blocks until the redirect arrives or
// ctx expires. Every failure outcome wraps domain.ErrConsentDenied.
func (f *Flow) Authorize(ctx context.Context) (*domain.OAuthToken, error) {
	if f.cfg.ClientID == "" {
		return nil, fmt.Errorf("%w: no oauth client id configured", domain.ErrConsentDenied)
	}

	state := generateState()
	server := NewCallbackServer(f.cfg.Port, state)
	if err := server.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConsentDenied, err)
	}
	defer func() { _ = server.Stop() }()

	authURL := f.buildAuthURL(server.RedirectURI(), state)
	logger.Info("consent: opening browser for account selection")
	if err := f.cfg.OpenURL(authURL); err != nil {
		return nil, fmt.Errorf("%w: opening browser: %v", domain.ErrConsentDenied, err)
	}

	select {
	case result := <-server.tokenChan:
		token := &domain.OAuthToken{AccessToken: result.accessToken}
		if result.expiresIn > 0 {
			token.Expiry = time.Now().Add(time.Duration(result.expiresIn) * time.Second)
		}
		logger.Debug("consent: token received, expires %s", token.Expiry.Format(time.RFC3339))
		return token, nil
	case err := <-server.errChan:
		return nil, fmt.Errorf("%w: %v", domain.ErrConsentDenied, err)
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", domain.ErrConsentDenied, ctx.Err())
	}
}

// buildAuthURL assembles the implicit-grant authorization URL.
// prompt=select_account forces the account chooser so a different account
// can be picked after a switch.
func (f *Flow) buildAuthURL(redirectURI, state string) string {
	params := url.Values{}
	params.Set("client_id", f.cfg.ClientID)
	params.Set("response_type", "token")
	params.Set("redirect_uri", redirectURI)
	params.Set("scope", strings.Join(f.cfg.Scopes, " "))
	params.Set("prompt", "select_account")
	params.Set("state", state)
	return f.cfg.AuthURL + "?" + params.Encode()
}

// generateState produces a random state parameter for CSRF protection.
func generateState() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// Fallback to less secure but still usable random
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// OpenBrowser opens the default browser to the given URL.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
