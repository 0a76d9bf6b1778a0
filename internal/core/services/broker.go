package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/calbridge/internal/core/domain"
	"github.com/custodia-labs/calbridge/internal/core/ports/driven"
	"github.com/custodia-labs/calbridge/internal/core/ports/driving"
	"github.com/custodia-labs/calbridge/internal/logger"
)

// Ensure TokenBroker implements the interface.
var _ driving.AuthService = (*TokenBroker)(nil)

// DefaultTokenTTL is applied when the provider reports no expiry and no
// explicit TTL policy is configured.
const DefaultTokenTTL = time.Hour

// DefaultConsentTimeout bounds how long one interactive consent flow may
// stay open before it is treated as abandoned.
const DefaultConsentTimeout = 5 * time.Minute

// BrokerConfig tunes the token broker's credential policy.
type BrokerConfig struct {
	// TokenTTL overrides the credential validity window. Zero means trust
	// the provider-reported expiry, falling back to DefaultTokenTTL when the
	// provider reports none.
	TokenTTL time.Duration

	// ConsentTimeout bounds one interactive flow. Zero means
	// DefaultConsentTimeout.
	ConsentTimeout time.Duration
}

// tokenOutcome is what a queued waiter receives when a consent flow resolves.
type tokenOutcome struct {
	token string
	err   error
}

// TokenBroker owns the process-wide credential session.
//
// It guarantees that at most one interactive consent flow is in flight at a
// time: the first caller that finds the session idle moves it to pending and
// launches the flow; every caller that arrives during the pending window is
// appended to a FIFO waiter list and resumed when the flow resolves. The
// durable record is written before any waiter is resumed, so a resumed
// caller can never race ahead of storage.
//
// All session mutation funnels through Acquire, Invalidate and the
// expiry/consent callbacks below; nothing else touches the fields.
type TokenBroker struct {
	consent driven.ConsentFlow
	store   driven.TokenStore
	cfg     BrokerConfig

	mu          sync.Mutex
	state       domain.AuthState
	token       string
	expiresAt   time.Time
	waiters     []chan tokenOutcome
	expiryTimer *time.Timer
}

// NewTokenBroker creates a token broker in the idle state.
// Call Rehydrate to restore a persisted session from a previous process.
func NewTokenBroker(consent driven.ConsentFlow, store driven.TokenStore, cfg BrokerConfig) *TokenBroker {
	if cfg.ConsentTimeout <= 0 {
		cfg.ConsentTimeout = DefaultConsentTimeout
	}
	return &TokenBroker{
		consent: consent,
		store:   store,
		cfg:     cfg,
		state:   domain.StateIdle,
	}
}

// Rehydrate restores the session from the durable record, if one exists and
// has not expired. An expired record is deleted rather than trusted: the
// timer that would have cleared it died with the previous process.
func (b *TokenBroker) Rehydrate(ctx context.Context) error {
	tok, err := b.store.Get(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNoToken) {
			return nil
		}
		return fmt.Errorf("loading persisted token: %w", err)
	}

	if tok.IsExpired() {
		logger.Debug("persisted token expired, discarding")
		if err := b.store.Delete(ctx); err != nil {
			logger.Warn("deleting expired token record: %v", err)
		}
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = domain.StateReady
	b.token = tok.AccessToken
	b.expiresAt = tok.Expiry
	if b.expiresAt.IsZero() {
		b.expiresAt = time.Now().Add(b.ttl())
	}
	b.armTimerLocked()
	logger.Info("rehydrated session, token valid until %s", b.expiresAt.Format(time.RFC3339))
	return nil
}

// Cached returns the cached token without ever launching a consent flow.
// Returns domain.ErrConsentInProgress while a flow is pending and
// domain.ErrNoToken when the session is idle or the token has expired.
func (b *TokenBroker) Cached() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case domain.StatePending:
		return "", domain.ErrConsentInProgress
	case domain.StateReady:
		if time.Now().Before(b.expiresAt) {
			return b.token, nil
		}
		// The scheduled invalidation has not fired yet; do not hand out a
		// token past its expiry.
		b.resetLocked()
		go b.deletePersisted()
		return "", domain.ErrNoToken
	default:
		return "", domain.ErrNoToken
	}
}

// Acquire returns a valid bearer token, launching the interactive consent
// flow if none is cached. Callers arriving while a flow is pending queue
// behind it in FIFO order and share its outcome. A consent failure is
// reported to every queued caller as domain.ErrConsentDenied.
func (b *TokenBroker) Acquire(ctx context.Context) (string, error) {
	b.mu.Lock()

	if b.state == domain.StateReady {
		if time.Now().Before(b.expiresAt) {
			tok := b.token
			b.mu.Unlock()
			return tok, nil
		}
		b.resetLocked()
		go b.deletePersisted()
	}

	ch := make(chan tokenOutcome, 1)
	b.waiters = append(b.waiters, ch)

	if b.state != domain.StatePending {
		b.state = domain.StatePending
		logger.Debug("session idle, launching consent flow")
		go b.runConsent()
	} else {
		logger.Debug("consent flow in progress, queueing caller")
	}
	b.mu.Unlock()

	select {
	case out := <-ch:
		return out.token, out.err
	case <-ctx.Done():
		// The waiter channel is buffered; the drain's send cannot block on
		// an abandoned caller.
		return "", ctx.Err()
	}
}

// Invalidate clears the cached and persisted credential and returns the
// session to idle. Used after an unauthorised remote response or an explicit
// account switch; it never retries on its own - the caller that detected the
// rejection decides whether to re-acquire. A pending consent flow is left
// alone.
func (b *TokenBroker) Invalidate(ctx context.Context) error {
	b.mu.Lock()
	if b.state == domain.StateReady {
		b.resetLocked()
	}
	b.mu.Unlock()

	if err := b.store.Delete(ctx); err != nil {
		return fmt.Errorf("deleting persisted token: %w", err)
	}
	return nil
}

// Login implements driving.AuthService.
func (b *TokenBroker) Login(ctx context.Context) error {
	_, err := b.Acquire(ctx)
	return err
}

// SwitchAccount implements driving.AuthService.
func (b *TokenBroker) SwitchAccount(ctx context.Context) error {
	logger.Info("account switch requested, clearing credential")
	return b.Invalidate(ctx)
}

// Status implements driving.AuthService.
func (b *TokenBroker) Status(_ context.Context) driving.AuthStatus {
	b.mu.Lock()
	defer b.mu.Unlock()

	st := driving.AuthStatus{State: b.state}
	if b.state == domain.StateReady {
		if time.Now().Before(b.expiresAt) {
			st.ExpiresAt = b.expiresAt
		} else {
			st.State = domain.StateIdle
		}
	}
	return st
}

// runConsent executes one interactive flow and resolves every waiter that
// queued behind it, in arrival order.
func (b *TokenBroker) runConsent() {
	ctx, cancel := context.WithTimeout(context.Background(), b.cfg.ConsentTimeout)
	tok, err := b.consent.Authorize(ctx)
	cancel()

	b.mu.Lock()
	var out tokenOutcome
	if err != nil {
		logger.Warn("consent flow failed: %v", err)
		b.resetLocked()
		if !errors.Is(err, domain.ErrConsentDenied) {
			err = fmt.Errorf("%w: %v", domain.ErrConsentDenied, err)
		}
		out = tokenOutcome{err: err}
	} else {
		expiry := b.expiryFor(tok)
		record := domain.OAuthToken{AccessToken: tok.AccessToken, Expiry: expiry}
		// Persist before resuming anyone. A waiter resumed here may
		// immediately issue remote calls and must never outrun storage.
		if serr := b.store.Save(context.Background(), record); serr != nil {
			logger.Warn("persisting token: %v", serr)
		}
		b.state = domain.StateReady
		b.token = tok.AccessToken
		b.expiresAt = expiry
		b.armTimerLocked()
		logger.Info("consent granted, token valid until %s", expiry.Format(time.RFC3339))
		out = tokenOutcome{token: tok.AccessToken}
	}
	waiters := b.waiters
	b.waiters = nil
	b.mu.Unlock()

	for _, ch := range waiters {
		ch <- out
	}
}

// expiryFor applies the TTL policy to a freshly granted token.
func (b *TokenBroker) expiryFor(tok *domain.OAuthToken) time.Time {
	if b.cfg.TokenTTL > 0 {
		return time.Now().Add(b.cfg.TokenTTL)
	}
	if !tok.Expiry.IsZero() {
		return tok.Expiry
	}
	return time.Now().Add(DefaultTokenTTL)
}

func (b *TokenBroker) ttl() time.Duration {
	if b.cfg.TokenTTL > 0 {
		return b.cfg.TokenTTL
	}
	return DefaultTokenTTL
}

// armTimerLocked schedules the expiry callback. Callers hold b.mu.
func (b *TokenBroker) armTimerLocked() {
	if b.expiryTimer != nil {
		b.expiryTimer.Stop()
	}
	b.expiryTimer = time.AfterFunc(time.Until(b.expiresAt), b.expire)
}

// expire is the scheduled invalidation callback.
func (b *TokenBroker) expire() {
	b.mu.Lock()
	if b.state != domain.StateReady || time.Now().Before(b.expiresAt) {
		b.mu.Unlock()
		return
	}
	logger.Debug("token expired, clearing session")
	b.resetLocked()
	b.mu.Unlock()

	b.deletePersisted()
}

// resetLocked returns the session to idle. Callers hold b.mu.
func (b *TokenBroker) resetLocked() {
	b.state = domain.StateIdle
	b.token = ""
	b.expiresAt = time.Time{}
	if b.expiryTimer != nil {
		b.expiryTimer.Stop()
		b.expiryTimer = nil
	}
}

func (b *TokenBroker) deletePersisted() {
	if err := b.store.Delete(context.Background()); err != nil {
		logger.Warn("deleting persisted token: %v", err)
	}
}
