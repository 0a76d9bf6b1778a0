package calendar

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/custodia-labs/calbridge/internal/core/domain"
	"github.com/custodia-labs/calbridge/internal/core/ports/driven"
	"github.com/custodia-labs/calbridge/internal/logger"
)

// DefaultTimeZone is used for timed events when the configuration does not
// name one.
const DefaultTimeZone = "Asia/Kolkata"

// calendarID is the calendar every event lands on.
const calendarID = "primary"

// Gateway implements driven.CalendarGateway against the Google Calendar API.
// Each call builds a short-lived API client around the caller's bearer token;
// tokens belong to the broker, not the gateway.
type Gateway struct {
	timeZone    string
	rateLimiter *RateLimiter
	extraOpts   []option.ClientOption
}

var _ driven.CalendarGateway = (*Gateway)(nil)

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithTimeZone sets the timezone attached to timed events.
func WithTimeZone(tz string) GatewayOption {
	return func(g *Gateway) {
		if tz != "" {
			g.timeZone = tz
		}
	}
}

// WithRateLimit overrides the default API rate limit.
func WithRateLimit(cfg RateLimitConfig) GatewayOption {
	return func(g *Gateway) {
		g.rateLimiter = NewRateLimiter(cfg)
	}
}

// WithClientOptions appends extra Google API client options. Tests use this
// to point the client at a local server.
func WithClientOptions(opts ...option.ClientOption) GatewayOption {
	return func(g *Gateway) {
		g.extraOpts = append(g.extraOpts, opts...)
	}
}

// NewGateway creates a calendar gateway.
func NewGateway(opts ...GatewayOption) *Gateway {
	g := &Gateway{
		timeZone:    DefaultTimeZone,
		rateLimiter: NewRateLimiter(DefaultRateLimit),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CreateEvent inserts a new event on the primary calendar and returns the
// remote event id.
func (g *Gateway) CreateEvent(ctx context.Context, token string, details domain.EventDetails) (string, error) {
	svc, err := g.service(ctx, token)
	if err != nil {
		return "", err
	}

	if err := g.rateLimiter.Wait(ctx); err != nil {
		return "", err
	}

	logger.Debug("calendar: inserting event %q on %s", details.Title, details.Date)
	created, err := svc.Events.Insert(calendarID, EventFromDetails(details, g.timeZone)).Context(ctx).Do()
	if err != nil {
		return "", g.wrapAPIError(err)
	}
	return created.Id, nil
}

// UpdateEvent patches an existing event in place and returns its remote
// event id.
func (g *Gateway) UpdateEvent(ctx context.Context, token string, eventID string, details domain.EventDetails) (string, error) {
	if eventID == "" {
		return "", fmt.Errorf("%w: event id is required for update", domain.ErrInvalidInput)
	}

	svc, err := g.service(ctx, token)
	if err != nil {
		return "", err
	}

	if err := g.rateLimiter.Wait(ctx); err != nil {
		return "", err
	}

	logger.Debug("calendar: patching event %s", eventID)
	updated, err := svc.Events.Patch(calendarID, eventID, EventFromDetails(details, g.timeZone)).Context(ctx).Do()
	if err != nil {
		return "", g.wrapAPIError(err)
	}
	return updated.Id, nil
}

// service builds a Calendar API client bound to the given bearer token.
func (g *Gateway) service(ctx context.Context, token string) (*calendar.Service, error) {
	if token == "" {
		return nil, domain.ErrNoToken
	}

	opts := []option.ClientOption{
		option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})),
	}
	opts = append(opts, g.extraOpts...)

	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating calendar client: %w", err)
	}
	return svc, nil
}

// wrapAPIError maps an API failure into a domain error and feeds any 429
// backoff hint into the rate limiter.
func (g *Gateway) wrapAPIError(err error) error {
	wrapped := WrapError(err)
	if IsRateLimited(wrapped) {
		g.rateLimiter.RecordRateLimitError(0)
	}
	return wrapped
}
