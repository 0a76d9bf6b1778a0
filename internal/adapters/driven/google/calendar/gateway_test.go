package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/custodia-labs/calbridge/internal/core/domain"
)

// fakeCalendarServer records the requests the gateway makes and serves
// canned responses.
type fakeCalendarServer struct {
	*httptest.Server

	method string
	path   string
	auth   string
	body   map[string]any

	status   int
	response string
}

func newFakeCalendarServer(t *testing.T) *fakeCalendarServer {
	t.Helper()

	f := &fakeCalendarServer{status: http.StatusOK, response: `{"id": "evt-123"}`}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.method = r.Method
		f.path = r.URL.Path
		f.auth = r.Header.Get("Authorization")
		f.body = nil
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&f.body)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(f.response))
	}))
	t.Cleanup(f.Server.Close)
	return f
}

func newTestGateway(srv *fakeCalendarServer, opts ...GatewayOption) *Gateway {
	opts = append(opts, WithClientOptions(option.WithEndpoint(srv.URL+"/")))
	return NewGateway(opts...)
}

func TestCreateEvent(t *testing.T) {
	srv := newFakeCalendarServer(t)
	gw := newTestGateway(srv, WithTimeZone("Asia/Kolkata"))

	id, err := gw.CreateEvent(context.Background(), "tok-1", domain.EventDetails{
		Title:     "Mid-semester exam",
		Date:      "2025-03-01",
		StartTime: "10:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "evt-123", id)

	assert.Equal(t, http.MethodPost, srv.method)
	assert.Equal(t, "/calendars/primary/events", srv.path)
	assert.Equal(t, "Bearer tok-1", srv.auth)

	start := srv.body["start"].(map[string]any)
	end := srv.body["end"].(map[string]any)
	assert.Equal(t, "2025-03-01T10:00:00", start["dateTime"])
	assert.Equal(t, "2025-03-01T11:00:00", end["dateTime"])
	assert.Equal(t, "Asia/Kolkata", start["timeZone"])
}

func TestCreateEventAllDayBody(t *testing.T) {
	srv := newFakeCalendarServer(t)
	gw := newTestGateway(srv)

	_, err := gw.CreateEvent(context.Background(), "tok-1", domain.EventDetails{
		Title: "Holiday",
		Date:  "2025-03-01",
	})
	require.NoError(t, err)

	start := srv.body["start"].(map[string]any)
	assert.Equal(t, "2025-03-01", start["date"])
	assert.NotContains(t, start, "timeZone")
	assert.NotContains(t, start, "dateTime")
}

func TestUpdateEvent(t *testing.T) {
	srv := newFakeCalendarServer(t)
	srv.response = `{"id": "evt-42"}`
	gw := newTestGateway(srv)

	id, err := gw.UpdateEvent(context.Background(), "tok-1", "evt-42", domain.EventDetails{
		Title: "Rescheduled exam",
		Date:  "2025-03-02",
	})
	require.NoError(t, err)
	assert.Equal(t, "evt-42", id)

	assert.Equal(t, http.MethodPatch, srv.method)
	assert.Equal(t, "/calendars/primary/events/evt-42", srv.path)
}

func TestUpdateEventRequiresID(t *testing.T) {
	srv := newFakeCalendarServer(t)
	gw := newTestGateway(srv)

	_, err := gw.UpdateEvent(context.Background(), "tok-1", "", domain.EventDetails{Date: "2025-03-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateEventUnauthorized(t *testing.T) {
	srv := newFakeCalendarServer(t)
	srv.status = http.StatusUnauthorized
	srv.response = `{"error": {"code": 401, "message": "Invalid Credentials"}}`
	gw := newTestGateway(srv)

	_, err := gw.CreateEvent(context.Background(), "stale-tok", domain.EventDetails{Date: "2025-03-01"})
	assert.ErrorIs(t, err, domain.ErrUnauthorised)
}

func TestCreateEventRemoteRejection(t *testing.T) {
	srv := newFakeCalendarServer(t)
	srv.status = http.StatusForbidden
	srv.response = `{"error": {"code": 403, "message": "Insufficient Permission"}}`
	gw := newTestGateway(srv)

	_, err := gw.CreateEvent(context.Background(), "tok-1", domain.EventDetails{Date: "2025-03-01"})
	assert.ErrorIs(t, err, domain.ErrRemoteRejected)

	var rerr *domain.RemoteError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "Insufficient Permission", rerr.Message)
}

func TestCreateEventWithoutToken(t *testing.T) {
	srv := newFakeCalendarServer(t)
	gw := newTestGateway(srv)

	_, err := gw.CreateEvent(context.Background(), "", domain.EventDetails{Date: "2025-03-01"})
	assert.ErrorIs(t, err, domain.ErrNoToken)
}
