package calendar

import (
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/calbridge/internal/core/domain"
)

func TestWrapErrorUnauthorized(t *testing.T) {
	err := WrapError(&googleapi.Error{Code: http.StatusUnauthorized, Message: "Invalid Credentials"})

	assert.ErrorIs(t, err, domain.ErrUnauthorised)
	assert.True(t, IsUnauthorized(err))

	var rerr *domain.RemoteError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, http.StatusUnauthorized, rerr.StatusCode)
	assert.Equal(t, "Invalid Credentials", rerr.Message)
}

func TestWrapErrorRemoteRejection(t *testing.T) {
	err := WrapError(&googleapi.Error{Code: http.StatusForbidden, Message: "Insufficient Permission"})

	assert.ErrorIs(t, err, domain.ErrRemoteRejected)
	assert.False(t, IsUnauthorized(err))

	var rerr *domain.RemoteError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "Insufficient Permission", rerr.Message)
}

func TestWrapErrorBlankRemoteMessage(t *testing.T) {
	err := WrapError(&googleapi.Error{Code: http.StatusBadRequest})

	var rerr *domain.RemoteError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "request failed with status 400", rerr.Message)
}

func TestWrapErrorTransportFailure(t *testing.T) {
	err := WrapError(io.ErrUnexpectedEOF)

	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.False(t, IsUnauthorized(err))
}

func TestWrapErrorNil(t *testing.T) {
	assert.NoError(t, WrapError(nil))
}

func TestIsRateLimited(t *testing.T) {
	err := WrapError(&googleapi.Error{Code: http.StatusTooManyRequests, Message: "Rate Limit Exceeded"})
	assert.True(t, IsRateLimited(err))
	assert.False(t, IsRateLimited(errors.New("plain")))
}
