package stellarium

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryError_IsMatchesKindSentinel(t *testing.T) {
	sentinels := map[Kind]error{
		KindRequest:         ErrRequest,
		KindUnexpected:      ErrUnexpected,
		KindObjectNotFound:  ErrObjectNotFound,
		KindUnableToParse:   ErrUnableToParse,
		KindNotAboveHorizon: ErrNotAboveHorizon,
	}
	for kind, want := range sentinels {
		err := fmt.Errorf("poll: %w", &QueryError{Kind: kind})
		for other, sentinel := range sentinels {
			assert.Equal(t, other == kind, errors.Is(err, sentinel), "%s vs %s", kind, other)
		}
		assert.True(t, errors.Is(err, want))
		assert.Equal(t, kind, KindOf(err))
	}
}

func TestQueryError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &QueryError{Kind: KindRequest, Port: 8090, Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrRequest)
}

func TestQueryError_Messages(t *testing.T) {
	assert.Contains(t, (&QueryError{Kind: KindRequest, Port: 8090}).Error(), "port 8090")
	assert.Contains(t, (&QueryError{Kind: KindUnexpected, StatusCode: 500}).Error(), "HTTP 500")
	assert.Equal(t, "select an object in Stellarium", (&QueryError{Kind: KindObjectNotFound}).Error())

	// the cause stays out of the console message
	err := &QueryError{Kind: KindUnableToParse, Err: errors.New("invalid character 'x'")}
	assert.NotContains(t, err.Error(), "invalid character")
}

func TestKind_Retryable(t *testing.T) {
	assert.False(t, KindRequest.Retryable())
	assert.False(t, KindUnexpected.Retryable())
	assert.False(t, KindUnableToParse.Retryable())
	assert.True(t, KindObjectNotFound.Retryable())
	assert.True(t, KindNotAboveHorizon.Retryable())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "request_error", KindRequest.String())
	assert.Equal(t, "not_above_horizon", KindNotAboveHorizon.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
}

func TestKindOf_NotAQueryError(t *testing.T) {
	assert.Equal(t, Kind(0), KindOf(errors.New("boom")))
	assert.Equal(t, Kind(0), KindOf(nil))
}
