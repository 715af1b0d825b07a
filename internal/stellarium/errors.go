package stellarium

import (
	"errors"
	"fmt"
)

// Kind classifies why a query failed.
type Kind int

const (
	// KindRequest means the API could not be reached at all.
	KindRequest Kind = iota + 1

	// KindUnexpected means the API answered with a status other than 200 or 404.
	KindUnexpected

	// KindObjectNotFound means the API is up but nothing is selected (404).
	KindObjectNotFound

	// KindUnableToParse means a 200 response carried a body we could not decode.
	KindUnableToParse

	// KindNotAboveHorizon means the selected object is below the horizon.
	KindNotAboveHorizon
)

// Sentinels for errors.Is. Every *QueryError matches the sentinel of its Kind.
var (
	ErrRequest         = errors.New("stellarium request failed")
	ErrUnexpected      = errors.New("unexpected stellarium response")
	ErrObjectNotFound  = errors.New("no object selected")
	ErrUnableToParse   = errors.New("unparseable stellarium response")
	ErrNotAboveHorizon = errors.New("object not above horizon")
)

// String returns the snake_case label used in logs and metrics.
func (k Kind) String() string {
	switch k {
	case KindRequest:
		return "request_error"
	case KindUnexpected:
		return "unexpected_error"
	case KindObjectNotFound:
		return "object_not_found"
	case KindUnableToParse:
		return "unable_to_parse"
	case KindNotAboveHorizon:
		return "not_above_horizon"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Retryable reports whether the failure is expected to clear up on its own
// once the user selects a (visible) object.
func (k Kind) Retryable() bool {
	return k == KindObjectNotFound || k == KindNotAboveHorizon
}

func (k Kind) sentinel() error {
	switch k {
	case KindRequest:
		return ErrRequest
	case KindUnexpected:
		return ErrUnexpected
	case KindObjectNotFound:
		return ErrObjectNotFound
	case KindUnableToParse:
		return ErrUnableToParse
	case KindNotAboveHorizon:
		return ErrNotAboveHorizon
	}
	return nil
}

// QueryError is returned by Client.Query for every failed poll.
type QueryError struct {
	Kind Kind

	// Port is the API port that was queried.
	Port uint16

	// StatusCode is the HTTP status, when a response was received.
	StatusCode int

	// Err is the underlying transport or decode error, if any.
	Err error
}

// Error returns a one-line explanation suitable for the console. The
// underlying cause is left to Unwrap.
func (e *QueryError) Error() string {
	switch e.Kind {
	case KindRequest:
		return fmt.Sprintf("could not get information about the selected object; check that Stellarium's Remote Control is running on port %d", e.Port)
	case KindUnexpected:
		return fmt.Sprintf("something unexpected happened (Stellarium answered HTTP %d)", e.StatusCode)
	case KindObjectNotFound:
		return "select an object in Stellarium"
	case KindUnableToParse:
		return "could not parse the response from Stellarium's Remote Control API"
	case KindNotAboveHorizon:
		return "the selected object cannot be tracked because it is not above the horizon; select another object"
	}
	return "stellarium query failed"
}

// Unwrap returns the underlying cause.
func (e *QueryError) Unwrap() error { return e.Err }

// Is matches the sentinel for e.Kind.
func (e *QueryError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// KindOf returns the Kind of the first *QueryError in err's chain, or 0.
func KindOf(err error) Kind {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Kind
	}
	return 0
}
