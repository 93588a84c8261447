package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrServerOffline indicates the server is unreachable
	ErrServerOffline = errors.New("server is unreachable")

	// ErrAuthFailed indicates the login token was rejected
	ErrAuthFailed = errors.New("authentication token is invalid")

	// ErrNotAuthenticated indicates there is no current session
	ErrNotAuthenticated = errors.New("not logged in")
)

// InternalKind classifies failures that happened on the client side of a call.
type InternalKind int

const (
	// InternalConnection means no HTTP response was obtained.
	InternalConnection InternalKind = iota + 1
	// InternalDeserialization means a successful response did not match the expected schema.
	InternalDeserialization
	// InternalGeneric covers every other client-side fault.
	InternalGeneric
)

func (k InternalKind) String() string {
	switch k {
	case InternalConnection:
		return "connection"
	case InternalDeserialization:
		return "deserialization"
	case InternalGeneric:
		return "generic"
	default:
		return fmt.Sprintf("InternalKind(%d)", int(k))
	}
}

// InternalError is a failed remote call that never produced a usable response.
type InternalError struct {
	Kind InternalKind
	Err  error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("internal %s failure", e.Kind)
	}
	return fmt.Sprintf("internal %s failure: %v", e.Kind, e.Err)
}

func (e *InternalError) Unwrap() error { return e.Err }

// Is lets connection failures match ErrServerOffline.
func (e *InternalError) Is(target error) bool {
	return target == ErrServerOffline && e.Kind == InternalConnection
}

// ResponseError is a call that reached the server and got a non-success status.
type ResponseError struct {
	StatusCode int
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

// Is lets 401 and 404 responses match ErrAuthFailed and ErrNotFound.
func (e *ResponseError) Is(target error) bool {
	switch target {
	case ErrAuthFailed:
		return e.StatusCode == http.StatusUnauthorized
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// IsUnauthorized reports whether err carries a 401 response.
func IsUnauthorized(err error) bool {
	var respErr *ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == http.StatusUnauthorized
}

// UserMessage maps a classified failure to the notice shown to the user.
// action is a short description such as "loading recipes page 2".
func UserMessage(err error, action string) string {
	var internalErr *InternalError
	var respErr *ResponseError

	switch {
	case errors.As(err, &internalErr) && internalErr.Kind == InternalConnection:
		return fmt.Sprintf("could not connect to server, when %s", action)
	case errors.As(err, &respErr):
		if respErr.StatusCode == http.StatusNotFound {
			return fmt.Sprintf("resource was not found, when %s", action)
		}
		return fmt.Sprintf("failed with status code %d, when %s", respErr.StatusCode, action)
	default:
		return fmt.Sprintf("internal error occurred; action failed, when %s", action)
	}
}

// OutcomeObserver receives every classified failure produced by the API client.
type OutcomeObserver interface {
	ObserveFailure(err error)
}

// NoOpOutcomeObserver discards failures (for testing/unauthenticated probes).
type NoOpOutcomeObserver struct{}

func (NoOpOutcomeObserver) ObserveFailure(error) {}
