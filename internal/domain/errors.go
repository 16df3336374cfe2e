package domain

import "fmt"

// Error types for consistent error handling across the query core.

// ErrValidation indicates a validation error (bad input). Surfaced as a
// form-level message; never fatal.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// ErrAuthentication indicates rejected credentials. The session is never
// persisted when this is returned.
type ErrAuthentication struct {
	Message string
}

func (e *ErrAuthentication) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "invalid username or password"
}

// ErrRemote indicates a non-2xx response from a collaborator or a
// malformed response body. For non-2xx responses Body holds the raw
// response text and is surfaced verbatim; callers must not assume a
// particular format.
type ErrRemote struct {
	Status int
	Body   string
	Err    error
}

func (e *ErrRemote) Error() string {
	if e.Body != "" {
		return e.Body
	}
	if e.Err != nil {
		return fmt.Sprintf("remote service error: %v", e.Err)
	}
	return "remote service error"
}

func (e *ErrRemote) Unwrap() error {
	return e.Err
}

// Unauthorized reports whether the remote service rejected the session
// token itself, which invalidates the persisted session.
func (e *ErrRemote) Unauthorized() bool {
	return e.Status == 401 || e.Status == 403
}

// ErrData indicates malformed upstream data reached an aggregate (a
// normalized amount resolved to NaN). Surfaced, never silently zeroed.
type ErrData struct {
	Message string
}

func (e *ErrData) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "malformed amount in result set"
}
