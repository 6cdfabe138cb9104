package lookup

import (
	"errors"
	"fmt"
)

// FailureKind classifies a lookup failure for callers deciding how to
// degrade.
type FailureKind string

const (
	// FailureNotFound: the upstream answered and the entity does not exist.
	// Never retried.
	FailureNotFound FailureKind = "not_found"
	// FailureInvalid: the request was rejected (4xx) or the response was
	// malformed. Never retried.
	FailureInvalid FailureKind = "invalid"
	// FailureExhausted: transient errors persisted through all retries.
	FailureExhausted FailureKind = "exhausted"
)

// Error is the typed failure surfaced by the lookup client.
type Error struct {
	Op   string // "search", "details", "sanctions"
	Kind FailureKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("lookup %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("lookup %s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a lookup not-found failure.
func IsNotFound(err error) bool {
	var le *Error
	return errors.As(err, &le) && le.Kind == FailureNotFound
}

// IsExhausted reports whether err is a retry-exhaustion failure.
func IsExhausted(err error) bool {
	var le *Error
	return errors.As(err, &le) && le.Kind == FailureExhausted
}
