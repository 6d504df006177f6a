// Package errs defines the error taxonomy shared by the gateway and the
// state managers. Sentinels cover conditions callers branch on with
// errors.Is; StatusError and DecodeError carry payloads for errors.As.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork wraps transport failures where no response arrived.
	ErrNetwork = errors.New("network failure")
	// ErrTimeout wraps calls that exceeded their deadline.
	ErrTimeout = errors.New("request timed out")

	// ErrValidation marks a local precondition failure; the gateway was
	// never contacted.
	ErrValidation = errors.New("validation failed")
	// ErrConflict marks an operation incompatible with current state,
	// including a second mutation issued while one is in flight.
	ErrConflict = errors.New("conflicting operation")
	// ErrNotFound marks an operation on an entity absent both locally
	// and remotely.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateRequest marks a friend request for a pair that already
	// has an edge.
	ErrDuplicateRequest = errors.New("duplicate friend request")
	// ErrEmptyContent marks a message whose content is empty after trimming.
	ErrEmptyContent = errors.New("empty message content")
	// ErrRoomCreation marks a non-zero application code from the live backend.
	ErrRoomCreation = errors.New("room creation failed")
)

// StatusError is a non-2xx response from the backend.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.Status)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Status, e.Body)
}

// DecodeError is a 2xx response whose body did not match the declared
// schema. Decoding fails closed: undefined fields never propagate.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decode response: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsStatus reports whether err is a StatusError with the given status code.
func IsStatus(err error, status int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == status
}
