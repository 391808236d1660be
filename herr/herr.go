// Package herr defines the error vocabulary shared by the client library
// and the server simulator: a small set of POSIX errno mirrors plus the
// domain-specific codes from the HLX control protocol.
package herr

import "fmt"

// Code is a signed error code. Negative values mirror POSIX errno
// semantics; positive values are domain-specific codes, of which only
// ValueAlreadySet is a status rather than an error.
type Code int

// Errno mirrors, negative by convention.
const (
	ErrAgain       Code = -11
	ErrAlready     Code = -114
	ErrInProgress  Code = -115
	ErrTimedOut    Code = -110
	ErrConnReset   Code = -104
	ErrConnRefused Code = -111
	ErrNotConn     Code = -107
	ErrHostUnreach Code = -113
	ErrInval       Code = -22
)

// Domain-specific codes. These are not errno mirrors; ValueAlreadySet in
// particular is a status, not an error — see Code.IsStatus.
const (
	// ValueAlreadySet signals that a setter's target already holds the
	// requested value. Callers must treat it as success and must not
	// emit a derived state-change event for it.
	ValueAlreadySet Code = 1

	// NotInitialized signals use of a component before its required
	// setup step.
	NotInitialized Code = 2

	// HostNameResolution signals a resolver failure distinct from a
	// connect-time socket error.
	HostNameResolution Code = 3

	// InitializationFailed signals a fatal, unrecoverable setup error.
	InitializationFailed Code = 4

	// BufferNotOwned signals an attempt to mutate a buffer the caller
	// does not hold exclusively.
	BufferNotOwned Code = 5
)

// Error implements the builtin error interface.
func (c Code) Error() string {
	if s, ok := names[c]; ok {
		return s
	}
	return fmt.Sprintf("herr: code %d", int(c))
}

// IsStatus reports whether c is a non-error status such as
// ValueAlreadySet: callers must not treat it as failure.
func (c Code) IsStatus() bool {
	return c == ValueAlreadySet
}

// Fatal reports whether c should stop the owning connection.
// ErrConnReset is the sole non-fatal socket error; every other negative
// code is fatal.
func (c Code) Fatal() bool {
	return c < 0 && c != ErrConnReset
}

var names = map[Code]string{
	ErrAgain:              "resource temporarily unavailable",
	ErrAlready:            "operation already in progress",
	ErrInProgress:         "operation now in progress",
	ErrTimedOut:           "operation timed out",
	ErrConnReset:          "connection reset by peer",
	ErrConnRefused:        "connection refused",
	ErrNotConn:            "transport endpoint is not connected",
	ErrHostUnreach:        "no route to host",
	ErrInval:              "invalid argument",
	ValueAlreadySet:       "value already set",
	NotInitialized:        "component not initialized",
	HostNameResolution:    "host name resolution failed",
	InitializationFailed:  "initialization failed",
	BufferNotOwned:        "buffer not owned by caller",
}
