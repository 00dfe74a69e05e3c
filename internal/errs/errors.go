// Package errs provides the unified error type used across all of litedb.
//
// Every subsystem (configuration, database wrapper, filestore, …) wraps its
// native errors into *errs.Error before returning them to callers. Callers
// use the Is* predicates to handle errors without importing driver-specific
// packages.
//
// Usage:
//
//	// In a driver, wrap native errors:
//	return errs.Wrap(errs.ErrKindConnectionFailed, "unable to connect to database", err)
//
//	// In a caller, check error kind:
//	if errs.IsConfigLoad(err) {
//	    // run "litedb config init" first
//	}
package errs

import (
	"errors"
	"fmt"
)

// ErrKind categorises an error without exposing subsystem-specific codes.
// Both SQLite drivers and the object store map their native errors to one
// of these kinds, giving callers a single consistent API.
type ErrKind int

const (
	ErrKindUnknown          ErrKind = iota
	ErrKindNotFound                 // no rows, no object, no bucket
	ErrKindConnectionFailed         // cannot open / reach the backend
	ErrKindTimeout                  // context deadline, busy or locked database
	ErrKindQueryFailed              // statement rejected by the engine
	ErrKindInvalidInput             // bad arguments from the caller
	ErrKindPermissionDenied         // access denied / auth failure
	ErrKindConfigLoad               // configuration file missing or unparseable
	ErrKindTypeCast                 // value cannot be converted to the requested type
	ErrKindTransaction              // a transaction was rolled back or failed to commit
	ErrKindClosed                   // the wrapper was already closed
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindNotFound:
		return "not_found"
	case ErrKindConnectionFailed:
		return "connection_failed"
	case ErrKindTimeout:
		return "timeout"
	case ErrKindQueryFailed:
		return "query_failed"
	case ErrKindInvalidInput:
		return "invalid_input"
	case ErrKindPermissionDenied:
		return "permission_denied"
	case ErrKindConfigLoad:
		return "config_load_failed"
	case ErrKindTypeCast:
		return "type_cast"
	case ErrKindTransaction:
		return "transaction_failed"
	case ErrKindClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by all litedb subsystems.
// Drivers produce it; callers inspect it via the Is* predicates below.
type Error struct {
	Kind    ErrKind
	Message string
	Cause   error // original driver-level error, preserved verbatim
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// --- Constructors ---

// New creates an *Error with the given kind and message and no cause.
func New(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Newf is New with a format string.
func Newf(kind ErrKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an *Error with the given kind, message, and an underlying cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// --- Predicates ---

// IsNotFound reports whether err represents a "not found" result
// (no rows, missing object, unknown table/bucket, …).
func IsNotFound(err error) bool {
	return hasKind(err, ErrKindNotFound)
}

// IsTimeout reports whether err was caused by a deadline, a cancellation or
// a database lock that did not clear in time.
func IsTimeout(err error) bool {
	return hasKind(err, ErrKindTimeout)
}

// IsConnectionFailed reports whether err is a connectivity failure.
func IsConnectionFailed(err error) bool {
	return hasKind(err, ErrKindConnectionFailed)
}

// IsQueryFailed reports whether err is a statement execution failure
// (syntax error, constraint violation, bind mismatch, …).
func IsQueryFailed(err error) bool {
	return hasKind(err, ErrKindQueryFailed)
}

// IsInvalidInput reports whether err was caused by bad input from the caller.
func IsInvalidInput(err error) bool {
	return hasKind(err, ErrKindInvalidInput)
}

// IsPermissionDenied reports whether err is an access control failure.
func IsPermissionDenied(err error) bool {
	return hasKind(err, ErrKindPermissionDenied)
}

// IsConfigLoad reports whether err means a configuration file could not be
// found, read or decoded.
func IsConfigLoad(err error) bool {
	return hasKind(err, ErrKindConfigLoad)
}

// IsTypeCast reports whether err is a failed scalar/column conversion.
func IsTypeCast(err error) bool {
	return hasKind(err, ErrKindTypeCast)
}

// IsTransaction reports whether err came out of a rolled back or
// uncommitted transaction.
func IsTransaction(err error) bool {
	return hasKind(err, ErrKindTransaction)
}

// IsClosed reports whether err was returned by a closed wrapper.
func IsClosed(err error) bool {
	return hasKind(err, ErrKindClosed)
}

// KindOf returns the kind of the outermost *Error in the chain.
func KindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindUnknown
}

// hasKind walks the whole chain: a transaction error wrapping a failed
// statement answers true for both ErrKindTransaction and ErrKindQueryFailed.
func hasKind(err error, kind ErrKind) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Cause
	}
	return false
}
