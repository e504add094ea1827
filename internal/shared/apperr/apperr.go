// Package apperr defines the error taxonomy shared by every feature.
// Usecases return *Error values so that transport layers can map them to a
// status code without knowing which feature produced them.
package apperr

import "errors"

// Kind classifies an error for the transport layer.
type Kind int

const (
	// Internal is an unexpected store or downstream failure.
	Internal Kind = iota
	// InvalidArgument is a malformed id, empty content, disallowed enum value or out-of-range field.
	InvalidArgument
	// NotFound is an absent resource, or one scoped so that it appears absent.
	NotFound
	// Conflict is a duplicate email or an already-created profile.
	Conflict
	// Unauthenticated is a missing, invalid or expired credential.
	Unauthenticated
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid_argument"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return "internal"
	}
}

// Error is a classified error with a message that is safe to show to clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// New returns a classified error. Package-level sentinels are built with New
// and compared with errors.Is.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap classifies cause without changing its chain.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of the first *Error in err's chain, or Internal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Internal
}

// MessageOf returns the public message of the first *Error in err's chain.
// Unclassified errors yield fallback so that internals never leak.
func MessageOf(err error, fallback string) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Kind != Internal {
		return ae.Message
	}
	return fallback
}
