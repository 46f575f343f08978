// Package fault defines the error taxonomy shared by the termindex pipeline.
//
// Every fatal condition in the ingestion pipeline is classified into one of
// four kinds, mirroring where the failure originated: talking to the
// terminology server (transport), interpreting its response (protocol),
// assembling the run configuration (configuration), or writing the on-disk
// indexes (storage). All kinds are fatal; the pipeline never retries.
package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure.
type Kind string

// Failure kinds.
const (
	// KindTransport indicates a connectivity or timeout failure while
	// talking to the terminology server.
	KindTransport Kind = "transport"
	// KindProtocol indicates a malformed or incomplete server response,
	// treated as a server-contract violation.
	KindProtocol Kind = "protocol"
	// KindConfiguration indicates an invalid run configuration, such as a
	// requested feature whose collaborator is missing.
	KindConfiguration Kind = "configuration"
	// KindStorage indicates the index stores could not be created or written.
	KindStorage Kind = "storage"
)

// Error is a classified pipeline error.
type Error struct {
	// Kind is the failure classification.
	Kind Kind

	// Op names the operation that failed (e.g. "fhir.expand").
	Op string

	// Err is the underlying cause, may be nil for self-describing failures.
	Err error

	// Message is a human-readable description used when Err is nil or
	// needs additional context.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %s: %v", e.Kind, e.Op, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Op, e.Message)
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Transport wraps err as a transport failure.
func Transport(op string, err error) *Error {
	return &Error{Kind: KindTransport, Op: op, Err: err}
}

// Protocol reports a server-contract violation.
func Protocol(op, format string, args ...any) *Error {
	return &Error{Kind: KindProtocol, Op: op, Message: fmt.Sprintf(format, args...)}
}

// ProtocolWrap wraps err as a protocol failure.
func ProtocolWrap(op string, err error) *Error {
	return &Error{Kind: KindProtocol, Op: op, Err: err}
}

// Configuration reports an invalid run configuration.
func Configuration(op, format string, args ...any) *Error {
	return &Error{Kind: KindConfiguration, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Storage wraps err as a storage failure.
func Storage(op string, err error) *Error {
	return &Error{Kind: KindStorage, Op: op, Err: err}
}

// KindOf returns the Kind of err, or "" if err carries no classification.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
