// Package errs defines the engine's typed error taxonomy.
//
// Every failure surfaced by construction-time operations (compiling shaders, building
// geometry, allocating GPU objects) is an *Error carrying a Kind. Callers match on kind
// with errors.Is against the exported sentinels, or recover the full value with errors.As.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an engine error.
type Kind int

const (
	// KindResourceCreation reports a GPU object allocation failure (buffer, texture, framebuffer, program).
	KindResourceCreation Kind = iota + 1

	// KindShaderCompile reports a vertex or fragment shader compile failure.
	KindShaderCompile

	// KindShaderLink reports a program link failure.
	KindShaderLink

	// KindGeometryValidation reports missing attributes, mismatched vertex counts, or unknown
	// draw modes and component types. Always raised before any GPU call.
	KindGeometryValidation

	// KindUniformBindingMismatch reports a missing uniform or a declared/supplied type mismatch.
	KindUniformBindingMismatch

	// KindTransformSingularity reports a non-invertible matrix. Never fatal.
	KindTransformSingularity
)

// String returns the human readable kind name.
func (k Kind) String() string {
	switch k {
	case KindResourceCreation:
		return "resource creation"
	case KindShaderCompile:
		return "shader compile"
	case KindShaderLink:
		return "shader link"
	case KindGeometryValidation:
		return "geometry validation"
	case KindUniformBindingMismatch:
		return "uniform binding mismatch"
	case KindTransformSingularity:
		return "transform singularity"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Sentinels for errors.Is matching. Any *Error with the same Kind matches.
var (
	ErrResourceCreation       = &Error{Kind: KindResourceCreation}
	ErrShaderCompile          = &Error{Kind: KindShaderCompile}
	ErrShaderLink             = &Error{Kind: KindShaderLink}
	ErrGeometryValidation     = &Error{Kind: KindGeometryValidation}
	ErrUniformBindingMismatch = &Error{Kind: KindUniformBindingMismatch}
	ErrTransformSingularity   = &Error{Kind: KindTransformSingularity}
)

// Error is a classified engine error.
type Error struct {
	// Kind classifies the failure.
	Kind Kind

	// Op names the operation that failed (e.g. "compile vertex shader", "create buffer").
	Op string

	// Msg carries details, including any driver-provided diagnostic text.
	Msg string

	// Err is the underlying cause, if any.
	Err error
}

var _ error = &Error{}

// New creates a classified error.
//
// Parameters:
//   - kind: the error classification
//   - op: the failing operation
//   - msg: details such as a driver info log
//
// Returns:
//   - *Error: the new error
func New(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

// Newf creates a classified error with a formatted message.
func Newf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Wrap classifies an underlying error. Returns nil if err is nil.
//
// Parameters:
//   - kind: the error classification
//   - op: the failing operation
//   - err: the cause
//
// Returns:
//   - error: the wrapped error, or nil
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	msg := e.Kind.String() + " error"
	if e.Op != "" {
		msg += ": " + e.Op
	}
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the Kind of the first *Error in err's chain, or 0 if none.
//
// Parameters:
//   - err: the error to inspect
//
// Returns:
//   - Kind: the classification, or 0
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
