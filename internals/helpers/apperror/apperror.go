// file: internals/helpers/apperror/apperror.go
package apperror

import (
	"errors"
	"fmt"
	"net/http"

	pkgerrors "github.com/pkg/errors"
)

/* =======================
   Kinds
======================= */

type Kind string

const (
	KindValidation Kind = "VALIDATION_ERROR"
	KindNotFound   Kind = "NOT_FOUND"
	KindConflict   Kind = "CONFLICT"
	KindState      Kind = "STATE_ERROR"
	KindStorage    Kind = "STORAGE_ERROR"
)

// Status maps a kind to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindState:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is the domain error every service returns. Message is safe to show
// to the caller; Cause carries the underlying detail (logged, never rendered
// for storage errors).
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

/* =======================
   Constructors
======================= */

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// ValidationFields carries per-field messages (validator.v10 output).
func ValidationFields(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func State(format string, args ...any) *Error {
	return &Error{Kind: KindState, Message: fmt.Sprintf(format, args...)}
}

// Storage wraps a store failure with a stack trace. The caller only ever sees
// the generic message.
func Storage(cause error, op string) *Error {
	return &Error{
		Kind:    KindStorage,
		Message: "internal storage error",
		Cause:   pkgerrors.WithStack(pkgerrors.Wrap(cause, op)),
	}
}

/* =======================
   Inspection
======================= */

// As extracts *Error from any wrapped chain.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// KindOf returns the kind of err, or KindStorage for foreign errors.
func KindOf(err error) Kind {
	if ae, ok := As(err); ok {
		return ae.Kind
	}
	return KindStorage
}

func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

// StackTrace renders the stack captured by pkg/errors, if any.
func StackTrace(err error) string {
	if ae, ok := As(err); ok && ae.Cause != nil {
		return fmt.Sprintf("%+v", ae.Cause)
	}
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%+v", err)
}
