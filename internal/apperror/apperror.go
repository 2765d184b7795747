package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure so handlers can map it to an HTTP status and
// the uniform response envelope.
type Kind int

const (
	// KindInvalidParameter covers malformed ids, bad pagination values and
	// missing required fields.
	KindInvalidParameter Kind = iota
	// KindUnauthorized means no usable credential was presented.
	KindUnauthorized
	// KindForbidden means the principal is authenticated but is not the
	// owner of the record it tried to mutate.
	KindForbidden
	// KindNotFound covers missing records and records that the visibility
	// rule hides from the principal.
	KindNotFound
	// KindConflict covers duplicate operations, e.g. adding a video to a
	// playlist twice. Surfaced as 400, not 409.
	KindConflict
	// KindUpload means the blob store collaborator failed.
	KindUpload
	// KindPersistence means the database failed after validation passed.
	KindPersistence
)

// String returns the kind's stable label, used in metrics
func (k Kind) String() string {
	switch k {
	case KindInvalidParameter:
		return "invalid_parameter"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUpload:
		return "upload"
	case KindPersistence:
		return "persistence"
	default:
		return "unknown"
	}
}

// Error is a classified application error. Message is safe to show to the
// caller; Err carries internal detail for logs only.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status maps the error kind to an HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindInvalidParameter, KindConflict:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func InvalidParameter(message string) *Error {
	return &Error{Kind: KindInvalidParameter, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func Upload(message string, err error) *Error {
	return &Error{Kind: KindUpload, Message: message, Err: err}
}

func Persistence(message string, err error) *Error {
	return &Error{Kind: KindPersistence, Message: message, Err: err}
}

// From extracts an *Error from err, or wraps err as a persistence failure
// with a generic message so internals never leak into responses.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return &Error{Kind: KindPersistence, Message: "Something went wrong", Err: err}
}
