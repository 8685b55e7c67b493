package apperror

import (
	"errors"
	"net/http"
	"strings"
)

// Kind classifies every expected business failure the services can return.
type Kind string

const (
	KindValidation         Kind = "validation"
	KindNotFound           Kind = "not_found"
	KindUnauthorized       Kind = "unauthorized"
	KindForbidden          Kind = "forbidden"
	KindConflict           Kind = "conflict"
	KindPreferenceFiltered Kind = "preference_filtered"
	KindDelivery           Kind = "delivery"
	KindInternal           Kind = "internal"
)

var statusByKind = map[Kind]int{
	KindValidation:         http.StatusBadRequest,
	KindNotFound:           http.StatusNotFound,
	KindUnauthorized:       http.StatusUnauthorized,
	KindForbidden:          http.StatusForbidden,
	KindConflict:           http.StatusConflict,
	KindPreferenceFiltered: http.StatusUnprocessableEntity,
	KindDelivery:           http.StatusBadGateway,
	KindInternal:           http.StatusInternalServerError,
}

// Error is the single error type services return across use-case boundaries.
// Controllers never inspect message strings; they translate Kind into an HTTP
// status through HTTPStatus.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Validation joins the individual messages into the canonical
// "Validation failed: ..." form.
func Validation(messages ...string) *Error {
	return &Error{Kind: KindValidation, Message: "Validation failed: " + strings.Join(messages, ", ")}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func PreferenceFiltered(message string) *Error {
	return &Error{Kind: KindPreferenceFiltered, Message: message}
}

func Delivery(message string) *Error {
	return &Error{Kind: KindDelivery, Message: message}
}

// Internal carries an infrastructure failure through with its message intact.
func Internal(err error) *Error {
	message := "Unknown error occurred"
	if err != nil && err.Error() != "" {
		message = err.Error()
	}
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// FromError normalizes any error into an *Error. Unknown errors become
// KindInternal with their message passed through.
func FromError(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// KindOf reports the Kind of err, defaulting to KindInternal.
func KindOf(err error) Kind {
	return FromError(err).Kind
}

// HTTPStatus maps err's Kind to the response status controllers emit.
func HTTPStatus(err error) int {
	if status, ok := statusByKind[KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}
