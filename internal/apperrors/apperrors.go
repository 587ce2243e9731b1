package apperrors

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Error is an error value that knows which HTTP status it maps to.
// Errors derived with New keep a link to their base, so errors.Is matches
// both the derived value and every ancestor.
type Error struct {
	msg     string
	status  int
	base    *Error
	wrapped []error
}

// New returns a root error with status 500.
func New(msg string) *Error {
	return &Error{msg: msg, status: http.StatusInternalServerError}
}

func (e *Error) Error() string {
	return e.msg
}

// New derives a child error that inherits the status code.
func (e *Error) New(msg string) *Error {
	return &Error{msg: msg, status: e.status, base: e}
}

// WithStatus returns a copy carrying the given status code.
func (e *Error) WithStatus(code int) *Error {
	cp := *e
	cp.status = code
	return &cp
}

// Msg returns a copy with a different message, still matching e.
func (e *Error) Msg(msg string) *Error {
	return &Error{msg: msg, status: e.status, base: e}
}

// Msgf is Msg with formatting.
func (e *Error) Msgf(format string, args ...any) *Error {
	return e.Msg(fmt.Sprintf(format, args...))
}

// Err returns a copy that also wraps the given causes.
func (e *Error) Err(errs ...error) *Error {
	cp := &Error{msg: e.msg, status: e.status, base: e}
	cp.wrapped = append(cp.wrapped, errs...)
	return cp
}

func (e *Error) StatusCode() int {
	return e.status
}

func (e *Error) Unwrap() []error {
	return e.wrapped
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	for cur := e; cur != nil; cur = cur.base {
		if cur == t {
			return true
		}
	}
	return false
}

// StatusCode extracts the status of the first *Error in err's chain,
// or 500 if there is none.
func StatusCode(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.status
	}
	return http.StatusInternalServerError
}

// Public reports whether err's message can be shown to API clients.
func Public(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.status < http.StatusInternalServerError
}

var (
	ErrInternal      = New("internal server error")
	ErrInvalidInput  = ErrInternal.New("invalid input").WithStatus(http.StatusBadRequest)
	ErrNotFound      = ErrInternal.New("not found").WithStatus(http.StatusNotFound)
	ErrAlreadyExists = ErrInternal.New("already exists").WithStatus(http.StatusConflict)
	ErrInUse         = ErrInternal.New("still referenced").WithStatus(http.StatusConflict)
	ErrUnauthorized  = ErrInternal.New("unauthorized").WithStatus(http.StatusUnauthorized)
	ErrForbidden     = ErrInternal.New("forbidden").WithStatus(http.StatusForbidden)
)
