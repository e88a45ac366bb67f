package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a request-scoped failure carrying the HTTP status the transport
// layer should respond with. Handlers and services return it; the fiber
// error handler maps it onto the response envelope.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func Wrap(status int, message string, err error) *Error {
	return &Error{Status: status, Message: message, Err: err}
}

func BadRequest(message string) *Error   { return New(http.StatusBadRequest, message) }
func Unauthorized(message string) *Error { return New(http.StatusUnauthorized, message) }
func Forbidden(message string) *Error    { return New(http.StatusForbidden, message) }
func NotFound(message string) *Error     { return New(http.StatusNotFound, message) }
func Conflict(message string) *Error     { return New(http.StatusConflict, message) }

func Internal(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: "Server Error", Err: err}
}

// As unwraps err into *Error if possible.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
