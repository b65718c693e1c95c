package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

func New(statusCode int, format string, args ...any) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: fmt.Sprintf(format, args...), StatusCode: statusCode}
}

func BadRequest(format string, args ...any) *ErrorWithStatusCode {
	return New(http.StatusBadRequest, format, args...)
}

func Unauthorized(format string, args ...any) *ErrorWithStatusCode {
	return New(http.StatusUnauthorized, format, args...)
}

func Forbidden(format string, args ...any) *ErrorWithStatusCode {
	return New(http.StatusForbidden, format, args...)
}

func NotFound(format string, args ...any) *ErrorWithStatusCode {
	return New(http.StatusNotFound, format, args...)
}

func Conflict(format string, args ...any) *ErrorWithStatusCode {
	return New(http.StatusConflict, format, args...)
}

// StatusCode returns the HTTP status carried by err, or 500.
func StatusCode(err error) int {
	var e *ErrorWithStatusCode
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

func IsNotFound(err error) bool {
	return err != nil && StatusCode(err) == http.StatusNotFound
}

func IsConflict(err error) bool {
	return err != nil && StatusCode(err) == http.StatusConflict
}
