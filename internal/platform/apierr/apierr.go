package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeInvalidRequest   = "invalid_request"
	CodeNotConfigured    = "not_configured"
	CodeGenerationFailed = "generation_failed"
	CodeInvalidResponse  = "invalid_response"
	CodeNotFound         = "not_found"
	CodeInternal         = "internal"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func BadRequest(err error) *Error { return New(http.StatusBadRequest, CodeInvalidRequest, err) }

func NotFound(err error) *Error { return New(http.StatusNotFound, CodeNotFound, err) }

// From extracts an *Error from err, mapping anything else to a 500 internal error.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return New(http.StatusInternalServerError, CodeInternal, err)
}
