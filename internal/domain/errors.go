package domain

import (
	"errors"
	"fmt"
)

type ErrCode string

const (
	CodeValidation    ErrCode = "validation_error"
	CodeUnauthorized  ErrCode = "unauthorized"
	CodeNotFound      ErrCode = "not_found"
	CodeNotConfigured ErrCode = "not_configured"
	CodeStorage       ErrCode = "storage_error"
	CodeInternal      ErrCode = "internal_error"
)

type AppError struct {
	Code    ErrCode
	Message string
	Meta    map[string]string
	Cause   error
}

func (e *AppError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if len(e.Meta) > 0 {
		msg = fmt.Sprintf("%s (%v)", msg, e.Meta)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *AppError) Unwrap() error { return e.Cause }

func ErrValidation(msg string) error { return &AppError{Code: CodeValidation, Message: msg} }
func ErrValidationMeta(msg string, meta map[string]string) error {
	return &AppError{Code: CodeValidation, Message: msg, Meta: meta}
}
func ErrUnauthorized(msg string) error  { return &AppError{Code: CodeUnauthorized, Message: msg} }
func ErrNotFound(msg string) error      { return &AppError{Code: CodeNotFound, Message: msg} }
func ErrNotConfigured(msg string) error { return &AppError{Code: CodeNotConfigured, Message: msg} }

// ErrStorage wraps a backend failure. The cause stays out of HTTP responses.
func ErrStorage(msg string, cause error) error {
	return &AppError{Code: CodeStorage, Message: msg, Cause: cause}
}

// HasCode reports whether err is an *AppError carrying code.
func HasCode(err error, code ErrCode) bool {
	ae, ok := AsAppError(err)
	return ok && ae.Code == code
}

func AsAppError(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
