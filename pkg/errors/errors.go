package errors

import (
	"errors"
)

type Code string

const (
	CodeMissingCredentials Code = "missing_credentials"
	CodeTokenExpired       Code = "token_expired"
	CodeRequestFailed      Code = "request_failed"
	CodeMalformedResponse  Code = "malformed_response"
	CodeIncompleteSession  Code = "incomplete_session"
	CodeExportTimeout      Code = "export_timeout"
	CodeExportFailed       Code = "export_failed"
)

const (
	CodeUnknown            Code = "unknown"
	CodeStorageUnavailable Code = "storage_unavailable"
)

type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}

	if e.Message != "" {
		return e.Message
	}

	if e.Err != nil {
		return e.Err.Error()
	}

	return string(e.Code)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

func Wrap(code Code, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func IsCode(err error, code Code) bool {
	var typed *Error
	if !errors.As(err, &typed) {
		return false
	}
	return typed.Code == code
}

// Message returns the human-readable text for a failure, falling back when
// the error carries none. Call sites surface the result to the user.
func Message(err error, fallback string) string {
	if err == nil {
		return fallback
	}

	var typed *Error
	if errors.As(err, &typed) && typed.Message != "" {
		return typed.Message
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
