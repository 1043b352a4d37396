// Package domainerrors defines coded errors shared by services and transport.
//
// Services return these (optionally wrapping an underlying cause) and the HTTP
// layer translates the code into a status exactly once, in httputil.WriteError.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code classifies a domain error independently of transport.
type Code string

const (
	// CodeBadRequest covers malformed bodies, unparsable forms and rejected uploads.
	CodeBadRequest Code = "bad_request"
	// CodeValidation covers missing or malformed business fields.
	CodeValidation Code = "validation_error"
	// CodeConfiguration means a required signing key or contract id is absent.
	CodeConfiguration Code = "configuration_error"
	// CodeLedger wraps failures reported by the ledger client (network, signing, contract rejection).
	CodeLedger   Code = "ledger_error"
	CodeNotFound Code = "not_found"
	CodeInternal Code = "internal_error"
)

// Error is a coded domain error. Message is safe to show to callers.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a coded error without a cause.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and caller-facing message to an underlying error.
func Wrap(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// As extracts the outermost domain error from an error chain.
func As(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// HasCode reports whether any domain error in the chain carries code.
func HasCode(err error, code Code) bool {
	for err != nil {
		var de *Error
		if !errors.As(err, &de) {
			return false
		}
		if de.Code == code {
			return true
		}
		err = de.Err
	}
	return false
}

// Is reports whether the outermost domain error carries code.
func Is(err error, code Code) bool {
	de, ok := As(err)
	return ok && de.Code == code
}

// ToHTTPStatus maps a code to its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
