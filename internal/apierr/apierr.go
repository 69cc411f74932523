// Package apierr defines the error taxonomy shared by the gateway, the API
// client and the store.
package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a failed API call.
type Kind string

const (
	KindValidation     Kind = "validation"
	KindAuth           Kind = "auth"
	KindSessionExpired Kind = "session_expired"
	KindNetwork        Kind = "network"
	KindServer         Kind = "server"
)

// Error is a classified API failure. Message is human readable and safe to
// show to the user; Status is the HTTP status when one was received.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap classifies cause under kind.
func Wrap(cause error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Validation creates a client-side validation error.
func Validation(format string, args ...any) *Error {
	return New(KindValidation, fmt.Sprintf(format, args...))
}

// Network wraps a transport failure.
func Network(cause error) *Error {
	return Wrap(cause, KindNetwork, "network error")
}

// SessionExpired wraps the error that made a token refresh fail.
func SessionExpired(cause error) *Error {
	return Wrap(cause, KindSessionExpired, "session expired, please log in again")
}

// KindOf returns the Kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries an *Error of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// StatusOf returns the HTTP status recorded in err's chain, or 0.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// Message returns the user-facing message of err, falling back to fallback
// when err carries none.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Message != "" {
			return e.Message
		}
		return fallback
	}
	if fallback != "" {
		return fallback
	}
	return err.Error()
}

// KindForStatus maps an HTTP status code to a Kind.
func KindForStatus(status int) Kind {
	switch status {
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuth
	}
	return KindServer
}

// errorBody lists the shapes servers use for error payloads.
type errorBody struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
	Errors  []struct {
		Message string `json:"message"`
		Msg     string `json:"msg"`
	} `json:"errors"`
}

// FromResponse builds an Error from a non-2xx status and its raw body. The
// body is decoded defensively: unknown shapes fall back to the status text.
func FromResponse(status int, body []byte) *Error {
	e := &Error{Kind: KindForStatus(status), Status: status}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		switch {
		case eb.Message != "":
			e.Message = eb.Message
		case len(eb.Error) > 0:
			e.Message = decodeErrorField(eb.Error)
		}
		if e.Message == "" && len(eb.Errors) > 0 {
			var parts []string
			for _, item := range eb.Errors {
				if item.Message != "" {
					parts = append(parts, item.Message)
				} else if item.Msg != "" {
					parts = append(parts, item.Msg)
				}
			}
			e.Message = strings.Join(parts, "; ")
		}
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

// decodeErrorField handles "error": "text" and "error": {"message": "text"}.
func decodeErrorField(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Message
	}
	return ""
}
