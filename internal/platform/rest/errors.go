package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind buckets a failed request into one of the categories the admin UI
// knows how to present.
type Kind string

const (
	KindTimeout      Kind = "timeout"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindServer       Kind = "server_error"
	KindValidation   Kind = "validation"
	KindUnknown      Kind = "unknown"
)

// ErrCancelled marks a request whose context was cancelled before it
// settled. Cancelled requests are not failures: callers must not surface
// them to the user.
var ErrCancelled = errors.New("request cancelled")

// Error is the classified form of a failed request. Message is always safe
// to show to the user; Fields carries per-field validation messages when
// the backend returned them.
type Error struct {
	Kind    Kind              `json:"kind"`
	Status  int               `json:"status,omitempty"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// IsCancelled reports whether err is the result of context cancellation
// rather than a genuine failure.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled)
}

// AsError extracts the classified *Error from err, wrapping unclassified
// errors as KindUnknown so callers always have a presentable message.
func AsError(err error) *Error {
	var re *Error
	if errors.As(err, &re) {
		return re
	}
	return &Error{Kind: KindUnknown, Message: "operation failed"}
}

// Classify maps an HTTP error response to the taxonomy. Status wins over
// body content for the auth and server buckets; 400/422 bodies are mined
// for field-level validation messages.
func Classify(status int, body []byte) *Error {
	switch {
	case status == http.StatusUnauthorized:
		return &Error{Kind: KindUnauthorized, Status: status, Message: "authentication required"}
	case status == http.StatusForbidden:
		return &Error{Kind: KindForbidden, Status: status, Message: "you do not have permission to perform this action"}
	case status >= 500:
		return &Error{Kind: KindServer, Status: status, Message: "server error, please try again later"}
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		if fields, general := parseValidationBody(body); len(fields) > 0 || general != "" {
			msg := general
			if msg == "" {
				msg = "please correct the highlighted fields"
			}
			return &Error{Kind: KindValidation, Status: status, Message: msg, Fields: fields}
		}
	}

	if msg := serverMessage(body); msg != "" {
		return &Error{Kind: KindUnknown, Status: status, Message: msg}
	}
	return &Error{Kind: KindUnknown, Status: status, Message: "operation failed"}
}

// parseValidationBody decodes the backend's field->message error shape.
// Values may be strings or arrays of strings; the keys "detail", "message"
// and "non_field_errors" describe the whole submission rather than one field.
func parseValidationBody(body []byte) (map[string]string, string) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, ""
	}

	// Some backends nest field errors one level down.
	if nested, ok := raw["errors"]; ok {
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(nested, &inner); err == nil {
			raw = inner
		}
	}

	fields := make(map[string]string)
	general := ""
	for key, val := range raw {
		msg := firstMessage(val)
		if msg == "" {
			continue
		}
		switch key {
		case "detail", "message", "error", "non_field_errors":
			general = msg
		default:
			fields[key] = msg
		}
	}
	if len(fields) == 0 {
		fields = nil
	}
	return fields, general
}

// firstMessage extracts a human-readable string from a value that may be a
// string or an array of strings.
func firstMessage(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return strings.TrimSpace(list[0])
	}
	return ""
}

// serverMessage pulls a displayable message field out of an arbitrary JSON
// error body, if one exists.
func serverMessage(body []byte) string {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return ""
	}
	for _, key := range []string{"message", "detail", "error"} {
		if val, ok := raw[key]; ok {
			if msg := firstMessage(val); msg != "" {
				return msg
			}
		}
	}
	return ""
}
