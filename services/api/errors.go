package apisvc

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/codegrow/frontend/core"
)

type Kind string

const (
	KindNetwork      Kind = "network"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindServer       Kind = "server"
	KindOther        Kind = "other"
)

// Error is any failed call to the CodeGrow API. Status is 0 when no response was received.
type Error struct {
	Kind    Kind
	Status  int
	Message string            // server provided {detail} or {error}, may be empty
	Fields  map[string]string // per field messages of a validation failure
	Err     error             // transport error, for KindNetwork
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindNetwork && e.Err != nil:
		return "network error: " + e.Err.Error()
	case e.Message != "":
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	case len(e.Fields) > 0:
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, joinFields(e.Fields))
	default:
		return fmt.Sprintf("%s (%d)", e.Kind, e.Status)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func joinFields(flds map[string]string) string {
	keys := make([]string, 0, len(flds))
	for k := range flds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, k+": "+flds[k])
	}
	return strings.Join(msgs, "; ")
}

func kindOf(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return KindValidation
	case status >= 500:
		return KindServer
	default:
		return KindOther
	}
}

func networkError(err error) *Error {
	return &Error{Kind: KindNetwork, Err: err}
}

// responseError reads the optional {detail} / {error} message and, for validation failures,
// the DRF style {"field": ["msg", ...]} map.
func responseError(status int, body []byte) *Error {
	apiErr := &Error{Kind: kindOf(status), Status: status}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return apiErr
	}
	for _, key := range []string{"detail", "error"} {
		if msg := firstMessage(payload[key]); msg != "" {
			apiErr.Message = msg
			break
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = firstMessage(payload["non_field_errors"])
	}
	if apiErr.Kind != KindValidation {
		return apiErr
	}
	for key, val := range payload {
		switch key {
		case "detail", "error", "non_field_errors", "message":
			continue
		}
		if msg := firstMessage(val); msg != "" {
			if apiErr.Fields == nil {
				apiErr.Fields = make(map[string]string)
			}
			apiErr.Fields[key] = msg
		}
	}
	return apiErr
}

func firstMessage(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case []interface{}:
		for _, item := range val {
			if s, ok := item.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// KindOf returns the kind of an API error, "" for anything else.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// UserMessage turns any error returned by the client (or a form Validate) into the message shown to users.
func UserMessage(err error) string {
	if err == nil || errors.Is(err, core.ErrStale) {
		return ""
	}
	var vErr *core.ValidationError
	if errors.As(err, &vErr) {
		return "Please correct the errors below: " + vErr.Error()
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return "Something went wrong. Please try again."
	}
	switch apiErr.Kind {
	case KindNetwork:
		return "Unable to reach the server. Check your connection and try again."
	case KindUnauthorized:
		return "Your session has expired. Please log in again."
	case KindForbidden:
		return "You do not have permission to perform this action."
	case KindNotFound:
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return "Not found."
	case KindValidation:
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if len(apiErr.Fields) > 0 {
			return "Please correct the errors below: " + joinFields(apiErr.Fields)
		}
		return "The request was invalid."
	case KindServer:
		return "The server encountered an error. Please try again."
	default:
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return "Something went wrong. Please try again."
	}
}
