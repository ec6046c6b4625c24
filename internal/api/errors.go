package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// RequestError is a non-2xx response from the backend. For mutation
// endpoints the body usually carries field-keyed validation messages; those
// are extracted into Fields so forms can attach them to inputs directly.
type RequestError struct {
	Status  int
	Message string
	// Fields maps form field names to their effective validation message
	// (array-valued server messages collapse to their first element).
	Fields map[string]string
	Body   []byte
}

func (e *RequestError) Error() string {
	if strings.TrimSpace(e.Message) != "" {
		return fmt.Sprintf("%d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%d: %s", e.Status, http.StatusText(e.Status))
}

// FieldErrors extracts validation field errors from an error chain, or nil.
func FieldErrors(err error) map[string]string {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Fields
	}
	return nil
}

// ErrorMessage returns the server's own message for the error, or "" when
// the error carries none (transport failures, opaque bodies).
func ErrorMessage(err error) string {
	var re *RequestError
	if errors.As(err, &re) {
		return strings.TrimSpace(re.Message)
	}
	return ""
}

// NewRequestError parses an error response body. The backend is not
// consistent: errors arrive as {errors:{field:[msg]}}, {message:...}, or a
// flat {field:msg} map. Anything unparseable degrades to a status-only error.
func NewRequestError(status int, body []byte) *RequestError {
	e := &RequestError{Status: status, Body: body}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return e
	}

	if msg, ok := payload["message"].(string); ok {
		e.Message = msg
	} else if msg, ok := payload["error"].(string); ok {
		e.Message = msg
	}

	if errs, ok := payload["errors"].(map[string]any); ok {
		e.Fields = fieldMap(errs)
		return e
	}

	// Flat body: treat every key that isn't a known envelope key as a field.
	flat := map[string]any{}
	for k, v := range payload {
		switch k {
		case "message", "error", "success", "status", "code", "data":
			continue
		}
		flat[k] = v
	}
	if len(flat) > 0 {
		e.Fields = fieldMap(flat)
	}
	return e
}

func fieldMap(src map[string]any) map[string]string {
	out := map[string]string{}
	for k, v := range src {
		switch msg := v.(type) {
		case string:
			out[k] = msg
		case []any:
			if len(msg) > 0 {
				if s, ok := msg[0].(string); ok {
					out[k] = s
				}
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
