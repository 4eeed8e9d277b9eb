// Copyright (c) 2026 Moneta. All rights reserved.
// Author: contact@moneta.app

package authclient

import (
	"bytes"
	"encoding/json"
	"strings"
)

// AuthErrorResult is the normalized form of a backend error body.
type AuthErrorResult struct {
	// Message is always present and never empty.
	Message string
	// FieldErrors maps field names to their ordered messages. It is nil
	// when no field-specific error was found, never an empty map.
	FieldErrors map[string][]string
}

// AuthError carries a normalized auth failure to the caller.
type AuthError struct {
	Result AuthErrorResult
}

// Error implements the error interface.
func (e *AuthError) Error() string { return e.Result.Message }

// FieldErrors returns the per-field messages, or nil.
func (e *AuthError) FieldErrors() map[string][]string { return e.Result.FieldErrors }

// newAuthError wraps a bare message with no field detail.
func newAuthError(message string) *AuthError {
	return &AuthError{Result: AuthErrorResult{Message: message}}
}

// sentinel keys whose string values are promoted to the front of the
// aggregated message.
func isMessageSentinel(key string) bool {
	return key == "detail" || key == "message" || key == "error"
}

// nonFieldErrors is the list-valued sentinel whose messages never become
// field errors.
const nonFieldErrors = "non_field_errors"

/*
ParseAuthError normalizes an arbitrary JSON error body into an
[AuthErrorResult].

The backend reports failures in several shapes: field→list maps from
validation, {"detail": "..."} from auth middleware, and occasionally plain
{"message"/"error": "..."} objects. The rules, applied per top-level key in
the body's own key order:

  - null values are skipped;
  - list values keep only their string elements. For non_field_errors the
    strings join the aggregated message only; for any other key they are
    recorded as that field's errors and join the message;
  - string values under detail/message/error are prepended to the front of
    the aggregated message; under any other key they become a single-entry
    field error and are appended;
  - values of any other type are ignored.

The aggregated message is the space-joined accumulation, or defaultMessage
when nothing was collected. Key order matters for the user-visible message,
so the body is walked with a token decoder rather than unmarshalled into a
Go map.
*/
func ParseAuthError(body []byte, defaultMessage string) AuthErrorResult {
	fieldErrors := make(map[string][]string)
	var messages []string

	decoder := json.NewDecoder(bytes.NewReader(body))

	// The body must open as a JSON object; anything else means defaultMessage.
	if token, err := decoder.Token(); err == nil {
		if delim, ok := token.(json.Delim); ok && delim == '{' {
			for decoder.More() {
				keyToken, err := decoder.Token()
				if err != nil {
					break
				}
				key, ok := keyToken.(string)
				if !ok {
					break
				}

				var raw json.RawMessage
				if err := decoder.Decode(&raw); err != nil {
					break
				}

				collectValue(key, raw, fieldErrors, &messages)
			}
		}
	}

	message := defaultMessage
	if len(messages) > 0 {
		message = strings.Join(messages, " ")
	}

	result := AuthErrorResult{Message: message}
	if len(fieldErrors) > 0 {
		result.FieldErrors = fieldErrors
	}
	return result
}

// collectValue applies the per-key rules to one raw JSON value.
func collectValue(key string, raw json.RawMessage, fieldErrors map[string][]string, messages *[]string) {
	value := bytes.TrimSpace(raw)
	if len(value) == 0 {
		return
	}

	switch value[0] {
	case 'n': // null
		return

	case '[':
		var elements []json.RawMessage
		if err := json.Unmarshal(value, &elements); err != nil {
			return
		}

		var list []string
		for _, element := range elements {
			var s string
			if err := json.Unmarshal(element, &s); err == nil {
				list = append(list, s)
			}
		}
		if len(list) == 0 {
			return
		}

		if key == nonFieldErrors {
			*messages = append(*messages, list...)
			return
		}
		fieldErrors[key] = list
		*messages = append(*messages, list...)

	case '"':
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return
		}

		if isMessageSentinel(key) {
			// Prepend: top-level messages outrank field-derived text.
			*messages = append([]string{s}, *messages...)
			return
		}
		fieldErrors[key] = []string{s}
		*messages = append(*messages, s)

	default:
		// Numbers, booleans, and nested objects carry no message text.
	}
}
