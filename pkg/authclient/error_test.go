// Copyright (c) 2026 Moneta. All rights reserved.
// Author: contact@moneta.app

package authclient_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneta-app/moneta/pkg/authclient"
)

const fallback = "Đăng ký thất bại. Vui lòng kiểm tra lại thông tin."

/*
TestParseAuthError_Shapes feeds the normalizer the response bodies the
backend actually produces and checks both the flattened message and the
per-field map.
*/
func TestParseAuthError_Shapes(t *testing.T) {
	testCases := []struct {
		name        string
		body        string
		wantMessage string
		wantFields  map[string][]string
	}{
		{
			name:        "non_field_errors_joined_without_field_entry",
			body:        `{"non_field_errors": ["A", "B"]}`,
			wantMessage: "A B",
			wantFields:  nil,
		},
		{
			name:        "single_field_error",
			body:        `{"username": ["taken"]}`,
			wantMessage: "taken",
			wantFields:  map[string][]string{"username": {"taken"}},
		},
		{
			name:        "detail_precedes_field_messages",
			body:        `{"detail": "bad request", "username": ["taken"]}`,
			wantMessage: "bad request taken",
			wantFields:  map[string][]string{"username": {"taken"}},
		},
		{
			name:        "empty_object_falls_back",
			body:        `{}`,
			wantMessage: fallback,
			wantFields:  nil,
		},
		{
			name:        "null_values_are_skipped",
			body:        `{"email": null, "password": ["too short"]}`,
			wantMessage: "too short",
			wantFields:  map[string][]string{"password": {"too short"}},
		},
		{
			name:        "non_string_array_entries_are_filtered",
			body:        `{"phoneNumber": ["invalid", 42, {"x": 1}, "digits only"]}`,
			wantMessage: "invalid digits only",
			wantFields:  map[string][]string{"phoneNumber": {"invalid", "digits only"}},
		},
		{
			name:        "field_string_value_counts_for_that_field",
			body:        `{"username": "already exists"}`,
			wantMessage: "already exists",
			wantFields:  map[string][]string{"username": {"already exists"}},
		},
		{
			name:        "nested_objects_and_numbers_are_ignored",
			body:        `{"code": 400, "meta": {"hint": "nope"}}`,
			wantMessage: fallback,
			wantFields:  nil,
		},
		{
			name:        "not_an_object_falls_back",
			body:        `["boom"]`,
			wantMessage: fallback,
			wantFields:  nil,
		},
		{
			name:        "malformed_json_falls_back",
			body:        `{"detail": `,
			wantMessage: fallback,
			wantFields:  nil,
		},
		{
			name:        "empty_body_falls_back",
			body:        ``,
			wantMessage: fallback,
			wantFields:  nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := authclient.ParseAuthError([]byte(tc.body), fallback)

			assert.Equal(t, tc.wantMessage, result.Message)
			assert.Equal(t, tc.wantFields, result.FieldErrors)
		})
	}
}

/*
TestParseAuthError_SentinelOrdering checks that sentinel keys (detail,
message, error) are hoisted in front of messages collected before them,
while later sentinels still land ahead of everything seen so far.
*/
func TestParseAuthError_SentinelOrdering(t *testing.T) {
	body := `{"username": ["taken"], "detail": "bad request"}`

	result := authclient.ParseAuthError([]byte(body), fallback)

	require.Equal(t, "bad request taken", result.Message)
	assert.Equal(t, map[string][]string{"username": {"taken"}}, result.FieldErrors)
}

func TestParseAuthError_MultipleFieldsPreserveOrder(t *testing.T) {
	body := `{"username": ["too short"], "password": ["too weak", "too common"]}`

	result := authclient.ParseAuthError([]byte(body), fallback)

	assert.Equal(t, "too short too weak too common", result.Message)
	assert.Equal(t, map[string][]string{
		"username": {"too short"},
		"password": {"too weak", "too common"},
	}, result.FieldErrors)
}

func TestAuthError_ErrorAndFieldErrors(t *testing.T) {
	result := authclient.ParseAuthError([]byte(`{"email": ["invalid"]}`), fallback)
	err := &authclient.AuthError{Result: result}

	assert.Equal(t, "invalid", err.Error())
	assert.Equal(t, map[string][]string{"email": {"invalid"}}, err.FieldErrors())
}
