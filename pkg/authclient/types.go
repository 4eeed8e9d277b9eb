// Copyright (c) 2026 Moneta. All rights reserved.
// Author: contact@moneta.app

/*
Package authclient is the client-side authentication core for Moneta apps.

It bundles four cooperating pieces:

  - Store: durable token/profile persistence (file-backed or no-op).
  - ParseAuthError: normalizer for the backend's heterogeneous error bodies.
  - Client: thin HTTP client for the /auth/ endpoints.
  - Controller: session state machine gluing the three together.

The package deliberately has no dependency on the server packages; it talks
to the backend purely over its JSON contract and is exercised against
httptest stubs.
*/
package authclient

// Credentials identify an existing account for login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterData is the information collected by the sign-up form.
//
// FullName is sent as the backend's first_name; the backend schema also
// requires a last name the form does not collect, so a constant placeholder
// is substituted (see [lastNamePlaceholder]).
type RegisterData struct {
	Username    string
	Password    string
	FullName    string
	Email       string
	PhoneNumber string
}

// UserProfile is the account representation the backend returns.
//
// The field names mirror the wire format exactly: snake_case names next to
// the camelCase phoneNumber the legacy model carried.
type UserProfile struct {
	ID          int64   `json:"id"`
	Username    string  `json:"username"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Email       *string `json:"email,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
}

// AuthResponse is the success payload of login and register.
type AuthResponse struct {
	User    UserProfile `json:"user"`
	Access  string      `json:"access"`
	Refresh string      `json:"refresh"`
	Message string      `json:"message"`
}
