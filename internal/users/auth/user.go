// Copyright (c) 2026 Moneta. All rights reserved.
// Author: contact@moneta.app

/*
Package auth implements the user identity and session management layer.

It defines the core domain entities (User, Session) and logic for
registration, login, and refresh-token session lifecycle.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.

# Wire compatibility

The JSON shape of [User] matches what the legacy Django backend serialized:
snake_case first_name/last_name next to the camelCase phoneNumber field the
old model carried. Existing clients bind to those exact keys.
*/
package auth

import (
	"time"
)

// # Domain Entities

// User represents a registered member of the Moneta platform.
//
// IDs are backend-assigned integers (BIGSERIAL). Email and PhoneNumber are
// nullable; the registration rule requires at least one of the two.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        *string   `json:"email"`
	PhoneNumber  *string   `json:"phoneNumber"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	IsActive     bool      `json:"-"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// Session represents an active refresh-token session.
//
// Sessions live in Redis keyed by the token hash, so the struct itself never
// stores the plain refresh token.
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername    = "username"
	FieldPassword    = "password"
	FieldFirstName   = "first_name"
	FieldLastName    = "last_name"
	FieldEmail       = "email"
	FieldPhoneNumber = "phoneNumber"
	FieldRefresh     = "refresh"
	FieldOldPassword = "old_password"
	FieldNewPassword = "new_password"
)
