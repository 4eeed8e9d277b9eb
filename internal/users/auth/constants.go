// Copyright (c) 2026 Moneta. All rights reserved.
// Author: contact@moneta.app

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the duration a JWT access token remains valid.
	// We keep it short (15m) to minimize the impact of a leaked token.
	AccessTokenTTL = 15 * time.Minute

	// RefreshTokenTTL is the duration a session/refresh token remains valid.
	// Long-lived (30 days) to provide a good user experience.
	RefreshTokenTTL = 30 * 24 * time.Hour

	// RefreshTokenLength is the byte length of the random secure token.
	RefreshTokenLength = 32

	// MinUsernameLength is the minimum character count for usernames.
	MinUsernameLength = 3

	// MinPasswordLength matches the legacy serializer's min_length=6.
	MinPasswordLength = 6

	// PhoneMinDigits and PhoneMaxDigits bound the accepted phone number length.
	PhoneMinDigits = 10
	PhoneMaxDigits = 11
)
