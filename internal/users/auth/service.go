// Copyright (c) 2026 Moneta. All rights reserved.
// Author: contact@moneta.app

/*
Service layer of the identity system.

It handles user registration with secure password hashing, username/password
login, and refresh-token session lifecycle (issue, rotate, revoke).

Architecture:

  - Service: Orchestrates business logic (Register, Login, Refresh, Logout).
  - Repository: Abstracted interfaces for Postgres (Users) and Redis (Sessions).
  - Security: Bcrypt hashing and HS256-signed JWTs.
*/
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/moneta-app/moneta/internal/platform/apperr"
	"github.com/moneta-app/moneta/internal/platform/sec"
	"github.com/moneta-app/moneta/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - username: The username of the account.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	GenerateAccessToken(userID int64, username string, timeToLive time.Duration) (string, error)
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed before merging.
type Service struct {
	userRepository    UserRepository
	sessionRepository SessionRepository
	tokenProvider     TokenProvider
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	sessionRepo SessionRepository,
	tokenProv TokenProvider,
) *Service {
	return &Service{
		userRepository:    userRepo,
		sessionRepository: sessionRepo,
		tokenProvider:     tokenProv,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
//
// Email and PhoneNumber are optional individually, but the serializer-level
// rule requires at least one of them (enforced by the handler).
type RegisterInput struct {
	Username    string
	Password    string
	FirstName   string
	LastName    string
	Email       *string
	PhoneNumber *string
	UserAgent   string
	IPAddress   string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *User
}

/*
Register validates, hashes, and persists a brand new user account, then signs
the member in immediately.

Description: Deep-enrollment of a new member, handling password hashing and
first-session issuance. The legacy backend issued tokens in the registration
response, so registered users land authenticated.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *LoginSession: Transport-ready session for the new account
  - err: Conflict (if username exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*LoginSession, error) {

	// Verify username uniqueness. Return a client-safe Conflict err keyed by
	// field, matching the serializer's unique-validator message.
	_, err := service.userRepository.FindByUsername(context, input.Username)
	if err == nil {
		return nil, apperr.Conflict(FieldUsername, "A user with that username already exists.")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. The database assigns the integer ID.
	user := &User{
		Username:     input.Username,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PhoneNumber:  input.PhoneNumber,
		PasswordHash: hashedPassword,
		IsActive:     true,
	}

	// Persist the user to the database
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	// Issue the first session so the client is signed in right away
	session, err := service.issueSession(context, user, input.UserAgent, input.IPAddress)
	if err != nil {
		return nil, err
	}

	return session, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Username  string
	Password  string
	UserAgent string
	IPAddress string
}

// invalidCredentials mirrors the legacy serializer failure: HTTP 400 with the
// message under non_field_errors, never a hint about which part was wrong.
func invalidCredentials() *apperr.AppError {
	return apperr.ValidationError(
		"Tên người dùng hoặc mật khẩu không đúng",
		apperr.FieldError{Field: apperr.NonFieldErrors, Message: "Tên người dùng hoặc mật khẩu không đúng"},
	)
}

/*
Login validates user credentials and issues security tokens.

Description: Verifies identity, performs constant-time password comparison,
and initializes a new session with freshly generated tokens.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready session identifiers
  - err: Credential or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {

	user, err := service.userRepository.FindByUsername(context, input.Username)

	// If (err != nil) the user does not exist. Generic message to prevent enumeration.
	if err != nil {
		return nil, invalidCredentials()
	}

	// Verify password hash using constant-time comparison in bcrypt to prevent timing attacks
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, invalidCredentials()
	}

	// Deactivated accounts cannot sign in
	if !user.IsActive {
		return nil, apperr.ValidationError(
			"Tài khoản đã bị vô hiệu hóa",
			apperr.FieldError{Field: apperr.NonFieldErrors, Message: "Tài khoản đã bị vô hiệu hóa"},
		)
	}

	return service.issueSession(context, user, input.UserAgent, input.IPAddress)
}

/*
Logout permanently revokes the presented refresh token's session.

Description: Ensures that a tracked refresh token can never be used again.
Revoking an unknown token succeeds (idempotent operation).

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - err: Revocation failures
*/
func (service *Service) Logout(context context.Context, refreshToken string) error {

	tokenHash := sec.HashToken(refreshToken)

	if err := service.sessionRepository.Revoke(context, tokenHash); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	return nil
}

// # Account Maintenance

// invalidCurrentPassword mirrors the serializer shape for a failed password
// change: HTTP 400 with the message keyed under old_password.
func invalidCurrentPassword() *apperr.AppError {
	return apperr.ValidationError(
		"Mật khẩu hiện tại không đúng",
		apperr.FieldError{Field: FieldOldPassword, Message: "Mật khẩu hiện tại không đúng"},
	)
}

/*
ChangePassword replaces the password of a signed-in account.

Description: Requires the current password (proof of possession, since the
caller only holds a bearer token) before hashing and storing the new one.
Existing sessions stay valid; the access token does not encode the password.

Parameters:
  - context: context.Context
  - userID: int64
  - currentPassword: string
  - newPassword: string

Returns:
  - err: Validation (wrong current password) or storage failures
*/
func (service *Service) ChangePassword(context context.Context, userID int64, currentPassword, newPassword string) error {

	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return invalidCurrentPassword()
	}

	newHash, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, userID, newHash); err != nil {
		return fmt.Errorf("auth_service_change_password_failed: %w", err)
	}

	return nil
}

/*
DeactivateAccount disables a signed-in account.

Description: Soft-disable only; the row remains. A deactivated account can no
longer sign in, and its refresh tokens die at their next rotation because
[Service.RefreshSession] rejects inactive accounts.

Parameters:
  - context: context.Context
  - userID: int64

Returns:
  - err: Storage failures
*/
func (service *Service) DeactivateAccount(context context.Context, userID int64) error {

	if err := service.userRepository.Deactivate(context, userID); err != nil {
		return fmt.Errorf("auth_service_deactivate_failed: %w", err)
	}

	return nil
}

// # Session Management

/*
RefreshSession implements the Refresh Token Rotation mechanism.

Description: Verifies the existing refresh token, revokes it to prevent reuse
(replay attack mitigation), and issues a fresh pair of rotated tokens.

Parameters:
  - context: context.Context
  - refreshToken: string
  - userAgent: string
  - ipAddress: string

Returns:
  - *LoginSession: New session credentials
  - err: Unauthorized or storage failures
*/
func (service *Service) RefreshSession(context context.Context, refreshToken, userAgent, ipAddress string) (*LoginSession, error) {

	// Hash the incoming refresh token to look it up
	tokenHash := sec.HashToken(refreshToken)
	session, err := service.sessionRepository.FindByTokenHash(context, tokenHash)

	// If (err != nil) the token is either expired, already revoked, or completely invalid.
	if err != nil {
		return nil, apperr.Unauthorized("Token is invalid or expired")
	}

	// Rotation: Revoke the old session to prevent replay attacks
	if err := service.sessionRepository.Revoke(context, tokenHash); err != nil {
		return nil, fmt.Errorf("auth_service_refresh_revoke_failed: %w", err)
	}

	// Fetch the user associated with this session
	user, err := service.userRepository.FindByID(context, session.UserID)
	if err != nil || !user.IsActive {
		return nil, apperr.Unauthorized("Token is invalid or expired")
	}

	return service.issueSession(context, user, userAgent, ipAddress)
}

// issueSession generates an access/refresh token pair and persists the
// tracking session in Redis.
func (service *Service) issueSession(context context.Context, user *User, userAgent, ipAddress string) (*LoginSession, error) {

	// Generate short-lived Access Token
	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Username, AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	// Generate long-lived Refresh Token
	refreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	// Create and persist the tracking session
	expiresAt := time.Now().Add(RefreshTokenTTL)
	session := &Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		UserAgent: userAgent,
		IPAddress: ipAddress,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}

	if err := service.sessionRepository.Create(context, sec.HashToken(refreshToken), session); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: expiresAt,
		User:                  user,
	}, nil
}
