// Copyright (c) 2026 Moneta. All rights reserved.
// Author: contact@moneta.app

/*
HTTP delivery layer for user identity management.

It implements the gateway for the authentication lifecycle, from account
creation to session rotation and logout.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface.
  - Compatibility: Request and response shapes match the legacy backend,
    including camelCase aliases (firstName/lastName) and trailing-slash routes.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes, headers, JSON).
*/
package auth

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/moneta-app/moneta/internal/platform/apperr"
	"github.com/moneta-app/moneta/internal/platform/constants"
	"github.com/moneta-app/moneta/internal/platform/middleware"
	requestutil "github.com/moneta-app/moneta/internal/platform/request"
	"github.com/moneta-app/moneta/internal/platform/respond"
	"github.com/moneta-app/moneta/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//
// All paths keep the legacy trailing slash; existing clients call them
// exactly as written.
//   - POST /register/        : Creates a new account and signs it in.
//   - POST /login/           : Authenticates and returns a token pair.
//   - POST /refresh/         : Rotates a refresh token.
//   - POST /logout/          : Revokes a refresh token.
//   - POST /password/change/ : Replaces the password (requires authentication).
//   - POST /deactivate/      : Disables the account (requires authentication).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register/", handler.register)
	router.Post("/login/", handler.login)
	router.Post("/refresh/", handler.refresh)
	router.Post("/logout/", handler.logout)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/password/change/", handler.changePassword)
		r.Post("/deactivate/", handler.deactivate)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`

	// camelCase aliases accepted for compatibility with older clients.
	FirstNameAlias string `json:"firstName"`
	LastNameAlias  string `json:"lastName"`
}

// normalize coalesces the camelCase aliases into the snake_case fields and
// trims the optional contact fields, mirroring the legacy view's behavior.
func (r *registerRequest) normalize() {
	if r.FirstName == "" {
		r.FirstName = r.FirstNameAlias
	}
	if r.LastName == "" {
		r.LastName = r.LastNameAlias
	}
	r.Email = strings.TrimSpace(r.Email)
	r.PhoneNumber = strings.TrimSpace(r.PhoneNumber)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// sessionPayload is the success envelope shared by register and login.
func sessionPayload(session *LoginSession, message string) map[string]any {
	return map[string]any{
		constants.FieldUser:    session.User,
		constants.FieldAccess:  session.AccessToken,
		constants.FieldRefresh: session.RefreshToken,
		constants.FieldMessage: message,
	}
}

/*
Register handles the creation of a new user account.

POST /auth/register/

Description: Validates input with the legacy serializer's rules, checks for
username conflicts, persists the account, and returns a signed-in session.

Request:
  - Body: registerRequest (username, password, first_name, last_name,
    optional email, optional phoneNumber; camelCase name aliases accepted)

Response:
  - 201: {user, access, refresh, message}
  - 400: Field-keyed validation errors, or username conflict
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}
	input.normalize()

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		MinLen(FieldUsername, input.Username, MinUsernameLength).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength).
		Required(FieldFirstName, input.FirstName).
		Required(FieldLastName, input.LastName).
		NonField(input.Email == "" && input.PhoneNumber == "",
			"Phải có ít nhất một trong hai: email hoặc số điện thoại")

	if input.Email != "" {
		validator.Email(FieldEmail, input.Email)
	}
	if input.PhoneNumber != "" {
		validator.Digits(FieldPhoneNumber, input.PhoneNumber).
			LenBetween(FieldPhoneNumber, input.PhoneNumber, PhoneMinDigits, PhoneMaxDigits)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	registerInput := RegisterInput{
		Username:  input.Username,
		Password:  input.Password,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		UserAgent: request.UserAgent(),
		IPAddress: middleware.RealIP(request),
	}
	if input.Email != "" {
		registerInput.Email = &input.Email
	}
	if input.PhoneNumber != "" {
		registerInput.PhoneNumber = &input.PhoneNumber
	}

	session, err := handler.authService.Register(request.Context(), registerInput)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusCreated, sessionPayload(session, "Đăng ký thành công"))
}

/*
Login authenticates a user and establishes a session.

POST /auth/login/

Description: Verifies username/password credentials and returns the token
pair plus the user profile.

Request:
  - Body: loginRequest (username, password)

Response:
  - 200: {user, access, refresh, message}
  - 400: non_field_errors with a generic invalid-credential message
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Username:  input.Username,
		Password:  input.Password,
		UserAgent: request.UserAgent(),
		IPAddress: middleware.RealIP(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, sessionPayload(session, "Đăng nhập thành công"))
}

/*
Refresh issues a new token pair using a valid refresh token.

POST /auth/refresh/

Description: Rotates the session by validating the presented refresh token
and issuing a fresh access token together with a replacement refresh token.

Request:
  - Body: refreshRequest (refresh)

Response:
  - 200: {access, refresh}
  - 401: {"detail": "..."} for missing, revoked, or expired tokens
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.Refresh == "" {
		respond.Error(writer, request, apperr.Unauthorized("Refresh token was not provided"))
		return
	}

	session, err := handler.authService.RefreshSession(
		request.Context(),
		input.Refresh,
		request.UserAgent(),
		middleware.RealIP(request),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, map[string]any{
		constants.FieldAccess:  session.AccessToken,
		constants.FieldRefresh: session.RefreshToken,
	})
}

/*
Logout revokes the presented refresh token.

POST /auth/logout/

Description: Invalidates the session tracking the refresh token. Revoking an
unknown or already-revoked token still succeeds.

Request:
  - Body: refreshRequest (refresh)

Response:
  - 204: No Content: Session terminated
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest

	// A missing or malformed body is treated as an already-ended session.
	if err := requestutil.DecodeJSON(request, &input); err == nil && input.Refresh != "" {
		if err := handler.authService.Logout(request.Context(), input.Refresh); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	respond.NoContent(writer)
}

/*
ChangePassword replaces the signed-in account's password.

POST /auth/password/change/

Description: Verifies the current password, validates the replacement with
the same length rule as registration, and stores the new hash.

Request:
  - Body: changePasswordRequest (old_password, new_password)

Response:
  - 200: {message}
  - 400: Field-keyed validation errors, or wrong current password
  - 401: {"detail": "..."} when unauthenticated
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldOldPassword, input.OldPassword).
		Required(FieldNewPassword, input.NewPassword).
		MinLen(FieldNewPassword, input.NewPassword, MinPasswordLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ChangePassword(request.Context(), userID, input.OldPassword, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, map[string]any{
		constants.FieldMessage: "Đổi mật khẩu thành công",
	})
}

/*
Deactivate disables the signed-in account.

POST /auth/deactivate/

Description: Soft-disables the account. Subsequent logins are rejected and
refresh tokens die at their next rotation.

Request:
  - Body: none

Response:
  - 204: No Content: Account disabled
  - 401: {"detail": "..."} when unauthenticated
*/
func (handler *Handler) deactivate(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.DeactivateAccount(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
