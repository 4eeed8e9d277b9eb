// Copyright (c) 2026 Moneta. All rights reserved.
// Author: contact@moneta.app

package auth_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneta-app/moneta/internal/platform/apperr"
	"github.com/moneta-app/moneta/internal/platform/sec"
	"github.com/moneta-app/moneta/internal/users/auth"
	"github.com/moneta-app/moneta/pkg/pointer"
)

// # In-memory fakes

type fakeUserRepo struct {
	nextID int64
	users  map[string]*auth.User // keyed by username
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: map[string]*auth.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *auth.User) error {
	user.ID = r.nextID
	r.nextID++
	r.users[user.Username] = user
	return nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	user, ok := r.users[username]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return user, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id int64) (*auth.User, error) {
	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, userID int64, newHash string) error {
	for _, user := range r.users {
		if user.ID == userID {
			user.PasswordHash = newHash
			return nil
		}
	}
	return apperr.NotFound("User")
}

func (r *fakeUserRepo) Deactivate(_ context.Context, id int64) error {
	for _, user := range r.users {
		if user.ID == id {
			user.IsActive = false
			return nil
		}
	}
	return apperr.NotFound("User")
}

// racingUserRepo simulates a registration race: the uniqueness pre-check
// sees no existing account, but the insert hits the UNIQUE constraint and
// the store reports the mapped conflict.
type racingUserRepo struct {
	*fakeUserRepo
}

func (r *racingUserRepo) FindByUsername(_ context.Context, _ string) (*auth.User, error) {
	return nil, apperr.NotFound("User")
}

func (r *racingUserRepo) Create(ctx context.Context, user *auth.User) error {
	if _, taken := r.users[user.Username]; taken {
		return apperr.Conflict(auth.FieldUsername, "A user with that username already exists.")
	}
	return r.fakeUserRepo.Create(ctx, user)
}

type fakeSessionRepo struct {
	sessions map[string]*auth.Session // keyed by token hash
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*auth.Session{}}
}

func (r *fakeSessionRepo) Create(_ context.Context, tokenHash string, session *auth.Session) error {
	r.sessions[tokenHash] = session
	return nil
}

func (r *fakeSessionRepo) FindByTokenHash(_ context.Context, tokenHash string) (*auth.Session, error) {
	session, ok := r.sessions[tokenHash]
	if !ok || time.Now().After(session.ExpiresAt) {
		return nil, apperr.NotFound("Session")
	}
	return session, nil
}

func (r *fakeSessionRepo) Revoke(_ context.Context, tokenHash string) error {
	delete(r.sessions, tokenHash)
	return nil
}

type fakeTokenProvider struct{}

func (fakeTokenProvider) GenerateAccessToken(userID int64, username string, _ time.Duration) (string, error) {
	return fmt.Sprintf("access-%d-%s", userID, username), nil
}

func newTestService() (*auth.Service, *fakeUserRepo, *fakeSessionRepo) {
	users := newFakeUserRepo()
	sessions := newFakeSessionRepo()
	service := auth.NewService(users, sessions, fakeTokenProvider{})
	return service, users, sessions
}

func seedUser(t *testing.T, users *fakeUserRepo, username, password string) *auth.User {
	t.Helper()

	hash, err := sec.HashPassword(password)
	require.NoError(t, err)

	user := &auth.User{
		Username:     username,
		FirstName:    "Nguyễn Văn A",
		LastName:     "Guest",
		Email:        pointer.To(username + "@example.com"),
		PasswordHash: hash,
		IsActive:     true,
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

// # Registration

/*
TestService_Register verifies account creation and immediate sign-in.
*/
func TestService_Register(t *testing.T) {
	service, _, sessions := newTestService()

	session, err := service.Register(context.Background(), auth.RegisterInput{
		Username:  "tuan",
		Password:  "secret6",
		FirstName: "Trần Anh Tuấn",
		LastName:  "Guest",
		Email:     pointer.To("tuan@example.com"),
	})

	require.NoError(t, err)
	require.NotNil(t, session.User)
	assert.Equal(t, int64(1), session.User.ID)
	assert.Equal(t, "access-1-tuan", session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)
	assert.True(t, session.User.IsActive)

	// Password must never be stored in plain text
	assert.NotEqual(t, "secret6", session.User.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("secret6", session.User.PasswordHash))

	// The tracking session is persisted under the hashed token
	stored, err := sessions.FindByTokenHash(context.Background(), sec.HashToken(session.RefreshToken))
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, stored.UserID)
}

/*
TestService_Register_UsernameConflict verifies the duplicate-username failure.
*/
func TestService_Register_UsernameConflict(t *testing.T) {
	service, users, _ := newTestService()
	seedUser(t, users, "tuan", "secret6")

	_, err := service.Register(context.Background(), auth.RegisterInput{
		Username:  "tuan",
		Password:  "another6",
		FirstName: "Someone Else",
		LastName:  "Guest",
		Email:     pointer.To("else@example.com"),
	})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
	assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
	require.Len(t, ae.Details, 1)
	assert.Equal(t, auth.FieldUsername, ae.Details[0].Field)
}

/*
TestService_Register_ConcurrentDuplicate verifies that a duplicate slipping
past the pre-check still surfaces as the field-keyed 400 conflict rather
than an internal error.
*/
func TestService_Register_ConcurrentDuplicate(t *testing.T) {
	users := newFakeUserRepo()
	service := auth.NewService(&racingUserRepo{fakeUserRepo: users}, newFakeSessionRepo(), fakeTokenProvider{})
	seedUser(t, users, "tuan", "secret6")

	_, err := service.Register(context.Background(), auth.RegisterInput{
		Username:  "tuan",
		Password:  "another6",
		FirstName: "Someone Else",
		LastName:  "Guest",
		Email:     pointer.To("else@example.com"),
	})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
	assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
	require.Len(t, ae.Details, 1)
	assert.Equal(t, auth.FieldUsername, ae.Details[0].Field)
}

// # Login

/*
TestService_Login covers success and the generic credential failure.
*/
func TestService_Login(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantErr  bool
	}{
		{"valid_credentials", "tuan", "secret6", false},
		{"wrong_password", "tuan", "wrong", true},
		{"unknown_user", "nobody", "secret6", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, users, _ := newTestService()
			seedUser(t, users, "tuan", "secret6")

			session, err := service.Login(context.Background(), auth.LoginInput{
				Username: tt.username,
				Password: tt.password,
			})

			if tt.wantErr {
				require.Error(t, err)
				ae := apperr.As(err)
				require.NotNil(t, ae)

				// Legacy shape: HTTP 400, message keyed under non_field_errors
				assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
				require.Len(t, ae.Details, 1)
				assert.Equal(t, apperr.NonFieldErrors, ae.Details[0].Field)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "tuan", session.User.Username)
			assert.NotEmpty(t, session.AccessToken)
			assert.NotEmpty(t, session.RefreshToken)
		})
	}
}

/*
TestService_Login_Deactivated verifies that inactive accounts cannot sign in.
*/
func TestService_Login_Deactivated(t *testing.T) {
	service, users, _ := newTestService()
	user := seedUser(t, users, "tuan", "secret6")
	require.NoError(t, users.Deactivate(context.Background(), user.ID))

	_, err := service.Login(context.Background(), auth.LoginInput{
		Username: "tuan",
		Password: "secret6",
	})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "Tài khoản đã bị vô hiệu hóa", ae.Message)
}

// # Account Maintenance

/*
TestService_ChangePassword verifies the password rotation flow: the current
password gates the change, and only the new password works afterwards.
*/
func TestService_ChangePassword(t *testing.T) {
	service, users, _ := newTestService()
	user := seedUser(t, users, "tuan", "secret6")

	require.NoError(t, service.ChangePassword(context.Background(), user.ID, "secret6", "renewed6"))

	_, err := service.Login(context.Background(), auth.LoginInput{Username: "tuan", Password: "secret6"})
	require.Error(t, err, "the old password must stop working")

	session, err := service.Login(context.Background(), auth.LoginInput{Username: "tuan", Password: "renewed6"})
	require.NoError(t, err)
	assert.Equal(t, "tuan", session.User.Username)
}

/*
TestService_ChangePassword_WrongCurrent rejects a change when the proof of
possession fails, keyed under old_password like a serializer error.
*/
func TestService_ChangePassword_WrongCurrent(t *testing.T) {
	service, users, _ := newTestService()
	user := seedUser(t, users, "tuan", "secret6")

	err := service.ChangePassword(context.Background(), user.ID, "not-it", "renewed6")

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
	require.Len(t, ae.Details, 1)
	assert.Equal(t, auth.FieldOldPassword, ae.Details[0].Field)

	// The stored hash is untouched
	_, err = service.Login(context.Background(), auth.LoginInput{Username: "tuan", Password: "secret6"})
	assert.NoError(t, err)
}

/*
TestService_DeactivateAccount verifies the soft-disable: sign-in is rejected
and a live refresh token dies at its next rotation.
*/
func TestService_DeactivateAccount(t *testing.T) {
	service, users, _ := newTestService()
	user := seedUser(t, users, "tuan", "secret6")

	session, err := service.Login(context.Background(), auth.LoginInput{Username: "tuan", Password: "secret6"})
	require.NoError(t, err)

	require.NoError(t, service.DeactivateAccount(context.Background(), user.ID))

	_, err = service.Login(context.Background(), auth.LoginInput{Username: "tuan", Password: "secret6"})
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "Tài khoản đã bị vô hiệu hóa", ae.Message)

	_, err = service.RefreshSession(context.Background(), session.RefreshToken, "", "")
	require.Error(t, err)
	ae = apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus)
}

// # Session Lifecycle

/*
TestService_RefreshSession verifies refresh token rotation.
*/
func TestService_RefreshSession(t *testing.T) {
	service, users, _ := newTestService()
	seedUser(t, users, "tuan", "secret6")

	first, err := service.Login(context.Background(), auth.LoginInput{
		Username: "tuan",
		Password: "secret6",
	})
	require.NoError(t, err)

	rotated, err := service.RefreshSession(context.Background(), first.RefreshToken, "", "")
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, rotated.RefreshToken)

	// The old token was revoked during rotation and cannot be replayed
	_, err = service.RefreshSession(context.Background(), first.RefreshToken, "", "")
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus)
}

/*
TestService_RefreshSession_InvalidToken rejects tokens with no session.
*/
func TestService_RefreshSession_InvalidToken(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.RefreshSession(context.Background(), "never-issued", "", "")
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus)
}

/*
TestService_Logout verifies revocation and idempotency.
*/
func TestService_Logout(t *testing.T) {
	service, users, sessions := newTestService()
	seedUser(t, users, "tuan", "secret6")

	session, err := service.Login(context.Background(), auth.LoginInput{
		Username: "tuan",
		Password: "secret6",
	})
	require.NoError(t, err)

	require.NoError(t, service.Logout(context.Background(), session.RefreshToken))
	assert.Empty(t, sessions.sessions)

	// Logging out again (or with a bogus token) still succeeds
	assert.NoError(t, service.Logout(context.Background(), session.RefreshToken))
	assert.NoError(t, service.Logout(context.Background(), "never-issued"))
}
