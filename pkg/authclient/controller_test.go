// Copyright (c) 2026 Moneta. All rights reserved.
// Author: contact@moneta.app

package authclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneta-app/moneta/pkg/authclient"
)

type recordingNavigator struct {
	paths []string
}

func (n *recordingNavigator) Navigate(path string) {
	n.paths = append(n.paths, path)
}

func newTestController(t *testing.T, handler http.Handler) (*authclient.Controller, *authclient.FileStore, *recordingNavigator) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := newFileStore(t)
	navigator := &recordingNavigator{}
	controller := authclient.NewController(authclient.NewClient(server.URL), store, navigator)
	return controller, store, navigator
}

func authHandler(t *testing.T, status int, body []byte) http.Handler {
	t.Helper()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write(body)
	})
}

/*
TestController_Login_WritesThroughAndNavigates drives a full sign-in: the
session must land in the store, the in-memory state must flip to
authenticated, and the navigator must be pointed at the dashboard.
*/
func TestController_Login_WritesThroughAndNavigates(t *testing.T) {
	controller, store, navigator := newTestController(t, authHandler(t, http.StatusOK, successBody(t)))

	require.Equal(t, authclient.StateUninitialized, controller.State())

	response, err := controller.Login(context.Background(), authclient.Credentials{
		Username: "tuan",
		Password: "secret-6",
	})
	require.NoError(t, err)
	assert.Equal(t, "Đăng nhập thành công", response.Message)

	access, ok := store.AccessToken()
	require.True(t, ok)
	assert.Equal(t, "token-access", access)

	refresh, ok := store.RefreshToken()
	require.True(t, ok)
	assert.Equal(t, "token-refresh", refresh)

	profile, ok := store.User()
	require.True(t, ok)
	assert.Equal(t, "tuan", profile.Username)

	assert.True(t, controller.IsAuthenticated())
	assert.Equal(t, authclient.StateAuthenticated, controller.State())
	require.NotNil(t, controller.CurrentUser())
	assert.Equal(t, int64(1), controller.CurrentUser().ID)
	assert.Equal(t, []string{authclient.PathDashboard}, navigator.paths)
}

func TestController_Register_InstallsSession(t *testing.T) {
	controller, store, navigator := newTestController(t, authHandler(t, http.StatusCreated, successBody(t)))

	_, err := controller.Register(context.Background(), authclient.RegisterData{
		Username: "tuan",
		Password: "secret-6",
		FullName: "Tuấn",
		Email:    "tuan@example.com",
	})
	require.NoError(t, err)

	_, ok := store.AccessToken()
	assert.True(t, ok)
	assert.True(t, controller.IsAuthenticated())
	assert.Equal(t, []string{authclient.PathDashboard}, navigator.paths)
}

/*
TestController_Login_FailureLeavesStateUntouched checks that a rejected
sign-in surfaces the normalized error as-is and mutates nothing: no tokens,
no user, no state change, no navigation.
*/
func TestController_Login_FailureLeavesStateUntouched(t *testing.T) {
	body := []byte(`{"non_field_errors": ["Tên người dùng hoặc mật khẩu không đúng"]}`)
	controller, store, navigator := newTestController(t, authHandler(t, http.StatusBadRequest, body))

	controller.Restore()
	require.Equal(t, authclient.StateAnonymous, controller.State())

	_, err := controller.Login(context.Background(), authclient.Credentials{
		Username: "tuan",
		Password: "wrong",
	})

	var authErr *authclient.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Tên người dùng hoặc mật khẩu không đúng", authErr.Error())

	_, ok := store.AccessToken()
	assert.False(t, ok)
	_, ok = store.User()
	assert.False(t, ok)
	assert.Equal(t, authclient.StateAnonymous, controller.State())
	assert.Nil(t, controller.CurrentUser())
	assert.Empty(t, navigator.paths)
}

/*
TestController_Login_DetailBodyLeavesStoreUntouched covers the backend's
{"detail": ...} failure shape: the detail string becomes the error message,
no field errors are reported, and nothing reaches the store.
*/
func TestController_Login_DetailBodyLeavesStoreUntouched(t *testing.T) {
	body := []byte(`{"detail": "invalid credentials"}`)
	controller, store, navigator := newTestController(t, authHandler(t, http.StatusUnauthorized, body))

	controller.Restore()

	_, err := controller.Login(context.Background(), authclient.Credentials{
		Username: "tuan",
		Password: "secret-6",
	})

	var authErr *authclient.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "invalid credentials", authErr.Error())
	assert.Nil(t, authErr.FieldErrors())

	_, ok := store.AccessToken()
	assert.False(t, ok)
	_, ok = store.RefreshToken()
	assert.False(t, ok)
	_, ok = store.User()
	assert.False(t, ok)
	assert.Equal(t, authclient.StateAnonymous, controller.State())
	assert.Empty(t, navigator.paths)
}

func TestController_Restore(t *testing.T) {
	t.Run("persisted_session_restores_authenticated", func(t *testing.T) {
		store := newFileStore(t)
		require.NoError(t, store.SetTokens("token-access", "token-refresh"))
		require.NoError(t, store.SetUser(&authclient.UserProfile{ID: 1, Username: "tuan"}))

		controller := authclient.NewController(authclient.NewClient(""), store, nil)

		assert.Equal(t, authclient.StateAuthenticated, controller.Restore())
		assert.True(t, controller.IsAuthenticated())
		require.NotNil(t, controller.CurrentUser())
		assert.Equal(t, "tuan", controller.CurrentUser().Username)
	})

	t.Run("empty_store_restores_anonymous", func(t *testing.T) {
		controller := authclient.NewController(authclient.NewClient(""), newFileStore(t), nil)

		assert.Equal(t, authclient.StateAnonymous, controller.Restore())
		assert.False(t, controller.IsAuthenticated())
	})

	t.Run("token_without_profile_restores_anonymous", func(t *testing.T) {
		store := newFileStore(t)
		require.NoError(t, store.SetTokens("token-access", "token-refresh"))

		controller := authclient.NewController(authclient.NewClient(""), store, nil)

		assert.Equal(t, authclient.StateAnonymous, controller.Restore())
	})
}

func TestController_Logout(t *testing.T) {
	controller, store, navigator := newTestController(t, authHandler(t, http.StatusOK, successBody(t)))

	_, err := controller.Login(context.Background(), authclient.Credentials{
		Username: "tuan",
		Password: "secret-6",
	})
	require.NoError(t, err)
	require.True(t, controller.IsAuthenticated())

	require.NoError(t, controller.Logout())

	_, ok := store.AccessToken()
	assert.False(t, ok)
	_, ok = store.User()
	assert.False(t, ok)
	assert.False(t, controller.IsAuthenticated())
	assert.Equal(t, authclient.StateAnonymous, controller.State())
	assert.Nil(t, controller.CurrentUser())
	assert.Equal(t, []string{authclient.PathDashboard, authclient.PathLogin}, navigator.paths)
}
