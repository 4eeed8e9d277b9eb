// Copyright (c) 2026 Moneta. All rights reserved.
// Author: contact@moneta.app

package authclient_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneta-app/moneta/pkg/authclient"
	"github.com/moneta-app/moneta/pkg/pointer"
)

func newFileStore(t *testing.T) *authclient.FileStore {
	t.Helper()

	store, err := authclient.NewFileStore(filepath.Join(t.TempDir(), "session"))
	require.NoError(t, err)
	return store
}

func TestFileStore_TokenRoundTrip(t *testing.T) {
	store := newFileStore(t)

	_, ok := store.AccessToken()
	assert.False(t, ok, "fresh store should hold no access token")
	_, ok = store.RefreshToken()
	assert.False(t, ok, "fresh store should hold no refresh token")

	require.NoError(t, store.SetTokens("access-1", "refresh-1"))

	access, ok := store.AccessToken()
	require.True(t, ok)
	assert.Equal(t, "access-1", access)

	refresh, ok := store.RefreshToken()
	require.True(t, ok)
	assert.Equal(t, "refresh-1", refresh)

	require.NoError(t, store.RemoveTokens())
	_, ok = store.AccessToken()
	assert.False(t, ok)
	_, ok = store.RefreshToken()
	assert.False(t, ok)

	// Removing an already-empty store is a no-op.
	require.NoError(t, store.RemoveTokens())
}

func TestFileStore_UserRoundTrip(t *testing.T) {
	store := newFileStore(t)

	_, ok := store.User()
	assert.False(t, ok)

	profile := &authclient.UserProfile{
		ID:        7,
		Username:  "tuan",
		FirstName: "Tuấn",
		LastName:  "Guest",
		Email:     pointer.To("tuan@example.com"),
	}
	require.NoError(t, store.SetUser(profile))

	got, ok := store.User()
	require.True(t, ok)
	assert.Equal(t, profile, got)

	require.NoError(t, store.RemoveUser())
	_, ok = store.User()
	assert.False(t, ok)
	require.NoError(t, store.RemoveUser())
}

/*
TestFileStore_CorruptUserFile verifies that an unreadable profile on disk is
treated as absent rather than surfaced as an error, so a damaged session
simply forces a fresh sign-in.
*/
func TestFileStore_CorruptUserFile(t *testing.T) {
	store := newFileStore(t)

	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "user"), []byte("{not json"), 0o600))

	_, ok := store.User()
	assert.False(t, ok)
}

func TestFileStore_OverwriteTokens(t *testing.T) {
	store := newFileStore(t)

	require.NoError(t, store.SetTokens("old-access", "old-refresh"))
	require.NoError(t, store.SetTokens("new-access", "new-refresh"))

	access, ok := store.AccessToken()
	require.True(t, ok)
	assert.Equal(t, "new-access", access)

	refresh, ok := store.RefreshToken()
	require.True(t, ok)
	assert.Equal(t, "new-refresh", refresh)
}

func TestNoopStore(t *testing.T) {
	store := authclient.NoopStore{}

	require.NoError(t, store.SetTokens("a", "r"))
	require.NoError(t, store.SetUser(&authclient.UserProfile{ID: 1}))

	_, ok := store.AccessToken()
	assert.False(t, ok)
	_, ok = store.RefreshToken()
	assert.False(t, ok)
	_, ok = store.User()
	assert.False(t, ok)

	require.NoError(t, store.RemoveTokens())
	require.NoError(t, store.RemoveUser())
}
