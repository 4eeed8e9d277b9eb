// Copyright (c) 2026 Moneta. All rights reserved.
// Author: contact@moneta.app

package authclient

import (
	"os"
	"path/filepath"
)

// Store persists the session's three slots: access token, refresh token, and
// user profile.
//
// # Read semantics
//
// Reads never fail. A missing slot, an unreadable file, or a malformed user
// profile all report "absent" (the boolean false). Only writes surface I/O
// errors.
type Store interface {
	AccessToken() (string, bool)
	RefreshToken() (string, bool)
	SetTokens(access, refresh string) error
	RemoveTokens() error

	User() (*UserProfile, bool)
	SetUser(user *UserProfile) error
	RemoveUser() error
}

// configSubdir is the per-user directory holding the session files.
const configSubdir = "moneta"

// NewStore returns the best available [Store] for this environment: a
// [FileStore] under the user's config directory, or [NoopStore] when no
// writable location exists (headless or sandboxed execution contexts).
func NewStore() Store {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return NoopStore{}
	}

	fileStore, err := NewFileStore(filepath.Join(configDir, configSubdir))
	if err != nil {
		return NoopStore{}
	}
	return fileStore
}

// NoopStore is a [Store] with no persistence: reads are always absent and
// writes silently succeed. A session backed by it simply does not survive
// the process.
type NoopStore struct{}

func (NoopStore) AccessToken() (string, bool)   { return "", false }
func (NoopStore) RefreshToken() (string, bool)  { return "", false }
func (NoopStore) SetTokens(_, _ string) error   { return nil }
func (NoopStore) RemoveTokens() error           { return nil }
func (NoopStore) User() (*UserProfile, bool)    { return nil, false }
func (NoopStore) SetUser(*UserProfile) error    { return nil }
func (NoopStore) RemoveUser() error             { return nil }
