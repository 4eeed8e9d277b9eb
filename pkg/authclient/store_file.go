// Copyright (c) 2026 Moneta. All rights reserved.
// Author: contact@moneta.app

package authclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Slot file names. Fixed identifiers shared by every Moneta client surface,
// one file per slot.
const (
	slotAccessToken  = "access_token"
	slotRefreshToken = "refresh_token"
	slotUser         = "user"
)

// FileStore is a [Store] keeping each slot in its own file under a directory.
//
// Tokens are stored verbatim; the user profile is stored as JSON. Files are
// created with owner-only permissions since they hold live credentials.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory (if needed) and returns a [FileStore]
// rooted at it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("authclient: create store directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory backing the store.
func (s *FileStore) Dir() string { return s.dir }

// AccessToken reports the stored access token, if any.
func (s *FileStore) AccessToken() (string, bool) {
	return s.readSlot(slotAccessToken)
}

// RefreshToken reports the stored refresh token, if any.
func (s *FileStore) RefreshToken() (string, bool) {
	return s.readSlot(slotRefreshToken)
}

// SetTokens writes both tokens. The access token is written first; a failure
// leaves at most that one slot updated.
func (s *FileStore) SetTokens(access, refresh string) error {
	if err := s.writeSlot(slotAccessToken, []byte(access)); err != nil {
		return err
	}
	return s.writeSlot(slotRefreshToken, []byte(refresh))
}

// RemoveTokens deletes both token slots. Absent slots are not an error.
func (s *FileStore) RemoveTokens() error {
	if err := s.removeSlot(slotAccessToken); err != nil {
		return err
	}
	return s.removeSlot(slotRefreshToken)
}

// User reports the stored profile. A missing file or malformed JSON reads
// as absent; stale garbage never surfaces as an error.
func (s *FileStore) User() (*UserProfile, bool) {
	raw, ok := s.readSlot(slotUser)
	if !ok {
		return nil, false
	}

	user := &UserProfile{}
	if err := json.Unmarshal([]byte(raw), user); err != nil {
		return nil, false
	}
	return user, true
}

// SetUser stores the profile as JSON.
func (s *FileStore) SetUser(user *UserProfile) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("authclient: encode user: %w", err)
	}
	return s.writeSlot(slotUser, payload)
}

// RemoveUser deletes the profile slot. An absent slot is not an error.
func (s *FileStore) RemoveUser() error {
	return s.removeSlot(slotUser)
}

// # Slot primitives

func (s *FileStore) path(slot string) string {
	return filepath.Join(s.dir, slot)
}

func (s *FileStore) readSlot(slot string) (string, bool) {
	raw, err := os.ReadFile(s.path(slot))
	if err != nil || len(raw) == 0 {
		return "", false
	}
	return string(raw), true
}

func (s *FileStore) writeSlot(slot string, payload []byte) error {
	if err := os.WriteFile(s.path(slot), payload, 0o600); err != nil {
		return fmt.Errorf("authclient: write %s: %w", slot, err)
	}
	return nil
}

func (s *FileStore) removeSlot(slot string) error {
	err := os.Remove(s.path(slot))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("authclient: remove %s: %w", slot, err)
	}
	return nil
}
