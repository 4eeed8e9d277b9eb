// Copyright (c) 2026 Moneta. All rights reserved.
// Author: contact@moneta.app

package authclient

import (
	"context"
	"sync"
)

// State is the controller's session lifecycle position.
type State int

const (
	// StateUninitialized means Restore has not run yet.
	StateUninitialized State = iota
	// StateRestoring means a restore from the store is in progress.
	StateRestoring
	// StateAuthenticated means a user is signed in.
	StateAuthenticated
	// StateAnonymous means no user is signed in.
	StateAnonymous
)

// String implements fmt.Stringer for log output.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRestoring:
		return "restoring"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Navigation targets emitted after auth transitions.
const (
	PathDashboard = "/"
	PathLogin     = "/login"
)

// Navigator receives navigation signals after successful transitions. The
// host application decides what "navigating" means (switching views,
// printing a hint, nothing at all).
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to the [Navigator] interface.
type NavigatorFunc func(path string)

// Navigate implements [Navigator].
func (f NavigatorFunc) Navigate(path string) { f(path) }

// Controller owns the client-side session state.
//
// # Concurrency
//
// The mutex guards memory safety only. Overlapping auth calls are not
// serialized: the last writer wins, matching the source UI's behavior where
// forms disable themselves during submission. Callers needing stricter
// ordering must provide it themselves.
type Controller struct {
	client    *Client
	store     Store
	navigator Navigator

	mu    sync.Mutex
	state State
	user  *UserProfile
}

// NewController wires a [Controller] from its collaborators. A nil navigator
// disables navigation signals.
func NewController(client *Client, store Store, navigator Navigator) *Controller {
	if navigator == nil {
		navigator = NavigatorFunc(func(string) {})
	}
	return &Controller{
		client:    client,
		store:     store,
		navigator: navigator,
		state:     StateUninitialized,
	}
}

/*
Restore loads any persisted session from the store.

The session counts as restorable only when both an access token and a user
profile are present; anything less lands in [StateAnonymous]. Restore never
performs network traffic and never fails.
*/
func (c *Controller) Restore() State {
	c.mu.Lock()
	c.state = StateRestoring
	c.mu.Unlock()

	_, hasToken := c.store.AccessToken()
	user, hasUser := c.store.User()

	c.mu.Lock()
	defer c.mu.Unlock()
	if hasToken && hasUser {
		c.state = StateAuthenticated
		c.user = user
	} else {
		c.state = StateAnonymous
		c.user = nil
	}
	return c.state
}

/*
Login authenticates and installs the resulting session.

Persistence is write-through: the store is updated before the in-memory
state, so a crash between the two leaves the durable session ahead of the
volatile one, never behind. On failure the [*AuthError] propagates unchanged
and no state is touched.
*/
func (c *Controller) Login(ctx context.Context, credentials Credentials) (*AuthResponse, error) {
	response, err := c.client.Login(ctx, credentials)
	if err != nil {
		return nil, err
	}
	if err := c.installSession(response); err != nil {
		return nil, err
	}

	c.navigator.Navigate(PathDashboard)
	return response, nil
}

// Register creates an account and installs the session exactly like [Login].
func (c *Controller) Register(ctx context.Context, data RegisterData) (*AuthResponse, error) {
	response, err := c.client.Register(ctx, data)
	if err != nil {
		return nil, err
	}
	if err := c.installSession(response); err != nil {
		return nil, err
	}

	c.navigator.Navigate(PathDashboard)
	return response, nil
}

/*
Logout clears the persisted session, drops to [StateAnonymous], and signals
navigation to the login view. It is local-only; the backend session is left
to expire (the UI this mirrors never called a logout endpoint).
*/
func (c *Controller) Logout() error {
	if err := c.store.RemoveTokens(); err != nil {
		return err
	}
	if err := c.store.RemoveUser(); err != nil {
		return err
	}

	c.mu.Lock()
	c.state = StateAnonymous
	c.user = nil
	c.mu.Unlock()

	c.navigator.Navigate(PathLogin)
	return nil
}

// IsAuthenticated reports whether a user is currently signed in.
func (c *Controller) IsAuthenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateAuthenticated
}

// CurrentUser returns the signed-in profile, or nil.
func (c *Controller) CurrentUser() *UserProfile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// State returns the controller's lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// AccessToken exposes the persisted access token for authenticated calls.
func (c *Controller) AccessToken() (string, bool) {
	return c.store.AccessToken()
}

// installSession persists then publishes a fresh session.
func (c *Controller) installSession(response *AuthResponse) error {
	if err := c.store.SetTokens(response.Access, response.Refresh); err != nil {
		return err
	}
	user := response.User
	if err := c.store.SetUser(&user); err != nil {
		return err
	}

	c.mu.Lock()
	c.state = StateAuthenticated
	c.user = &user
	c.mu.Unlock()
	return nil
}
