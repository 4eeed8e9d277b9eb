// Copyright (c) 2026 Moneta. All rights reserved.
// Author: contact@moneta.app

package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// User-facing failure messages. They match the strings the Moneta front-end
// always displayed, so every surface reports failures identically.
const (
	// msgEmailOrPhoneRequired is the pre-flight registration failure.
	msgEmailOrPhoneRequired = "Vui lòng nhập email hoặc số điện thoại"

	// msgConnectivity covers transport-level failures reaching the backend.
	msgConnectivity = "Không thể kết nối đến máy chủ. Vui lòng kiểm tra mạng và thử lại."

	// msgRegisterFailed is the normalizer default for register failures.
	msgRegisterFailed = "Đăng ký thất bại. Vui lòng kiểm tra lại thông tin."

	// msgLoginFailed is the normalizer default for login failures.
	msgLoginFailed = "Tên đăng nhập hoặc mật khẩu không đúng. Vui lòng thử lại."
)

// lastNamePlaceholder is always sent as last_name during registration. The
// backend schema requires the field but the sign-up form only collects a
// full name, so this constant fills the gap.
const lastNamePlaceholder = "Guest"

// DefaultBaseURL is used when no API address is configured.
const DefaultBaseURL = "http://localhost:8000"

const defaultRequestTimeout = 10 * time.Second

// Client calls the Moneta authentication endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customizes a [Client].
type Option func(*Client)

// WithHTTPClient replaces the underlying [http.Client].
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// NewClient constructs a [Client] for the given API base URL.
// An empty baseURL falls back to [DefaultBaseURL].
func NewClient(baseURL string, options ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}
	for _, option := range options {
		option(client)
	}
	return client
}

// registerPayload is the exact wire shape of POST /auth/register/.
type registerPayload struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

/*
Register creates a new account.

The email-or-phone rule is checked before any network traffic: if neither is
present the call fails synchronously with an [*AuthError] and the backend is
never contacted. FullName travels as first_name and last_name is filled with
the constant placeholder.
*/
func (c *Client) Register(ctx context.Context, data RegisterData) (*AuthResponse, error) {
	if data.Email == "" && data.PhoneNumber == "" {
		return nil, newAuthError(msgEmailOrPhoneRequired)
	}

	payload := registerPayload{
		Username:    data.Username,
		Password:    data.Password,
		FirstName:   data.FullName,
		LastName:    lastNamePlaceholder,
		Email:       data.Email,
		PhoneNumber: data.PhoneNumber,
	}

	return c.post(ctx, "/auth/register/", payload, msgRegisterFailed)
}

/*
Login authenticates an existing account.

Transport failure yields a connectivity [*AuthError]; a non-2xx response is
normalized through [ParseAuthError] with the generic credential message as
the default.
*/
func (c *Client) Login(ctx context.Context, credentials Credentials) (*AuthResponse, error) {
	return c.post(ctx, "/auth/login/", credentials, msgLoginFailed)
}

// post sends one JSON request and decodes the shared auth response envelope.
func (c *Client) post(ctx context.Context, path string, payload any, defaultMessage string) (*AuthResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("authclient: encode request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("authclient: build request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, newAuthError(msgConnectivity)
	}
	defer func() { _ = response.Body.Close() }()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, newAuthError(msgConnectivity)
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		result := ParseAuthError(raw, defaultMessage)
		return nil, &AuthError{Result: result}
	}

	authResponse := &AuthResponse{}
	if err := json.Unmarshal(raw, authResponse); err != nil {
		return nil, fmt.Errorf("authclient: decode response: %w", err)
	}

	return authResponse, nil
}
