// Copyright (c) 2026 Moneta. All rights reserved.
// Author: contact@moneta.app

package authclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneta-app/moneta/pkg/authclient"
)

func successBody(t *testing.T) []byte {
	t.Helper()

	body, err := json.Marshal(map[string]any{
		"user": map[string]any{
			"id":         1,
			"username":   "tuan",
			"first_name": "Tuấn",
			"last_name":  "Guest",
		},
		"access":  "token-access",
		"refresh": "token-refresh",
		"message": "Đăng nhập thành công",
	})
	require.NoError(t, err)
	return body
}

/*
TestClient_Register_RequiresContactChannel covers the pre-flight contact
check: registration without an email or phone number must fail locally,
before any request leaves the process.
*/
func TestClient_Register_RequiresContactChannel(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := authclient.NewClient(server.URL)
	_, err := client.Register(context.Background(), authclient.RegisterData{
		Username: "tuan",
		Password: "secret-6",
		FullName: "Tuấn",
	})

	var authErr *authclient.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Vui lòng nhập email hoặc số điện thoại", authErr.Error())
	assert.Nil(t, authErr.FieldErrors())
	assert.Zero(t, requests, "no request should be sent when the pre-flight check fails")
}

/*
TestClient_Register_PayloadMapping checks the wire payload the client
assembles: the single full-name input becomes first_name with a placeholder
last_name, and empty contact fields are omitted entirely.
*/
func TestClient_Register_PayloadMapping(t *testing.T) {
	var (
		gotPath string
		gotBody map[string]json.RawMessage
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write(successBody(t))
	}))
	defer server.Close()

	client := authclient.NewClient(server.URL)
	response, err := client.Register(context.Background(), authclient.RegisterData{
		Username: "tuan",
		Password: "secret-6",
		FullName: "Tuấn",
		Email:    "tuan@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "/auth/register/", gotPath)
	assert.JSONEq(t, `"tuan"`, string(gotBody["username"]))
	assert.JSONEq(t, `"Tuấn"`, string(gotBody["first_name"]))
	assert.JSONEq(t, `"Guest"`, string(gotBody["last_name"]))
	assert.JSONEq(t, `"tuan@example.com"`, string(gotBody["email"]))
	assert.NotContains(t, gotBody, "phoneNumber", "empty phone number should be omitted")

	assert.Equal(t, "token-access", response.Access)
	assert.Equal(t, "token-refresh", response.Refresh)
	assert.Equal(t, int64(1), response.User.ID)
}

func TestClient_Login_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login/", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		w.Header().Set("Content-Type", "application/json")
		w.Write(successBody(t))
	}))
	defer server.Close()

	client := authclient.NewClient(server.URL)
	response, err := client.Login(context.Background(), authclient.Credentials{
		Username: "tuan",
		Password: "secret-6",
	})
	require.NoError(t, err)

	assert.Equal(t, "tuan", response.User.Username)
	assert.Equal(t, "Đăng nhập thành công", response.Message)
}

func TestClient_Login_FieldErrorsNormalized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"non_field_errors": ["Tên người dùng hoặc mật khẩu không đúng"]}`))
	}))
	defer server.Close()

	client := authclient.NewClient(server.URL)
	_, err := client.Login(context.Background(), authclient.Credentials{
		Username: "tuan",
		Password: "wrong",
	})

	var authErr *authclient.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Tên người dùng hoặc mật khẩu không đúng", authErr.Error())
	assert.Nil(t, authErr.FieldErrors())
}

func TestClient_Register_ValidationErrorCarriesFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"username": ["A user with that username already exists."]}`))
	}))
	defer server.Close()

	client := authclient.NewClient(server.URL)
	_, err := client.Register(context.Background(), authclient.RegisterData{
		Username: "tuan",
		Password: "secret-6",
		FullName: "Tuấn",
		Email:    "tuan@example.com",
	})

	var authErr *authclient.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t,
		map[string][]string{"username": {"A user with that username already exists."}},
		authErr.FieldErrors(),
	)
}

/*
TestClient_ConnectivityError points the client at a server that has already
shut down and expects the friendly connectivity message rather than a raw
transport error.
*/
func TestClient_ConnectivityError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client := authclient.NewClient(baseURL)
	_, err := client.Login(context.Background(), authclient.Credentials{
		Username: "tuan",
		Password: "secret-6",
	})

	var authErr *authclient.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Không thể kết nối đến máy chủ. Vui lòng kiểm tra mạng và thử lại.", authErr.Error())
}

func TestClient_MalformedSuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer server.Close()

	client := authclient.NewClient(server.URL)
	_, err := client.Login(context.Background(), authclient.Credentials{
		Username: "tuan",
		Password: "secret-6",
	})

	require.Error(t, err)
	var authErr *authclient.AuthError
	assert.False(t, errors.As(err, &authErr), "a broken success body is a plain error, not an auth failure")
}
