// Copyright (c) 2026 Moneta. All rights reserved.
// Author: contact@moneta.app

// Package respond provides HTTP response helpers used by all API handlers.
//
// # Architecture
//
// This package centralizes the presentation logic for HTTP responses.
//
// # Wire compatibility
//
// The error layout reproduces the Django REST Framework conventions of the
// legacy backend, because deployed clients normalize errors from exactly
// these shapes:
//
//   - validation failures: {"username": ["msg"], "non_field_errors": ["msg"]}
//   - everything else:     {"detail": "msg"}
//
// Success payloads are domain-shaped and written by the handlers themselves
// through [JSON]; there is no success envelope.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/moneta-app/moneta/internal/platform/apperr"
	"github.com/moneta-app/moneta/internal/platform/ctxutil"
)

// JSON writes a JSON response with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload interface{}) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// NoContent writes a 204 No Content response.
func NoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

// Error converts any Go error into the legacy-compatible JSON error response.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	var appError *apperr.AppError
	if !errors.As(err, &appError) {
		// Unexpected internal error: log full details but hide them from the client.
		logger := ctxutil.GetLogger(request.Context())
		logger.ErrorContext(request.Context(), "unhandled_error_swallowed",
			slog.String("error", err.Error()),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
		)
		appError = apperr.Internal(err)
	}

	// Always log 5xx errors as they indicate server-side issues.
	if appError.HTTPStatus >= 500 {
		logger := ctxutil.GetLogger(request.Context())
		logger.ErrorContext(request.Context(), "api_server_error",
			slog.String("code", appError.Code),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
			slog.Any("cause", appError.Cause),
		)
	}

	// Field-level failures render as a field→messages object, the shape the
	// DRF serializers produced. Everything else renders as {"detail": ...}.
	if fields := appError.FieldMap(); fields != nil {
		JSON(writer, appError.HTTPStatus, fields)
		return
	}

	JSON(writer, appError.HTTPStatus, map[string]string{"detail": appError.Message})
}
