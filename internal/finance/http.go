// Copyright (c) 2026 Moneta. All rights reserved.
// Author: contact@moneta.app

package finance

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/moneta-app/moneta/internal/platform/middleware"
	requestutil "github.com/moneta-app/moneta/internal/platform/request"
	"github.com/moneta-app/moneta/internal/platform/respond"
)

// Handler serves the dashboard endpoints.
type Handler struct {
	provider Provider
}

// NewHandler constructs a new [Handler] with its data provider.
func NewHandler(provider Provider) *Handler {
	return &Handler{provider: provider}
}

// Routes returns the dashboard routes. All of them require authentication.
//
// # Endpoints
//   - GET /summary/ : Full dashboard overview for the signed-in user.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/summary/", handler.summary)
	})

	return router
}

/*
Summary returns the signed-in user's dashboard overview.

GET /dashboard/summary/

Response:
  - 200: Summary payload (balance, stat totals, transactions, budgets, goals, debts)
  - 401: {"detail": "..."} when unauthenticated
*/
func (handler *Handler) summary(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	summary, err := handler.provider.Summary(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, summary)
}
