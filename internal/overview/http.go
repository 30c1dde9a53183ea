// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package overview

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/folio/internal/platform/request"
	"github.com/taibuivan/folio/internal/platform/respond"
)

// Handler implements the doujinshi overview endpoint.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] mounted at /api/v1/doujinshi.
//
// # Endpoints
//   - GET /{id} : Work, pages, artist works and similar works.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/{id}", handler.get)
	return router
}

/*
GET /api/v1/doujinshi/{id}.

Response:
  - 200: Overview
  - 400: Malformed id
  - 404: Unknown doujinshi
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.Int64(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	overview, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, overview)
}
