// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/folio/internal/filter"
	requestutil "github.com/taibuivan/folio/internal/platform/request"
	"github.com/taibuivan/folio/internal/platform/respond"
)

// Handler implements the saved filter and job endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// SavedFilterRoutes returns a [chi.Router] mounted at /api/v1/saved-filters.
//
// # Endpoints
//   - GET    /            : Lists saved filters.
//   - POST   /            : Saves a filter.
//   - DELETE /{filterID}  : Deletes a saved filter.
func (handler *Handler) SavedFilterRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listSavedFilters)
	router.Post("/", handler.createSavedFilter)
	router.Delete("/{filterID}", handler.deleteSavedFilter)

	return router
}

// JobRoutes returns a [chi.Router] mounted at /api/v1.
//
// # Endpoints
//   - POST /sync         : Folder sync.
//   - POST /images/scan  : Image folder scan.
func (handler *Handler) JobRoutes() chi.Router {
	router := chi.NewRouter()

	router.Post("/sync", handler.sync)
	router.Post("/images/scan", handler.scan)

	return router
}

func (handler *Handler) listSavedFilters(writer http.ResponseWriter, request *http.Request) {
	filters, err := handler.service.SavedFilters(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, filters)
}

/*
POST /api/v1/saved-filters.

Request:
  - name: string
  - filters: filter.Spec

Response:
  - 201: SavedFilter
  - 400: Missing name or invalid ranges
*/
func (handler *Handler) createSavedFilter(writer http.ResponseWriter, request *http.Request) {
	input := struct {
		Name    string      `json:"name"`
		Filters filter.Spec `json:"filters"`
	}{}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	saved, err := handler.service.CreateSavedFilter(request.Context(), input.Name, input.Filters)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, saved)
}

func (handler *Handler) deleteSavedFilter(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.Int64(request, "filterID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteSavedFilter(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) sync(writer http.ResponseWriter, request *http.Request) {
	result, err := handler.service.Sync(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

// scan handles POST /api/v1/images/scan?path=.
func (handler *Handler) scan(writer http.ResponseWriter, request *http.Request) {
	result, err := handler.service.Scan(request.Context(), request.URL.Query().Get("path"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}
