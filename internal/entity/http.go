// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package entity

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/folio/internal/catalog"
	"github.com/taibuivan/folio/internal/ordering"
	"github.com/taibuivan/folio/internal/platform/apperr"
	requestutil "github.com/taibuivan/folio/internal/platform/request"
	"github.com/taibuivan/folio/internal/platform/respond"
	"github.com/taibuivan/folio/pkg/convert"
	"github.com/taibuivan/folio/pkg/pagination"
)

// Handler implements the entity endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] mounted at /api/v1/entities.
//
// # Endpoints
//   - GET    /{kind}                  : Filtered, sorted and paginated list.
//   - GET    /{kind}/{name}           : Details with doujinshi and images.
//   - POST   /{kind}/{name}/favorite  : Marks as favorite.
//   - DELETE /{kind}/{name}/favorite  : Unmarks.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/{kind}", handler.list)
	router.Get("/{kind}/{name}", handler.get)
	router.Post("/{kind}/{name}/favorite", handler.favorite(true))
	router.Delete("/{kind}/{name}/favorite", handler.favorite(false))

	return router
}

/*
GET /api/v1/entities/{kind}.

Description: kind accepts the singular or plural name (tag, tags).

Request:
  - q: string (case-insensitive substring of the name)
  - favorites: bool
  - minCount, minOCount: int
  - minRating: float
  - sort: name | count | oCount | rating | random
  - dir: asc | desc (name defaults to asc, the rest to desc)
  - seed: uint (random order only, keeps pages stable)
  - page, limit: int

Response:
  - 200: ListPage with pagination meta
  - 400: Unknown kind or malformed filters
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	kind, err := kindParam(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	query, err := parseQuery(request.URL.Query())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	page, total, err := handler.service.List(request.Context(), kind, query, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, page, pagination.NewMeta(params.Page, params.Limit, total))
}

// get handles GET /api/v1/entities/{kind}/{name}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	kind, name, err := entityParams(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page, err := handler.service.Get(request.Context(), kind, name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, page)
}

func (handler *Handler) favorite(favorite bool) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		kind, name, err := entityParams(request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		entity, err := handler.service.SetFavorite(request.Context(), kind, name, favorite)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, entity)
	}
}

// # Parameters

func kindParam(request *http.Request) (catalog.EntityKind, error) {
	raw := requestutil.Param(request, "kind")
	kind, ok := catalog.LookupEntityKind(raw)
	if !ok {
		return catalog.EntityKind{}, apperr.ValidationError("Unknown entity kind",
			apperr.FieldError{Field: "kind", Message: "Must be one of artists, groups, tags, characters, parodies"})
	}
	return kind, nil
}

func entityParams(request *http.Request) (catalog.EntityKind, string, error) {
	kind, err := kindParam(request)
	if err != nil {
		return catalog.EntityKind{}, "", err
	}

	// chi yields the raw segment only when the path carries escapes that
	// differ from the default encoding.
	name := requestutil.Param(request, "name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	if strings.TrimSpace(name) == "" {
		return catalog.EntityKind{}, "", apperr.ValidationError("Invalid entity name",
			apperr.FieldError{Field: "name", Message: "Must not be empty"})
	}
	return kind, name, nil
}

// parseQuery reads the list query string. Malformed numbers are reported per
// field.
func parseQuery(values url.Values) (Query, error) {
	var fields []apperr.FieldError

	query := Query{
		Search:        values.Get("q"),
		FavoritesOnly: convert.ToBool(values.Get("favorites")),
	}

	sort, ok := ParseSortKey(values.Get("sort"))
	if !ok {
		fields = append(fields, apperr.FieldError{Field: "sort", Message: "Must be one of name, count, oCount, rating, random"})
	}
	query.Sort = sort

	switch strings.ToLower(values.Get("dir")) {
	case "":
		query.Descending = sort != SortName
	case "asc":
	case "desc":
		query.Descending = true
	default:
		fields = append(fields, apperr.FieldError{Field: "dir", Message: "Must be asc or desc"})
	}

	if raw := values.Get("minCount"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			fields = append(fields, apperr.FieldError{Field: "minCount", Message: "Must be a non-negative integer"})
		}
		query.MinCount = n
	}
	if raw := values.Get("minOCount"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			fields = append(fields, apperr.FieldError{Field: "minOCount", Message: "Must be a non-negative integer"})
		}
		query.MinOCount = n
	}
	if raw := values.Get("minRating"); raw != "" {
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil || n < 0 || n > 5 {
			fields = append(fields, apperr.FieldError{Field: "minRating", Message: "Must be between 0 and 5"})
		}
		query.MinRating = n
	}

	if query.Sort == SortRandom {
		query.Seed = ordering.NewSeed()
		if raw := values.Get("seed"); raw != "" {
			seed, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				fields = append(fields, apperr.FieldError{Field: "seed", Message: "Must be an unsigned integer"})
			}
			query.Seed = seed
		}
	}

	if len(fields) > 0 {
		return Query{}, apperr.ValidationError("Invalid list query", fields...)
	}
	return query, nil
}
