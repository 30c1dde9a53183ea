// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package view

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/folio/internal/catalog"
	"github.com/taibuivan/folio/internal/filter"
	"github.com/taibuivan/folio/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/folio/internal/platform/request"
	"github.com/taibuivan/folio/internal/platform/respond"
	"github.com/taibuivan/folio/internal/platform/validate"
	"github.com/taibuivan/folio/pkg/query"
)

// Handler implements the view session endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] mounted at /api/v1/views.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.mount)

	router.Route("/{viewID}", func(view chi.Router) {
		view.Get("/", handler.render)
		view.Delete("/", handler.unmount)

		view.Put("/criteria", handler.setCriteria)
		view.Delete("/chips", handler.removeChip)
		view.Put("/viewport", handler.resize)
		view.Post("/sentinel", handler.sentinel)
		view.Post("/refresh", handler.refresh)
		view.Get("/options", handler.options)

		view.Post("/viewer", handler.openViewer)
		view.Post("/viewer/navigate", handler.navigateViewer)
		view.Post("/viewer/activity", handler.viewerActivity)
		view.Delete("/viewer", handler.closeViewer)

		view.Route("/items/{itemID}", func(item chi.Router) {
			item.Post("/favorite", handler.favorite(true))
			item.Delete("/favorite", handler.favorite(false))
			item.Put("/rating", handler.rating)
			item.Post("/ocount", handler.ocount)
			item.Post("/{dimension}", handler.values(true))
			item.Delete("/{dimension}", handler.values(false))
		})

		view.Post("/batch/{dimension}", handler.batch)
	})

	return router
}

// # Lifecycle

/*
POST /api/v1/views.

Description: Mounts a browse, gallery or entity view and loads its collection.

Request:
  - source: {kind, entity?, name?}
  - criteria: {filter, sort}
  - viewport: {width, rowHeight?, gap?, touch}

Response:
  - 201: Page
  - 400: ErrValidation
  - 502: Upstream failure
*/
func (handler *Handler) mount(writer http.ResponseWriter, request *http.Request) {
	var input MountInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	page, err := handler.service.Mount(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, page)
}

/*
GET /api/v1/views/{viewID}.

Description: Renders the current page, restoring the view from its snapshot
when it is not in memory.

Response:
  - 200: Page
  - 404: ErrNotFound
*/
func (handler *Handler) render(writer http.ResponseWriter, request *http.Request) {
	handler.respondPage(writer, request, func(id string) (Page, error) {
		return handler.service.Render(request.Context(), id)
	})
}

// unmount handles DELETE /api/v1/views/{viewID}.
func (handler *Handler) unmount(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.UUID(request, "viewID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Unmount(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Criteria and Geometry

// setCriteria handles PUT /api/v1/views/{viewID}/criteria.
func (handler *Handler) setCriteria(writer http.ResponseWriter, request *http.Request) {
	var criteria Criteria
	if err := requestutil.DecodeJSON(request, &criteria); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.respondPage(writer, request, func(id string) (Page, error) {
		return handler.service.SetCriteria(request.Context(), id, criteria)
	})
}

/*
DELETE /api/v1/views/{viewID}/chips.

Request:
  - dimension: string
  - value: string
  - excluded: bool
*/
func (handler *Handler) removeChip(writer http.ResponseWriter, request *http.Request) {
	var chip filter.Chip
	if err := requestutil.DecodeJSON(request, &chip); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.respondPage(writer, request, func(id string) (Page, error) {
		return handler.service.RemoveChip(request.Context(), id, chip)
	})
}

// resize handles PUT /api/v1/views/{viewID}/viewport.
func (handler *Handler) resize(writer http.ResponseWriter, request *http.Request) {
	var input ViewportInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.respondPage(writer, request, func(id string) (Page, error) {
		return handler.service.Resize(request.Context(), id, input)
	})
}

/*
POST /api/v1/views/{viewID}/sentinel.

Description: Reports the sentinel row entering the viewport. The next page is
revealed when the row is the attached sentinel.

Request:
  - row: int (required, the sentinel index of the last render)
*/
func (handler *Handler) sentinel(writer http.ResponseWriter, request *http.Request) {
	input := struct {
		Row *int `json:"row"`
	}{}
	if err := requestutil.DecodeOptionalJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if input.Row == nil {
		respond.Error(writer, request, validate.RequiredError("row", "This field is required"))
		return
	}

	handler.respondPage(writer, request, func(id string) (Page, error) {
		return handler.service.Sentinel(request.Context(), id, *input.Row)
	})
}

// refresh handles POST /api/v1/views/{viewID}/refresh.
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	handler.respondPage(writer, request, func(id string) (Page, error) {
		return handler.service.Refresh(request.Context(), id)
	})
}

/*
GET /api/v1/views/{viewID}/options.

Request:
  - dimensions: comma separated entity kinds (query, optional)

Response:
  - 200: Options
*/
func (handler *Handler) options(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.UUID(request, "viewID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	kinds := query.List(request.URL.Query().Get("dimensions"))
	options, err := handler.service.Options(request.Context(), id, kinds)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, options)
}

// # Viewer

// openViewer handles POST /api/v1/views/{viewID}/viewer with {position}.
func (handler *Handler) openViewer(writer http.ResponseWriter, request *http.Request) {
	input := struct {
		Position *int `json:"position"`
	}{}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if input.Position == nil {
		respond.Error(writer, request, validate.RequiredError("position", "This field is required"))
		return
	}

	handler.respondPage(writer, request, func(id string) (Page, error) {
		return handler.service.OpenViewer(request.Context(), id, *input.Position)
	})
}

// navigateViewer handles POST /api/v1/views/{viewID}/viewer/navigate with {delta}.
func (handler *Handler) navigateViewer(writer http.ResponseWriter, request *http.Request) {
	input := struct {
		Delta int `json:"delta"`
	}{}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if input.Delta == 0 {
		respond.Error(writer, request, validate.RequiredError("delta", "Must not be zero"))
		return
	}

	handler.respondPage(writer, request, func(id string) (Page, error) {
		return handler.service.NavigateViewer(request.Context(), id, input.Delta)
	})
}

func (handler *Handler) viewerActivity(writer http.ResponseWriter, request *http.Request) {
	handler.respondPage(writer, request, func(id string) (Page, error) {
		return handler.service.ViewerActivity(request.Context(), id)
	})
}

func (handler *Handler) closeViewer(writer http.ResponseWriter, request *http.Request) {
	handler.respondPage(writer, request, func(id string) (Page, error) {
		return handler.service.CloseViewer(request.Context(), id)
	})
}

// # Item Mutations

func (handler *Handler) favorite(favorite bool) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		ref, err := itemRef(request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		handler.respondPage(writer, request, func(id string) (Page, error) {
			return handler.service.ToggleFavorite(request.Context(), id, ref, favorite)
		})
	}
}

// rating handles PUT /api/v1/views/{viewID}/items/{itemID}/rating with {rating}.
func (handler *Handler) rating(writer http.ResponseWriter, request *http.Request) {
	ref, err := itemRef(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	input := struct {
		Rating *int `json:"rating"`
	}{}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if input.Rating == nil {
		respond.Error(writer, request, validate.RequiredError("rating", "This field is required"))
		return
	}

	handler.respondPage(writer, request, func(id string) (Page, error) {
		return handler.service.SetRating(request.Context(), id, ref, *input.Rating)
	})
}

func (handler *Handler) ocount(writer http.ResponseWriter, request *http.Request) {
	ref, err := itemRef(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.respondPage(writer, request, func(id string) (Page, error) {
		return handler.service.IncrementOCount(request.Context(), id, ref)
	})
}

/*
POST|DELETE /api/v1/views/{viewID}/items/{itemID}/{dimension}.

Description: Adds or removes values of an image dimension.

Request:
  - values: []string
*/
func (handler *Handler) values(add bool) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		ref, err := itemRef(request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		dimension, err := dimensionParam(request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		input := struct {
			Values []string `json:"values"`
		}{}
		if err := requestutil.DecodeJSON(request, &input); err != nil {
			respond.Error(writer, request, err)
			return
		}

		handler.respondPage(writer, request, func(id string) (Page, error) {
			return handler.service.MutateValues(request.Context(), id, ref, dimension, input.Values, add)
		})
	}
}

/*
POST /api/v1/views/{viewID}/batch/{dimension}.

Request:
  - imageIds: []int64
  - values: []string

Response:
  - 200: BatchResult
*/
func (handler *Handler) batch(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.UUID(request, "viewID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	dimension, err := dimensionParam(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	input := struct {
		ImageIDs []int64  `json:"imageIds"`
		Values   []string `json:"values"`
	}{}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.Batch(request.Context(), id, dimension, input.ImageIDs, input.Values)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

// # Helpers

func (handler *Handler) respondPage(writer http.ResponseWriter, request *http.Request, op func(id string) (Page, error)) {
	id, err := requestutil.UUID(request, "viewID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	request = request.WithContext(ctxutil.WithViewID(request.Context(), id))

	page, err := op(id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, page)
}

// itemRef reads the item ID and the optional ?kind= selector.
func itemRef(request *http.Request) (ItemRef, error) {
	id, err := requestutil.Int64(request, "itemID")
	if err != nil {
		return ItemRef{}, err
	}
	return ItemRef{Kind: catalog.Kind(request.URL.Query().Get("kind")), ID: id}, nil
}

func dimensionParam(request *http.Request) (catalog.Dimension, error) {
	dimension, ok := catalog.ParseDimension(requestutil.Param(request, "dimension"))
	if !ok {
		return "", validate.RequiredError("dimension", "Must be one of: tags, artists, characters, parodies, groups, categories")
	}
	return dimension, nil
}
