// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reader

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/folio/internal/platform/request"
	"github.com/taibuivan/folio/internal/platform/respond"
	"github.com/taibuivan/folio/internal/platform/validate"
)

// Handler implements the reader endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] mounted at /api/v1/readers.
//
// # Endpoints
//   - POST   /                        : Opens a reader.
//   - GET    /{readerID}              : Current state.
//   - DELETE /{readerID}              : Closes the reader and its timers.
//   - PUT    /{readerID}/page         : Jumps to a page.
//   - POST   /{readerID}/next|prev    : Turns one page.
//   - POST   /{readerID}/ui|activity  : Toggles or shows the controls.
//   - PUT    /{readerID}/autoplay     : Starts autoplay.
//   - DELETE /{readerID}/autoplay     : Stops autoplay.
//   - POST   /{readerID}/bookmarks    : Bookmarks the current page.
//   - DELETE /{readerID}/bookmarks    : Removes a bookmark.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.open)

	router.Route("/{readerID}", func(reader chi.Router) {
		reader.Get("/", handler.state)
		reader.Delete("/", handler.close)

		reader.Put("/page", handler.gotoPage)
		reader.Post("/next", handler.next)
		reader.Post("/prev", handler.prev)

		reader.Post("/ui", handler.toggleUI)
		reader.Post("/activity", handler.activity)

		reader.Put("/autoplay", handler.startAutoplay)
		reader.Delete("/autoplay", handler.stopAutoplay)

		reader.Post("/bookmarks", handler.addBookmark)
		reader.Delete("/bookmarks", handler.removeBookmark)
	})

	return router
}

/*
POST /api/v1/readers.

Request:
  - doujinshiId: int64
  - page: int (optional, 1-based)
  - filename: string (optional, wins over page)

Response:
  - 201: State
  - 404: Unknown doujinshi or page
  - 422: Doujinshi without pages
*/
func (handler *Handler) open(writer http.ResponseWriter, request *http.Request) {
	var input OpenInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if input.DoujinshiID <= 0 {
		respond.Error(writer, request, validate.RequiredError("doujinshiId", "Must be a positive integer"))
		return
	}

	state, err := handler.service.Open(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, state)
}

func (handler *Handler) state(writer http.ResponseWriter, request *http.Request) {
	handler.respondState(writer, request, func(id string) (State, error) {
		return handler.service.State(id)
	})
}

func (handler *Handler) close(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.UUID(request, "readerID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := handler.service.Close(id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// gotoPage handles PUT /api/v1/readers/{readerID}/page with {page}.
func (handler *Handler) gotoPage(writer http.ResponseWriter, request *http.Request) {
	input := struct {
		Page *int `json:"page"`
	}{}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if input.Page == nil {
		respond.Error(writer, request, validate.RequiredError("page", "This field is required"))
		return
	}

	handler.respondState(writer, request, func(id string) (State, error) {
		return handler.service.Goto(request.Context(), id, *input.Page)
	})
}

func (handler *Handler) next(writer http.ResponseWriter, request *http.Request) {
	handler.respondState(writer, request, func(id string) (State, error) {
		return handler.service.Next(request.Context(), id)
	})
}

func (handler *Handler) prev(writer http.ResponseWriter, request *http.Request) {
	handler.respondState(writer, request, func(id string) (State, error) {
		return handler.service.Prev(request.Context(), id)
	})
}

func (handler *Handler) toggleUI(writer http.ResponseWriter, request *http.Request) {
	handler.respondState(writer, request, handler.service.ToggleUI)
}

func (handler *Handler) activity(writer http.ResponseWriter, request *http.Request) {
	handler.respondState(writer, request, handler.service.Activity)
}

/*
PUT /api/v1/readers/{readerID}/autoplay.

Request:
  - intervalMs: int (optional, 1000 to 30000)
*/
func (handler *Handler) startAutoplay(writer http.ResponseWriter, request *http.Request) {
	input := struct {
		IntervalMS int64 `json:"intervalMs"`
	}{}
	if err := requestutil.DecodeOptionalJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.respondState(writer, request, func(id string) (State, error) {
		return handler.service.StartAutoplay(id, time.Duration(input.IntervalMS)*time.Millisecond)
	})
}

func (handler *Handler) stopAutoplay(writer http.ResponseWriter, request *http.Request) {
	handler.respondState(writer, request, handler.service.StopAutoplay)
}

// addBookmark handles POST /api/v1/readers/{readerID}/bookmarks with {name}.
func (handler *Handler) addBookmark(writer http.ResponseWriter, request *http.Request) {
	input := struct {
		Name string `json:"name"`
	}{}
	if err := requestutil.DecodeOptionalJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.respondState(writer, request, func(id string) (State, error) {
		return handler.service.AddBookmark(request.Context(), id, input.Name)
	})
}

// removeBookmark handles DELETE /api/v1/readers/{readerID}/bookmarks?filename=.
func (handler *Handler) removeBookmark(writer http.ResponseWriter, request *http.Request) {
	filename := request.URL.Query().Get("filename")
	handler.respondState(writer, request, func(id string) (State, error) {
		return handler.service.RemoveBookmark(request.Context(), id, filename)
	})
}

func (handler *Handler) respondState(writer http.ResponseWriter, request *http.Request, op func(id string) (State, error)) {
	id, err := requestutil.UUID(request, "readerID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	state, err := op(id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, state)
}
