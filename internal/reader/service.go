// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reader

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taibuivan/folio/internal/catalog"
	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/upstream"
	"github.com/taibuivan/folio/pkg/clock"
	"github.com/taibuivan/folio/pkg/pointer"
)

// progressTimeout bounds the background write-back of autoplay progress.
const progressTimeout = 10 * time.Second

// Library is the media-library surface the reader depends on.
type Library interface {
	GetDoujinshiWithPages(context context.Context, id int64) (catalog.Item, []string, error)
	SetProgress(context context.Context, key catalog.Key, progress upstream.Progress) error
	ListBookmarks(context context.Context, doujinshiID int64) ([]upstream.Bookmark, error)
	AddBookmark(context context.Context, doujinshiID int64, bookmark upstream.Bookmark) error
	RemoveBookmark(context context.Context, doujinshiID int64, filename string) error
}

/*
Service opens and closes reader sessions.

Sessions without requests or autoplay steps for the TTL are closed on the next
open or lookup. Autoplay progress is written in the background; CloseAll waits
for those writes.
*/
type Service struct {
	mu       sync.Mutex
	sessions map[string]*Session
	seen     map[string]time.Time
	progress sync.WaitGroup

	library Library
	idle    time.Duration
	ttl     time.Duration
	clock   clock.Clock
	logger  *slog.Logger
}

// NewService constructs a new [Service]. idle is the delay before the reader
// controls hide; ttl is how long an unused session is kept, zero keeps it
// until closed.
func NewService(library Library, idle, ttl time.Duration, timeSource clock.Clock, logger *slog.Logger) *Service {
	if timeSource == nil {
		timeSource = clock.Real()
	}
	return &Service{
		sessions: make(map[string]*Session),
		seen:     make(map[string]time.Time),
		library:  library,
		idle:     idle,
		ttl:      ttl,
		clock:    timeSource,
		logger:   logger,
	}
}

// OpenInput selects the work and the first page.
type OpenInput struct {
	DoujinshiID int64  `json:"doujinshiId"`
	Page        int    `json:"page"`
	Filename    string `json:"filename"`
}

/*
Open loads a doujinshi and its pages and opens a reader.

Description: The item and the page list are fetched together and both are
required. Bookmarks are loaded afterwards; a failure there is logged and the
reader opens without them. Without an explicit page the reader resumes at the
saved reading position.

Returns:
  - State: The rendered reader
  - error: NotFound, Unprocessable for works without pages, or library errors
*/
func (service *Service) Open(context context.Context, input OpenInput) (State, error) {
	service.evictIdle()

	// 1. Item and pages, joined
	item, pages, err := service.library.GetDoujinshiWithPages(context, input.DoujinshiID)
	if err != nil {
		return State{}, err
	}
	if len(pages) == 0 {
		return State{}, apperr.Unprocessable("Doujinshi has no pages")
	}

	page, err := startPage(item, pages, input.Page, input.Filename)
	if err != nil {
		return State{}, err
	}

	// 2. Session
	id, err := uuid.NewV7()
	if err != nil {
		return State{}, fmt.Errorf("reader_id_generation_failed: %w", err)
	}
	session := newSession(id.String(), item, pages, page, service.idle, service.clock)
	session.onAdvance = func(page int) {
		key := session.Key()
		service.markSeen(session.ID())
		service.progress.Add(1)
		go func() {
			defer service.progress.Done()
			service.saveProgressAsync(key, page)
		}()
	}

	// 3. Bookmarks, best effort
	bookmarks, err := service.library.ListBookmarks(context, item.ID)
	if err != nil {
		service.logger.Warn("reader_bookmarks_failed", slog.Int64("doujinshi_id", item.ID), slog.Any("error", err))
	} else {
		session.setBookmarks(bookmarks)
	}

	service.mu.Lock()
	service.sessions[session.ID()] = session
	service.seen[session.ID()] = service.clock.Now()
	service.mu.Unlock()

	service.logger.Info("reader_opened",
		slog.String("reader_id", session.ID()),
		slog.Int64("doujinshi_id", item.ID),
		slog.Int("page", page),
	)
	return session.State(), nil
}

// Get returns an open session.
func (service *Service) Get(id string) (*Session, error) {
	service.evictIdle()

	service.mu.Lock()
	defer service.mu.Unlock()

	session, ok := service.sessions[id]
	if !ok {
		return nil, apperr.NotFound("Reader")
	}
	service.seen[id] = service.clock.Now()
	return session, nil
}

// Opened returns the number of sessions held in memory.
func (service *Service) Opened() int {
	service.mu.Lock()
	defer service.mu.Unlock()
	return len(service.sessions)
}

func (service *Service) markSeen(id string) {
	service.mu.Lock()
	defer service.mu.Unlock()

	if _, ok := service.sessions[id]; ok {
		service.seen[id] = service.clock.Now()
	}
}

// evictIdle closes the sessions that were not used for the TTL.
func (service *Service) evictIdle() {
	if service.ttl <= 0 {
		return
	}
	deadline := service.clock.Now().Add(-service.ttl)

	service.mu.Lock()
	var idle []*Session
	for id, seen := range service.seen {
		if seen.After(deadline) {
			continue
		}
		idle = append(idle, service.sessions[id])
		delete(service.sessions, id)
		delete(service.seen, id)
	}
	service.mu.Unlock()

	for _, session := range idle {
		session.Close()
		service.logger.Info("reader_evicted", slog.String("reader_id", session.ID()))
	}
}

// Close stops the timers of a session and forgets it.
func (service *Service) Close(id string) error {
	service.mu.Lock()
	session, ok := service.sessions[id]
	delete(service.sessions, id)
	delete(service.seen, id)
	service.mu.Unlock()

	if !ok {
		return apperr.NotFound("Reader")
	}
	session.Close()
	service.logger.Info("reader_closed", slog.String("reader_id", id))
	return nil
}

// CloseAll closes every session and waits for pending progress writes. It is
// called on shutdown.
func (service *Service) CloseAll() {
	service.mu.Lock()
	sessions := service.sessions
	service.sessions = make(map[string]*Session)
	service.seen = make(map[string]time.Time)
	service.mu.Unlock()

	for _, session := range sessions {
		session.Close()
	}
	service.progress.Wait()
}

// # Navigation

// State returns the rendered reader.
func (service *Service) State(id string) (State, error) {
	session, err := service.Get(id)
	if err != nil {
		return State{}, err
	}
	return session.State(), nil
}

// Goto moves to a page and saves the reading position.
func (service *Service) Goto(context context.Context, id string, page int) (State, error) {
	return service.navigate(context, id, func(session *Session) (State, bool, error) {
		return session.Goto(page)
	})
}

// Next moves one page forward.
func (service *Service) Next(context context.Context, id string) (State, error) {
	return service.navigate(context, id, func(session *Session) (State, bool, error) {
		return session.Offset(1)
	})
}

// Prev moves one page back.
func (service *Service) Prev(context context.Context, id string) (State, error) {
	return service.navigate(context, id, func(session *Session) (State, bool, error) {
		return session.Offset(-1)
	})
}

func (service *Service) navigate(context context.Context, id string, move func(*Session) (State, bool, error)) (State, error) {
	session, err := service.Get(id)
	if err != nil {
		return State{}, err
	}

	state, moved, err := move(session)
	if err != nil {
		return State{}, err
	}
	if moved {
		service.saveProgress(context, session.Key(), state.Page)
	}
	return state, nil
}

// saveProgress writes the reading position. Failures are logged only.
func (service *Service) saveProgress(context context.Context, key catalog.Key, page int) {
	if err := service.library.SetProgress(context, key, upstream.Progress{LastPage: pointer.To(page)}); err != nil {
		service.logger.Warn("reader_progress_failed",
			slog.Int64("doujinshi_id", key.ID),
			slog.Int("page", page),
			slog.Any("error", err),
		)
	}
}

func (service *Service) saveProgressAsync(key catalog.Key, page int) {
	ctx, cancel := context.WithTimeout(context.Background(), progressTimeout)
	defer cancel()
	service.saveProgress(ctx, key, page)
}

// # Controls

// ToggleUI shows or hides the reader controls.
func (service *Service) ToggleUI(id string) (State, error) {
	session, err := service.Get(id)
	if err != nil {
		return State{}, err
	}
	return session.ToggleUI()
}

// Activity shows the controls and restarts the idle timer.
func (service *Service) Activity(id string) (State, error) {
	session, err := service.Get(id)
	if err != nil {
		return State{}, err
	}
	return session.Activity()
}

// StartAutoplay starts autoplay; a zero interval keeps the current one.
func (service *Service) StartAutoplay(id string, interval time.Duration) (State, error) {
	session, err := service.Get(id)
	if err != nil {
		return State{}, err
	}
	return session.StartAutoplay(interval)
}

// StopAutoplay stops autoplay.
func (service *Service) StopAutoplay(id string) (State, error) {
	session, err := service.Get(id)
	if err != nil {
		return State{}, err
	}
	return session.StopAutoplay()
}

// # Bookmarks

// AddBookmark bookmarks the current page and reloads the bookmark list.
func (service *Service) AddBookmark(context context.Context, id string, name string) (State, error) {
	session, err := service.Get(id)
	if err != nil {
		return State{}, err
	}

	filename, err := session.currentFilename()
	if err != nil {
		return State{}, err
	}

	bookmark := upstream.Bookmark{Filename: filename, Name: name}
	if err := service.library.AddBookmark(context, session.Key().ID, bookmark); err != nil {
		return State{}, err
	}

	service.reloadBookmarks(context, session, func(current []upstream.Bookmark) []upstream.Bookmark {
		return append(current, bookmark)
	})
	return session.State(), nil
}

// RemoveBookmark removes a bookmark; an empty filename means the current page.
func (service *Service) RemoveBookmark(context context.Context, id string, filename string) (State, error) {
	session, err := service.Get(id)
	if err != nil {
		return State{}, err
	}

	if filename == "" {
		if filename, err = session.currentFilename(); err != nil {
			return State{}, err
		}
	}

	if err := service.library.RemoveBookmark(context, session.Key().ID, filename); err != nil {
		return State{}, err
	}

	service.reloadBookmarks(context, session, func(current []upstream.Bookmark) []upstream.Bookmark {
		kept := make([]upstream.Bookmark, 0, len(current))
		for _, bookmark := range current {
			if bookmark.Filename != filename {
				kept = append(kept, bookmark)
			}
		}
		return kept
	})
	return session.State(), nil
}

// reloadBookmarks refetches the list. When that fails the local list is
// patched with fallback instead.
func (service *Service) reloadBookmarks(context context.Context, session *Session, fallback func([]upstream.Bookmark) []upstream.Bookmark) {
	bookmarks, err := service.library.ListBookmarks(context, session.Key().ID)
	if err != nil {
		service.logger.Warn("reader_bookmarks_failed", slog.String("reader_id", session.ID()), slog.Any("error", err))
		bookmarks = fallback(session.State().Bookmarks)
	}
	session.setBookmarks(bookmarks)
}
