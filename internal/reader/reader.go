// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package reader implements the page-by-page doujinshi reader.

A [Session] holds the page URLs of one work, the current page, the bookmarks
and two timers: the idle timer that hides the reader controls and the
autoplay timer that advances one page per interval. Closing a session stops
both timers before Close returns.
*/
package reader

import (
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/folio/internal/catalog"
	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/constants"
	"github.com/taibuivan/folio/internal/platform/validate"
	"github.com/taibuivan/folio/internal/upstream"
	"github.com/taibuivan/folio/pkg/clock"
)

const (
	autoplayTimer = "autoplay"
	idleTimer     = "reader_idle"
)

// State is the rendered reader.
type State struct {
	ID         string              `json:"id"`
	Item       catalog.Item        `json:"item"`
	Page       int                 `json:"page"`
	PageCount  int                 `json:"pageCount"`
	PageURL    string              `json:"pageUrl"`
	Filename   string              `json:"filename"`
	Bookmarked bool                `json:"bookmarked"`
	Bookmarks  []upstream.Bookmark `json:"bookmarks"`
	UIVisible  bool                `json:"uiVisible"`
	Autoplay   bool                `json:"autoplay"`
	IntervalMS int64               `json:"autoplayIntervalMs"`
}

// Session is one open reader. All methods are safe for concurrent use.
type Session struct {
	mu sync.Mutex

	id    string
	item  catalog.Item
	pages []string
	page  int

	bookmarks []upstream.Bookmark
	uiVisible bool
	interval  time.Duration
	autoplay  bool

	idle      time.Duration
	timers    *clock.Group
	closed    bool
	onAdvance func(page int)
}

// newSession opens a reader at page (1-based, clamped).
func newSession(id string, item catalog.Item, pages []string, page int, idle time.Duration, timeSource clock.Clock) *Session {
	session := &Session{
		id:        id,
		item:      item,
		pages:     pages,
		uiVisible: true,
		interval:  constants.DefaultAutoplayInterval,
		idle:      idle,
		bookmarks: []upstream.Bookmark{},
	}
	session.page = session.clamp(page)
	session.timers = clock.NewGroup(timeSource, &session.mu)
	session.restartIdle()
	return session
}

// ID returns the session identifier.
func (session *Session) ID() string {
	return session.id
}

// Key returns the identity of the work being read.
func (session *Session) Key() catalog.Key {
	return session.item.Key()
}

// State returns the rendered reader.
func (session *Session) State() State {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.state()
}

func (session *Session) state() State {
	url := session.pages[session.page-1]
	filename := PageFilename(url)

	state := State{
		ID:         session.id,
		Item:       session.item,
		Page:       session.page,
		PageCount:  len(session.pages),
		PageURL:    url,
		Filename:   filename,
		Bookmarks:  append([]upstream.Bookmark{}, session.bookmarks...),
		UIVisible:  session.uiVisible,
		Autoplay:   session.autoplay,
		IntervalMS: session.interval.Milliseconds(),
	}
	for _, bookmark := range session.bookmarks {
		if filename != "" && bookmark.Filename == filename {
			state.Bookmarked = true
		}
	}
	return state
}

// # Navigation

/*
Goto moves to a page, clamped to the page range.

Returns:
  - State: The rendered reader
  - bool: Whether the current page changed
  - error: apperr.NotFound once closed
*/
func (session *Session) Goto(page int) (State, bool, error) {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.move(page)
}

// Offset moves by delta pages; see [Session.Goto].
func (session *Session) Offset(delta int) (State, bool, error) {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.move(session.page + delta)
}

func (session *Session) move(page int) (State, bool, error) {
	if err := session.checkOpen(); err != nil {
		return State{}, false, err
	}

	target := session.clamp(page)
	moved := target != session.page
	session.page = target
	if session.page == len(session.pages) {
		session.stopAutoplay()
	}
	return session.state(), moved, nil
}

func (session *Session) clamp(page int) int {
	return min(max(page, 1), len(session.pages))
}

// # Controls

// ToggleUI shows or hides the reader controls. Shown controls hide again
// after the idle delay.
func (session *Session) ToggleUI() (State, error) {
	session.mu.Lock()
	defer session.mu.Unlock()

	if err := session.checkOpen(); err != nil {
		return State{}, err
	}

	session.uiVisible = !session.uiVisible
	if session.uiVisible {
		session.restartIdle()
	} else {
		session.timers.Stop(idleTimer)
	}
	return session.state(), nil
}

// Activity shows the controls and restarts the idle timer.
func (session *Session) Activity() (State, error) {
	session.mu.Lock()
	defer session.mu.Unlock()

	if err := session.checkOpen(); err != nil {
		return State{}, err
	}

	session.uiVisible = true
	session.restartIdle()
	return session.state(), nil
}

func (session *Session) restartIdle() {
	session.timers.Start(idleTimer, session.idle, func() {
		session.uiVisible = false
	})
}

// # Autoplay

/*
StartAutoplay advances one page per interval until the last page.

Parameters:
  - interval: time.Duration (1s to 30s; zero keeps the current interval)

Returns:
  - State: The rendered reader; autoplay stays off on the last page
  - error: VALIDATION_ERROR for intervals out of range
*/
func (session *Session) StartAutoplay(interval time.Duration) (State, error) {
	session.mu.Lock()
	defer session.mu.Unlock()

	if err := session.checkOpen(); err != nil {
		return State{}, err
	}

	if interval != 0 {
		validator := &validate.Validator{}
		validator.Duration("intervalMs", interval, constants.MinAutoplayInterval, constants.MaxAutoplayInterval)
		if err := validator.Err(); err != nil {
			return State{}, err
		}
		session.interval = interval
	}

	if session.page < len(session.pages) {
		session.autoplay = true
		session.scheduleTick()
	}
	return session.state(), nil
}

// StopAutoplay cancels autoplay. Stopping a stopped autoplay is a no-op.
func (session *Session) StopAutoplay() (State, error) {
	session.mu.Lock()
	defer session.mu.Unlock()

	if err := session.checkOpen(); err != nil {
		return State{}, err
	}

	session.stopAutoplay()
	return session.state(), nil
}

func (session *Session) stopAutoplay() {
	session.autoplay = false
	session.timers.Stop(autoplayTimer)
}

func (session *Session) scheduleTick() {
	session.timers.Start(autoplayTimer, session.interval, func() {
		if !session.autoplay {
			return
		}

		session.page++
		if session.onAdvance != nil {
			session.onAdvance(session.page)
		}

		if session.page >= len(session.pages) {
			session.autoplay = false
			return
		}
		session.scheduleTick()
	})
}

// # Bookmarks

func (session *Session) setBookmarks(bookmarks []upstream.Bookmark) {
	session.mu.Lock()
	defer session.mu.Unlock()
	session.bookmarks = append([]upstream.Bookmark{}, bookmarks...)
}

func (session *Session) currentFilename() (string, error) {
	session.mu.Lock()
	defer session.mu.Unlock()

	if err := session.checkOpen(); err != nil {
		return "", err
	}
	filename := PageFilename(session.pages[session.page-1])
	if filename == "" {
		return "", apperr.Unprocessable("Current page has no filename")
	}
	return filename, nil
}

// # Lifecycle

// Close stops every timer. It is idempotent.
func (session *Session) Close() {
	session.mu.Lock()
	defer session.mu.Unlock()

	session.autoplay = false
	session.timers.Close()
	session.closed = true
}

func (session *Session) checkOpen() error {
	if session.closed {
		return apperr.NotFound("Reader")
	}
	return nil
}

// PageFilename extracts the file name from a page URL ending in
// "/page/{filename}". Other URLs yield "".
func PageFilename(url string) string {
	index := strings.LastIndex(url, "/page/")
	if index < 0 {
		return ""
	}
	filename := url[index+len("/page/"):]
	if strings.Contains(filename, "/") {
		return ""
	}
	return filename
}

// startPage resolves the first page of a new session: an explicit filename,
// then an explicit page, then the saved reading position.
func startPage(item catalog.Item, pages []string, page int, filename string) (int, error) {
	if filename != "" {
		for index, url := range pages {
			if strings.HasSuffix(url, "/page/"+filename) {
				return index + 1, nil
			}
		}
		return 0, apperr.NotFound("Page")
	}
	if page > 0 {
		return page, nil
	}
	if item.LastPage > 0 && item.LastPage <= len(pages) {
		return item.LastPage, nil
	}
	return 1, nil
}
