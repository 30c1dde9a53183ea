// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package view

import (
	"github.com/taibuivan/folio/internal/catalog"
	"github.com/taibuivan/folio/internal/platform/apperr"
)

// viewerIdleTimer names the idle-UI timer of the overlay viewer.
const viewerIdleTimer = "viewer_idle"

// viewer is the overlay opened on top of the list.
type viewer struct {
	key       catalog.Key
	position  int
	uiVisible bool
	touch     bool
}

// ViewerState is the rendered overlay.
type ViewerState struct {
	Position  int          `json:"position"`
	Total     int          `json:"total"`
	Item      catalog.Item `json:"item"`
	Flag      string       `json:"flag,omitempty"`
	UIVisible bool         `json:"uiVisible"`
}

func (state *viewer) state(results []catalog.Item) ViewerState {
	item := results[state.position]
	rendered := ViewerState{
		Position:  state.position,
		Total:     len(results),
		Item:      item,
		UIVisible: state.uiVisible,
	}
	if item.Kind == catalog.KindDoujinshi {
		rendered.Flag = catalog.LanguageFlag(item.Languages)
	}
	return rendered
}

// # Overlay Transitions

/*
OpenViewer opens the overlay at a position of the sorted result.

While the overlay is open the list does not grow.
*/
func (view *View) OpenViewer(position int) (Page, error) {
	view.mu.Lock()
	defer view.mu.Unlock()

	if err := view.checkOpen(); err != nil {
		return Page{}, err
	}

	results := view.results()
	if position < 0 || position >= len(results) {
		return Page{}, apperr.ValidationError("Position is out of range", apperr.FieldError{
			Field:   "position",
			Message: "No item at this position",
		})
	}

	view.viewer = &viewer{
		key:       results[position].Key(),
		position:  position,
		uiVisible: true,
		touch:     view.viewport.Touch,
	}
	view.scroll.OpenOverlay()
	view.restartIdle()

	return view.render(), nil
}

// NavigateViewer moves the overlay by delta positions, wrapping around both
// ends of the result.
func (view *View) NavigateViewer(delta int) (Page, error) {
	view.mu.Lock()
	defer view.mu.Unlock()

	if err := view.checkViewer(); err != nil {
		return Page{}, err
	}

	results := view.results()
	view.locateViewer(results)
	if view.viewer == nil {
		return Page{}, apperr.Unprocessable("Viewed item is no longer listed")
	}

	total := len(results)
	position := ((view.viewer.position+delta)%total + total) % total

	view.viewer.position = position
	view.viewer.key = results[position].Key()
	view.viewer.uiVisible = true
	view.restartIdle()

	return view.render(), nil
}

// ViewerActivity shows the overlay controls and restarts the idle timer.
func (view *View) ViewerActivity() (Page, error) {
	view.mu.Lock()
	defer view.mu.Unlock()

	if err := view.checkViewer(); err != nil {
		return Page{}, err
	}

	view.viewer.uiVisible = true
	view.restartIdle()

	return view.render(), nil
}

// CloseViewer closes the overlay, stops its timer and resumes growth. Closing
// a closed viewer is a no-op.
func (view *View) CloseViewer() (Page, error) {
	view.mu.Lock()
	defer view.mu.Unlock()

	if err := view.checkOpen(); err != nil {
		return Page{}, err
	}

	view.closeViewer()
	return view.render(), nil
}

func (view *View) checkViewer() error {
	if err := view.checkOpen(); err != nil {
		return err
	}
	if view.viewer == nil {
		return apperr.Unprocessable("Viewer is not open")
	}
	return nil
}

func (view *View) closeViewer() {
	view.timers.Stop(viewerIdleTimer)
	view.scroll.CloseOverlay()
	view.viewer = nil
}

func (view *View) restartIdle() {
	idle := view.settings.IdleDesktop
	if view.viewer.touch {
		idle = view.settings.IdleTouch
	}

	view.timers.Start(viewerIdleTimer, idle, func() {
		if view.viewer != nil {
			view.viewer.uiVisible = false
		}
	})
}

// locateViewer follows the viewed item after the result changed. The overlay
// closes when its item is no longer part of the result.
func (view *View) locateViewer(results []catalog.Item) {
	if view.viewer == nil {
		return
	}
	if position := view.viewer.position; position < len(results) && results[position].Key() == view.viewer.key {
		return
	}
	for position, item := range results {
		if item.Key() == view.viewer.key {
			view.viewer.position = position
			return
		}
	}
	view.closeViewer()
}
