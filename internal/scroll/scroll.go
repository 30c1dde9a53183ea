// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package scroll implements the infinite-scroll cursor of a view.

The cursor reveals a growing prefix of an already fetched, filtered and sorted
collection. It grows by one page each time the sentinel (the last rendered
row) becomes visible, and snaps back to the first page whenever the filter or
sort criteria change.

State machine:

	Idle --sentinel visible, hasMore, no overlay--> LoadingMore --page++--> Idle

A Controller is not safe for concurrent use; the owning view serialises access.
*/
package scroll

// State is the controller state.
type State string

const (
	StateIdle        State = "idle"
	StateLoadingMore State = "loading_more"
)

// DefaultPageSize is the number of items revealed per page.
const DefaultPageSize = 200

// NoSentinel marks a detached sentinel.
const NoSentinel = -1

// Controller tracks the page cursor.
type Controller struct {
	page        int
	pageSize    int
	state       State
	overlayOpen bool
	sentinel    int
	fingerprint uint64
}

// New creates a controller at page 1. Non-positive sizes fall back to
// [DefaultPageSize].
func New(pageSize int) *Controller {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Controller{page: 1, pageSize: pageSize, state: StateIdle, sentinel: NoSentinel}
}

// Restore rebuilds a controller from a persisted cursor.
func Restore(pageSize, page int, fingerprint uint64) *Controller {
	controller := New(pageSize)
	if page > 1 {
		controller.page = page
	}
	controller.fingerprint = fingerprint
	return controller
}

// Page returns the current page (1-based).
func (c *Controller) Page() int { return c.page }

// PageSize returns the page size.
func (c *Controller) PageSize() int { return c.pageSize }

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Fingerprint returns the criteria fingerprint the cursor belongs to.
func (c *Controller) Fingerprint() uint64 { return c.fingerprint }

// # Window

// Visible returns how many of total items are revealed.
func (c *Controller) Visible(total int) int {
	return min(c.page*c.pageSize, max(total, 0))
}

// HasMore reports whether items remain hidden.
func (c *Controller) HasMore(total int) bool {
	return c.Visible(total) < total
}

// Window returns the revealed prefix of items.
func Window[T any](c *Controller, items []T) []T {
	return items[:c.Visible(len(items))]
}

// # Events

// SentinelVisible handles the sentinel entering the viewport. It reports
// whether the page grew.
func (c *Controller) SentinelVisible(total int) bool {
	if c.state != StateIdle || c.overlayOpen || c.sentinel == NoSentinel || !c.HasMore(total) {
		return false
	}

	c.state = StateLoadingMore
	c.page++
	c.state = StateIdle
	return true
}

// Invalidate resets the cursor when the criteria fingerprint changes. It
// reports whether a reset happened.
func (c *Controller) Invalidate(fingerprint uint64) bool {
	if fingerprint == c.fingerprint {
		return false
	}
	c.fingerprint = fingerprint
	c.Reset()
	return true
}

// Reset forces the cursor back to page 1 regardless of state.
func (c *Controller) Reset() {
	c.page = 1
	c.state = StateIdle
}

// # Sentinel

// Attach observes the row at index. A negative index detaches.
func (c *Controller) Attach(row int) {
	if row < 0 {
		c.Detach()
		return
	}
	c.sentinel = row
}

// Detach stops observing the sentinel.
func (c *Controller) Detach() {
	c.sentinel = NoSentinel
}

// Sentinel returns the observed row index or [NoSentinel].
func (c *Controller) Sentinel() int { return c.sentinel }

// Sync attaches the sentinel to the last of rowCount rendered rows, or
// detaches it when nothing was rendered.
func (c *Controller) Sync(rowCount int) {
	c.Attach(rowCount - 1)
}

// # Overlay

// OpenOverlay suspends growth while a viewer covers the list.
func (c *Controller) OpenOverlay() { c.overlayOpen = true }

// CloseOverlay resumes growth.
func (c *Controller) CloseOverlay() { c.overlayOpen = false }

// OverlayOpen reports whether growth is suspended.
func (c *Controller) OverlayOpen() bool { return c.overlayOpen }
