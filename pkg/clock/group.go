// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package clock

import (
	"sync"
	"time"
)

/*
Group owns the named timers of one session.

Every method must be called with the owner lock held. Callbacks acquire the
owner lock themselves before running, and are dropped when the timer was
restarted, stopped, or the group closed in the meantime. Once [Group.Close]
returns no callback of the group will run.
*/
type Group struct {
	clock  Clock
	owner  sync.Locker
	slots  map[string]*slot
	seq    uint64
	closed bool
}

type slot struct {
	timer Timer
	seq   uint64
}

// NewGroup creates a timer group guarded by owner.
func NewGroup(clock Clock, owner sync.Locker) *Group {
	if clock == nil {
		clock = Real()
	}
	return &Group{clock: clock, owner: owner, slots: make(map[string]*slot)}
}

// Start (re)schedules the named timer. A running timer with the same name is
// cancelled first.
func (g *Group) Start(name string, d time.Duration, f func()) {
	if g.closed {
		return
	}
	g.Stop(name)

	g.seq++
	seq := g.seq
	timer := g.clock.AfterFunc(d, func() {
		g.owner.Lock()
		defer g.owner.Unlock()

		current, ok := g.slots[name]
		if g.closed || !ok || current.seq != seq {
			return
		}
		delete(g.slots, name)
		f()
	})
	g.slots[name] = &slot{timer: timer, seq: seq}
}

// Stop cancels the named timer.
func (g *Group) Stop(name string) {
	if current, ok := g.slots[name]; ok {
		current.timer.Stop()
		delete(g.slots, name)
	}
}

// Active reports whether the named timer is scheduled.
func (g *Group) Active(name string) bool {
	_, ok := g.slots[name]
	return ok
}

// Close cancels every timer and rejects further starts.
func (g *Group) Close() {
	for name := range g.slots {
		g.Stop(name)
	}
	g.closed = true
}

// Closed reports whether [Group.Close] was called.
func (g *Group) Closed() bool {
	return g.closed
}
