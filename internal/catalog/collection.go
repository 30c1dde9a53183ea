// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

// Collection is an immutable snapshot of the items a view was mounted with.
//
// Every change produces a new snapshot with a higher version, so derived
// results (filtered rows, layouts) can be cached by version.
type Collection struct {
	items   []Item
	version uint64
}

// NewCollection snapshots items. The slice is copied.
func NewCollection(items []Item, version uint64) *Collection {
	return &Collection{items: append([]Item(nil), items...), version: version}
}

// Items returns the snapshot. Callers must not modify the returned slice.
func (c *Collection) Items() []Item {
	if c == nil {
		return nil
	}
	return c.items
}

// Len returns the number of items.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Version identifies the snapshot.
func (c *Collection) Version() uint64 {
	if c == nil {
		return 0
	}
	return c.version
}

// Find returns the item with the given key.
func (c *Collection) Find(key Key) (Item, bool) {
	for _, item := range c.Items() {
		if item.Key() == key {
			return item, true
		}
	}
	return Item{}, false
}

// ReplaceAll swaps every listed item whose key is in the snapshot, in one new
// version. Items with unknown keys are skipped. Without any swap the receiver
// is returned unchanged.
func (c *Collection) ReplaceAll(items []Item) *Collection {
	if len(items) == 0 {
		return c
	}
	byKey := make(map[Key]Item, len(items))
	for _, item := range items {
		byKey[item.Key()] = item
	}

	found := false
	next := make([]Item, len(c.Items()))
	for i, existing := range c.Items() {
		if replacement, ok := byKey[existing.Key()]; ok {
			next[i] = replacement
			found = true
			continue
		}
		next[i] = existing
	}
	if !found {
		return c
	}
	return &Collection{items: next, version: c.Version() + 1}
}
