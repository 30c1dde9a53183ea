// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package view

import (
	"context"
	"sync"
	"time"

	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/pkg/clock"
)

// MemorySnapshotStore keeps snapshots in process memory. It is used when no
// Redis URL is configured.
type MemorySnapshotStore struct {
	mu      sync.Mutex
	clock   clock.Clock
	entries map[string]memoryEntry
}

type memoryEntry struct {
	snapshot  Snapshot
	expiresAt time.Time
}

// NewMemorySnapshotStore creates an empty in-memory store.
func NewMemorySnapshotStore(timeSource clock.Clock) *MemorySnapshotStore {
	if timeSource == nil {
		timeSource = clock.Real()
	}
	return &MemorySnapshotStore{clock: timeSource, entries: make(map[string]memoryEntry)}
}

// Save implements [SnapshotStore].
func (store *MemorySnapshotStore) Save(context context.Context, snapshot Snapshot, ttl time.Duration) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	now := store.clock.Now()
	snapshot.SavedAt = now
	store.entries[snapshot.ID] = memoryEntry{snapshot: snapshot, expiresAt: now.Add(ttl)}
	store.evictExpired(now)
	return nil
}

// Load implements [SnapshotStore].
func (store *MemorySnapshotStore) Load(context context.Context, id string) (Snapshot, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	entry, ok := store.entries[id]
	if !ok || !store.clock.Now().Before(entry.expiresAt) {
		delete(store.entries, id)
		return Snapshot{}, apperr.NotFound("View")
	}
	return entry.snapshot, nil
}

// Touch implements [SnapshotStore].
func (store *MemorySnapshotStore) Touch(context context.Context, id string, ttl time.Duration) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	now := store.clock.Now()
	if entry, ok := store.entries[id]; ok && now.Before(entry.expiresAt) {
		entry.expiresAt = now.Add(ttl)
		store.entries[id] = entry
	}
	return nil
}

// Delete implements [SnapshotStore].
func (store *MemorySnapshotStore) Delete(context context.Context, id string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	delete(store.entries, id)
	return nil
}

func (store *MemorySnapshotStore) evictExpired(now time.Time) {
	for id, entry := range store.entries {
		if !now.Before(entry.expiresAt) {
			delete(store.entries, id)
		}
	}
}
