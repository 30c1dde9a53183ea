// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package optimistic applies local state changes ahead of the remote call that
confirms them.

The sequence is always the same:

 1. Snapshot the current value.
 2. Apply the change locally.
 3. Issue the request.
 4. On failure restore the snapshot and return the error. Stores that
    implement [Reverter] decide themselves what to restore.
 5. On success keep the local value, or reconcile it with the response.
*/
package optimistic

import (
	"context"
	"sync"
)

// Store is the local state a mutation patches.
type Store[T any] interface {
	Load() T
	Store(value T)
}

// Reverter is implemented by stores shared with other writers. Revert must
// restore snapshot only where optimistic is still in place, so writes that
// landed while the commit was in flight survive the rollback.
type Reverter[T any] interface {
	Revert(snapshot, optimistic T)
}

// Mutation describes one optimistic change.
type Mutation[T any] struct {
	// Apply derives the optimistic value from the snapshot.
	Apply func(current T) T

	// Commit performs the remote call.
	Commit func(ctx context.Context) error

	// Reconcile optionally replaces the optimistic value after a successful
	// commit.
	Reconcile func(optimistic T) T
}

// Do runs the mutation against store. The returned value is what the store
// holds afterwards.
func Do[T any](ctx context.Context, store Store[T], mutation Mutation[T]) (T, error) {
	snapshot := store.Load()

	optimisticValue := mutation.Apply(snapshot)
	store.Store(optimisticValue)

	if err := mutation.Commit(ctx); err != nil {
		if reverter, ok := store.(Reverter[T]); ok {
			reverter.Revert(snapshot, optimisticValue)
			return store.Load(), err
		}
		store.Store(snapshot)
		return snapshot, err
	}

	if mutation.Reconcile != nil {
		reconciled := mutation.Reconcile(optimisticValue)
		store.Store(reconciled)
		return reconciled, nil
	}

	return optimisticValue, nil
}

// Value is a mutex-guarded [Store].
type Value[T any] struct {
	mu    sync.Mutex
	value T
}

// NewValue wraps an initial value.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{value: initial}
}

// Load implements [Store].
func (v *Value[T]) Load() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.value
}

// Store implements [Store].
func (v *Value[T]) Store(value T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.value = value
}

// Func adapts a pair of closures to [Store].
type Func[T any] struct {
	LoadFunc  func() T
	StoreFunc func(T)
}

// Load implements [Store].
func (f Func[T]) Load() T { return f.LoadFunc() }

// Store implements [Store].
func (f Func[T]) Store(value T) { f.StoreFunc(value) }
