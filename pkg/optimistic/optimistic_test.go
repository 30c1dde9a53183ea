// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package optimistic_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/pkg/optimistic"
)

/*
TestDo_Success keeps the optimistic value and exposes it during the commit.
*/
func TestDo_Success(t *testing.T) {
	store := optimistic.NewValue(false)

	value, err := optimistic.Do(context.Background(), store, optimistic.Mutation[bool]{
		Apply: func(current bool) bool { return !current },
		Commit: func(ctx context.Context) error {
			assert.True(t, store.Load())
			return nil
		},
	})

	require.NoError(t, err)
	assert.True(t, value)
	assert.True(t, store.Load())
}

/*
TestDo_Rollback restores the snapshot when the commit fails.
*/
func TestDo_Rollback(t *testing.T) {
	store := optimistic.NewValue(3)
	boom := errors.New("upstream down")

	value, err := optimistic.Do(context.Background(), store, optimistic.Mutation[int]{
		Apply:  func(current int) int { return 5 },
		Commit: func(ctx context.Context) error { return boom },
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, value)
	assert.Equal(t, 3, store.Load())
}

/*
TestDo_Reconcile replaces the optimistic value with the server's answer.
*/
func TestDo_Reconcile(t *testing.T) {
	store := optimistic.NewValue(1)

	value, err := optimistic.Do(context.Background(), store, optimistic.Mutation[int]{
		Apply:     func(current int) int { return current + 1 },
		Commit:    func(ctx context.Context) error { return nil },
		Reconcile: func(optimisticValue int) int { return optimisticValue * 10 },
	})

	require.NoError(t, err)
	assert.Equal(t, 20, value)
	assert.Equal(t, 20, store.Load())
}

// guardedValue restores the snapshot only while the optimistic value is in place.
type guardedValue struct {
	*optimistic.Value[int]
}

func (guarded guardedValue) Revert(snapshot, optimisticValue int) {
	if guarded.Load() == optimisticValue {
		guarded.Store(snapshot)
	}
}

/*
TestDo_Revert lets the store keep a value written during the commit.
*/
func TestDo_Revert(t *testing.T) {
	boom := errors.New("upstream down")

	tests := []struct {
		name       string
		concurrent *int
		wantStored int
	}{
		{name: "Untouched", concurrent: nil, wantStored: 1},
		{name: "OverwrittenDuringCommit", concurrent: func() *int { v := 7; return &v }(), wantStored: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := guardedValue{optimistic.NewValue(1)}

			value, err := optimistic.Do[int](context.Background(), store, optimistic.Mutation[int]{
				Apply: func(current int) int { return current + 1 },
				Commit: func(ctx context.Context) error {
					if tt.concurrent != nil {
						store.Store(*tt.concurrent)
					}
					return boom
				},
			})

			assert.ErrorIs(t, err, boom)
			assert.Equal(t, tt.wantStored, value)
			assert.Equal(t, tt.wantStored, store.Load())
		})
	}
}
