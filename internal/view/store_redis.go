// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package view

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/constants"
)

// RedisSnapshotStore implements [SnapshotStore] using Redis.
type RedisSnapshotStore struct {
	client redis.Cmdable
}

// NewRedisSnapshotStore creates a new Redis-backed [SnapshotStore].
func NewRedisSnapshotStore(client redis.Cmdable) *RedisSnapshotStore {
	return &RedisSnapshotStore{client: client}
}

/*
Save stores the snapshot as JSON under the view key.

Parameters:
  - context: context.Context
  - snapshot: Snapshot
  - ttl: time.Duration

Returns:
  - error: Encoding or storage failures
*/
func (repository *RedisSnapshotStore) Save(context context.Context, snapshot Snapshot, ttl time.Duration) error {

	// Stamp and encode
	snapshot.SavedAt = time.Now().UTC()
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("redis_view_snapshot_encode_failed: %w", err)
	}

	// Set the snapshot with TTL
	if err := repository.client.Set(context, constants.RedisPrefixView+snapshot.ID, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_view_snapshot_set_failed: %w", err)
	}

	return nil
}

/*
Load retrieves a snapshot.

Description: Returns apperr.NotFound if the snapshot is absent or expired.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - Snapshot: Decoded snapshot
  - error: apperr.NotFound or connectivity errors
*/
func (repository *RedisSnapshotStore) Load(context context.Context, id string) (Snapshot, error) {

	// Get the snapshot from Redis
	payload, err := repository.client.Get(context, constants.RedisPrefixView+id).Bytes()

	// Handle errors
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Snapshot{}, apperr.NotFound("View")
		}
		return Snapshot{}, fmt.Errorf("redis_view_snapshot_get_failed: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return Snapshot{}, fmt.Errorf("redis_view_snapshot_decode_failed: %w", err)
	}

	return snapshot, nil
}

// Touch restarts the TTL of the view key.
func (repository *RedisSnapshotStore) Touch(context context.Context, id string, ttl time.Duration) error {
	if err := repository.client.Expire(context, constants.RedisPrefixView+id, ttl).Err(); err != nil {
		return fmt.Errorf("redis_view_snapshot_expire_failed: %w", err)
	}
	return nil
}

/*
Delete removes the snapshot from Redis.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Deletion failures
*/
func (repository *RedisSnapshotStore) Delete(context context.Context, id string) error {
	if err := repository.client.Del(context, constants.RedisPrefixView+id).Err(); err != nil {
		return fmt.Errorf("redis_view_snapshot_delete_failed: %w", err)
	}
	return nil
}
