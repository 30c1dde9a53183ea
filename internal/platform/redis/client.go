// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis connects the snapshot store of gallery views to Redis.

Only small JSON snapshots with a TTL are written, so the pool is kept small.
Without a configured URL the server never calls this package and snapshots
stay in process memory.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	dialTimeout = 3 * time.Second
	ioTimeout   = 2 * time.Second
	pingTimeout = 2 * time.Second

	poolSize     = 8
	minIdleConns = 1
)

/*
NewClient parses redisURL, connects and pings once.

Parameters:
  - context: stdctx.Context bounding the startup ping
  - redisURL: string (redis:// or rediss://)
  - logger: *slog.Logger

Returns:
  - *redis.Client: Connected client, owned by the caller
  - error: Malformed URL or failed ping
*/
func NewClient(context stdctx.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	options.PoolSize = poolSize
	options.MinIdleConns = minIdleConns
	options.DialTimeout = dialTimeout
	options.ReadTimeout = ioTimeout
	options.WriteTimeout = ioTimeout

	client := redis.NewClient(options)
	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_connected",
		slog.String("addr", options.Addr),
		slog.Int("db", options.DB),
	)
	return client, nil
}

// Ping checks the connection within [pingTimeout]. The readiness handler calls it.
func Ping(context stdctx.Context, client redis.UniversalClient) error {
	pingContext, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingContext).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}
	return nil
}
