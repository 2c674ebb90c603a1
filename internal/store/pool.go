// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

// Package store owns the PostgreSQL connection pool and schema migrations.
package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// PoolConfig configures Open.
type PoolConfig struct {
	URL string
	// MaxConns caps pool size; zero keeps the pgx default.
	MaxConns int32
	// PingAttempts bounds startup pings. Defaults to 5.
	PingAttempts uint64
	// PingBackoff is the first delay between pings. Defaults to 250ms.
	PingBackoff time.Duration
}

// Open creates a pgx pool and waits until the database answers a ping.
func Open(ctx context.Context, cfg PoolConfig) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, oops.Code("DB_CONFIG_INVALID").Wrap(err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if cfg.PingAttempts == 0 {
		cfg.PingAttempts = 5
	}
	if cfg.PingBackoff <= 0 {
		cfg.PingBackoff = 250 * time.Millisecond
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").Wrap(err)
	}

	backoff := retry.WithMaxRetries(cfg.PingAttempts-1, retry.NewExponential(cfg.PingBackoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if pingErr := pool.Ping(ctx); pingErr != nil {
			return retry.RetryableError(pingErr)
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, oops.Code("DB_CONNECT_FAILED").With("attempts", cfg.PingAttempts).Wrap(err)
	}
	return pool, nil
}
