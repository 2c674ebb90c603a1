// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

// Package ephemeral provides expiring key-value stores for short-lived
// single-slot records such as password reset tokens.
package ephemeral

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/samber/oops"

	"github.com/hireheaven/hireheaven/internal/auth"
)

// PoolConfig configures the Redis connection pool.
type PoolConfig struct {
	Address     string
	Password    string
	MaxIdle     int
	MaxActive   int
	IdleTimeout time.Duration
}

// NewPool creates a Redis pool that dials lazily.
func NewPool(cfg PoolConfig) *redis.Pool {
	// Accept docker-style tcp:// addresses.
	address := strings.TrimPrefix(cfg.Address, "tcp://")

	var opts []redis.DialOption
	if cfg.Password != "" {
		opts = append(opts, redis.DialPassword(cfg.Password))
	}

	return &redis.Pool{
		MaxIdle:     cfg.MaxIdle,
		MaxActive:   cfg.MaxActive,
		IdleTimeout: cfg.IdleTimeout,
		DialContext: func(ctx context.Context) (redis.Conn, error) {
			return redis.DialContext(ctx, "tcp", address, opts...)
		},
		TestOnBorrowContext: func(ctx context.Context, c redis.Conn, lastUsed time.Time) error {
			if time.Since(lastUsed) < time.Minute {
				return nil
			}
			_, err := redis.DoContext(c, ctx, "PING")
			return err
		},
	}
}

// RedisStore stores values with SET EX and reads them with GET.
type RedisStore struct {
	pool *redis.Pool
}

// NewRedisStore creates a store on pool.
func NewRedisStore(pool *redis.Pool) *RedisStore {
	return &RedisStore{pool: pool}
}

// Set writes value under key, replacing any previous value and TTL.
func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	seconds := int64(ttl / time.Second)
	if seconds <= 0 {
		return oops.Code("EPHEMERAL_INVALID_TTL").With("key", key).Errorf("ttl must be at least one second, got %s", ttl)
	}

	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return oops.Code("EPHEMERAL_CONNECT_FAILED").Wrap(err)
	}
	defer conn.Close()

	if _, err := redis.String(redis.DoContext(conn, ctx, "SET", key, value, "EX", seconds)); err != nil {
		return oops.Code("EPHEMERAL_SET_FAILED").With("key", key).Wrap(err)
	}
	return nil
}

// Get returns ok=false when key is absent or expired.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return "", false, oops.Code("EPHEMERAL_CONNECT_FAILED").Wrap(err)
	}
	defer conn.Close()

	value, err := redis.String(redis.DoContext(conn, ctx, "GET", key))
	if err != nil {
		if errors.Is(err, redis.ErrNil) {
			return "", false, nil
		}
		return "", false, oops.Code("EPHEMERAL_GET_FAILED").With("key", key).Wrap(err)
	}
	return value, true, nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return oops.Code("EPHEMERAL_CONNECT_FAILED").Wrap(err)
	}
	defer conn.Close()

	if _, err := redis.Int(redis.DoContext(conn, ctx, "DEL", key)); err != nil {
		return oops.Code("EPHEMERAL_DELETE_FAILED").With("key", key).Wrap(err)
	}
	return nil
}

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return oops.Code("EPHEMERAL_CONNECT_FAILED").Wrap(err)
	}
	defer conn.Close()

	if _, err := redis.DoContext(conn, ctx, "PING"); err != nil {
		return oops.Code("EPHEMERAL_PING_FAILED").Wrap(err)
	}
	return nil
}

var _ auth.ResetTokenStore = (*RedisStore)(nil)
