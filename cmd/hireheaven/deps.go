// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

package main

import (
	"context"
	"log/slog"
	"net"

	"github.com/hireheaven/hireheaven/internal/auth"
	"github.com/hireheaven/hireheaven/internal/auth/postgres"
	"github.com/hireheaven/hireheaven/internal/company"
	"github.com/hireheaven/hireheaven/internal/config"
	"github.com/hireheaven/hireheaven/internal/ephemeral"
	"github.com/hireheaven/hireheaven/internal/notify"
	"github.com/hireheaven/hireheaven/internal/observability"
	"github.com/hireheaven/hireheaven/internal/profile"
	"github.com/hireheaven/hireheaven/internal/store"
	"github.com/hireheaven/hireheaven/internal/upload"
)

// AccountStore is the persistence both services share.
type AccountStore interface {
	auth.AccountRepository
	profile.Repository
}

// AccountBackend is an open account store with its health check and closer.
// Companies shares the account store's connection.
type AccountBackend struct {
	Store     AccountStore
	Companies company.Repository
	Ready     observability.ReadinessCheck
	Close     func()
}

// ResetBackend is an open reset-token store with its health check and closer.
type ResetBackend struct {
	Store auth.ResetTokenStore
	Ready observability.ReadinessCheck
	Close func()
}

// MailPublisher is the broker side of mail delivery. *notify.Publisher implements it.
type MailPublisher interface {
	notify.Sink
	Connect(ctx context.Context) error
	Close()
}

// ServeDeps contains injectable dependencies for the serve command.
// All fields with nil values use their default implementations.
type ServeDeps struct {
	// OpenAccounts connects the account store.
	// Default: pgx pool + postgres.AccountRepository and postgres.CompanyRepository
	OpenAccounts func(ctx context.Context, cfg *config.Config) (*AccountBackend, error)

	// OpenResetStore connects the reset-token store.
	// Default: redigo pool + ephemeral.RedisStore
	OpenResetStore func(ctx context.Context, cfg *config.Config) (*ResetBackend, error)

	// OpenUploader builds the file storage collaborator.
	// Default: upload.S3Uploader
	OpenUploader func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (auth.Uploader, error)

	// NewPublisher creates the mail broker publisher.
	// Default: notify.Publisher
	NewPublisher func(cfg *config.Config, logger *slog.Logger) MailPublisher

	// Listen creates the API listener.
	// Default: net.Listen
	Listen func(network, address string) (net.Listener, error)

	// OnReady is called once both listeners are bound. metricsAddr is empty
	// when the metrics server is disabled.
	OnReady func(apiAddr, metricsAddr string)
}

func (d *ServeDeps) applyDefaults() {
	if d.OpenAccounts == nil {
		d.OpenAccounts = openPostgresAccounts
	}
	if d.OpenResetStore == nil {
		d.OpenResetStore = openRedisResetStore
	}
	if d.OpenUploader == nil {
		d.OpenUploader = openS3Uploader
	}
	if d.NewPublisher == nil {
		d.NewPublisher = func(cfg *config.Config, logger *slog.Logger) MailPublisher {
			return notify.NewPublisher(notify.PublisherConfig{
				URL:     cfg.NATS.URL,
				Streams: []string{cfg.NATS.Stream},
			}, logger)
		}
	}
	if d.Listen == nil {
		d.Listen = net.Listen
	}
}

func openPostgresAccounts(ctx context.Context, cfg *config.Config) (*AccountBackend, error) {
	pool, err := store.Open(ctx, store.PoolConfig{
		URL:      cfg.Database.URL,
		MaxConns: cfg.Database.MaxConns,
	})
	if err != nil {
		return nil, err
	}
	return &AccountBackend{
		Store:     postgres.NewAccountRepository(pool),
		Companies: postgres.NewCompanyRepository(pool),
		Ready:     pool.Ping,
		Close:     pool.Close,
	}, nil
}

func openRedisResetStore(ctx context.Context, cfg *config.Config) (*ResetBackend, error) {
	pool := ephemeral.NewPool(ephemeral.PoolConfig{
		Address:     cfg.Redis.Addr,
		Password:    cfg.Redis.Password,
		MaxIdle:     cfg.Redis.MaxIdle,
		MaxActive:   cfg.Redis.MaxActive,
		IdleTimeout: cfg.Redis.IdleTimeout,
	})
	rs := ephemeral.NewRedisStore(pool)
	if err := rs.Ping(ctx); err != nil {
		_ = pool.Close() //nolint:errcheck // ping error takes precedence
		return nil, err
	}
	return &ResetBackend{
		Store: rs,
		Ready: rs.Ping,
		Close: func() { _ = pool.Close() }, //nolint:errcheck // shutdown path
	}, nil
}

func openS3Uploader(ctx context.Context, cfg *config.Config, logger *slog.Logger) (auth.Uploader, error) {
	ucfg := upload.Config{
		Endpoint:       cfg.S3.Endpoint,
		Region:         cfg.S3.Region,
		Bucket:         cfg.S3.Bucket,
		AccessKey:      cfg.S3.AccessKey,
		SecretKey:      cfg.S3.SecretKey,
		ForcePathStyle: cfg.S3.ForcePathStyle,
		PublicURL:      cfg.S3.PublicURL,
		Prefix:         cfg.S3.Prefix,
	}
	client, err := upload.NewClient(ctx, ucfg)
	if err != nil {
		return nil, err
	}
	return upload.NewS3Uploader(client, ucfg, logger), nil
}
