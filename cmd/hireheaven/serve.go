// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/hireheaven/hireheaven/internal/auth"
	"github.com/hireheaven/hireheaven/internal/company"
	"github.com/hireheaven/hireheaven/internal/config"
	"github.com/hireheaven/hireheaven/internal/httpapi"
	"github.com/hireheaven/hireheaven/internal/logging"
	"github.com/hireheaven/hireheaven/internal/notify"
	"github.com/hireheaven/hireheaven/internal/observability"
	"github.com/hireheaven/hireheaven/internal/profile"
	"github.com/hireheaven/hireheaven/internal/token"
	"github.com/hireheaven/hireheaven/pkg/errutil"
)

const serviceName = "hireheaven"

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the accounts HTTP API",
		Long: `Run the accounts HTTP API together with the metrics and health
endpoints. Configuration comes from --config, HIREHEAVEN_* variables and flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runServeWithDeps(cmd.Context(), cfg, cmd, nil)
		},
	}

	cmd.Flags().String("http-addr", defaults.HTTP.Addr, "API listen address")
	cmd.Flags().String("metrics-addr", defaults.Metrics.Addr, "metrics/health listen address (empty = disabled)")
	cmd.Flags().String("log-format", defaults.Log.Format, "log format (json or text)")
	cmd.Flags().String("log-level", defaults.Log.Level, "log level (debug, info, warn, error)")
	cmd.Flags().String("database-url", "", "PostgreSQL connection URL")
	cmd.Flags().String("redis-addr", defaults.Redis.Addr, "Redis address for reset tokens")
	cmd.Flags().String("nats-url", defaults.NATS.URL, "NATS URL for outbound mail")
	cmd.Flags().String("frontend-url", defaults.Frontend.URL, "base URL used in password reset links")
	cmd.Flags().Int("ratelimit-recovery-per-minute", defaults.RateLimit.RecoveryPerMinute,
		"password recovery requests allowed per client IP per minute (0 = unlimited)")

	return cmd
}

// runServeWithDeps runs the service until ctx is cancelled or a server fails.
// If deps is nil, default implementations are used.
func runServeWithDeps(ctx context.Context, cfg *config.Config, cmd *cobra.Command, deps *ServeDeps) error {
	if deps == nil {
		deps = &ServeDeps{}
	}
	deps.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return oops.With("operation", "validate configuration").Wrap(err)
	}

	logger, err := logging.Setup(logging.Options{
		Service: serviceName,
		Version: version,
		Format:  cfg.Log.Format,
		Level:   cfg.Log.Level,
	}, cmd.ErrOrStderr())
	if err != nil {
		return oops.With("operation", "set up logging").Wrap(err)
	}
	slog.SetDefault(logger)

	registry := observability.NewRegistry(auth.RegisterMetrics, notify.RegisterMetrics, profile.RegisterMetrics, company.RegisterMetrics)
	httpMetrics := observability.NewHTTPMetrics(registry)

	accounts, err := deps.OpenAccounts(ctx, cfg)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "open account store").Wrap(err)
	}
	defer accounts.Close()
	logger.Info("connected to database")

	resets, err := deps.OpenResetStore(ctx, cfg)
	if err != nil {
		return oops.Code("EPHEMERAL_CONNECT_FAILED").With("operation", "open reset store").Wrap(err)
	}
	defer resets.Close()
	logger.Info("connected to reset token store")

	uploader, err := deps.OpenUploader(ctx, cfg, logger)
	if err != nil {
		return oops.With("operation", "create uploader").Wrap(err)
	}

	// The broker connects in the background. Mail dispatched before it is
	// up is dropped with a warning.
	publisher := deps.NewPublisher(cfg, logger)
	connectCtx, cancelConnect := context.WithCancel(ctx)
	var connecting sync.WaitGroup
	connecting.Add(1)
	go func() {
		defer connecting.Done()
		if err := publisher.Connect(connectCtx); err != nil {
			errutil.LogError(logger, "mail broker unavailable, reset mails will be dropped", err)
		}
	}()
	defer func() {
		cancelConnect()
		connecting.Wait()
		publisher.Close()
	}()

	dispatcher := notify.NewDispatcher(publisher, logger, notify.WithSubject(cfg.NATS.Stream))

	handler, err := buildAPI(cfg, logger, accounts.Store, accounts.Companies, resets.Store, uploader, dispatcher, httpMetrics)
	if err != nil {
		return err
	}

	listener, err := deps.Listen("tcp", cfg.HTTP.Addr)
	if err != nil {
		return oops.Code("HTTP_LISTEN_FAILED").With("addr", cfg.HTTP.Addr).Wrap(err)
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}
	apiErrCh := make(chan error, 1)
	go func() {
		defer close(apiErrCh)
		if serveErr := srv.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			apiErrCh <- serveErr
		}
	}()
	logger.Info("API server listening", "addr", listener.Addr().String())

	var obsServer *observability.Server
	var obsErrCh <-chan error
	if cfg.Metrics.Addr != "" {
		obsServer = observability.NewServer(cfg.Metrics.Addr, registry, map[string]observability.ReadinessCheck{
			"database":    accounts.Ready,
			"reset_store": resets.Ready,
		}, logger)
		obsErrCh, err = obsServer.Start()
		if err != nil {
			shutdownAPI(srv, cfg.HTTP.ShutdownTimeout, logger)
			return oops.With("operation", "start observability server").Wrap(err)
		}
	}

	if deps.OnReady != nil {
		metricsAddr := ""
		if obsServer != nil {
			metricsAddr = obsServer.Addr()
		}
		deps.OnReady(listener.Addr().String(), metricsAddr)
	}
	cmd.Println("hireheaven accounts service started")

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err, ok := <-apiErrCh:
		if ok {
			runErr = oops.Code("HTTP_SERVE_FAILED").Wrap(err)
		}
	case err, ok := <-obsErrCh:
		if ok {
			runErr = oops.Code("OBSERVABILITY_SERVE_FAILED").Wrap(err)
		}
	}

	logger.Info("shutting down")
	shutdownAPI(srv, cfg.HTTP.ShutdownTimeout, logger)

	drainCtx, cancelDrain := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancelDrain()
	if err := dispatcher.Close(drainCtx); err != nil {
		logger.Warn("mail dispatcher did not drain", "error", err)
	}
	if obsServer != nil {
		if err := obsServer.Stop(drainCtx); err != nil {
			logger.Warn("error stopping observability server", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return runErr
}

// buildAPI assembles the services and the HTTP router over them.
func buildAPI(
	cfg *config.Config,
	logger *slog.Logger,
	accounts AccountStore,
	companies company.Repository,
	resets auth.ResetTokenStore,
	uploader auth.Uploader,
	mailer auth.MailDispatcher,
	httpMetrics *observability.HTTPMetrics,
) (http.Handler, error) {
	signer, err := token.NewJWTSigner(cfg.JWT.Secret, token.WithIssuer(cfg.JWT.Issuer))
	if err != nil {
		return nil, oops.With("operation", "create token signer").Wrap(err)
	}
	renderer, err := notify.NewRenderer(cfg.JWT.ResetTTL)
	if err != nil {
		return nil, oops.With("operation", "load mail templates").Wrap(err)
	}

	creds, err := auth.NewCredentialService(auth.CredentialServiceDeps{
		Accounts:   accounts,
		Hasher:     auth.NewArgon2idHasher(),
		Tokens:     signer,
		ResetStore: resets,
		Mailer:     mailer,
		Mails:      renderer,
		Uploader:   uploader,
	}, auth.CredentialConfig{
		FrontendURL:   cfg.Frontend.URL,
		SessionTTL:    cfg.JWT.SessionTTL,
		ResetTokenTTL: cfg.JWT.ResetTTL,
		ResetStoreTTL: cfg.Reset.StoreTTL,
	}, auth.WithLogger(logger))
	if err != nil {
		return nil, oops.With("operation", "create credential service").Wrap(err)
	}

	profiles, err := profile.NewService(accounts, uploader, logger)
	if err != nil {
		return nil, oops.With("operation", "create profile service").Wrap(err)
	}

	companyService, err := company.NewService(accounts, companies, uploader, logger)
	if err != nil {
		return nil, oops.With("operation", "create company service").Wrap(err)
	}

	handler, err := httpapi.NewRouter(httpapi.RouterConfig{
		Credentials:       creds,
		Profiles:          profiles,
		Companies:         companyService,
		Logger:            logger,
		AllowedOrigins:    cfg.HTTP.AllowedOrigins,
		RecoveryPerMinute: cfg.RateLimit.RecoveryPerMinute,
		MaxUploadBytes:    cfg.HTTP.MaxUploadBytes,
		Middleware:        []func(http.Handler) http.Handler{httpMetrics.Middleware},
	})
	if err != nil {
		return nil, oops.With("operation", "create router").Wrap(err)
	}
	return handler, nil
}

func shutdownAPI(srv *http.Server, timeout time.Duration, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("API server did not shut down cleanly", "error", err)
	}
}
