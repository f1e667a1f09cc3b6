// Package main is the entry point for quotefault.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/quotefault"
	"github.com/jsamuelsen/quotefault/internal/adapters/directory"
	"github.com/jsamuelsen/quotefault/internal/adapters/http"
	"github.com/jsamuelsen/quotefault/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotefault/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quotefault/internal/adapters/persistence"
	"github.com/jsamuelsen/quotefault/internal/adapters/sso"
	"github.com/jsamuelsen/quotefault/internal/app"
	"github.com/jsamuelsen/quotefault/internal/platform/config"
	"github.com/jsamuelsen/quotefault/internal/platform/logging"
	"github.com/jsamuelsen/quotefault/internal/platform/telemetry"
	"github.com/jsamuelsen/quotefault/internal/ports"
)

// Build-time variables, injected with
// -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=...".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	err = cfg.Validate()
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting quotefault",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("auth_mode", cfg.Auth.Mode),
		slog.String("database", cfg.Database.Driver),
	)

	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
		Insecure:     cfg.Telemetry.Insecure,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		shutdownErr := telProvider.Shutdown(ctx)
		if shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	db, err := persistence.Open(ctx, &cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	defer func() {
		closeErr := persistence.Close(db)
		if closeErr != nil {
			logger.Error("closing database", slog.Any("error", closeErr))
		}
	}()

	dir, err := directory.New(&cfg.Directory, logger)
	if err != nil {
		return fmt.Errorf("creating directory client: %w", err)
	}

	healthRegistry := ports.NewHealthRegistry()

	err = healthRegistry.Register(persistence.NewHealthChecker(db))
	if err != nil {
		return fmt.Errorf("registering database health check: %w", err)
	}

	err = healthRegistry.RegisterOptional(dir)
	if err != nil {
		return fmt.Errorf("registering directory health check: %w", err)
	}

	cache := app.NewMembershipCache(app.MembershipCacheConfig{
		Directory:   dir,
		MemberGroup: cfg.Directory.MemberGroup,
		Capacity:    cfg.Cache.MemberCapacity,
		Registerer:  prometheus.DefaultRegisterer,
		Logger:      logger,
	})

	members := app.NewMemberService(app.MemberServiceConfig{
		Directory:       dir,
		Cache:           cache,
		MemberGroup:     cfg.Directory.MemberGroup,
		PrivilegedGroup: cfg.Auth.PrivilegedGroup,
		Logger:          logger,
	})

	auth := app.NewAuthService(app.AuthServiceConfig{
		Keys:    persistence.NewAPIKeyRepository(db),
		Members: members,
		Logger:  logger,
	})

	quotes := app.NewQuoteService(app.QuoteServiceConfig{
		Quotes:  persistence.NewQuoteRepository(db),
		Votes:   persistence.NewVoteRepository(db),
		Members: members,
		Auth:    auth,
		Logger:  logger,
	})

	index, err := handlers.NewIndexHandler(quotefault.Readme)
	if err != nil {
		return err
	}

	routerCfg := http.RouterConfig{
		ServiceName:     cfg.Telemetry.ServiceName,
		Timeout:         cfg.Server.RequestTimeout,
		MaxBodySize:     cfg.Server.MaxRequestSize,
		CORSAllowOrigin: cfg.Server.CORSAllowOrigin,
		Keys:            auth,
		Health:          handlers.NewHealthHandler(healthRegistry, handlers.NewBuildInfo(Version, Commit, BuildTime)),
		Index:           index,
		Legacy:          handlers.NewLegacyHandler(quotes),
		Quotes:          handlers.NewQuoteHandler(quotes, cfg.Quotes.DefaultPageSize),
		Members:         handlers.NewMemberHandler(members, auth),
	}

	switch cfg.Auth.Mode {
	case config.AuthModeOIDC:
		provider, err := sso.NewOIDCProvider(ctx, &cfg.Auth.OIDC)
		if err != nil {
			return err
		}

		sessions := sso.NewSessions(persistence.NewSessionStore(db), cfg.Auth.Session)
		routerCfg.Identity = sessions
		routerCfg.SSO = sso.NewHandler(provider, sessions)
	default:
		routerCfg.Identity = middleware.HeaderIdentity{
			UsernameHeader: cfg.Auth.UsernameHeader,
			SubjectHeader:  cfg.Auth.SubjectHeader,
		}
	}

	server := http.New(&cfg.Server, logger)
	http.SetupRouter(server.Engine(), routerCfg)

	serverErr := server.Start()

	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

// waitForShutdown blocks until a signal arrives or the server fails, then
// drains in-flight requests for at most shutdownTimeout.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	err := server.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
