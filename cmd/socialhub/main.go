package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/ericfisherdev/socialhub/internal/adapter/driven/platform"
	"github.com/ericfisherdev/socialhub/internal/adapter/driven/secret"
	sqliteadapter "github.com/ericfisherdev/socialhub/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/socialhub/internal/adapter/driving/http"
	"github.com/ericfisherdev/socialhub/internal/application"
	"github.com/ericfisherdev/socialhub/internal/config"
	"github.com/ericfisherdev/socialhub/internal/metrics"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on invalid env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"validation_timeout", cfg.ValidationTimeout,
		"redirect_uri", cfg.RedirectURI,
	)
	if cfg.UsesDefaultPassphrase() {
		slog.Warn("using built-in secret passphrase, set SOCIALHUB_SECRET_PASSPHRASE")
	}

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire adapters.
	snapshotStore := sqliteadapter.NewSnapshotRepo(db)
	postStore := sqliteadapter.NewPostRepo(db)

	cipher, err := secret.NewCipher(cfg.SecretPassphrase)
	if err != nil {
		return err
	}

	gateway := platform.NewDefaultDispatcher(
		platform.DefaultEndpoints(),
		platform.NewHTTPClient(cfg.ValidationTimeout),
		slog.Default(),
	)

	m := metrics.NewMetrics("socialhub")

	// 6. Restore the credential registry from its last snapshot.
	registry := application.NewCredentialRegistry(cipher, snapshotStore, m, slog.Default())
	if err := registry.Restore(ctx); err != nil {
		return err
	}

	// 7. Create services.
	connectSvc := application.NewConnectService(registry, gateway, m, slog.Default())
	scheduleSvc := application.NewScheduleService(postStore, slog.Default())

	// 8. Create HTTP handler and register routes.
	apiHandler := httphandler.NewHandler(registry, connectSvc, scheduleSvc, gateway, cfg.RedirectURI, slog.Default())
	handler := httphandler.NewServeMux(apiHandler, m, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.ValidationTimeout + 15*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
			stop()
		}
	}()

	slog.Info("socialhub started",
		"listen_addr", cfg.ListenAddr,
		"credentials", len(registry.List()),
	)

	// 9. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 10. Graceful shutdown with 10s timeout to drain in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
