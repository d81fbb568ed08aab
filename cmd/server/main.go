package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"congrega/internal/adapters/archive"
	"congrega/internal/adapters/email"
	web "congrega/internal/adapters/http"
	"congrega/internal/adapters/http/middleware"
	"congrega/internal/adapters/metrics"
	"congrega/internal/adapters/storage"
	accountStore "congrega/internal/adapters/storage/account"
	congregationStore "congrega/internal/adapters/storage/congregation"
	eventStore "congrega/internal/adapters/storage/event"
	ministryStore "congrega/internal/adapters/storage/ministry"
	musicianStore "congrega/internal/adapters/storage/musician"
	reinforcementStore "congrega/internal/adapters/storage/reinforcement"
	reportStore "congrega/internal/adapters/storage/report"
	"congrega/internal/application/dataaccess"
	"congrega/internal/application/orchestrators"
	"congrega/internal/application/querycache"
	"congrega/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg := config.Load()
	slog.SetDefault(config.NewLogger(cfg, os.Stderr))
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	db, dialect, err := storage.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := storage.MigrateDB(db, dialect); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Query timing, cache hits and request latency all land on /metrics.
	m := metrics.New()
	timedDB := storage.NewTimedDB(db, dialect, m)

	caches := querycache.NewSet(cfg.CacheTTL, m)
	registry := dataaccess.NewRegistry(dataaccess.Stores{
		Congregations:  congregationStore.NewSQLStore(timedDB),
		Ministry:       ministryStore.NewSQLStore(timedDB),
		Musicians:      musicianStore.NewSQLStore(timedDB),
		Events:         eventStore.NewSQLStore(timedDB),
		Reinforcements: reinforcementStore.NewSQLStore(timedDB),
	}, caches)
	accounts := accountStore.NewSQLStore(timedDB)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	created, err := orchestrators.ExecuteEnsureAdmin(ctx, orchestrators.EnsureAdminInput{
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	}, orchestrators.CreateAccountDeps{AccountStore: accounts})
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	if !created && cfg.AuthRequired && cfg.AdminPassword == "" {
		slog.Warn("auth_event", "event", "admin_password_unset", "hint", "set CONGREGA_ADMIN_PASSWORD to bootstrap the first account")
	}

	arch, err := archive.Open(ctx, archive.Options{
		Driver:    cfg.ArchiveDriver,
		Dir:       cfg.ArchiveDir,
		Bucket:    cfg.ArchiveS3Bucket,
		Region:    cfg.ArchiveS3Region,
		Endpoint:  cfg.ArchiveS3Endpoint,
		PathStyle: cfg.ArchiveS3PathStyle,
	})
	if err != nil {
		log.Fatalf("failed to open report archive: %v", err)
	}

	var sender email.Sender
	if cfg.ResendKey != "" {
		sender = email.NewResendSender(cfg.ResendKey, cfg.ReportFrom)
		slog.Info("email_event", "event", "sender_configured", "driver", "resend")
	} else {
		sender = email.NewNoopSender()
		if cfg.IsProduction() {
			slog.Warn("email_event", "event", "sender_disabled", "hint", "set CONGREGA_RESEND_KEY to email reports")
		}
	}

	middleware.SecureCookies = cfg.IsProduction()
	handler, err := web.NewMux(web.Deps{
		Registry:         registry,
		Caches:           caches,
		Accounts:         accounts,
		Reports:          reportStore.NewSQLStore(timedDB),
		Archive:          arch,
		Sender:           sender,
		ReportFrom:       cfg.ReportFrom,
		ReportRecipients: cfg.ReportRecipients,
		Metrics:          m,
		DB:               timedDB,
		AuthRequired:     cfg.AuthRequired,
		CSRFKey:          []byte(cfg.CSRFKey),
		SlowRequestMs:    cfg.SlowRequestMs,
	})
	if err != nil {
		log.Fatalf("failed to build handler: %v", err)
	}

	// Session scopes outlive their cookie by at most one sweep.
	go caches.RunSweeper(ctx, time.Minute, middleware.SessionTTL)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       2 * time.Minute,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server_event", "event", "shutdown_failed", "error", err)
		}
	}()

	slog.Info("server_event", "event", "starting",
		"version", version,
		"addr", cfg.Addr,
		"env", cfg.Env,
		"dialect", string(dialect),
		"schema", storage.LatestSchemaVersion(),
		"archive", arch.Driver(),
		"auth_required", cfg.AuthRequired,
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}
	slog.Info("server_event", "event", "stopped")
}
