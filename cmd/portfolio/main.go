// Copyright (c) 2026 Veerakabilan31
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Veerakabilan31/portfolio/internal/auth"
	"github.com/Veerakabilan31/portfolio/internal/config"
	"github.com/Veerakabilan31/portfolio/internal/geoip"
	"github.com/Veerakabilan31/portfolio/internal/handler"
	"github.com/Veerakabilan31/portfolio/internal/logging"
	"github.com/Veerakabilan31/portfolio/internal/mail"
	"github.com/Veerakabilan31/portfolio/internal/middleware"
	"github.com/Veerakabilan31/portfolio/internal/render"
	"github.com/Veerakabilan31/portfolio/internal/report"
	"github.com/Veerakabilan31/portfolio/internal/scheduler"
	"github.com/Veerakabilan31/portfolio/internal/session"
	"github.com/Veerakabilan31/portfolio/internal/store"
	"github.com/Veerakabilan31/portfolio/internal/version"
	"github.com/Veerakabilan31/portfolio/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")
	hashPassword := flag.Bool("hash-password", false, "Read a password from stdin and print an argon2id hash for ADMIN_PASS_HASH")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "portfolio - contact form and visit analytics backend\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SECRET_KEY          Session and CSRF key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ADMIN_USER          Dashboard username (default: admin)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ADMIN_PASS          Dashboard password (or ADMIN_PASS_HASH)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  EMAIL_USER          Address that receives contact notifications\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MAIL_TRANSPORT      resend|smtp|log|auto (default: auto)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RESEND_API_KEY      Resend API key\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SMTP_HOST           SMTP server for the smtp transport\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DB_PATH             SQLite database path (default: ./data/portfolio.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORT                Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ENV                 development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GEOIP_DB_PATH       GeoLite2-Country database (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Println(version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime})
		os.Exit(0)
	}

	if *hashPassword {
		if err := printPasswordHash(os.Stdin, os.Stdout); err != nil {
			_, _ = fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// printPasswordHash reads one line from in and writes its argon2id hash to out.
func printPasswordHash(in io.Reader, out io.Writer) error {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("reading password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return errors.New("empty password")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	_, err = fmt.Fprintln(out, hash)
	return err
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newMailTransport selects the outbound transport from configuration.
func newMailTransport(cfg *config.Config, logger *slog.Logger) mail.Transport {
	switch cfg.ResolvedMailTransport() {
	case config.MailTransportResend:
		return mail.NewResendTransport(cfg.ResendAPIKey)
	case config.MailTransportSMTP:
		return mail.NewSMTPTransport(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			UseTLS:   cfg.SMTPTLS,
		})
	default:
		return mail.NewLogTransport(logger)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0750); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	st := store.NewStore(db)
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the event log table
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, st))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	renderer, err := render.New(render.Config{
		TemplatesFS:    web.TemplatesFS(),
		SessionManager: sessionManager,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	transport := newMailTransport(cfg, logger)
	dispatcher := mail.NewDispatcher(transport, mail.Config{
		From:         cfg.MailFrom,
		OwnerAddress: cfg.EmailUser,
		OwnerName:    cfg.OwnerName,
		Timeout:      cfg.MailTimeout,
	}, logger)
	notifier := mail.NewAsync(dispatcher)
	slog.Info("mail transport configured", "transport", transport.Name())

	countries, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		slog.Warn("geoip disabled", "error", err)
	} else if countries.Enabled() {
		slog.Info("geoip enabled", "path", cfg.GeoIPDBPath)
	}
	defer func() {
		if err := countries.Close(); err != nil {
			slog.Error("error closing geoip database", "error", err)
		}
	}()

	schedCfg := scheduler.Config{
		RetentionDays: cfg.VisitRetentionDays,
		Pruner:        st,
	}
	if cfg.GeoIPEnabled() {
		schedCfg.GeoIP = countries
	}
	sched := scheduler.New(schedCfg, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	visits := middleware.NewVisitLogger(st, logger)

	var resolver report.CountryResolver
	if cfg.GeoIPEnabled() {
		resolver = countries
	}

	router := handler.NewRouter(handler.RouterConfig{
		Contact: handler.NewContactHandler(st, notifier, logger),
		Dashboard: handler.NewDashboardHandler(handler.DashboardConfig{
			Store:          st,
			SessionManager: sessionManager,
			Renderer:       renderer,
			Credentials: auth.Credentials{
				Username:     cfg.AdminUser,
				Password:     cfg.AdminPass,
				PasswordHash: cfg.AdminPassHash,
			},
			Countries: resolver,
			Logger:    logger,
		}),
		Health:         handler.NewHealthHandler(st, sessionManager, appVersion, logger),
		SessionManager: sessionManager,
		Visits:         visits,
		CSRF:           middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SecretKey)[:config.MinSecretKeyLength], cfg.IsDevelopment())),
		Security:       middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment()),
		TrustProxy:     cfg.TrustProxy,
		AccessLog:      true,
		Metrics:        cfg.MetricsEnabled,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	// Let in-flight visit inserts and notification emails finish.
	visits.Wait()
	if err := notifier.Shutdown(ctx); err != nil {
		slog.Warn("pending notifications abandoned", "error", err)
	}

	slog.Info("server stopped")
	return nil
}
