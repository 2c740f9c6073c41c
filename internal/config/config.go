// Copyright (c) 2026 Veerakabilan31
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change_this_secret",
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Mail transport names accepted by MAIL_TRANSPORT.
const (
	MailTransportAuto   = "auto"
	MailTransportResend = "resend"
	MailTransportSMTP   = "smtp"
	MailTransportLog    = "log"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	SecretKey string `env:"SECRET_KEY,required"`

	// Admin credentials
	AdminUser     string `env:"ADMIN_USER" envDefault:"admin"`
	AdminPass     string `env:"ADMIN_PASS"`
	AdminPassHash string `env:"ADMIN_PASS_HASH"` // argon2id hash, takes precedence over ADMIN_PASS

	// Mail configuration
	EmailUser     string        `env:"EMAIL_USER"` // owner address, receives notifications
	MailTransport string        `env:"MAIL_TRANSPORT" envDefault:"auto"`
	MailFrom      string        `env:"MAIL_FROM" envDefault:"Portfolio <onboarding@resend.dev>"`
	MailTimeout   time.Duration `env:"MAIL_TIMEOUT" envDefault:"30s"`
	OwnerName     string        `env:"OWNER_NAME" envDefault:"Veerakabilan"`
	ResendAPIKey  string        `env:"RESEND_API_KEY"`
	SMTPHost      string        `env:"SMTP_HOST"`
	SMTPPort      int           `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser      string        `env:"SMTP_USER"`
	SMTPPassword  string        `env:"SMTP_PASSWORD"`
	SMTPTLS       bool          `env:"SMTP_TLS" envDefault:"true"`

	DBPath     string `env:"DB_PATH" envDefault:"./data/portfolio.db"`
	ServerHost string `env:"HOST"`
	ServerPort int    `env:"PORT" envDefault:"8080"`
	Env        string `env:"ENV" envDefault:"development"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	TrustProxy bool   `env:"TRUST_PROXY" envDefault:"false"`

	// GeoIP configuration
	GeoIPDBPath string `env:"GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file

	VisitRetentionDays int  `env:"VISIT_RETENTION_DAYS" envDefault:"0"` // 0 keeps visits forever
	MetricsEnabled     bool `env:"METRICS_ENABLED" envDefault:"false"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return net.JoinHostPort(c.ServerHost, strconv.Itoa(c.ServerPort))
}

// GeoIPEnabled returns true if GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// ResolvedMailTransport returns the transport to use, resolving "auto" to
// resend when an API key is set, smtp when a host is set, and log otherwise.
func (c Config) ResolvedMailTransport() string {
	switch c.MailTransport {
	case MailTransportResend, MailTransportSMTP, MailTransportLog:
		return c.MailTransport
	}
	switch {
	case c.ResendAPIKey != "":
		return MailTransportResend
	case c.SMTPHost != "":
		return MailTransportSMTP
	default:
		return MailTransportLog
	}
}

// SMTPAddr returns the SMTP server address in host:port format.
func (c Config) SMTPAddr() string {
	return net.JoinHostPort(c.SMTPHost, strconv.Itoa(c.SMTPPort))
}

// MinSecretKeyLength is the minimum required length for the secret key.
// AES-256 requires 32 bytes minimum for secure encryption.
const MinSecretKeyLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.SecretKey) {
		slog.Warn("SECRET_KEY has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.SecretKey) < MinSecretKeyLength {
		return fmt.Errorf("SECRET_KEY must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSecretKeyLength, len(c.SecretKey))
	}

	for _, weak := range knownWeakSecrets {
		if c.SecretKey == weak {
			return errors.New("SECRET_KEY is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if c.AdminUser == "" {
		return errors.New("ADMIN_USER must not be empty")
	}
	if c.AdminPass == "" && c.AdminPassHash == "" {
		return errors.New("one of ADMIN_PASS or ADMIN_PASS_HASH is required")
	}

	switch c.MailTransport {
	case MailTransportAuto, MailTransportResend, MailTransportSMTP, MailTransportLog:
	default:
		return fmt.Errorf("MAIL_TRANSPORT must be one of auto, resend, smtp, log; got %q", c.MailTransport)
	}

	transport := c.ResolvedMailTransport()
	switch transport {
	case MailTransportResend:
		if c.ResendAPIKey == "" {
			return errors.New("RESEND_API_KEY is required for the resend mail transport")
		}
	case MailTransportSMTP:
		if c.SMTPHost == "" {
			return errors.New("SMTP_HOST is required for the smtp mail transport")
		}
	}
	if transport != MailTransportLog && strings.TrimSpace(c.EmailUser) == "" {
		return errors.New("EMAIL_USER is required unless MAIL_TRANSPORT is log")
	}

	if c.MailTimeout <= 0 {
		return errors.New("MAIL_TIMEOUT must be positive")
	}
	if c.VisitRetentionDays < 0 {
		return errors.New("VISIT_RETENTION_DAYS must not be negative")
	}

	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
