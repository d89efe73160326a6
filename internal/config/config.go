// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Default paths; replaced with temp-dir equivalents in ephemeral mode.
const (
	defaultDBPath     = "./data/yescourses.db"
	defaultUploadsDir = "./data/uploads"
)

// DefaultAdminPassword is the development fallback for the admin credential
// pair. It is rejected in production.
const DefaultAdminPassword = "admins"

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"YC_DB_PATH" envDefault:"./data/yescourses.db"`
	UploadsDir    string `env:"YC_UPLOADS_DIR" envDefault:"./data/uploads"`
	SessionSecret string `env:"YC_SESSION_SECRET,required"`
	ServerHost    string `env:"YC_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"YC_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"YC_ENV" envDefault:"development"`
	LogLevel      string `env:"YC_LOG_LEVEL" envDefault:"info"`

	// Ephemeral switches the database and uploads paths to the system temp
	// directory, for deployment targets with a read-only filesystem.
	Ephemeral bool `env:"YC_EPHEMERAL" envDefault:"false"`

	// Administrator identity. AdminEmail is the single allowlisted email that
	// grants admin rights to a regular account; the username/password pair
	// drives the separate /admin credential login.
	AdminEmail    string `env:"YC_ADMIN_EMAIL" envDefault:"admin@yescourses.example"`
	AdminUsername string `env:"YC_ADMIN_USERNAME" envDefault:"admins"`
	AdminPassword string `env:"YC_ADMIN_PASSWORD" envDefault:"admins"`
}

// MinSessionSecretLength is the minimum required length for the session
// secret, which also keys the CSRF middleware.
const MinSessionSecretLength = 32

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("YC_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	cfg.AdminEmail = strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if cfg.AdminEmail == "" {
		return nil, fmt.Errorf("YC_ADMIN_EMAIL must not be empty")
	}

	if !cfg.IsDevelopment() && cfg.AdminPassword == DefaultAdminPassword {
		return nil, fmt.Errorf("YC_ADMIN_PASSWORD is the development default and must be changed in production")
	}
	if cfg.IsDevelopment() && cfg.AdminPassword == DefaultAdminPassword {
		slog.Warn("using default admin credentials; set YC_ADMIN_PASSWORD before deploying")
	}

	if cfg.Ephemeral {
		if cfg.DBPath == defaultDBPath {
			cfg.DBPath = filepath.Join(os.TempDir(), "yescourses_data.db")
		}
		if cfg.UploadsDir == defaultUploadsDir {
			cfg.UploadsDir = filepath.Join(os.TempDir(), "yescourses_uploads")
		}
	}

	return cfg, nil
}
