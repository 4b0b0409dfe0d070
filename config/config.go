package config

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Import   ImportConfig   `yaml:"import"`
	Inbox    InboxConfig    `yaml:"inbox"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port" env:"LABINV_PORT, overwrite"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
	MaxUploadMB     int64   `yaml:"max_upload_mb"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver" env:"LABINV_DB_DRIVER, overwrite"`
	DSN                    string `yaml:"dsn" env:"LABINV_DB_DSN, overwrite"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// AuthConfig holds the token signing configuration.
type AuthConfig struct {
	JWTSecret     string        `yaml:"jwt_secret" env:"LABINV_JWT_SECRET, overwrite"`
	TokenTTLHours int           `yaml:"token_ttl_hours"`
	TokenTTL      time.Duration `yaml:"-"`
}

// ImportConfig holds settings shared by every import entry point.
type ImportConfig struct {
	// UploadDir receives uploaded files while they are being imported.
	UploadDir string `yaml:"upload_dir"`
}

// InboxConfig configures the drop-directory watcher.
type InboxConfig struct {
	Enabled         bool          `yaml:"enabled"`
	Dir             string        `yaml:"dir"`
	ProcessedDir    string        `yaml:"processed_dir"`
	FailedDir       string        `yaml:"failed_dir"`
	IntervalSeconds int           `yaml:"interval_seconds"`
	Interval        time.Duration `yaml:"-"` // Ignored by YAML parser
	Rules           []InboxRule   `yaml:"rules"`
}

// InboxRule maps a file name glob to an import layout.
type InboxRule struct {
	Pattern string `yaml:"pattern"`
	Layout  string `yaml:"layout"`
}

// Load reads the configuration from the given path and applies
// environment overrides.
func Load(ctx context.Context, path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 60
	}
	if cfg.Server.MaxUploadMB <= 0 {
		cfg.Server.MaxUploadMB = 20
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}

	if cfg.Auth.TokenTTLHours <= 0 {
		cfg.Auth.TokenTTLHours = 7 * 24
	}
	cfg.Auth.TokenTTL = time.Duration(cfg.Auth.TokenTTLHours) * time.Hour
	if cfg.Auth.JWTSecret == "" {
		log.Warn().Msg("auth.jwt_secret is not set; protected routes will reject every token")
	}

	if cfg.Import.UploadDir == "" {
		cfg.Import.UploadDir = os.TempDir()
	}

	if cfg.Inbox.IntervalSeconds <= 0 {
		cfg.Inbox.IntervalSeconds = 60
	}
	cfg.Inbox.Interval = time.Duration(cfg.Inbox.IntervalSeconds) * time.Second
}
