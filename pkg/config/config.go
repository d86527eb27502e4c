// Package config provides configuration management for GNrecon.
//
// This package has no I/O dependencies (no file operations, no network
// calls). Validation functions may write user-facing warnings via
// gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > gnrecon.yaml >
// defaults.
//
// # Design Principles
//
//   - Default config (from New()) is always valid - no validation needed
//   - All mutations go through Option functions - the only way to modify
//     Config
//   - Invalid options are rejected with gn.Warn() - config remains in a
//     valid state
//   - ToOptions() converts persistent fields (those in gnrecon.yaml)
//
// # Environment Variables
//
// Use GNRECON_ prefix with underscores for nesting:
//
//	GNRECON_DATABASE_HOST=localhost
//	GNRECON_AUTHORITY_BASE_URL=https://api.gbif.org/v1
//	GNRECON_RECONCILE_PASS_BUDGET=8
package config

import (
	"runtime"
)

// Config represents the complete GNrecon configuration.
type Config struct {
	// Database contains PostgreSQL connection settings.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Authority contains settings for the external taxonomy authority.
	Authority AuthorityConfig `mapstructure:"authority" yaml:"authority"`

	// Reconcile contains settings specific to the reconcile command.
	Reconcile ReconcileConfig `mapstructure:"reconcile" yaml:"reconcile"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers for the parse
	// stage of ingestion. Authority and store traffic stays serial
	// regardless of this setting.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, cache and rejects directories
	// reside. It must be set by the CLI during init, there is no
	// default value for it.
	HomeDir string
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`
}

// AuthorityConfig contains settings for the external taxonomy
// authority HTTP API.
type AuthorityConfig struct {
	// BaseURL is the root of the authority API.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// TimeoutSec bounds a single authority request.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`

	// DelayMs is the pause inserted between consecutive authority
	// calls. The authority applies undocumented adaptive rate limits,
	// so this stays operator-tunable.
	DelayMs int `mapstructure:"delay_ms" yaml:"delay_ms"`

	// WithCache enables the on-disk cache of by-identifier responses.
	WithCache bool `mapstructure:"with_cache" yaml:"with_cache"`
}

// ReconcileConfig contains settings specific to the reconcile command.
type ReconcileConfig struct {
	// PassBudget bounds the number of dangling-reference passes before
	// the run is reported as non-converged. The rank hierarchy is
	// eight levels deep, so eight passes reach closure from a fresh
	// batch in the worst case.
	PassBudget int `mapstructure:"pass_budget" yaml:"pass_budget"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json' or 'text'.
	Format string `mapstructure:"format" yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level" yaml:"level"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			Database: "gnrecon",
			SSLMode:  "disable",
		},
		Authority: AuthorityConfig{
			BaseURL:    "https://api.gbif.org/v1",
			TimeoutSec: 30,
			DelayMs:    200,
			WithCache:  true,
		},
		Reconcile: ReconcileConfig{
			PassBudget: 8,
		},
		Log: LogConfig{
			Format: "text",
			Level:  "info",
		},
		JobsNumber: runtime.NumCPU(),
	}

	return res
}

// Defaults is an alias of New for call sites that read better with it.
func Defaults() *Config {
	return New()
}
