package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptAuthorityBaseURL sets the root URL of the taxonomy authority API.
func OptAuthorityBaseURL(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "/")
	return func(c *Config) {
		if isValidString("Authority BaseURL", s) {
			c.Authority.BaseURL = s
		}
	}
}

// OptAuthorityTimeoutSec bounds a single authority request in seconds.
func OptAuthorityTimeoutSec(i int) Option {
	return func(c *Config) {
		if isValidInt("Authority Timeout", i) {
			c.Authority.TimeoutSec = i
		}
	}
}

// OptAuthorityDelayMs sets the pause between authority calls in
// milliseconds. Zero disables throttling.
func OptAuthorityDelayMs(i int) Option {
	return func(c *Config) {
		if i >= 0 {
			c.Authority.DelayMs = i
		}
	}
}

// OptAuthorityWithCache toggles the on-disk authority response cache.
func OptAuthorityWithCache(b bool) Option {
	return func(c *Config) {
		c.Authority.WithCache = b
	}
}

// OptReconcilePassBudget bounds the number of reconciliation passes.
func OptReconcilePassBudget(i int) Option {
	return func(c *Config) {
		if isValidInt("Reconcile PassBudget", i) {
			c.Reconcile.PassBudget = i
		}
	}
}

// OptLogFormat sets the log output format ('json' or 'text').
func OptLogFormat(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogLevel sets the log level.
func OptLogLevel(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptJobsNumber sets the number of concurrent parse workers.
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config, cache and rejects
// paths. Runtime-only field, set once by the CLI.
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
