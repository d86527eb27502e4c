// Package ioconfig loads configuration from gnrecon.yaml, environment
// variables and flags. Precedence: flags > env vars > file > defaults.
package ioconfig

import (
	"os"
	"strings"

	"github.com/gnames/gnrecon/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// LoadResult is the loaded configuration with its source metadata,
// used by the CLI to tell the operator where settings came from.
type LoadResult struct {
	Config     *config.Config
	SourcePath string
	Source     string // "file", "defaults", or "defaults+env"
}

// Load reads configuration. An empty configPath falls back to
// ~/.config/gnrecon/gnrecon.yaml, and when that does not exist either,
// to defaults plus environment overrides.
func Load(configPath, homeDir string) (*LoadResult, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetEnvPrefix("GNRECON")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Defaults go in before reading: AutomaticEnv only consults env
	// vars for keys viper already knows about.
	defaults := config.Defaults()
	v.SetDefault("database.host", defaults.Database.Host)
	v.SetDefault("database.port", defaults.Database.Port)
	v.SetDefault("database.user", defaults.Database.User)
	v.SetDefault("database.password", defaults.Database.Password)
	v.SetDefault("database.database", defaults.Database.Database)
	v.SetDefault("database.ssl_mode", defaults.Database.SSLMode)
	v.SetDefault("authority.base_url", defaults.Authority.BaseURL)
	v.SetDefault("authority.timeout_sec", defaults.Authority.TimeoutSec)
	v.SetDefault("authority.delay_ms", defaults.Authority.DelayMs)
	v.SetDefault("authority.with_cache", defaults.Authority.WithCache)
	v.SetDefault("reconcile.pass_budget", defaults.Reconcile.PassBudget)
	v.SetDefault("log.format", defaults.Log.Format)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("jobs_number", defaults.JobsNumber)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		defaultPath := config.ConfigFilePath(homeDir)
		if _, err := os.Stat(defaultPath); err == nil {
			v.SetConfigFile(defaultPath)
		}
	}

	fileRead := false
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if configPath != "" {
				return nil, readError(configPath, err)
			}
		}
	} else {
		fileRead = true
	}

	var fileCfg config.Config
	if err := v.Unmarshal(&fileCfg); err != nil {
		return nil, unmarshalError(v.ConfigFileUsed(), err)
	}

	// Route everything through Options so invalid values degrade to
	// defaults with a warning instead of poisoning the config.
	cfg := config.New()
	cfg.Update(fileCfg.ToOptions())
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	source := "defaults"
	switch {
	case fileRead:
		source = "file"
	case hasEnvVars():
		source = "defaults+env"
	}

	return &LoadResult{
		Config:     cfg,
		SourcePath: v.ConfigFileUsed(),
		Source:     source,
	}, nil
}

func hasEnvVars() bool {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "GNRECON_") {
			return true
		}
	}
	return false
}

// BindFlags overrides config values from explicitly-set CLI flags.
func BindFlags(cmd *cobra.Command, cfg *config.Config) error {
	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return bindError(err)
	}

	var opts []config.Option
	if v.IsSet("host") {
		opts = append(opts, config.OptDatabaseHost(v.GetString("host")))
	}
	if v.IsSet("port") {
		opts = append(opts, config.OptDatabasePort(v.GetInt("port")))
	}
	if v.IsSet("user") {
		opts = append(opts, config.OptDatabaseUser(v.GetString("user")))
	}
	if v.IsSet("password") {
		opts = append(opts,
			config.OptDatabasePassword(v.GetString("password")))
	}
	if v.IsSet("database") {
		opts = append(opts,
			config.OptDatabaseDatabase(v.GetString("database")))
	}
	if v.IsSet("delay") {
		opts = append(opts, config.OptAuthorityDelayMs(v.GetInt("delay")))
	}
	if v.IsSet("passes") {
		opts = append(opts,
			config.OptReconcilePassBudget(v.GetInt("passes")))
	}
	if v.IsSet("jobs") {
		opts = append(opts, config.OptJobsNumber(v.GetInt("jobs")))
	}
	cfg.Update(opts)
	return nil
}
