package config_test

import (
	"path/filepath"
	"testing"

	"github.com/gnames/gnrecon/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs(t *testing.T) {
	tempHome := t.TempDir()

	tests := []struct {
		msg string
		fn  func(string) string
		res string
	}{
		{
			msg: "config dir",
			fn:  config.ConfigDir,
			res: filepath.Join(tempHome, ".config", "gnrecon"),
		},
		{
			msg: "cache dir",
			fn:  config.CacheDir,
			res: filepath.Join(tempHome, ".cache", "gnrecon"),
		},
		{
			msg: "authority cache dir",
			fn:  config.AuthorityCacheDir,
			res: filepath.Join(
				tempHome, ".cache", "gnrecon", "authority"),
		},
		{
			msg: "rejects file",
			fn:  config.RejectsFilePath,
			res: filepath.Join(
				tempHome, ".cache", "gnrecon", "rejects.sqlite"),
		},
		{
			msg: "config file",
			fn:  config.ConfigFilePath,
			res: filepath.Join(
				tempHome, ".config", "gnrecon", "gnrecon.yaml"),
		},
		{
			msg: "batches file",
			fn:  config.BatchesFilePath,
			res: filepath.Join(
				tempHome, ".config", "gnrecon", "batches.yaml"),
		},
	}

	for _, v := range tests {
		assert.Equal(t, v.res, v.fn(tempHome), v.msg)
	}
}

func TestNew(t *testing.T) {
	cfg := config.New()
	require.NotNil(t, cfg)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "gnrecon", cfg.Database.Database)
	assert.Equal(t, "disable", cfg.Database.SSLMode)

	assert.Equal(t, "https://api.gbif.org/v1", cfg.Authority.BaseURL)
	assert.Equal(t, 30, cfg.Authority.TimeoutSec)
	assert.Equal(t, 200, cfg.Authority.DelayMs)
	assert.True(t, cfg.Authority.WithCache)

	assert.Equal(t, 8, cfg.Reconcile.PassBudget)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Positive(t, cfg.JobsNumber)
}

func TestUpdate(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptDatabaseHost("db.example.org"),
		config.OptAuthorityDelayMs(0),
		config.OptReconcilePassBudget(12),
		config.OptLogFormat("json"),
	})

	assert.Equal(t, "db.example.org", cfg.Database.Host)
	assert.Zero(t, cfg.Authority.DelayMs)
	assert.Equal(t, 12, cfg.Reconcile.PassBudget)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestUpdateRejectsInvalid(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptDatabaseHost("  "),
		config.OptDatabasePort(-1),
		config.OptAuthorityDelayMs(-5),
		config.OptLogLevel("loud"),
		config.OptDatabaseSSLMode("maybe"),
	})

	// Invalid values are ignored; the defaults survive.
	def := config.New()
	assert.Equal(t, def.Database.Host, cfg.Database.Host)
	assert.Equal(t, def.Database.Port, cfg.Database.Port)
	assert.Equal(t, def.Authority.DelayMs, cfg.Authority.DelayMs)
	assert.Equal(t, def.Log.Level, cfg.Log.Level)
	assert.Equal(t, def.Database.SSLMode, cfg.Database.SSLMode)
}

func TestToOptionsRoundTrip(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptDatabaseHost("db.example.org"),
		config.OptAuthorityBaseURL("https://authority.example.org/v2/"),
		config.OptAuthorityDelayMs(500),
		config.OptReconcilePassBudget(10),
	})

	restored := config.New()
	restored.Update(cfg.ToOptions())

	assert.Equal(t, cfg.Database, restored.Database)
	assert.Equal(t, cfg.Authority, restored.Authority)
	assert.Equal(t, cfg.Reconcile, restored.Reconcile)
	assert.Equal(t, cfg.Log, restored.Log)

	// The trailing slash is normalized away.
	assert.Equal(t,
		"https://authority.example.org/v2", restored.Authority.BaseURL)
}
