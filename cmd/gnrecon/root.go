package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gnames/gnrecon/internal/ioauthority"
	"github.com/gnames/gnrecon/internal/ioconfig"
	"github.com/gnames/gnrecon/internal/iodb"
	"github.com/gnames/gnrecon/pkg/authority"
	pkgconfig "github.com/gnames/gnrecon/pkg/config"
	"github.com/gnames/gnrecon/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *pkgconfig.Config
)

func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gnrecon",
		Short: "GNrecon reconciles checklists against the GBIF backbone",
		Long: `GNrecon maintains a regional taxon database whose parent, accepted
and rank references always resolve to primary records, ready for
name-indexer export.

The tool provides five main phases:
  - create:    create the database schema
  - ingest:    import checklist batches, resolving names at GBIF
  - reconcile: repair dangling references to referential closure
  - collapse:  resolve duplicate canonical names at a rank
  - export:    verify invariants and write the indexer file

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (GNRECON_*)
  3. Config file (gnrecon.yaml)
  4. Built-in defaults

Environment Variables:
  Nested fields use underscores (database.host → GNRECON_DATABASE_HOST).

  Examples:
    GNRECON_DATABASE_HOST           PostgreSQL host
    GNRECON_DATABASE_PASSWORD       PostgreSQL password
    GNRECON_AUTHORITY_BASE_URL      Authority API root
    GNRECON_AUTHORITY_DELAY_MS      Pause between authority calls
    GNRECON_RECONCILE_PASS_BUDGET   Max reconciliation passes
    GNRECON_LOG_LEVEL               Log level (debug/info/warn/error)`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("cannot determine home directory: %w", err)
			}

			// First run: seed documented config and manifest files.
			if cfgFile == "" {
				path := pkgconfig.ConfigFilePath(homeDir)
				if _, err := os.Stat(path); os.IsNotExist(err) {
					generated, err := ioconfig.GenerateDefaultFiles(homeDir)
					if err != nil {
						fmt.Printf(
							"Warning: could not generate config file: %v\n", err)
					} else {
						fmt.Printf("Generated default config at: %s\n", generated)
					}
				}
			}

			result, err := ioconfig.Load(cfgFile, homeDir)
			if err != nil {
				return err
			}
			cfg = result.Config
			if err := ioconfig.BindFlags(cmd, cfg); err != nil {
				return err
			}

			slog.SetDefault(logger.New(&cfg.Log))

			switch result.Source {
			case "file":
				fmt.Printf("Using config from: %s\n", result.SourcePath)
			case "defaults+env":
				fmt.Println("Using built-in defaults with environment overrides")
			case "defaults":
				fmt.Println("Using built-in defaults (no config file)")
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ~/.config/gnrecon/gnrecon.yaml)")

	// -V for version, consistent with other gn projects.
	rootCmd.Flags().BoolP("version", "V", false, "version for gnrecon")

	rootCmd.AddCommand(getCreateCmd())
	rootCmd.AddCommand(getIngestCmd())
	rootCmd.AddCommand(getReconcileCmd())
	rootCmd.AddCommand(getCollapseCmd())
	rootCmd.AddCommand(getExportCmd())

	return rootCmd
}

// getConfig returns the loaded configuration for subcommands.
func getConfig() *pkgconfig.Config {
	return cfg
}

// getClient builds the authority client, wrapping it with the badger
// response cache when enabled. The returned closer is non-nil only
// for the cached client.
func getClient(cfg *pkgconfig.Config) (authority.Client, io.Closer, error) {
	client := ioauthority.New(&cfg.Authority)
	if !cfg.Authority.WithCache {
		return client, nil, nil
	}
	cached, err := ioauthority.NewCached(
		client, pkgconfig.AuthorityCacheDir(cfg.HomeDir))
	if err != nil {
		return nil, nil, err
	}
	closer, _ := cached.(io.Closer)
	return cached, closer, nil
}

// connectOperator connects to PostgreSQL per the configuration.
func connectOperator(
	cmd *cobra.Command, cfg *pkgconfig.Config,
) (iodb.Operator, error) {
	op := iodb.NewOperator()
	if err := op.Connect(cmd.Context(), &cfg.Database); err != nil {
		return nil, err
	}
	fmt.Printf("Connected to database: %s@%s:%d/%s\n",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)
	return op, nil
}
