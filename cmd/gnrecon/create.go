package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/gnames/gnrecon/internal/ioschema"
	"github.com/spf13/cobra"
)

var forceCreate bool

func getCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create database schema",
		Long: `Create the GNrecon database schema from scratch.

This command:
  1. Connects to PostgreSQL using configuration settings
  2. Checks for existing tables and prompts for confirmation if found
  3. Creates all base tables using GORM AutoMigrate

Use --force to skip confirmation and drop existing tables automatically.

Examples:
  gnrecon create
  gnrecon create --force
  gnrecon create --config custom.yaml`,
		RunE: runCreate,
	}

	cmd.Flags().BoolVar(&forceCreate, "force", false,
		"drop existing tables before creating schema (destructive)")

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfig()

	op, err := connectOperator(cmd, cfg)
	if err != nil {
		return err
	}
	defer op.Close()

	hasTables, err := op.HasTables(ctx)
	if err != nil {
		return err
	}

	if hasTables {
		if !forceCreate {
			fmt.Println("\nWarning: database contains existing tables.")
			fmt.Println("Creating schema will drop ALL existing tables and data.")
			fmt.Print("\nDo you want to continue? (yes/no): ")

			reader := bufio.NewReader(os.Stdin)
			response, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read user input: %w", err)
			}
			response = strings.TrimSpace(strings.ToLower(response))
			if response != "yes" && response != "y" {
				fmt.Println("Aborted. No changes made to the database.")
				return nil
			}
		}
		fmt.Println("Dropping all existing tables...")
		if err := op.DropAllTables(ctx); err != nil {
			return err
		}
		fmt.Println("✓ All tables dropped")
	}

	sm := ioschema.NewManager(op)
	fmt.Println("Creating schema using GORM AutoMigrate...")
	if err := sm.Create(ctx); err != nil {
		return err
	}

	fmt.Println("\n✓ Database schema creation complete!")
	fmt.Println("\nNext steps:")
	fmt.Println("  - Run 'gnrecon ingest' to import checklist batches")
	fmt.Println("  - Run 'gnrecon reconcile' to reach referential closure")

	return nil
}
