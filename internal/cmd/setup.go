package cmd

import (
	"fmt"

	"github.com/mpetrov/retaildwh/internal/config"
	"github.com/mpetrov/retaildwh/internal/database"
	"github.com/spf13/cobra"
)

var (
	dropFirst     bool
	sourceOnly    bool
	warehouseOnly bool
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the transactional and star schemas",
	Long: `Creates the transactional (source) tables and the star-schema
(warehouse) tables in their respective stores.

Safe to rerun: tables are created with IF NOT EXISTS. Use --drop-first
to start from empty stores.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)

	setupCmd.Flags().BoolVar(&dropFirst, "drop-first", false, "Drop existing tables before creating")
	setupCmd.Flags().BoolVar(&sourceOnly, "source-only", false, "Set up the transactional schema only")
	setupCmd.Flags().BoolVar(&warehouseOnly, "warehouse-only", false, "Set up the star schema only")
}

func runSetup(cmd *cobra.Command, args []string) error {
	if sourceOnly && warehouseOnly {
		return fmt.Errorf("--source-only and --warehouse-only are mutually exclusive")
	}

	fmt.Println("🔧 Setting up pipeline schemas...")

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if !warehouseOnly {
		source, err := database.NewConnection(&cfg.Source)
		if err != nil {
			return fmt.Errorf("failed to connect to source store: %w", err)
		}
		defer source.Close()

		if dropFirst {
			fmt.Println("🗑️  Dropping transactional tables...")
			if err := source.DropSourceSchema(); err != nil {
				return fmt.Errorf("failed to drop source schema: %w", err)
			}
		}

		fmt.Println("📋 Creating transactional schema...")
		if err := source.SetupSourceSchema(); err != nil {
			return fmt.Errorf("failed to set up source schema: %w", err)
		}
	}

	if !sourceOnly {
		warehouse, err := database.NewConnection(&cfg.Warehouse)
		if err != nil {
			return fmt.Errorf("failed to connect to warehouse store: %w", err)
		}
		defer warehouse.Close()

		if dropFirst {
			fmt.Println("🗑️  Dropping star-schema tables...")
			if err := warehouse.DropWarehouseSchema(); err != nil {
				return fmt.Errorf("failed to drop warehouse schema: %w", err)
			}
		}

		fmt.Println("📋 Creating star schema...")
		if err := warehouse.SetupWarehouseSchema(); err != nil {
			return fmt.Errorf("failed to set up warehouse schema: %w", err)
		}
	}

	fmt.Println("✅ Schema setup complete!")
	return nil
}
