package cmd

import (
	"database/sql"
	"fmt"

	"github.com/mpetrov/retaildwh/internal/config"
	"github.com/mpetrov/retaildwh/internal/database"
	"github.com/mpetrov/retaildwh/internal/etl"
	"github.com/spf13/cobra"
)

var etlCmd = &cobra.Command{
	Use:   "etl",
	Short: "Extract the transactional store and load the star schema",
	Long: `Extracts the denormalized order rowset from the transactional store,
computes the derived measures, and loads the warehouse dimensions
(customer, product, time, order) and facts (sales, payment).

All warehouse writes run in one transaction: a failed run commits
nothing. Every insert is keyed on its business key and skips rows that
already exist, so the command can be rerun safely.`,
	RunE: runETL,
}

func init() {
	rootCmd.AddCommand(etlCmd)
}

func runETL(cmd *cobra.Command, args []string) error {
	fmt.Println("🏗️  Building the star schema from the transactional store...")

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := newPhaseLogger("etl")
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	source, err := database.NewConnection(&cfg.Source)
	if err != nil {
		return fmt.Errorf("failed to connect to source store: %w", err)
	}
	defer source.Close()

	warehouse, err := database.NewConnection(&cfg.Warehouse)
	if err != nil {
		return fmt.Errorf("failed to connect to warehouse store: %w", err)
	}
	defer warehouse.Close()

	fmt.Println("🔍 Extracting sales records...")
	extractor := etl.NewExtractor(source, logger)
	records, err := extractor.Extract()
	if err != nil {
		return err
	}
	records = etl.Transform(records)
	fmt.Printf("   %d line records extracted\n", len(records))

	err = warehouse.WithTx(func(tx *sql.Tx) error {
		loader := etl.NewLoader(source, tx, logger)

		fmt.Println("📐 Loading dimensions...")
		if err := loader.LoadDimensions(); err != nil {
			return err
		}

		fmt.Println("📊 Loading sales facts...")
		if err := loader.LoadFacts(records); err != nil {
			return err
		}

		fmt.Println("💳 Loading payment facts...")
		return loader.LoadPayments()
	})
	if err != nil {
		return fmt.Errorf("etl aborted, nothing committed: %w", err)
	}

	fmt.Println("✅ Warehouse load complete!")
	return nil
}
