package cmd

import (
	"database/sql"
	"fmt"

	"github.com/mpetrov/retaildwh/internal/config"
	"github.com/mpetrov/retaildwh/internal/database"
	"github.com/mpetrov/retaildwh/internal/ingest"
	"github.com/spf13/cobra"
)

var (
	customersFile string
	productsFile  string
	ordersFile    string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load the CSV feeds into the transactional schema",
	Long: `Loads the customer, product and order CSV feeds into the normalized
transactional schema, resolving natural keys (country, city, address,
supplier, category) to surrogate ids before each insert.

All inserts run in one transaction: a failed run commits nothing. Ingest
is append-only and runs once per dataset; rerunning it against an
already-populated store fails on primary key constraints.`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVar(&customersFile, "customers", "", "Customer feed path (overrides config)")
	ingestCmd.Flags().StringVar(&productsFile, "products", "", "Product feed path (overrides config)")
	ingestCmd.Flags().StringVar(&ordersFile, "orders", "", "Order feed path (overrides config)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	fmt.Println("📥 Ingesting CSV feeds into the transactional store...")

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if customersFile != "" {
		cfg.Ingest.CustomersFile = customersFile
	}
	if productsFile != "" {
		cfg.Ingest.ProductsFile = productsFile
	}
	if ordersFile != "" {
		cfg.Ingest.OrdersFile = ordersFile
	}

	logger, err := newPhaseLogger("ingest")
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.NewConnection(&cfg.Source)
	if err != nil {
		return fmt.Errorf("failed to connect to source store: %w", err)
	}
	defer db.Close()

	fmt.Println("📄 Reading CSV feeds...")
	customers, err := ingest.ReadFile(cfg.Ingest.CustomersFile)
	if err != nil {
		return fmt.Errorf("failed to read customer feed: %w", err)
	}
	products, err := ingest.ReadFile(cfg.Ingest.ProductsFile)
	if err != nil {
		return fmt.Errorf("failed to read product feed: %w", err)
	}
	orders, err := ingest.ReadFile(cfg.Ingest.OrdersFile)
	if err != nil {
		return fmt.Errorf("failed to read order feed: %w", err)
	}
	fmt.Printf("   %d customer, %d product, %d order rows\n",
		len(customers), len(products), len(orders))

	err = db.WithTx(func(tx *sql.Tx) error {
		resolver := ingest.NewResolver(tx, logger)
		loader := ingest.NewLoader(tx, resolver, logger)

		fmt.Println("👥 Loading customers...")
		if err := loader.LoadCustomers(customers); err != nil {
			return err
		}

		fmt.Println("📦 Loading products...")
		if err := loader.LoadProducts(products); err != nil {
			return err
		}

		fmt.Println("🛒 Loading orders...")
		return loader.LoadOrders(orders)
	})
	if err != nil {
		return fmt.Errorf("ingest aborted, nothing committed: %w", err)
	}

	fmt.Println("✅ Ingest complete!")
	return nil
}
