package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/mpetrov/retaildwh/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Retail DWH Pipeline - batch OLTP ingest and star-schema load",
	Long: `Retail DWH Pipeline loads raw operational CSV feeds into a normalized
transactional schema and extracts that schema into a dimensional star
schema for reporting.

The two phases run as independent batch commands: 'ingest' populates the
transactional store from the CSV feeds, 'etl' builds the warehouse
dimensions and facts from the transactional store.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newPhaseLogger builds the structured logger for one batch phase, tagged
// with a fresh run id.
func newPhaseLogger(phase string) (*zap.Logger, error) {
	logger, err := logging.New()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger.With(
		zap.String("run_id", uuid.NewString()),
		zap.String("phase", phase),
	), nil
}
