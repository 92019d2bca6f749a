package logging

import (
	"go.uber.org/zap"
)

// New builds the pipeline logger. Structured logs go to stderr so they do
// not mix with the CLI progress output on stdout.
func New() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}
