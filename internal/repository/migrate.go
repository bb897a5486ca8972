package repository

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
)

//go:embed schema.sql
var schemaSQL string

// Migrate creates any missing tables and indexes. It is safe to run on every boot.
func Migrate(ctx context.Context, db DBTX, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		logger.Error("schema migration failed", slog.String("error", err.Error()))
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	logger.Info("schema up to date")
	return nil
}
