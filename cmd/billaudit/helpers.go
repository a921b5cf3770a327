package main

import (
	"context"
	"fmt"

	"github.com/clearcost/billaudit/internal/audit"
	"github.com/clearcost/billaudit/internal/config"
	"github.com/clearcost/billaudit/internal/doctext"
	"github.com/clearcost/billaudit/internal/storage"
)

// openStorage opens the configured database with migrations applied. The
// caller owns Close.
func openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath, err := config.DBPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database path: %w", err)
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// newAuditor builds the analysis pipeline over the given store.
func newAuditor(store *storage.SQLiteStorage) (*audit.Auditor, error) {
	auditor, err := audit.New(store, doctext.NewFileExtractor())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize analysis pipeline: %w", err)
	}
	return auditor, nil
}
