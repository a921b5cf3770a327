// Package testutil provides shared test fixtures, primarily an in-memory
// database with migrations applied and cleanup registered.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/clearcost/billaudit/internal/model"
	"github.com/clearcost/billaudit/internal/storage"
)

// SetupTestDB creates a new in-memory SQLite store with all migrations
// applied. Cleanup is registered on t.
func SetupTestDB(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// AuditFixture returns a minimal valid audit record for storage tests.
func AuditFixture(id, fingerprint string) *model.AuditRecord {
	return &model.AuditRecord{
		ID:           id,
		CreatedAt:    time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		Filename:     "bill.pdf",
		RawText:      "CITY HOSPITAL\n99213\nTOTAL: $500.00",
		RedactedText: "CITY HOSPITAL\n99213\nTOTAL: $500.00",
		Fingerprint:  fingerprint,
		Status:       model.StatusClean,
		Facts: model.ExtractedFacts{
			ProviderName:   "CITY HOSPITAL",
			ProcedureCodes: []string{"99213"},
		},
		PresumptiveTotal: 500,
	}
}
