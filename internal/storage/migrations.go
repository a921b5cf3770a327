package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a fatal
// error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration. Migrations are additive
// only: a later version never deletes a prior collection.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Audit records with fingerprint index",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS audit_records (
					id TEXT PRIMARY KEY,
					created_at DATETIME NOT NULL,
					filename TEXT NOT NULL,
					raw_text TEXT NOT NULL,
					redacted_text TEXT NOT NULL,
					presumptive_total REAL NOT NULL DEFAULT 0,
					facts TEXT NOT NULL,
					overcharges TEXT,
					flags TEXT,
					status TEXT NOT NULL,
					fingerprint TEXT
				)`,
				`CREATE INDEX idx_audit_records_fingerprint ON audit_records(fingerprint)`,
				`CREATE INDEX idx_audit_records_created ON audit_records(created_at)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Filing records with carrier index",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS filing_records (
					id TEXT PRIMARY KEY,
					created_at DATETIME NOT NULL,
					filename TEXT NOT NULL,
					kind TEXT NOT NULL,
					status TEXT NOT NULL,
					carrier TEXT NOT NULL,
					plan_year TEXT NOT NULL,
					rate_hike TEXT NOT NULL,
					actuarial_value TEXT NOT NULL,
					mlr TEXT NOT NULL,
					region_prices TEXT,
					summary TEXT,
					flags TEXT
				)`,
				`CREATE INDEX idx_filing_records_carrier ON filing_records(carrier)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Append-only redaction audit trail with parent-audit index",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS redaction_entries (
					id TEXT PRIMARY KEY,
					audit_id TEXT NOT NULL,
					created_at DATETIME NOT NULL,
					expires_at DATETIME NOT NULL,
					retention_basis TEXT NOT NULL,
					redaction_count INTEGER NOT NULL DEFAULT 0,
					FOREIGN KEY (audit_id) REFERENCES audit_records(id)
				)`,
				`CREATE INDEX idx_redaction_entries_audit_id ON redaction_entries(audit_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

// Migrate runs all pending migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	// Create migrations table if it doesn't exist
	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	current, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Version <= current {
			continue
		}

		slog.Info("Applying migration",
			"version", migration.Version,
			"description", migration.Description)

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration transaction: %w", err)
		}

		if err := migration.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if _, err := tx.Exec(
			`INSERT INTO schema_migrations (version, description) VALUES (?, ?)`,
			migration.Version, migration.Description,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// SchemaVersion returns the highest applied migration version, 0 when the
// database is fresh.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	var version sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(version) FROM schema_migrations`,
	).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	if !version.Valid {
		return 0, nil
	}
	return int(version.Int64), nil
}
