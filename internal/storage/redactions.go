package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/clearcost/billaudit/internal/model"
)

// SaveRedactionEntry appends one redaction audit entry. Entries are
// append-only: an existing identity is never overwritten.
func (s *SQLiteStorage) SaveRedactionEntry(ctx context.Context, entry *model.RedactionAuditEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRedactionEntry(entry); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapWrite("save redaction entry", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.saveRedactionEntryTx(ctx, tx, entry); err != nil {
		return wrapWrite("save redaction entry", err)
	}

	return wrapWrite("save redaction entry", tx.Commit())
}

func (s *SQLiteStorage) saveRedactionEntryTx(ctx context.Context, tx *sql.Tx, entry *model.RedactionAuditEntry) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO redaction_entries (
			id, audit_id, created_at, expires_at, retention_basis, redaction_count
		) VALUES (?, ?, ?, ?, ?, ?)
	`,
		entry.ID,
		entry.AuditID,
		entry.CreatedAt,
		entry.ExpiresAt,
		entry.RetentionBasis,
		entry.RedactionCount,
	)
	if err != nil {
		return fmt.Errorf("failed to save redaction entry: %w", err)
	}
	return nil
}

// GetRedactionEntriesByAudit returns every redaction audit entry for the
// given parent audit, oldest first, via the parent-audit index. An audit
// with no entries yields an empty slice, not an error.
func (s *SQLiteStorage) GetRedactionEntriesByAudit(ctx context.Context, auditID string) ([]model.RedactionAuditEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(auditID, "auditID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, audit_id, created_at, expires_at, retention_basis, redaction_count
		FROM redaction_entries
		WHERE audit_id = ?
		ORDER BY created_at ASC, rowid ASC
	`, auditID)
	if err != nil {
		return nil, fmt.Errorf("failed to query redaction entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.RedactionAuditEntry
	for rows.Next() {
		var entry model.RedactionAuditEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.AuditID,
			&entry.CreatedAt,
			&entry.ExpiresAt,
			&entry.RetentionBasis,
			&entry.RedactionCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan redaction entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
