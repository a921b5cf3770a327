package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/clearcost/billaudit/internal/common"
	"github.com/clearcost/billaudit/internal/model"
)

// SaveAudit upserts an audit record by identity.
func (s *SQLiteStorage) SaveAudit(ctx context.Context, record *model.AuditRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAudit(record); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapWrite("save audit", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.saveAuditTx(ctx, tx, record); err != nil {
		return wrapWrite("save audit", err)
	}

	return wrapWrite("save audit", tx.Commit())
}

// SaveAuditWithRedaction commits the audit record and its redaction audit
// entry in a single transaction. Either both land or neither does, so no
// stored record ever lacks its redaction trail.
func (s *SQLiteStorage) SaveAuditWithRedaction(ctx context.Context, record *model.AuditRecord, entry *model.RedactionAuditEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAudit(record); err != nil {
		return err
	}
	if err := validateRedactionEntry(entry); err != nil {
		return err
	}
	if entry.AuditID != record.ID {
		return fmt.Errorf("redaction entry references audit %q, expected %q", entry.AuditID, record.ID)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapWrite("save audit with redaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.saveAuditTx(ctx, tx, record); err != nil {
		return wrapWrite("save audit with redaction", err)
	}
	if err := s.saveRedactionEntryTx(ctx, tx, entry); err != nil {
		return wrapWrite("save audit with redaction", err)
	}

	return wrapWrite("save audit with redaction", tx.Commit())
}

func (s *SQLiteStorage) saveAuditTx(ctx context.Context, tx *sql.Tx, record *model.AuditRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	facts, err := json.Marshal(record.Facts)
	if err != nil {
		return fmt.Errorf("failed to encode facts: %w", err)
	}
	overcharges, err := json.Marshal(record.Overcharges)
	if err != nil {
		return fmt.Errorf("failed to encode overcharges: %w", err)
	}
	flags, err := json.Marshal(record.Flags)
	if err != nil {
		return fmt.Errorf("failed to encode flags: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO audit_records (
			id, created_at, filename, raw_text, redacted_text,
			presumptive_total, facts, overcharges, flags, status, fingerprint
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			created_at = excluded.created_at,
			filename = excluded.filename,
			raw_text = excluded.raw_text,
			redacted_text = excluded.redacted_text,
			presumptive_total = excluded.presumptive_total,
			facts = excluded.facts,
			overcharges = excluded.overcharges,
			flags = excluded.flags,
			status = excluded.status,
			fingerprint = excluded.fingerprint
	`,
		record.ID,
		record.CreatedAt,
		record.Filename,
		record.RawText,
		record.RedactedText,
		record.PresumptiveTotal,
		string(facts),
		string(overcharges),
		string(flags),
		string(record.Status),
		record.Fingerprint,
	)
	if err != nil {
		return fmt.Errorf("failed to save audit record: %w", err)
	}
	return nil
}

// GetAudit returns the audit record with the given identity, or
// common.ErrNotFound when absent.
func (s *SQLiteStorage) GetAudit(ctx context.Context, id string) (*model.AuditRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, auditSelectColumns+` WHERE id = ?`, id)
	return scanAudit(row)
}

// ListAudits returns every audit record, newest first.
func (s *SQLiteStorage) ListAudits(ctx context.Context) ([]model.AuditRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, auditSelectColumns+` ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.AuditRecord
	for rows.Next() {
		record, err := scanAudit(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

// FindAuditByFingerprint scans for a record carrying the given content
// fingerprint and returns the first-stored match, or common.ErrNotFound.
// Used to detect duplicate uploads of the same document.
func (s *SQLiteStorage) FindAuditByFingerprint(ctx context.Context, fingerprint string) (*model.AuditRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(fingerprint, "fingerprint"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		auditSelectColumns+` WHERE fingerprint = ? ORDER BY created_at ASC, rowid ASC LIMIT 1`,
		fingerprint,
	)
	return scanAudit(row)
}

// DeleteAudit removes an audit record and cascades deletion of every
// redaction audit entry referencing it through the parent-audit index. The
// whole delete is one transaction: partial failure never leaves an orphaned
// record or orphaned entries.
func (s *SQLiteStorage) DeleteAudit(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapWrite("delete audit", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM redaction_entries WHERE audit_id = ?`, id,
	); err != nil {
		return wrapWrite("delete audit", fmt.Errorf("failed to delete redaction entries: %w", err))
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM audit_records WHERE id = ?`, id)
	if err != nil {
		return wrapWrite("delete audit", fmt.Errorf("failed to delete audit record: %w", err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return wrapWrite("delete audit", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return wrapWrite("delete audit", tx.Commit())
}

const auditSelectColumns = `
	SELECT id, created_at, filename, raw_text, redacted_text,
	       presumptive_total, facts, overcharges, flags, status, fingerprint
	FROM audit_records`

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAudit(row rowScanner) (*model.AuditRecord, error) {
	var (
		record      model.AuditRecord
		status      string
		facts       string
		overcharges sql.NullString
		flags       sql.NullString
		fingerprint sql.NullString
	)

	err := row.Scan(
		&record.ID,
		&record.CreatedAt,
		&record.Filename,
		&record.RawText,
		&record.RedactedText,
		&record.PresumptiveTotal,
		&facts,
		&overcharges,
		&flags,
		&status,
		&fingerprint,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan audit record: %w", err)
	}

	record.Status = model.AuditStatus(status)
	record.Fingerprint = fingerprint.String

	if err := json.Unmarshal([]byte(facts), &record.Facts); err != nil {
		return nil, fmt.Errorf("failed to decode facts: %w", err)
	}
	if overcharges.Valid && overcharges.String != "" {
		if err := json.Unmarshal([]byte(overcharges.String), &record.Overcharges); err != nil {
			return nil, fmt.Errorf("failed to decode overcharges: %w", err)
		}
	}
	if flags.Valid && flags.String != "" {
		if err := json.Unmarshal([]byte(flags.String), &record.Flags); err != nil {
			return nil, fmt.Errorf("failed to decode flags: %w", err)
		}
	}

	return &record, nil
}
