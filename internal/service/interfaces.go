// Package service defines the interfaces between the analysis pipeline and
// its collaborators.
package service

import (
	"context"

	"github.com/clearcost/billaudit/internal/model"
)

// Storage is the record store: three independent collections (audit
// records, filing records, redaction audit entries) behind a local keyed
// store.
//
// Lookup methods return common.ErrNotFound for absence; absence is an
// explicit result, never a panic or a silent nil. Concurrent puts with
// distinct identities are safe; the same key follows last-writer-wins.
type Storage interface {
	// Audit record operations.
	SaveAudit(ctx context.Context, record *model.AuditRecord) error
	// SaveAuditWithRedaction commits an audit record and its redaction
	// audit entry in one transaction, so a record is never persisted
	// without its redaction trail.
	SaveAuditWithRedaction(ctx context.Context, record *model.AuditRecord, entry *model.RedactionAuditEntry) error
	GetAudit(ctx context.Context, id string) (*model.AuditRecord, error)
	ListAudits(ctx context.Context) ([]model.AuditRecord, error)
	// FindAuditByFingerprint scans for a record with the given content
	// fingerprint, returning the first-stored match.
	FindAuditByFingerprint(ctx context.Context, fingerprint string) (*model.AuditRecord, error)
	// DeleteAudit removes the record and cascades over every redaction
	// audit entry referencing it, all-or-nothing.
	DeleteAudit(ctx context.Context, id string) error

	// Filing record operations.
	SaveFiling(ctx context.Context, record *model.FilingRecord) error
	GetFiling(ctx context.Context, id string) (*model.FilingRecord, error)
	ListFilings(ctx context.Context) ([]model.FilingRecord, error)
	FindFilingsByCarrier(ctx context.Context, carrier string) ([]model.FilingRecord, error)

	// Redaction audit trail. Entries are append-only.
	SaveRedactionEntry(ctx context.Context, entry *model.RedactionAuditEntry) error
	GetRedactionEntriesByAudit(ctx context.Context, auditID string) ([]model.RedactionAuditEntry, error)

	// ClearAll empties all three collections atomically.
	ClearAll(ctx context.Context) error

	// Database management.
	Migrate(ctx context.Context) error
	Close() error
}
