package model

import "time"

// RetentionBasisHIPAA is the regulatory basis recorded on redaction audit
// entries. HIPAA documentation must be retained for six years.
const RetentionBasisHIPAA = "45 CFR 164.316(b)(2)(i)"

// RetentionPeriod is how long a redaction audit entry must be kept.
const RetentionPeriod = 6 * 365 * 24 * time.Hour

// RedactionAuditEntry proves a redaction pass occurred for an audit record.
// Entries are append-only: never mutated, deleted only as a cascade when the
// parent audit record is deleted.
type RedactionAuditEntry struct {
	CreatedAt      time.Time
	ExpiresAt      time.Time
	ID             string
	AuditID        string
	RetentionBasis string
	RedactionCount int
}

// NewRedactionAuditEntry builds an entry for the given parent audit with the
// standard retention window.
func NewRedactionAuditEntry(id, auditID string, count int, now time.Time) RedactionAuditEntry {
	return RedactionAuditEntry{
		ID:             id,
		AuditID:        auditID,
		CreatedAt:      now,
		ExpiresAt:      now.Add(RetentionPeriod),
		RetentionBasis: RetentionBasisHIPAA,
		RedactionCount: count,
	}
}
