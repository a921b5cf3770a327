package model

import (
	"testing"
	"time"
)

func TestComputeFingerprint(t *testing.T) {
	a := ComputeFingerprint([]byte("same bytes"))
	b := ComputeFingerprint([]byte("same bytes"))
	c := ComputeFingerprint([]byte("different bytes"))

	if a != b {
		t.Error("identical bytes must produce identical fingerprints")
	}
	if a == c {
		t.Error("different bytes must produce different fingerprints")
	}
	if len(a) != 64 {
		t.Errorf("fingerprint length = %d, want 64 hex characters", len(a))
	}
}

func TestDeriveStatus(t *testing.T) {
	if got := DeriveStatus(nil); got != StatusClean {
		t.Errorf("DeriveStatus(nil) = %q, want clean", got)
	}
	flags := []AuditFlag{{RuleID: "overcharge-risk", Severity: SeverityHigh}}
	if got := DeriveStatus(flags); got != StatusFlagged {
		t.Errorf("DeriveStatus(flags) = %q, want flagged", got)
	}
}

func TestHighestSeverity(t *testing.T) {
	tests := []struct {
		name  string
		flags []AuditFlag
		want  Severity
	}{
		{name: "none", flags: nil, want: ""},
		{
			name:  "single",
			flags: []AuditFlag{{Severity: SeverityLow}},
			want:  SeverityLow,
		},
		{
			name: "high wins regardless of order",
			flags: []AuditFlag{
				{Severity: SeverityMedium},
				{Severity: SeverityHigh},
				{Severity: SeverityLow},
			},
			want: SeverityHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HighestSeverity(tt.flags); got != tt.want {
				t.Errorf("HighestSeverity() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDeriveFilingStatus(t *testing.T) {
	if got := DeriveFilingStatus(nil); got != FilingIndexed {
		t.Errorf("DeriveFilingStatus(nil) = %q, want indexed", got)
	}

	medium := []AuditFlag{{Severity: SeverityMedium}}
	if got := DeriveFilingStatus(medium); got != FilingIndexed {
		t.Errorf("DeriveFilingStatus(medium) = %q, want indexed", got)
	}

	high := []AuditFlag{{Severity: SeverityMedium}, {Severity: SeverityHigh}}
	if got := DeriveFilingStatus(high); got != FilingFlagged {
		t.Errorf("DeriveFilingStatus(high) = %q, want flagged", got)
	}
}

func TestNewRedactionAuditEntry(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	entry := NewRedactionAuditEntry("entry-1", "audit-1", 4, now)

	if entry.RetentionBasis != RetentionBasisHIPAA {
		t.Errorf("RetentionBasis = %q, want %q", entry.RetentionBasis, RetentionBasisHIPAA)
	}
	if want := now.Add(RetentionPeriod); !entry.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %v, want %v", entry.ExpiresAt, want)
	}
	if entry.RedactionCount != 4 {
		t.Errorf("RedactionCount = %d, want 4", entry.RedactionCount)
	}
}
