package model

import "time"

// DocumentKind distinguishes the supported source document formats.
type DocumentKind string

// Document kind constants.
const (
	KindPDF         DocumentKind = "pdf"
	KindSpreadsheet DocumentKind = "spreadsheet"
)

// FilingStatus tracks an insurance rate filing through its pipeline:
// ingesting -> analyzing_rates -> indexed | flagged.
type FilingStatus string

// Filing status constants.
const (
	FilingIngesting      FilingStatus = "ingesting"
	FilingAnalyzingRates FilingStatus = "analyzing_rates"
	FilingIndexed        FilingStatus = "indexed"
	FilingFlagged        FilingStatus = "flagged"
)

// ValueTBD is the placeholder for filing values the analyzer could not
// detect. It is distinct from a numeric zero so "undetected" is never
// confused with "detected as zero".
const ValueTBD = "TBD"

// FilingRecord is the persisted result of analyzing one carrier rate-filing
// document.
type FilingRecord struct {
	CreatedAt       time.Time
	RegionPrices    map[string]float64
	ID              string
	Filename        string
	Carrier         string
	PlanYear        string
	RateHike        string
	ActuarialValue  string
	MedicalLossRate string
	RedactedSummary string
	Kind            DocumentKind
	Status          FilingStatus
	Flags           []AuditFlag
}

// DeriveFilingStatus returns flagged iff any emitted flag is high severity,
// else indexed.
func DeriveFilingStatus(flags []AuditFlag) FilingStatus {
	for _, f := range flags {
		if f.Severity == SeverityHigh {
			return FilingFlagged
		}
	}
	return FilingIndexed
}
