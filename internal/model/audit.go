// Package model defines the core domain models used throughout the application.
package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// AuditStatus indicates where a bill audit sits in its lifecycle.
type AuditStatus string

// Audit status constants.
const (
	StatusClean     AuditStatus = "clean"
	StatusFlagged   AuditStatus = "flagged"
	StatusCompleted AuditStatus = "completed"
)

// Severity classifies how serious a finding is.
type Severity string

// Severity constants.
const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// UnknownProvider is the sentinel returned when no provider name could be
// located, so downstream consumers never branch on emptiness.
const UnknownProvider = "Unknown Provider"

// ExtractedFacts holds everything the field extractor pulled from one
// document. Code collections are deduplicated; insertion order is not
// meaningful.
type ExtractedFacts struct {
	ServiceDateStart *time.Time `json:"serviceDateStart,omitempty"`
	ServiceDateEnd   *time.Time `json:"serviceDateEnd,omitempty"`
	ProviderName     string     `json:"providerName"`
	PolicyNumber     string     `json:"policyNumber,omitempty"`
	AccountNumber    string     `json:"accountNumber,omitempty"`
	ProcedureCodes   []string   `json:"procedureCodes"`
	DiagnosisCodes   []string   `json:"diagnosisCodes"`
	SupplyCodes      []string   `json:"supplyCodes"`
	RevenueCodes     []string   `json:"revenueCodes"`
	ProviderNPIs     []string   `json:"providerNPIs"`
	Amounts          []float64  `json:"amounts"`
}

// OverchargeItem compares a billed amount against the reference benchmark
// for one procedure code.
type OverchargeItem struct {
	Code            string  `json:"code"`
	Description     string  `json:"description"`
	BilledAmount    float64 `json:"billedAmount"`
	BenchmarkAmount float64 `json:"benchmarkAmount"`
	PercentOver     int     `json:"percentOver"`
}

// Citation carries the regulatory metadata attached to a flag.
type Citation struct {
	RuleID         string `json:"ruleId"`
	Statute        string `json:"statute"`
	Evidence       string `json:"evidence,omitempty"`
	RequiresReview bool   `json:"requiresReview"`
}

// AuditFlag is a severity-tagged finding produced by the rule engine. Flags
// are derived from their parent record and never persisted independently.
type AuditFlag struct {
	Citation    *Citation `json:"citation,omitempty"`
	RuleID      string    `json:"ruleId"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
}

// AuditRecord is the unit of persistence for one bill audit. It is created
// once at analysis time and immutable thereafter except for deletion.
type AuditRecord struct {
	CreatedAt        time.Time
	ID               string
	Filename         string
	RawText          string
	RedactedText     string
	Fingerprint      string
	Status           AuditStatus
	Facts            ExtractedFacts
	Overcharges      []OverchargeItem
	Flags            []AuditFlag
	PresumptiveTotal float64
}

// ComputeFingerprint derives the content fingerprint used for duplicate
// detection. Byte-identical documents always produce the same fingerprint.
func ComputeFingerprint(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}

// DeriveStatus returns the lifecycle status implied by a flag list: flagged
// iff any flag was emitted, else clean.
func DeriveStatus(flags []AuditFlag) AuditStatus {
	if len(flags) > 0 {
		return StatusFlagged
	}
	return StatusClean
}

// HighestSeverity returns the most serious severity present in flags, or ""
// when there are none.
func HighestSeverity(flags []AuditFlag) Severity {
	rank := map[Severity]int{SeverityLow: 1, SeverityMedium: 2, SeverityHigh: 3}
	var highest Severity
	for _, f := range flags {
		if rank[f.Severity] > rank[highest] {
			highest = f.Severity
		}
	}
	return highest
}
