// Package audit orchestrates the document analysis pipeline: text
// extraction, field extraction, redaction, benchmark comparison, rule
// evaluation, and persistence of the assembled record.
package audit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/clearcost/billaudit/internal/benchmark"
	"github.com/clearcost/billaudit/internal/common"
	"github.com/clearcost/billaudit/internal/doctext"
	"github.com/clearcost/billaudit/internal/extract"
	"github.com/clearcost/billaudit/internal/filing"
	"github.com/clearcost/billaudit/internal/model"
	"github.com/clearcost/billaudit/internal/redact"
	"github.com/clearcost/billaudit/internal/rules"
	"github.com/clearcost/billaudit/internal/service"
)

// Auditor runs the analysis pipeline for one document at a time. The
// reference data it holds (catalogue, benchmark table, rule registry) is
// read-only, so one Auditor is safe for concurrent analyses; the store is
// the only shared mutable state.
type Auditor struct {
	store      service.Storage
	docs       doctext.Extractor
	fields     *extract.Extractor
	redactor   *redact.Redactor
	benchmarks *benchmark.Table
	engine     *rules.Engine
	filings    *filing.Analyzer
}

// New wires an Auditor over the given store and document extractor. A
// malformed built-in pattern surfaces here, before any document is touched.
func New(store service.Storage, docs doctext.Extractor) (*Auditor, error) {
	fields, err := extract.NewExtractor()
	if err != nil {
		return nil, err
	}
	redactor, err := redact.NewRedactor()
	if err != nil {
		return nil, err
	}

	return &Auditor{
		store:      store,
		docs:       docs,
		fields:     fields,
		redactor:   redactor,
		benchmarks: benchmark.NewTable(),
		engine:     rules.NewEngine(rules.Builtin(fields.Catalogue())),
		filings:    filing.NewAnalyzer(),
	}, nil
}

// AnalyzeBill audits one medical bill document.
//
// A byte-identical document already in the store short-circuits: the
// first-stored record is returned with common.ErrDuplicateEntry. When
// persistence fails the fully-assembled record is still returned alongside
// the StoreWriteError so the caller can report it as unsaved; nothing is
// ever partially persisted, because the store commit happens only after
// full record assembly.
func (a *Auditor) AnalyzeBill(ctx context.Context, path string) (*model.AuditRecord, error) {
	doc, err := a.docs.Extract(ctx, path)
	if err != nil {
		return nil, err
	}

	fingerprint := model.ComputeFingerprint(doc.SourceBytes)
	existing, err := a.store.FindAuditByFingerprint(ctx, fingerprint)
	if err == nil {
		slog.Info("Duplicate document detected",
			"file", doc.Filename(),
			"existing_audit", existing.ID)
		return existing, common.ErrDuplicateEntry
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	record, entry := a.assemble(doc, fingerprint)

	if err := a.store.SaveAuditWithRedaction(ctx, record, entry); err != nil {
		common.LogError(err, "audit completed but could not be saved", common.Fields{
			"file":  doc.Filename(),
			"audit": record.ID,
		})
		return record, err
	}

	slog.Info("Bill audit complete",
		"file", doc.Filename(),
		"audit", record.ID,
		"status", record.Status,
		"flags", len(record.Flags),
		"overcharges", len(record.Overcharges))
	return record, nil
}

// assemble runs the pure analysis stages and builds the record plus its
// redaction audit entry. Field extraction and redaction are independent
// passes over the same raw text: a code-extraction defect can never
// suppress redaction.
func (a *Auditor) assemble(doc *doctext.Document, fingerprint string) (*model.AuditRecord, *model.RedactionAuditEntry) {
	now := time.Now()
	text := doc.Text()

	facts := a.fields.Fields(text)
	total := a.fields.PresumptiveTotal(text)
	redacted, redactionCount := a.redactor.Redact(text)
	overcharges := a.benchmarks.Compare(facts.ProcedureCodes, total)
	flags := a.engine.Evaluate(rules.Input{
		RawText:     text,
		Facts:       facts,
		Overcharges: overcharges,
	})

	record := &model.AuditRecord{
		ID:               uuid.NewString(),
		CreatedAt:        now,
		Filename:         doc.Filename(),
		RawText:          text,
		RedactedText:     redacted,
		Fingerprint:      fingerprint,
		PresumptiveTotal: total,
		Facts:            facts,
		Overcharges:      overcharges,
		Flags:            flags,
		Status:           model.DeriveStatus(flags),
	}

	entry := model.NewRedactionAuditEntry(uuid.NewString(), record.ID, redactionCount, now)
	return record, &entry
}

// AnalyzeFiling analyzes one carrier rate-filing document. Store failures
// behave as in AnalyzeBill: the assembled record comes back unsaved.
func (a *Auditor) AnalyzeFiling(ctx context.Context, path string) (*model.FilingRecord, error) {
	doc, err := a.docs.Extract(ctx, path)
	if err != nil {
		return nil, err
	}

	record := &model.FilingRecord{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Filename:  doc.Filename(),
		Kind:      doc.Kind,
		Status:    model.FilingIngesting,
	}
	slog.Debug("Filing ingested", "file", doc.Filename(), "filing", record.ID)

	record.Status = model.FilingAnalyzingRates
	text := doc.Text()
	result := a.filings.Analyze(text)
	redacted, _ := a.redactor.Redact(text)

	record.Carrier = result.Carrier
	record.PlanYear = result.PlanYear
	record.RateHike = result.RateHike
	record.ActuarialValue = result.ActuarialValue
	record.MedicalLossRate = result.MLR
	record.RegionPrices = result.RegionPrices
	record.RedactedSummary = filing.Summarize(redacted)
	record.Flags = result.Flags
	record.Status = model.DeriveFilingStatus(result.Flags)

	if err := a.store.SaveFiling(ctx, record); err != nil {
		common.LogError(err, "filing analysis completed but could not be saved", common.Fields{
			"file":   doc.Filename(),
			"filing": record.ID,
		})
		return record, err
	}

	slog.Info("Filing analysis complete",
		"file", doc.Filename(),
		"filing", record.ID,
		"carrier", record.Carrier,
		"status", record.Status)
	return record, nil
}
