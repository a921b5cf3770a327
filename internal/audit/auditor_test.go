package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearcost/billaudit/internal/common"
	"github.com/clearcost/billaudit/internal/doctext"
	"github.com/clearcost/billaudit/internal/model"
	"github.com/clearcost/billaudit/internal/service"
	"github.com/clearcost/billaudit/internal/testutil"
)

const billText = `CITY GENERAL HOSPITAL
Account: 44-88-1234
Questions? Call (555) 867-5309

99213 Office visit, established patient $500.00
TOTAL DUE $500.00`

const filingText = `KAISER PERMANENTE
Plan Year 2026 rate filing

The carrier proposes a 15.4% rate increase.
Medical Loss Ratio: 83%
Statewide  $401.75`

// stubExtractor hands back a canned document so pipeline tests need no real
// files on disk.
type stubExtractor struct {
	doc *doctext.Document
	err error
}

func (s *stubExtractor) Extract(_ context.Context, path string) (*doctext.Document, error) {
	if s.err != nil {
		return nil, s.err
	}
	doc := *s.doc
	doc.Path = path
	return &doc, nil
}

func billExtractor() *stubExtractor {
	return &stubExtractor{doc: &doctext.Document{
		Kind:        model.KindPDF,
		Pages:       []string{billText},
		SourceBytes: []byte(billText),
	}}
}

// failingStore delegates everything to the wrapped store but refuses the
// final audit commit.
type failingStore struct {
	service.Storage
	err error
}

func (f *failingStore) SaveAuditWithRedaction(context.Context, *model.AuditRecord, *model.RedactionAuditEntry) error {
	return f.err
}

func TestAnalyzeBill(t *testing.T) {
	store := testutil.SetupTestDB(t)
	auditor, err := New(store, billExtractor())
	require.NoError(t, err)

	ctx := context.Background()
	record, err := auditor.AnalyzeBill(ctx, "bill.pdf")
	require.NoError(t, err)

	assert.Equal(t, "bill.pdf", record.Filename)
	assert.Equal(t, "CITY GENERAL HOSPITAL", record.Facts.ProviderName)
	assert.Equal(t, []string{"99213"}, record.Facts.ProcedureCodes)
	assert.Equal(t, "44-88-1234", record.Facts.AccountNumber)
	assert.Equal(t, 500.0, record.PresumptiveTotal)

	require.Len(t, record.Overcharges, 1)
	item := record.Overcharges[0]
	assert.Equal(t, "99213", item.Code)
	assert.Equal(t, 500.0, item.BilledAmount)
	assert.Equal(t, 110.0, item.BenchmarkAmount)
	assert.Equal(t, 355, item.PercentOver)

	assert.Equal(t, model.StatusFlagged, record.Status)
	require.NotEmpty(t, record.Flags)
	assert.Equal(t, "overcharge-risk", record.Flags[0].RuleID)

	// The phone number is gone from the redacted text and the redaction
	// trail proves the pass ran.
	assert.NotContains(t, record.RedactedText, "867-5309")
	assert.Contains(t, record.RedactedText, "[REDACTED]")

	saved, err := store.GetAudit(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.Fingerprint, saved.Fingerprint)

	entries, err := store.GetRedactionEntriesByAudit(ctx, record.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].RedactionCount)
}

func TestAnalyzeBill_DuplicateDocument(t *testing.T) {
	store := testutil.SetupTestDB(t)
	auditor, err := New(store, billExtractor())
	require.NoError(t, err)

	ctx := context.Background()
	first, err := auditor.AnalyzeBill(ctx, "bill.pdf")
	require.NoError(t, err)

	// Same bytes under a different name is still the same document.
	second, err := auditor.AnalyzeBill(ctx, "bill-copy.pdf")
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)
	require.NotNil(t, second)
	assert.Equal(t, first.ID, second.ID, "duplicate detection returns the first-stored record")

	records, err := store.ListAudits(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestAnalyzeBill_StoreFailureReturnsRecord(t *testing.T) {
	writeErr := &common.StoreWriteError{Op: "save audit with redaction", Err: errors.New("disk full")}
	store := &failingStore{Storage: testutil.SetupTestDB(t), err: writeErr}
	auditor, err := New(store, billExtractor())
	require.NoError(t, err)

	record, err := auditor.AnalyzeBill(context.Background(), "bill.pdf")

	var got *common.StoreWriteError
	require.ErrorAs(t, err, &got)
	require.NotNil(t, record, "the completed analysis must survive a failed commit")
	assert.Equal(t, model.StatusFlagged, record.Status)
	assert.Len(t, record.Overcharges, 1)
}

func TestAnalyzeBill_ExtractionFailure(t *testing.T) {
	extractionErr := common.NewExtractionError("bill.pdf", common.ErrEmptyDocument)
	auditor, err := New(testutil.SetupTestDB(t), &stubExtractor{err: extractionErr})
	require.NoError(t, err)

	record, err := auditor.AnalyzeBill(context.Background(), "bill.pdf")
	assert.Nil(t, record)
	assert.ErrorIs(t, err, common.ErrEmptyDocument)
}

func TestAnalyzeFiling(t *testing.T) {
	store := testutil.SetupTestDB(t)
	auditor, err := New(store, &stubExtractor{doc: &doctext.Document{
		Kind:        model.KindPDF,
		Pages:       []string{filingText},
		SourceBytes: []byte(filingText),
	}})
	require.NoError(t, err)

	ctx := context.Background()
	record, err := auditor.AnalyzeFiling(ctx, "filing.pdf")
	require.NoError(t, err)

	assert.Equal(t, "Kaiser Permanente", record.Carrier)
	assert.Equal(t, "2026", record.PlanYear)
	assert.Equal(t, "15.4%", record.RateHike)
	assert.Equal(t, "83%", record.MedicalLossRate)
	assert.Equal(t, model.ValueTBD, record.ActuarialValue)
	assert.Equal(t, 401.75, record.RegionPrices["Statewide"])
	assert.Equal(t, model.FilingFlagged, record.Status, "a rate hike above threshold flags the filing")
	assert.NotEmpty(t, record.RedactedSummary)

	saved, err := store.GetFiling(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.Carrier, saved.Carrier)
}
