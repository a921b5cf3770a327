package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearcost/billaudit/internal/model"
	"github.com/clearcost/billaudit/internal/testutil"
)

func TestSaveRedactionEntry_AppendOnly(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAudit(ctx, testutil.AuditFixture("audit-1", "fp-1")))

	first := model.NewRedactionAuditEntry("entry-1", "audit-1", 2, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	second := model.NewRedactionAuditEntry("entry-2", "audit-1", 5, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC))

	require.NoError(t, store.SaveRedactionEntry(ctx, &first))
	require.NoError(t, store.SaveRedactionEntry(ctx, &second))

	// Re-inserting an existing identity must fail rather than overwrite.
	stale := first
	stale.RedactionCount = 999
	require.Error(t, store.SaveRedactionEntry(ctx, &stale))

	entries, err := store.GetRedactionEntriesByAudit(ctx, "audit-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "entry-1", entries[0].ID, "entries come back oldest first")
	assert.Equal(t, 2, entries[0].RedactionCount)
	assert.Equal(t, "entry-2", entries[1].ID)
}

func TestSaveRedactionEntry_RetentionWindow(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAudit(ctx, testutil.AuditFixture("audit-1", "fp-1")))

	created := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	entry := model.NewRedactionAuditEntry("entry-1", "audit-1", 4, created)
	require.NoError(t, store.SaveRedactionEntry(ctx, &entry))

	entries, err := store.GetRedactionEntriesByAudit(ctx, "audit-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.Equal(t, model.RetentionBasisHIPAA, got.RetentionBasis)
	assert.Equal(t, created.Add(model.RetentionPeriod).Unix(), got.ExpiresAt.Unix())
}

func TestGetRedactionEntriesByAudit_Empty(t *testing.T) {
	store := testutil.SetupTestDB(t)

	entries, err := store.GetRedactionEntriesByAudit(context.Background(), "no-such-audit")
	require.NoError(t, err)
	assert.Empty(t, entries, "an audit without entries is an empty trail, not an error")
}
