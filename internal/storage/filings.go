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

// SaveFiling upserts a filing record by identity.
func (s *SQLiteStorage) SaveFiling(ctx context.Context, record *model.FilingRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateFiling(record); err != nil {
		return err
	}

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	regionPrices, err := json.Marshal(record.RegionPrices)
	if err != nil {
		return fmt.Errorf("failed to encode region prices: %w", err)
	}
	flags, err := json.Marshal(record.Flags)
	if err != nil {
		return fmt.Errorf("failed to encode flags: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO filing_records (
			id, created_at, filename, kind, status, carrier, plan_year,
			rate_hike, actuarial_value, mlr, region_prices, summary, flags
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			created_at = excluded.created_at,
			filename = excluded.filename,
			kind = excluded.kind,
			status = excluded.status,
			carrier = excluded.carrier,
			plan_year = excluded.plan_year,
			rate_hike = excluded.rate_hike,
			actuarial_value = excluded.actuarial_value,
			mlr = excluded.mlr,
			region_prices = excluded.region_prices,
			summary = excluded.summary,
			flags = excluded.flags
	`,
		record.ID,
		record.CreatedAt,
		record.Filename,
		string(record.Kind),
		string(record.Status),
		record.Carrier,
		record.PlanYear,
		record.RateHike,
		record.ActuarialValue,
		record.MedicalLossRate,
		string(regionPrices),
		record.RedactedSummary,
		string(flags),
	)
	if err != nil {
		return wrapWrite("save filing", err)
	}
	return nil
}

// GetFiling returns the filing record with the given identity, or
// common.ErrNotFound when absent.
func (s *SQLiteStorage) GetFiling(ctx context.Context, id string) (*model.FilingRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, filingSelectColumns+` WHERE id = ?`, id)
	return scanFiling(row)
}

// ListFilings returns every filing record, newest first.
func (s *SQLiteStorage) ListFilings(ctx context.Context) ([]model.FilingRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryFilings(ctx, filingSelectColumns+` ORDER BY created_at DESC, rowid DESC`)
}

// FindFilingsByCarrier returns filings for the given carrier via the
// carrier index, newest first.
func (s *SQLiteStorage) FindFilingsByCarrier(ctx context.Context, carrier string) ([]model.FilingRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(carrier, "carrier"); err != nil {
		return nil, err
	}
	return s.queryFilings(ctx,
		filingSelectColumns+` WHERE carrier = ? ORDER BY created_at DESC, rowid DESC`,
		carrier,
	)
}

func (s *SQLiteStorage) queryFilings(ctx context.Context, query string, args ...any) ([]model.FilingRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query filing records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.FilingRecord
	for rows.Next() {
		record, err := scanFiling(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

const filingSelectColumns = `
	SELECT id, created_at, filename, kind, status, carrier, plan_year,
	       rate_hike, actuarial_value, mlr, region_prices, summary, flags
	FROM filing_records`

func scanFiling(row rowScanner) (*model.FilingRecord, error) {
	var (
		record       model.FilingRecord
		kind         string
		status       string
		regionPrices sql.NullString
		summary      sql.NullString
		flags        sql.NullString
	)

	err := row.Scan(
		&record.ID,
		&record.CreatedAt,
		&record.Filename,
		&kind,
		&status,
		&record.Carrier,
		&record.PlanYear,
		&record.RateHike,
		&record.ActuarialValue,
		&record.MedicalLossRate,
		&regionPrices,
		&summary,
		&flags,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan filing record: %w", err)
	}

	record.Kind = model.DocumentKind(kind)
	record.Status = model.FilingStatus(status)
	record.RedactedSummary = summary.String

	if regionPrices.Valid && regionPrices.String != "" {
		if err := json.Unmarshal([]byte(regionPrices.String), &record.RegionPrices); err != nil {
			return nil, fmt.Errorf("failed to decode region prices: %w", err)
		}
	}
	if flags.Valid && flags.String != "" {
		if err := json.Unmarshal([]byte(flags.String), &record.Flags); err != nil {
			return nil, fmt.Errorf("failed to decode flags: %w", err)
		}
	}

	return &record, nil
}
