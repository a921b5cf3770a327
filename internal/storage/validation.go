package storage

import (
	"context"
	"fmt"

	"github.com/clearcost/billaudit/internal/model"
)

func validateContext(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("context cannot be nil")
	}
	return nil
}

func validateString(value, name string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", name)
	}
	return nil
}

func validateAudit(record *model.AuditRecord) error {
	if record == nil {
		return fmt.Errorf("audit record cannot be nil")
	}
	if record.ID == "" {
		return fmt.Errorf("audit record ID cannot be empty")
	}
	if record.Status == "" {
		return fmt.Errorf("audit record status cannot be empty")
	}
	return nil
}

func validateFiling(record *model.FilingRecord) error {
	if record == nil {
		return fmt.Errorf("filing record cannot be nil")
	}
	if record.ID == "" {
		return fmt.Errorf("filing record ID cannot be empty")
	}
	if record.Status == "" {
		return fmt.Errorf("filing record status cannot be empty")
	}
	return nil
}

func validateRedactionEntry(entry *model.RedactionAuditEntry) error {
	if entry == nil {
		return fmt.Errorf("redaction entry cannot be nil")
	}
	if entry.ID == "" {
		return fmt.Errorf("redaction entry ID cannot be empty")
	}
	if entry.AuditID == "" {
		return fmt.Errorf("redaction entry audit ID cannot be empty")
	}
	return nil
}
