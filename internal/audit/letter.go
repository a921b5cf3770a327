package audit

import (
	"fmt"
	"strings"

	"github.com/clearcost/billaudit/internal/model"
)

// LetterFields maps an audit record onto the stable template-substitution
// inputs the dispute-letter generator consumes. Every token resolves to a
// real value or a clearly bracketed placeholder, never a silent empty
// string.
func LetterFields(record *model.AuditRecord) map[string]string {
	fields := map[string]string{
		"provider_name":    orPlaceholder(providerOrEmpty(record), "[PROVIDER NAME]"),
		"account_number":   orPlaceholder(record.Facts.AccountNumber, "[ACCOUNT NUMBER]"),
		"policy_number":    orPlaceholder(record.Facts.PolicyNumber, "[POLICY NUMBER]"),
		"billed_total":     fmt.Sprintf("$%.2f", record.PresumptiveTotal),
		"service_date":     "[SERVICE DATE]",
		"procedure_codes":  orPlaceholder(strings.Join(record.Facts.ProcedureCodes, ", "), "[PROCEDURE CODES]"),
		"overcharge_lines": orPlaceholder(overchargeLines(record.Overcharges), "[OVERCHARGE DETAILS]"),
		"citations":        orPlaceholder(citationLines(record.Flags), "[REGULATORY CITATIONS]"),
		"audit_reference":  record.ID,
	}

	if record.Facts.ServiceDateStart != nil {
		fields["service_date"] = record.Facts.ServiceDateStart.Format("January 2, 2006")
	}
	return fields
}

func providerOrEmpty(record *model.AuditRecord) string {
	if record.Facts.ProviderName == model.UnknownProvider {
		return ""
	}
	return record.Facts.ProviderName
}

func overchargeLines(items []model.OverchargeItem) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%s (%s): billed $%.2f against a $%.2f benchmark (%d%% over)",
			item.Code, item.Description, item.BilledAmount, item.BenchmarkAmount, item.PercentOver))
	}
	return strings.Join(lines, "\n")
}

func citationLines(flags []model.AuditFlag) string {
	var lines []string
	for _, flag := range flags {
		if flag.Citation == nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", flag.Citation.Statute, flag.Description))
	}
	return strings.Join(lines, "\n")
}

func orPlaceholder(value, placeholder string) string {
	if strings.TrimSpace(value) == "" {
		return placeholder
	}
	return value
}
