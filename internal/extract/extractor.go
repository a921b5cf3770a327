package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/clearcost/billaudit/internal/model"
)

// providerScanLines bounds the provider-name heuristic to the top of the
// document, where letterheads live.
const providerScanLines = 15

var providerKeywords = []string{
	"hospital",
	"clinic",
	"medical center",
	"medical group",
	"health system",
	"health center",
	"laboratory",
	"imaging",
	"physicians",
	"associates",
	"urgent care",
}

// totalLabelRe marks lines whose amounts are likely the document grand
// total rather than an itemized charge.
var totalLabelRe = regexp.MustCompile(`(?i)\b(?:grand\s+total|total|amount\s+due|balance\s+due)\b`)

// Extractor applies the pattern catalogue to raw bill text. It is stateless:
// the same input text always yields the same output set membership, and
// instances are safe for concurrent use.
type Extractor struct {
	catalogue *Catalogue
}

// NewExtractor compiles the default catalogue. A malformed built-in pattern
// surfaces here as a fatal PatternError.
func NewExtractor() (*Extractor, error) {
	cat, err := NewCatalogue()
	if err != nil {
		return nil, err
	}
	return &Extractor{catalogue: cat}, nil
}

// Catalogue exposes the compiled pattern registry for consumers that need
// raw matching (the rule engine's PII check uses it).
func (e *Extractor) Catalogue() *Catalogue {
	return e.catalogue
}

// Fields extracts every catalogued fact from raw document text. Code
// collections are deduplicated per category.
func (e *Extractor) Fields(text string) model.ExtractedFacts {
	facts := model.ExtractedFacts{
		ProcedureCodes: dedupe(e.catalogue.FindAll(FieldProcedureCode, text)),
		DiagnosisCodes: dedupe(e.catalogue.FindAll(FieldDiagnosisCode, text)),
		SupplyCodes:    dedupe(e.catalogue.FindAll(FieldSupplyCode, text)),
		RevenueCodes:   dedupe(e.catalogue.FindAll(FieldRevenueCode, text)),
		ProviderNPIs:   dedupe(e.catalogue.FindAll(FieldNPI, text)),
		ProviderName:   e.providerName(text),
		Amounts:        e.amounts(text),
	}

	if policies := e.catalogue.FindAll(FieldPolicyNumber, text); len(policies) > 0 {
		facts.PolicyNumber = policies[0]
	}
	if accounts := e.catalogue.FindAll(FieldAccountNumber, text); len(accounts) > 0 {
		facts.AccountNumber = accounts[0]
	}

	if dates := e.serviceDates(text); len(dates) > 0 {
		start, end := dates[0], dates[len(dates)-1]
		facts.ServiceDateStart = &start
		facts.ServiceDateEnd = &end
	}

	return facts
}

// PresumptiveTotal picks the presumptive bill total from text. Amounts on
// total-labeled lines win; otherwise the maximum parsed amount is used,
// since itemized line amounts are typically smaller than the grand total.
// This is a documented heuristic, not a guarantee: a single large unrelated
// number can still inflate it.
func (e *Extractor) PresumptiveTotal(text string) float64 {
	var labeled []float64
	for _, line := range strings.Split(text, "\n") {
		if !totalLabelRe.MatchString(line) {
			continue
		}
		labeled = append(labeled, e.amounts(line)...)
	}
	if max, ok := maxAmount(labeled); ok {
		return max
	}

	max, _ := maxAmount(e.amounts(text))
	return max
}

func (e *Extractor) amounts(text string) []float64 {
	var parsed []float64
	for _, raw := range e.catalogue.FindAll(FieldAmount, text) {
		cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
		value, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			continue // non-numeric parses are discarded, not errors
		}
		parsed = append(parsed, value)
	}
	return parsed
}

// serviceDates merges both date patterns and returns the parsed results in
// ascending order. Ambiguous numeric dates are read month-first; an
// out-of-range month is re-read day-first.
func (e *Extractor) serviceDates(text string) []time.Time {
	var dates []time.Time

	for _, raw := range e.catalogue.FindAll(FieldServiceDate, text) {
		if d, ok := parseSlashDate(raw); ok {
			dates = append(dates, d)
		}
	}
	for _, raw := range e.catalogue.FindAll(FieldDateAlt, text) {
		if d, err := time.Parse("2006-01-02", raw); err == nil {
			dates = append(dates, d)
		}
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

func parseSlashDate(raw string) (time.Time, bool) {
	parts := strings.Split(raw, "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}

	first, _ := strconv.Atoi(parts[0])
	second, _ := strconv.Atoi(parts[1])
	year, _ := strconv.Atoi(parts[2])

	month, day := first, second
	if month > 12 && day <= 12 {
		month, day = second, first
	}
	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1900 {
		return time.Time{}, false
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

func (e *Extractor) providerName(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > providerScanLines {
		lines = lines[:providerScanLines]
	}

	for _, line := range lines {
		lower := strings.ToLower(line)
		for _, keyword := range providerKeywords {
			if strings.Contains(lower, keyword) {
				return strings.TrimSpace(line)
			}
		}
	}
	return model.UnknownProvider
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	unique := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		unique = append(unique, v)
	}
	return unique
}

func maxAmount(amounts []float64) (float64, bool) {
	if len(amounts) == 0 {
		return 0, false
	}
	max := amounts[0]
	for _, a := range amounts[1:] {
		if a > max {
			max = a
		}
	}
	return max, true
}
