// Package extract applies the fixed lexical pattern catalogue to raw
// document text, pulling out codes, identifiers, dates, and amounts.
package extract

import (
	"regexp"

	"github.com/clearcost/billaudit/internal/common"
)

// Field names a semantic slot in the pattern catalogue.
type Field string

// Catalogue fields.
const (
	FieldProcedureCode Field = "procedure_code"
	FieldDiagnosisCode Field = "diagnosis_code"
	FieldSupplyCode    Field = "supply_code"
	FieldRevenueCode   Field = "revenue_code"
	FieldNPI           Field = "npi"
	FieldNationalID    Field = "national_id"
	FieldAmount        Field = "amount"
	FieldPolicyNumber  Field = "policy_number"
	FieldAccountNumber Field = "account_number"
	FieldServiceDate   Field = "service_date"
	FieldDateAlt       Field = "date_alt"
)

// patternSpec is the uncompiled form of one catalogue entry. Group is the
// capture-group index holding the semantic value; 0 means the whole match.
// When the indexed group is empty (alternation), later groups are consulted.
type patternSpec struct {
	Field Field
	Expr  string
	Group int
}

// Every pattern is anchored with \b so a code never matches inside a longer
// numeric run. Structured codes are case-sensitive; free-text labels
// (Policy, Account) are case-insensitive.
var catalogueSpecs = []patternSpec{
	{Field: FieldProcedureCode, Expr: `\b\d{5}(?:-[A-Z0-9]{2})?\b`},
	{Field: FieldDiagnosisCode, Expr: `\b[A-TV-Z]\d{2}(?:\.\d{1,4})?\b`},
	{Field: FieldSupplyCode, Expr: `\b[A-V]\d{4}\b`},
	{Field: FieldRevenueCode, Expr: `\b0\d{3}\b`},
	{Field: FieldNPI, Expr: `\bNPI[:#\s]*(\d{10})\b`, Group: 1},
	{Field: FieldNationalID, Expr: `\b\d{3}\.?\d{3}\.?\d{3}-?\d{2}\b`},
	{Field: FieldAmount, Expr: `(?i)\$\s*(\d{1,3}(?:,\d{3})*(?:\.\d{1,2})?|\d+(?:\.\d{1,2})?)|(\d{1,3}(?:,\d{3})*(?:\.\d{1,2})?|\d+(?:\.\d{1,2})?)\s*(?:USD|dollars)`, Group: 1},
	{Field: FieldPolicyNumber, Expr: `(?i)policy\s*(?:no|number|#|id)?\s*[:.]?\s*([A-Z0-9][A-Z0-9-]{3,19})`, Group: 1},
	{Field: FieldAccountNumber, Expr: `(?i)account\s*(?:no|number|#)?\s*[:.]?\s*([A-Z0-9][A-Z0-9-]{3,19})`, Group: 1},
	{Field: FieldServiceDate, Expr: `\b(\d{1,2})/(\d{1,2})/(\d{4})\b`},
	{Field: FieldDateAlt, Expr: `\b(\d{4})-(\d{2})-(\d{2})\b`},
}

// Catalogue is the compiled, immutable pattern registry. It is loaded once
// at startup and safely shared across concurrent analyses.
type Catalogue struct {
	patterns map[Field]compiledPattern
}

type compiledPattern struct {
	re    *regexp.Regexp
	group int
}

// NewCatalogue compiles the built-in pattern specs. A malformed pattern is a
// configuration defect: the returned PatternError is fatal at startup.
func NewCatalogue() (*Catalogue, error) {
	return newCatalogue(catalogueSpecs)
}

func newCatalogue(specs []patternSpec) (*Catalogue, error) {
	c := &Catalogue{patterns: make(map[Field]compiledPattern, len(specs))}
	for _, spec := range specs {
		re, err := regexp.Compile(spec.Expr)
		if err != nil {
			return nil, &common.PatternError{Field: string(spec.Field), Err: err}
		}
		c.patterns[spec.Field] = compiledPattern{re: re, group: spec.Group}
	}
	return c, nil
}

// FindAll returns every semantic value the field's pattern matches in text.
// Each call is self-contained and returns a fresh slice; no matcher state is
// carried between calls, so repeated invocations never skip matches.
func (c *Catalogue) FindAll(field Field, text string) []string {
	p, ok := c.patterns[field]
	if !ok {
		return nil
	}

	var values []string
	for _, match := range p.re.FindAllStringSubmatch(text, -1) {
		values = append(values, submatchValue(match, p.group))
	}
	return values
}

// Match reports whether the field's pattern matches anywhere in text.
func (c *Catalogue) Match(field Field, text string) bool {
	p, ok := c.patterns[field]
	if !ok {
		return false
	}
	return p.re.MatchString(text)
}

// submatchValue picks the semantic value out of one match: the indexed
// group, falling back across later groups when alternation left it empty,
// and finally the whole match.
func submatchValue(match []string, group int) string {
	if group <= 0 || group >= len(match) {
		return match[0]
	}
	if match[group] != "" {
		return match[group]
	}
	for i := group + 1; i < len(match); i++ {
		if match[i] != "" {
			return match[i]
		}
	}
	return match[0]
}
