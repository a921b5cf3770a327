// Package redact produces sanitized copies of document text with every
// personally-identifying match replaced by a fixed placeholder.
//
// Redaction operates on the raw extracted text, independent of field
// extraction: a failure in code-extraction patterns can never suppress a
// redaction pass.
package redact

import (
	"regexp"

	"github.com/clearcost/billaudit/internal/common"
)

// Placeholder replaces every PII match. It shares no token with any PII
// pattern, which makes redaction idempotent and the patterns
// order-independent in practice.
const Placeholder = "[REDACTED]"

type piiPattern struct {
	Name string
	Expr string
}

// The identifier categories follow the HIPAA Safe Harbor list: national-id
// numbers, phone numbers, email addresses, and date-of-birth-shaped dates.
var piiSpecs = []piiPattern{
	{Name: "national_id", Expr: `\b\d{3}\.?\d{3}\.?\d{3}-?\d{2}\b`},
	{Name: "phone", Expr: `\(\d{2,3}\)\s*\d{3,5}[-.\s]?\d{4}\b|\b\d{3}[-.]\d{3}[-.]\d{4}\b`},
	{Name: "email", Expr: `\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`},
	{Name: "dob", Expr: `(?i)(?:dob|date\s+of\s+birth|born)\s*[:.]?\s*\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`},
}

// Redactor replaces PII in text. Instances are immutable and safe for
// concurrent use.
type Redactor struct {
	patterns []*regexp.Regexp
}

// NewRedactor compiles the PII patterns. A malformed pattern is fatal at
// startup, same as a malformed catalogue pattern.
func NewRedactor() (*Redactor, error) {
	r := &Redactor{patterns: make([]*regexp.Regexp, 0, len(piiSpecs))}
	for _, spec := range piiSpecs {
		re, err := regexp.Compile(spec.Expr)
		if err != nil {
			return nil, &common.PatternError{Field: spec.Name, Err: err}
		}
		r.patterns = append(r.patterns, re)
	}
	return r, nil
}

// Redact returns a copy of text with every PII match replaced by
// Placeholder, along with the number of replacements performed. Each pattern
// is applied over the cumulative result of prior replacements. Redacting
// already-redacted text is a no-op.
func (r *Redactor) Redact(text string) (string, int) {
	redacted := text
	count := 0
	for _, re := range r.patterns {
		redacted = re.ReplaceAllStringFunc(redacted, func(string) string {
			count++
			return Placeholder
		})
	}
	return redacted, count
}
