package rules

import (
	"fmt"
	"regexp"

	"github.com/clearcost/billaudit/internal/extract"
	"github.com/clearcost/billaudit/internal/model"
)

// Rule identifiers. Stable: persisted inside flags.
const (
	RulePIIPresent      = "pii-present"
	RuleOverchargeRisk  = "overcharge-risk"
	RuleUpcodingRisk    = "upcoding-risk"
	RuleMissingProvider = "missing-provider"
)

// upcodingMinOccurrences is how many high-level E/M visit codes a single
// bill must carry before the upcoding rule fires.
const upcodingMinOccurrences = 3

var highLevelVisitRe = regexp.MustCompile(`\b9921[45]\b`)

// Builtin returns the default rule registry in evaluation order. The
// PII-present check goes through the catalogue's match-all helper, never a
// stateful single-test matcher, so repeated evaluations cannot skip matches.
func Builtin(catalogue *extract.Catalogue) []Rule {
	return []Rule{
		{
			ID:          RulePIIPresent,
			Severity:    model.SeverityHigh,
			Description: "Document contains unredacted personal identifiers",
			Citation: &model.Citation{
				RuleID:         RulePIIPresent,
				Statute:        "45 CFR 164.514(b)(2)",
				RequiresReview: true,
			},
			Predicate: func(in Input) (bool, string) {
				matches := catalogue.FindAll(extract.FieldNationalID, in.RawText)
				if len(matches) == 0 {
					return false, ""
				}
				// The evidence snippet must not restate the identifier.
				return true, fmt.Sprintf("national-id pattern matched %d time(s)", len(matches))
			},
		},
		{
			ID:          RuleOverchargeRisk,
			Severity:    model.SeverityHigh,
			Description: "Billed total exceeds 150% of the benchmark average for at least one procedure",
			Citation: &model.Citation{
				RuleID:         RuleOverchargeRisk,
				Statute:        "45 CFR 149.410 (No Surprises Act)",
				RequiresReview: true,
			},
			Predicate: func(in Input) (bool, string) {
				if len(in.Overcharges) == 0 {
					return false, ""
				}
				first := in.Overcharges[0]
				return true, fmt.Sprintf("code %s billed %d%% over benchmark", first.Code, first.PercentOver)
			},
		},
		{
			ID:          RuleUpcodingRisk,
			Severity:    model.SeverityMedium,
			Description: "Repeated high-complexity visit codes suggest possible upcoding",
			Citation: &model.Citation{
				RuleID:         RuleUpcodingRisk,
				Statute:        "31 USC 3729 (False Claims Act)",
				RequiresReview: true,
			},
			Predicate: func(in Input) (bool, string) {
				occurrences := len(highLevelVisitRe.FindAllString(in.RawText, -1))
				if occurrences < upcodingMinOccurrences {
					return false, ""
				}
				return true, fmt.Sprintf("high-complexity visit codes billed %d times", occurrences)
			},
		},
		{
			ID:          RuleMissingProvider,
			Severity:    model.SeverityLow,
			Description: "Bill carries procedure codes but no identifiable provider name",
			Predicate: func(in Input) (bool, string) {
				hasCodes := len(in.Facts.ProcedureCodes) > 0 || len(in.Facts.SupplyCodes) > 0
				return hasCodes && in.Facts.ProviderName == model.UnknownProvider, ""
			},
		},
	}
}
