// Package rules evaluates the registered compliance rules against extracted
// facts and emits severity-tagged audit flags.
package rules

import (
	"github.com/clearcost/billaudit/internal/model"
)

// Input is everything a rule predicate may inspect. Predicates must be pure:
// no side effects, no mutation of the input.
type Input struct {
	RawText     string
	Facts       model.ExtractedFacts
	Overcharges []model.OverchargeItem
}

// Rule is one declarative compliance check. Predicate returns whether the
// rule fires and an optional evidence snippet for the citation.
type Rule struct {
	Predicate   func(Input) (bool, string)
	Citation    *model.Citation
	ID          string
	Description string
	Severity    model.Severity
}

// Engine holds an ordered rule registry. Evaluation is registry order with
// no short-circuit, so multiple flags may co-occur.
type Engine struct {
	registry []Rule
}

// NewEngine builds an engine over the given rules, evaluated in the order
// given.
func NewEngine(registry []Rule) *Engine {
	return &Engine{registry: registry}
}

// Evaluate runs every registered rule against in and returns the flags for
// the rules that fired. It is a pure fold over the registry: calling it
// twice with the same input yields the same flags.
func (e *Engine) Evaluate(in Input) []model.AuditFlag {
	var flags []model.AuditFlag

	for _, rule := range e.registry {
		fired, evidence := rule.Predicate(in)
		if !fired {
			continue
		}

		flag := model.AuditFlag{
			RuleID:      rule.ID,
			Severity:    rule.Severity,
			Description: rule.Description,
		}
		if rule.Citation != nil {
			citation := *rule.Citation
			citation.Evidence = evidence
			flag.Citation = &citation
		}
		flags = append(flags, flag)
	}

	return flags
}

// Rules returns the registry in evaluation order.
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.registry))
	copy(out, e.registry)
	return out
}
