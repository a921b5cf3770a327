package filing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/clearcost/billaudit/internal/model"
)

// Regulatory thresholds for rate filings.
const (
	// RateHikeThreshold: proposed increases above 15% are subject to rate
	// review under 45 CFR 154.200.
	RateHikeThreshold = 15.0
	// MLRMinimum: individual and small-group plans must spend at least 80%
	// of premium revenue on claims (ACA section 2718).
	MLRMinimum = 80.0
	// mlrDefault is assumed when no MLR is detected. 85 sits above the
	// statutory minimum, so "undetected" is a conservative no-flag default
	// rather than a silent zero.
	mlrDefault = 85.0

	// summaryLimit truncates the redacted summary stored on a filing.
	summaryLimit = 500
)

// Filing rule identifiers.
const (
	RuleExcessiveRateHike = "excessive-rate-hike"
	RuleLowMLR            = "low-mlr"
)

// knownRegions is the fixed list probed for per-region unit prices. Regions
// without a nearby price are simply absent from the result.
var knownRegions = []string{
	"Northeast",
	"Mid-Atlantic",
	"Southeast",
	"Midwest",
	"Southwest",
	"Mountain",
	"West",
	"Statewide",
}

var (
	rateHikeRe  = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*%\s*(?:rate\s+|premium\s+)?(?:increase|hike)`)
	mlrRe       = regexp.MustCompile(`(?i)(?:medical\s+loss\s+ratio|MLR)\D{0,20}?(\d+(?:\.\d+)?)\s*%`)
	actuarialRe = regexp.MustCompile(`(?i)actuarial\s+value\D{0,20}?(\d+(?:\.\d+)?)\s*%`)
	planYearRe  = regexp.MustCompile(`(?i)(?:plan\s+year\s+(20\d\d)|(20\d\d)\s+plan\s+year)`)
)

// Result is the filing-specific data pulled from one document, before it is
// assembled into a model.FilingRecord.
type Result struct {
	RegionPrices   map[string]float64
	Carrier        string
	PlanYear       string
	RateHike       string
	ActuarialValue string
	MLR            string
	Flags          []model.AuditFlag
}

// Analyzer extracts rate-filing facts from document text. Stateless and safe
// for concurrent use.
type Analyzer struct {
	regionRes map[string]*regexp.Regexp
}

// NewAnalyzer pre-compiles the per-region proximity patterns.
func NewAnalyzer() *Analyzer {
	a := &Analyzer{regionRes: make(map[string]*regexp.Regexp, len(knownRegions))}
	for _, region := range knownRegions {
		// \b keeps "West" from matching inside "Midwest".
		expr := `(?i)\b` + regexp.QuoteMeta(region) + `[^\n$]{0,40}\$\s*(\d{1,3}(?:,\d{3})*(?:\.\d{1,2})?)`
		a.regionRes[region] = regexp.MustCompile(expr)
	}
	return a
}

// Analyze extracts carrier, plan year, rate figures, and region prices from
// text and evaluates the filing thresholds. String fields that were not
// detected hold model.ValueTBD, never a numeric zero.
func (a *Analyzer) Analyze(text string) Result {
	res := Result{
		Carrier:        IdentifyCarrier(text),
		PlanYear:       model.ValueTBD,
		RateHike:       model.ValueTBD,
		ActuarialValue: model.ValueTBD,
		MLR:            model.ValueTBD,
		RegionPrices:   a.regionPrices(text),
	}

	if m := planYearRe.FindStringSubmatch(text); m != nil {
		if m[1] != "" {
			res.PlanYear = m[1]
		} else {
			res.PlanYear = m[2]
		}
	}

	// Each figure is a single best-effort match; the displayed string and
	// the numeric value used for thresholding are parsed from the same raw
	// matched substring.
	rateHike, rateDetected := matchPercent(rateHikeRe, text)
	if rateDetected {
		res.RateHike = formatPercent(rateHike)
	}

	mlr, mlrDetected := matchPercent(mlrRe, text)
	if mlrDetected {
		res.MLR = formatPercent(mlr)
	} else {
		mlr = mlrDefault
	}

	if av, ok := matchPercent(actuarialRe, text); ok {
		res.ActuarialValue = formatPercent(av)
	}

	if rateDetected && rateHike > RateHikeThreshold {
		res.Flags = append(res.Flags, model.AuditFlag{
			RuleID:      RuleExcessiveRateHike,
			Severity:    model.SeverityHigh,
			Description: fmt.Sprintf("Proposed rate increase of %s exceeds the %.0f%% review threshold", res.RateHike, RateHikeThreshold),
			Citation: &model.Citation{
				RuleID:         RuleExcessiveRateHike,
				Statute:        "45 CFR 154.200",
				Evidence:       fmt.Sprintf("detected rate increase %s", res.RateHike),
				RequiresReview: true,
			},
		})
	}

	if mlr < MLRMinimum {
		res.Flags = append(res.Flags, model.AuditFlag{
			RuleID:      RuleLowMLR,
			Severity:    model.SeverityMedium,
			Description: fmt.Sprintf("Medical loss ratio of %s is below the %.0f%% statutory minimum", res.MLR, MLRMinimum),
			Citation: &model.Citation{
				RuleID:         RuleLowMLR,
				Statute:        "42 USC 300gg-18 (ACA §2718)",
				Evidence:       fmt.Sprintf("detected MLR %s", res.MLR),
				RequiresReview: true,
			},
		})
	}

	return res
}

// Summarize truncates redacted text for storage on the filing record.
func Summarize(redacted string) string {
	runes := []rune(strings.TrimSpace(redacted))
	if len(runes) <= summaryLimit {
		return string(runes)
	}
	return string(runes[:summaryLimit]) + "…"
}

func (a *Analyzer) regionPrices(text string) map[string]float64 {
	prices := make(map[string]float64)
	for _, region := range knownRegions {
		m := a.regionRes[region].FindStringSubmatch(text)
		if m == nil {
			continue
		}
		raw := strings.ReplaceAll(m[1], ",", "")
		if price, err := strconv.ParseFloat(raw, 64); err == nil {
			prices[region] = price
		}
	}
	return prices
}

func matchPercent(re *regexp.Regexp, text string) (float64, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}
