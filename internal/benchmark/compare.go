package benchmark

import (
	"math"

	"github.com/clearcost/billaudit/internal/model"
)

// OverchargeThreshold is the multiple of the benchmark average above which a
// billed total is considered an overcharge.
const OverchargeThreshold = 1.5

// Compare emits one OverchargeItem per procedure code that appears in both
// codes and the table where billedTotal exceeds OverchargeThreshold times
// the benchmark average. Codes absent from the table are silently skipped:
// a missing benchmark is not itself a finding.
//
// PercentOver is round((billed-benchmark)/benchmark*100) using math.Round,
// so ties round away from zero.
func (t *Table) Compare(codes []string, billedTotal float64) []model.OverchargeItem {
	var items []model.OverchargeItem

	for _, code := range codes {
		entry, ok := t.entries[code]
		if !ok {
			continue
		}
		if billedTotal <= OverchargeThreshold*entry.Average {
			continue
		}

		percentOver := int(math.Round((billedTotal - entry.Average) / entry.Average * 100))
		items = append(items, model.OverchargeItem{
			Code:            code,
			Description:     entry.Description,
			BilledAmount:    billedTotal,
			BenchmarkAmount: entry.Average,
			PercentOver:     percentOver,
		})
	}

	return items
}
