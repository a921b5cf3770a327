package benchmark

import (
	"testing"
)

func testTable() *Table {
	return NewTableWith(map[string]Entry{
		"99213": {Description: "Office visit, established patient, low complexity", Average: 110},
		"80053": {Description: "Comprehensive metabolic panel", Average: 48},
		"36415": {Description: "Routine venipuncture", Average: 15},
		"93000": {Description: "Electrocardiogram, complete", Average: 64},
	})
}

func TestTable_Compare(t *testing.T) {
	table := testTable()

	tests := []struct {
		name        string
		codes       []string
		billedTotal float64
		wantCodes   []string
	}{
		{
			name:        "billed total well over threshold",
			codes:       []string{"99213"},
			billedTotal: 500,
			wantCodes:   []string{"99213"},
		},
		{
			name:        "exactly 1.5x benchmark is not an overcharge",
			codes:       []string{"99213"},
			billedTotal: 165,
			wantCodes:   nil,
		},
		{
			name:        "just above 1.5x benchmark",
			codes:       []string{"99213"},
			billedTotal: 165.01,
			wantCodes:   []string{"99213"},
		},
		{
			name:        "codes absent from the table are silently skipped",
			codes:       []string{"99999", "J3490"},
			billedTotal: 10000,
			wantCodes:   nil,
		},
		{
			name:        "mixed known and unknown codes",
			codes:       []string{"99213", "99999", "36415"},
			billedTotal: 500,
			wantCodes:   []string{"99213", "36415"},
		},
		{
			name:        "no codes",
			codes:       nil,
			billedTotal: 500,
			wantCodes:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := table.Compare(tt.codes, tt.billedTotal)

			if len(items) != len(tt.wantCodes) {
				t.Fatalf("Compare() returned %d items, want %d: %+v",
					len(items), len(tt.wantCodes), items)
			}
			for i, item := range items {
				if item.Code != tt.wantCodes[i] {
					t.Errorf("Compare()[%d].Code = %q, want %q", i, item.Code, tt.wantCodes[i])
				}
			}
		})
	}
}

func TestTable_ComparePercentOver(t *testing.T) {
	table := testTable()

	tests := []struct {
		name        string
		billedTotal float64
		benchmark   float64
		code        string
		wantPercent int
	}{
		// (500-110)/110*100 = 354.54..., rounds to 355.
		{name: "spec scenario", billedTotal: 500, benchmark: 110, code: "99213", wantPercent: 355},
		// (220-110)/110*100 = 100 exactly.
		{name: "exact double", billedTotal: 220, benchmark: 110, code: "99213", wantPercent: 100},
		// (104-64)/64*100 = 62.5 exactly; ties round away from zero to 63.
		{name: "tie rounds away from zero", billedTotal: 104, benchmark: 64, code: "93000", wantPercent: 63},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := table.Compare([]string{tt.code}, tt.billedTotal)
			if len(items) != 1 {
				t.Fatalf("Compare() returned %d items, want 1", len(items))
			}

			item := items[0]
			if item.PercentOver != tt.wantPercent {
				t.Errorf("PercentOver = %d, want %d", item.PercentOver, tt.wantPercent)
			}
			if item.BilledAmount != tt.billedTotal {
				t.Errorf("BilledAmount = %v, want %v", item.BilledAmount, tt.billedTotal)
			}
			if item.BenchmarkAmount != tt.benchmark {
				t.Errorf("BenchmarkAmount = %v, want %v", item.BenchmarkAmount, tt.benchmark)
			}
		})
	}
}
