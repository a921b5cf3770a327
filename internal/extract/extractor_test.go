package extract

import (
	"testing"
	"time"

	"github.com/clearcost/billaudit/internal/model"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	e, err := NewExtractor()
	if err != nil {
		t.Fatalf("NewExtractor() error = %v", err)
	}
	return e
}

const sampleBill = `CITY GENERAL HOSPITAL
123 Main Street
Account No: 44-88-1234
Policy Number: POL-998877
Date of service: 03/15/2025

99213 Office visit          $185.00
99213 Office visit          $185.00
80053 Metabolic panel       $95.50
J45.40 asthma
A0425 ground mileage
Revenue code 0450
NPI: 1234567893

Statement date 04/02/2025
TOTAL DUE: $465.50`

func TestExtractor_Fields(t *testing.T) {
	e := newTestExtractor(t)
	facts := e.Fields(sampleBill)

	if facts.ProviderName != "CITY GENERAL HOSPITAL" {
		t.Errorf("ProviderName = %q, want %q", facts.ProviderName, "CITY GENERAL HOSPITAL")
	}

	// Duplicated 99213 lines must collapse to one entry.
	wantProcedures := []string{"99213", "80053"}
	if len(facts.ProcedureCodes) != len(wantProcedures) {
		t.Fatalf("ProcedureCodes = %v, want %v", facts.ProcedureCodes, wantProcedures)
	}

	if len(facts.DiagnosisCodes) != 1 || facts.DiagnosisCodes[0] != "J45.40" {
		t.Errorf("DiagnosisCodes = %v, want [J45.40]", facts.DiagnosisCodes)
	}
	if len(facts.SupplyCodes) != 1 || facts.SupplyCodes[0] != "A0425" {
		t.Errorf("SupplyCodes = %v, want [A0425]", facts.SupplyCodes)
	}
	if len(facts.RevenueCodes) != 1 || facts.RevenueCodes[0] != "0450" {
		t.Errorf("RevenueCodes = %v, want [0450]", facts.RevenueCodes)
	}
	if len(facts.ProviderNPIs) != 1 || facts.ProviderNPIs[0] != "1234567893" {
		t.Errorf("ProviderNPIs = %v, want [1234567893]", facts.ProviderNPIs)
	}
	if facts.PolicyNumber != "POL-998877" {
		t.Errorf("PolicyNumber = %q, want POL-998877", facts.PolicyNumber)
	}
	if facts.AccountNumber != "44-88-1234" {
		t.Errorf("AccountNumber = %q, want 44-88-1234", facts.AccountNumber)
	}

	wantStart := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)
	if facts.ServiceDateStart == nil || !facts.ServiceDateStart.Equal(wantStart) {
		t.Errorf("ServiceDateStart = %v, want %v", facts.ServiceDateStart, wantStart)
	}
	if facts.ServiceDateEnd == nil || !facts.ServiceDateEnd.Equal(wantEnd) {
		t.Errorf("ServiceDateEnd = %v, want %v", facts.ServiceDateEnd, wantEnd)
	}
}

func TestExtractor_FieldsIsDeterministic(t *testing.T) {
	e := newTestExtractor(t)

	first := e.Fields(sampleBill)
	second := e.Fields(sampleBill)

	if len(first.ProcedureCodes) != len(second.ProcedureCodes) {
		t.Errorf("repeated Fields() diverged: %v vs %v",
			first.ProcedureCodes, second.ProcedureCodes)
	}
	if len(first.Amounts) != len(second.Amounts) {
		t.Errorf("repeated Fields() amounts diverged: %v vs %v",
			first.Amounts, second.Amounts)
	}
}

func TestExtractor_FieldsEmptyText(t *testing.T) {
	e := newTestExtractor(t)
	facts := e.Fields("")

	if len(facts.ProcedureCodes) != 0 || len(facts.DiagnosisCodes) != 0 ||
		len(facts.SupplyCodes) != 0 || len(facts.RevenueCodes) != 0 {
		t.Errorf("empty text yielded codes: %+v", facts)
	}
	if facts.ProviderName != model.UnknownProvider {
		t.Errorf("ProviderName = %q, want sentinel %q", facts.ProviderName, model.UnknownProvider)
	}
	if got := e.PresumptiveTotal(""); got != 0 {
		t.Errorf("PresumptiveTotal(empty) = %v, want 0", got)
	}
}

// The presumptive total is a documented heuristic: the maximum parsed
// amount, unless a total-labeled line pins it down. A large unrelated
// number on an unlabeled line can still win when no label is present;
// that ambiguity is inherent to the heuristic.
func TestExtractor_PresumptiveTotalHeuristic(t *testing.T) {
	e := newTestExtractor(t)

	tests := []struct {
		name string
		text string
		want float64
	}{
		{
			name: "labeled total wins over larger unrelated amount",
			text: "claim ref $99,999.00\nvisit $185.00\nTOTAL DUE: $465.50",
			want: 465.50,
		},
		{
			name: "maximum amount without any label",
			text: "visit $185.00\npanel $95.50\n$465.50",
			want: 465.50,
		},
		{
			name: "single amount",
			text: "99213 charge $500.00",
			want: 500,
		},
		{
			name: "thousands separators stripped",
			text: "AMOUNT DUE $12,345.67",
			want: 12345.67,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.PresumptiveTotal(tt.text); got != tt.want {
				t.Errorf("PresumptiveTotal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractor_ProviderNameHeuristic(t *testing.T) {
	e := newTestExtractor(t)

	t.Run("keyword beyond first 15 lines is ignored", func(t *testing.T) {
		var text string
		for i := 0; i < 15; i++ {
			text += "line\n"
		}
		text += "LATE CLINIC\n"

		facts := e.Fields(text)
		if facts.ProviderName != model.UnknownProvider {
			t.Errorf("ProviderName = %q, want sentinel", facts.ProviderName)
		}
	})

	t.Run("first matching line wins", func(t *testing.T) {
		facts := e.Fields("WESTSIDE IMAGING CENTER\nEASTSIDE HOSPITAL\n")
		if facts.ProviderName != "WESTSIDE IMAGING CENTER" {
			t.Errorf("ProviderName = %q, want WESTSIDE IMAGING CENTER", facts.ProviderName)
		}
	})
}

func TestParseSlashDate_DayFirstFallback(t *testing.T) {
	// 25/03/2025 has no valid month-first reading, so it is re-read
	// day-first.
	got, ok := parseSlashDate("25/03/2025")
	if !ok {
		t.Fatal("parseSlashDate(25/03/2025) not parsed")
	}
	want := time.Date(2025, 3, 25, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("parseSlashDate(25/03/2025) = %v, want %v", got, want)
	}
}
