package redact

import (
	"regexp"
	"strings"
	"testing"
)

func newTestRedactor(t *testing.T) *Redactor {
	t.Helper()
	r, err := NewRedactor()
	if err != nil {
		t.Fatalf("NewRedactor() error = %v", err)
	}
	return r
}

func TestRedactor_Redact(t *testing.T) {
	r := newTestRedactor(t)

	tests := []struct {
		name      string
		text      string
		wantCount int
		wantGone  []string
	}{
		{
			name:      "plain eleven digit national id",
			text:      "patient id 12345678901 on file",
			wantCount: 1,
			wantGone:  []string{"12345678901"},
		},
		{
			name:      "formatted national id",
			text:      "id 123.456.789-01",
			wantCount: 1,
			wantGone:  []string{"123.456.789-01"},
		},
		{
			name:      "phone with separators",
			text:      "call 555-867-5309 today",
			wantCount: 1,
			wantGone:  []string{"555-867-5309"},
		},
		{
			name:      "email address",
			text:      "contact billing@cityhospital.example.com",
			wantCount: 1,
			wantGone:  []string{"billing@cityhospital.example.com"},
		},
		{
			name:      "date of birth",
			text:      "DOB: 01/02/1980 admitted",
			wantCount: 1,
			wantGone:  []string{"01/02/1980"},
		},
		{
			name:      "multiple categories in one document",
			text:      "DOB: 01/02/1980, SSN 12345678901, call 555-867-5309",
			wantCount: 3,
			wantGone:  []string{"01/02/1980", "12345678901", "555-867-5309"},
		},
		{
			name:      "no PII is a no-op",
			text:      "99213 office visit $185.00",
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, count := r.Redact(tt.text)

			if count != tt.wantCount {
				t.Errorf("Redact() count = %d, want %d", count, tt.wantCount)
			}
			for _, leaked := range tt.wantGone {
				if strings.Contains(got, leaked) {
					t.Errorf("Redact() output still contains %q: %q", leaked, got)
				}
			}
			if tt.wantCount > 0 && !strings.Contains(got, Placeholder) {
				t.Errorf("Redact() output missing placeholder: %q", got)
			}
			if tt.wantCount == 0 && got != tt.text {
				t.Errorf("Redact() altered clean text: %q -> %q", tt.text, got)
			}
		})
	}
}

func TestRedactor_Idempotent(t *testing.T) {
	r := newTestRedactor(t)

	texts := []string{
		"patient 12345678901, DOB: 01/02/1980, billing@example.com, 555-867-5309",
		"no identifiers here",
		"",
	}

	for _, text := range texts {
		once, _ := r.Redact(text)
		twice, count := r.Redact(once)

		if twice != once {
			t.Errorf("redact(redact(T)) != redact(T) for %q: %q vs %q", text, twice, once)
		}
		if count != 0 {
			t.Errorf("re-redacting %q performed %d replacements, want 0", once, count)
		}
	}
}

func TestRedactor_NoElevenDigitRunSurvives(t *testing.T) {
	r := newTestRedactor(t)

	got, _ := r.Redact("ids 12345678901 and 98765432109 together")

	elevenDigits := regexp.MustCompile(`\d{11}`)
	if elevenDigits.MatchString(got) {
		t.Errorf("redacted output still matches an 11-digit run: %q", got)
	}
}

// Redaction never inspects extraction results: a text that defeats every
// code pattern still gets its identifiers replaced.
func TestRedactor_IndependentOfFieldExtraction(t *testing.T) {
	r := newTestRedactor(t)

	got, count := r.Redact("@@@@ 12345678901 ####")
	if count != 1 {
		t.Fatalf("Redact() count = %d, want 1", count)
	}
	if strings.Contains(got, "12345678901") {
		t.Errorf("identifier survived: %q", got)
	}
}
