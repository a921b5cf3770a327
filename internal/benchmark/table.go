// Package benchmark compares billed amounts against reference average costs
// for common procedure codes.
package benchmark

// Entry is one row of the reference cost table.
type Entry struct {
	Description string
	Average     float64
}

// Table maps procedure codes to reference costs. It is read-only after
// construction and safely shared across concurrent analyses.
type Table struct {
	entries map[string]Entry
}

// defaultEntries are national average costs for frequently billed CPT codes.
var defaultEntries = map[string]Entry{
	"99203": {Description: "Office visit, new patient, low complexity", Average: 150},
	"99204": {Description: "Office visit, new patient, moderate complexity", Average: 230},
	"99213": {Description: "Office visit, established patient, low complexity", Average: 110},
	"99214": {Description: "Office visit, established patient, moderate complexity", Average: 165},
	"99215": {Description: "Office visit, established patient, high complexity", Average: 220},
	"99285": {Description: "Emergency department visit, high severity", Average: 520},
	"36415": {Description: "Routine venipuncture", Average: 15},
	"80053": {Description: "Comprehensive metabolic panel", Average: 48},
	"85025": {Description: "Complete blood count with differential", Average: 35},
	"93000": {Description: "Electrocardiogram, complete", Average: 90},
	"71046": {Description: "Chest X-ray, two views", Average: 120},
	"70450": {Description: "CT scan, head, without contrast", Average: 340},
	"97110": {Description: "Therapeutic exercise, 15 minutes", Average: 75},
}

// NewTable returns the built-in reference table.
func NewTable() *Table {
	return &Table{entries: defaultEntries}
}

// NewTableWith builds a table from custom entries. Used by tests and by
// deployments that load a regional fee schedule.
func NewTableWith(entries map[string]Entry) *Table {
	copied := make(map[string]Entry, len(entries))
	for code, e := range entries {
		copied[code] = e
	}
	return &Table{entries: copied}
}

// Lookup returns the entry for a procedure code, if the table has one.
func (t *Table) Lookup(code string) (Entry, bool) {
	e, ok := t.entries[code]
	return e, ok
}

// Len reports how many codes the table covers.
func (t *Table) Len() int {
	return len(t.entries)
}
