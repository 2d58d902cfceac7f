package mapping

import (
	"errors"
	"strings"
)

// Field names every tabular or block-style mapping row must carry.
const (
	keySourceCol   = "source_col"
	keyElementID   = "element_id"
	keyVariableCol = "variable_col"
)

// requiredKeys lists the mandatory row fields in canonical order.
var requiredKeys = []string{keySourceCol, keyElementID, keyVariableCol}

// Sentinel errors for the mapping error taxonomy. Concrete errors wrap these,
// so callers can classify with errors.Is.
var (
	// ErrFormat marks mapping content that cannot be understood: an
	// unsupported file extension, a tabular mapping missing required
	// columns, or JSON matching neither recognized shape.
	ErrFormat = errors.New("mapping format error")

	// ErrConflict marks a source column mapped to two different targets.
	// Raised in validated mode only.
	ErrConflict = errors.New("mapping conflict")

	// ErrEmpty marks a merged mapping with zero associations.
	ErrEmpty = errors.New("empty mapping")

	// ErrReference marks a mapped source column or identifier column that
	// does not exist in the input table. Raised in validated mode only.
	ErrReference = errors.New("unknown column reference")
)

// Assoc is one canonical association: this source column holds this
// variable's value for this element. All fields are whitespace-trimmed.
type Assoc struct {
	// Source is the wide-table column the value comes from.
	Source string
	// Element is the logical element the value belongs to.
	Element string
	// Variable is the output variable column the value lands in.
	Variable string
}

// newAssoc builds an association, trimming all three fields. Every parser
// funnels through here so trimming stays uniform across formats.
func newAssoc(source, element, variable string) Assoc {
	return Assoc{
		Source:   strings.TrimSpace(source),
		Element:  strings.TrimSpace(element),
		Variable: strings.TrimSpace(variable),
	}
}

// Target is the (element, variable) pair a source column maps to.
type Target struct {
	Element  string
	Variable string
}

// String renders the target as "(element, variable)".
func (t Target) String() string {
	return "(" + t.Element + ", " + t.Variable + ")"
}

// ColumnMap is the merged lookup table from source column to Target. It
// preserves insertion order so every downstream ordering (variables,
// elements, output rows) is deterministic.
type ColumnMap struct {
	order   []string
	targets map[string]Target
}

// Len returns the number of mapped source columns.
func (m *ColumnMap) Len() int {
	return len(m.order)
}

// Columns returns the mapped source columns in first-seen order. The caller
// must not modify the returned slice.
func (m *ColumnMap) Columns() []string {
	return m.order
}

// Target returns the target for a source column.
func (m *ColumnMap) Target(col string) (Target, bool) {
	t, ok := m.targets[col]
	return t, ok
}

// Variables returns the distinct variable names across all targets, in
// first-seen order. This is the output table's variable column order.
func (m *ColumnMap) Variables() []string {
	seen := make(map[string]struct{}, len(m.order))

	var vars []string

	for _, col := range m.order {
		v := m.targets[col].Variable
		if _, ok := seen[v]; ok {
			continue
		}

		seen[v] = struct{}{}
		vars = append(vars, v)
	}

	return vars
}
