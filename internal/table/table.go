package table

import (
	"fmt"
	"strconv"

	"github.com/zclconf/go-cty/cty"
)

// Null returns the missing-cell sentinel. It is a typed null, so it compares
// unequal to every real value a loader can produce, including cty.StringVal(""),
// cty.Zero, and cty.False.
func Null() cty.Value {
	return cty.NullVal(cty.String)
}

// Table is a rectangular, column-ordered table. Rows are slices of cty.Value
// aligned to the column order. A Table is built once by a loader or by the
// reshape engine and is not mutated afterwards.
type Table struct {
	cols  []string
	index map[string]int
	rows  [][]cty.Value
}

// New creates an empty table with the given column order.
func New(cols []string) *Table {
	t := &Table{
		cols:  append([]string(nil), cols...),
		index: make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		t.index[c] = i
	}

	return t
}

// Columns returns the column names in order. The caller must not modify the
// returned slice.
func (t *Table) Columns() []string {
	return t.cols
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	return len(t.rows)
}

// AppendRow appends one row. The row must have exactly one cell per column.
func (t *Table) AppendRow(cells []cty.Value) error {
	if len(cells) != len(t.cols) {
		return fmt.Errorf("row has %d cells, table has %d columns", len(cells), len(t.cols))
	}

	t.rows = append(t.rows, cells)

	return nil
}

// Row returns the i-th row. The caller must not modify the returned slice.
func (t *Table) Row(i int) []cty.Value {
	return t.rows[i]
}

// Cell returns the value at (row, column). The second return is false when
// the table has no such column.
func (t *Table) Cell(row int, col string) (cty.Value, bool) {
	i, ok := t.index[col]
	if !ok {
		return cty.NilVal, false
	}

	return t.rows[row][i], true
}

// Render formats a cell value for text output. Null renders as the empty
// string; callers that need a visible NA marker substitute their own.
func Render(v cty.Value) string {
	if v == cty.NilVal {
		return ""
	}

	if v.IsNull() {
		return ""
	}

	switch v.Type() {
	case cty.String:
		return v.AsString()
	case cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			i, _ := bf.Int64()
			return strconv.FormatInt(i, 10)
		}

		f, _ := bf.Float64()

		return strconv.FormatFloat(f, 'g', -1, 64)
	case cty.Bool:
		return strconv.FormatBool(v.True())
	default:
		return v.GoString()
	}
}
