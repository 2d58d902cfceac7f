package reshape

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"wide2long/internal/mapping"
	"wide2long/internal/table"
)

// ElementColumn is the name of the output column that holds the element id.
const ElementColumn = "element"

// ErrIntegrity marks two non-null values landing in the same output cell.
// With a well-formed mapping every source column has a unique target, so
// this can only happen when two wide rows share an identifier tuple and both
// populate the same (element, variable).
var ErrIntegrity = errors.New("conflicting values")

// elementGroup accumulates the long rows of one identifier tuple.
type elementGroup struct {
	ids       []cty.Value
	elemOrder []string
	cells     map[string][]cty.Value
}

// Convert reshapes a wide table into the semi-long layout.
//
// Output columns are the identifier columns, then ElementColumn, then one
// column per distinct variable in first-seen mapping order. Rows are grouped
// by identifier tuple in first-appearance order, elements within a tuple in
// first-appearance order. The (identifier tuple, element) pair is unique in
// the output.
//
// With validate set, conflicting associations and references to columns the
// input table does not have are errors; without it, later associations win
// and unknown columns contribute nothing. An empty mapping is an error
// either way.
func Convert(tbl *table.Table, idCols []string, assocs []mapping.Assoc, validate bool) (*table.Table, error) {
	cm, err := mapping.Merge(assocs, validate)
	if err != nil {
		return nil, err
	}

	if validate {
		if err := cm.CheckRefs(tbl.Columns(), idCols); err != nil {
			return nil, err
		}
	}

	vars := cm.Variables()

	varIdx := make(map[string]int, len(vars))
	for i, v := range vars {
		varIdx[v] = i
	}

	var keyOrder []string

	groups := make(map[string]*elementGroup)

	for r := 0; r < tbl.NumRows(); r++ {
		ids := make([]cty.Value, len(idCols))
		parts := make([]string, len(idCols))

		for i, c := range idCols {
			v, ok := tbl.Cell(r, c)
			if !ok {
				v = table.Null()
			}

			ids[i] = v
			parts[i] = encodeKeyPart(v)
		}

		key := strings.Join(parts, "\x1f")

		g, ok := groups[key]
		if !ok {
			g = &elementGroup{ids: ids, cells: make(map[string][]cty.Value)}
			groups[key] = g
			keyOrder = append(keyOrder, key)
		}

		for _, src := range cm.Columns() {
			val, ok := tbl.Cell(r, src)
			if !ok {
				// Unvalidated mode only; a missing source column has no
				// observations to contribute.
				continue
			}

			tgt, _ := cm.Target(src)

			cells, ok := g.cells[tgt.Element]
			if !ok {
				cells = make([]cty.Value, len(vars))
				for i := range cells {
					cells[i] = table.Null()
				}

				g.cells[tgt.Element] = cells
				g.elemOrder = append(g.elemOrder, tgt.Element)
			}

			if val.IsNull() {
				continue
			}

			vi := varIdx[tgt.Variable]
			if !cells[vi].IsNull() {
				return nil, fmt.Errorf("%w for element %q variable %q at identifiers (%s): %s vs %s",
					ErrIntegrity, tgt.Element, tgt.Variable, renderIDs(idCols, ids),
					table.Render(cells[vi]), table.Render(val))
			}

			cells[vi] = val
		}
	}

	outCols := make([]string, 0, len(idCols)+1+len(vars))
	outCols = append(outCols, idCols...)
	outCols = append(outCols, ElementColumn)
	outCols = append(outCols, vars...)

	out := table.New(outCols)

	for _, key := range keyOrder {
		g := groups[key]
		for _, elem := range g.elemOrder {
			row := make([]cty.Value, 0, len(outCols))
			row = append(row, g.ids...)
			row = append(row, cty.StringVal(elem))
			row = append(row, g.cells[elem]...)

			if err := out.AppendRow(row); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}

// encodeKeyPart renders an identifier value for group-key building. Null
// gets its own prefix so it never collides with a real empty string.
func encodeKeyPart(v cty.Value) string {
	if v == cty.NilVal || v.IsNull() {
		return "\x00"
	}

	return "v" + table.Render(v)
}

// renderIDs formats an identifier tuple for error messages.
func renderIDs(idCols []string, ids []cty.Value) string {
	parts := make([]string, len(idCols))
	for i, c := range idCols {
		parts[i] = c + "=" + table.Render(ids[i])
	}

	return strings.Join(parts, ", ")
}
