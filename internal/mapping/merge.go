package mapping

import "fmt"

// Merge folds an ordered association sequence into a ColumnMap.
//
// In validated mode, re-mapping a source column to a different target is a
// conflict; re-asserting the identical target is allowed. In unvalidated
// mode the later association silently wins, keeping the column's original
// position in the order. A sequence that yields zero associations is an
// error in either mode.
func Merge(assocs []Assoc, validate bool) (*ColumnMap, error) {
	cm := &ColumnMap{targets: make(map[string]Target, len(assocs))}

	for _, a := range assocs {
		tgt := Target{Element: a.Element, Variable: a.Variable}

		prev, seen := cm.targets[a.Source]
		if seen {
			if validate && prev != tgt {
				return nil, fmt.Errorf("%w: column %q was mapped to different targets: %s vs %s",
					ErrConflict, a.Source, prev, tgt)
			}

			cm.targets[a.Source] = tgt

			continue
		}

		cm.order = append(cm.order, a.Source)
		cm.targets[a.Source] = tgt
	}

	if cm.Len() == 0 {
		return nil, fmt.Errorf("%w: no columns were selected", ErrEmpty)
	}

	return cm, nil
}
