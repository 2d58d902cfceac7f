package mapping

import (
	"fmt"
	"strings"

	"wide2long/internal/diagnostic"
)

// CheckRefs verifies that every mapped source column and every identifier
// column exists in the given table column set. Problems are collected into
// one error: all missing source columns are reported together, not
// one-at-a-time.
func (m *ColumnMap) CheckRefs(columns []string, idCols []string) error {
	have := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		have[c] = struct{}{}
	}

	res := &diagnostic.Diagnostics{}

	var missing []string

	for _, c := range m.order {
		if _, ok := have[c]; !ok {
			missing = append(missing, c)
		}
	}

	if len(missing) > 0 {
		res.AddError("missing_source_columns",
			fmt.Sprintf("selected columns not in table: %s", strings.Join(missing, ", ")), "", "")
	}

	for _, c := range idCols {
		if _, ok := have[c]; !ok {
			res.AddError("missing_id_column", "id column not in table", c, "")
		}
	}

	if res.HasErrors() {
		return fmt.Errorf("%w: %v", ErrReference, res.Error())
	}

	return nil
}
