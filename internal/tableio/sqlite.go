package tableio

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/zclconf/go-cty/cty"
	_ "modernc.org/sqlite"

	"wide2long/internal/table"
)

// DefaultSQLiteTable is the table name used when none is configured.
const DefaultSQLiteTable = "data"

// loadSQLite reads every row of the named table, preserving the stored
// column order. Integer and real values load as numbers, text as strings,
// SQL NULL as null.
func loadSQLite(path string, tableName string) (*table.Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer db.Close()

	rows, err := db.Query("SELECT * FROM " + quoteIdent(tableName)) //nolint:gosec // identifier is quoted
	if err != nil {
		return nil, fmt.Errorf("failed to query %s from %s: %w", tableName, path, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", tableName, err)
	}

	tbl := table.New(cols)

	scan := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range scan {
		ptrs[i] = &scan[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row of %s: %w", tableName, err)
		}

		cells := make([]cty.Value, len(cols))
		for i, v := range scan {
			cells[i] = sqlValue(v)
		}

		if err := tbl.AppendRow(cells); err != nil {
			return nil, fmt.Errorf("table %s: %w", path, err)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return tbl, nil
}

// saveSQLite replaces the named table with the given one. All columns are
// declared TEXT; null cells store as SQL NULL.
func saveSQLite(tbl *table.Table, path string, tableName string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DROP TABLE IF EXISTS " + quoteIdent(tableName)); err != nil {
		return fmt.Errorf("failed to reset %s in %s: %w", tableName, path, err)
	}

	cols := tbl.Columns()

	defs := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = quoteIdent(c) + " TEXT"
		marks[i] = "?"
	}

	create := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(tableName), strings.Join(defs, ", "))
	if _, err := tx.Exec(create); err != nil {
		return fmt.Errorf("failed to create %s in %s: %w", tableName, path, err)
	}

	insert := fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(tableName), strings.Join(marks, ", "))

	stmt, err := tx.Prepare(insert)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	defer stmt.Close()

	args := make([]any, len(cols))

	for r := 0; r < tbl.NumRows(); r++ {
		for i, v := range tbl.Row(r) {
			if v.IsNull() {
				args[i] = nil
				continue
			}

			args[i] = table.Render(v)
		}

		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("failed to write row to %s: %w", path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

// sqlValue converts a scanned SQLite value into a cell.
func sqlValue(v any) cty.Value {
	switch x := v.(type) {
	case nil:
		return table.Null()
	case int64:
		return cty.NumberIntVal(x)
	case float64:
		return cty.NumberFloatVal(x)
	case string:
		return cty.StringVal(x)
	case []byte:
		return cty.StringVal(string(x))
	default:
		return cty.StringVal(fmt.Sprint(x))
	}
}

// quoteIdent quotes an SQL identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
