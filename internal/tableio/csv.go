package tableio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"wide2long/internal/table"
)

// ErrUnsupportedFormat marks a table file extension neither the CSV nor the
// SQLite path recognizes.
var ErrUnsupportedFormat = errors.New("unsupported table format")

// Load reads a table from disk. The extension selects the format: .csv uses
// csvSep as the field separator, .sqlite/.db reads all rows of sqliteTable.
func Load(path string, csvSep rune, sqliteTable string) (*table.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadCSV(path, csvSep)
	case ".sqlite", ".db":
		return loadSQLite(path, sqliteTable)
	default:
		return nil, fmt.Errorf("%w: %q (use .csv or .sqlite)", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Save writes a table to disk, dispatching on extension like Load. CSV
// output always uses a comma separator.
func Save(tbl *table.Table, path string, sqliteTable string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return saveCSV(tbl, path)
	case ".sqlite", ".db":
		return saveSQLite(tbl, path, sqliteTable)
	default:
		return fmt.Errorf("%w: %q (use .csv or .sqlite)", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// loadCSV reads a delimited text file. The first record is the header; empty
// cells load as null, everything else as strings.
func loadCSV(path string, sep rune) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = sep

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV %s: %w", path, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("table %s has no header row", path)
	}

	tbl := table.New(records[0])

	for _, rec := range records[1:] {
		cells := make([]cty.Value, len(rec))

		for i, field := range rec {
			if field == "" {
				cells[i] = table.Null()
				continue
			}

			cells[i] = cty.StringVal(field)
		}

		if err := tbl.AppendRow(cells); err != nil {
			return nil, fmt.Errorf("table %s: %w", path, err)
		}
	}

	return tbl, nil
}

// saveCSV writes a header row plus all data rows; null cells become empty
// fields.
func saveCSV(tbl *table.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if err := w.Write(tbl.Columns()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	rec := make([]string, len(tbl.Columns()))

	for r := 0; r < tbl.NumRows(); r++ {
		for i, v := range tbl.Row(r) {
			rec[i] = table.Render(v)
		}

		if err := w.Write(rec); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}
