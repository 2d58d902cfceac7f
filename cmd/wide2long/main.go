// Package main provides the CLI entrypoint for wide2long.
//
// wide2long reshapes tabular data from a wide layout (one row per entity,
// repeated measurement groups spread over many columns) into a semi-long,
// block-diagonal layout (one row per entity and element) driven by an
// external column mapping file.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"wide2long/internal/mapping"
	"wide2long/internal/reshape"
	"wide2long/internal/tableio"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Args[1:], os.Stdout); err != nil {
		if err == flag.ErrHelp {
			return
		}

		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// columnList collects identifier column names from repeated and/or
// comma-separated flag values.
type columnList []string

// String renders the collected columns.
func (c *columnList) String() string {
	return strings.Join(*c, ",")
}

// Set appends one flag occurrence, splitting on commas.
func (c *columnList) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		*c = append(*c, part)
	}

	return nil
}

// run encapsulates the CLI logic for easier testing and error handling.
func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("wide2long", flag.ContinueOnError)
	fs.SetOutput(out)

	var idCols columnList

	input := fs.String("input", "", "Input wide data (.csv or .sqlite)")
	output := fs.String("output", "", "Output data (.csv or .sqlite)")
	mappingPath := fs.String("mapping", "", "Mapping file (.csv or .json)")
	fs.Var(&idCols, "id-cols", "Identifier columns to keep (repeatable or comma-separated)")
	csvSep := fs.String("csv-sep", ",", "CSV delimiter for reading input data")
	sqliteTable := fs.String("sqlite-table", tableio.DefaultSQLiteTable, "Table name for SQLite input/output")
	noValidate := fs.Bool("no-validate", false, "Allow the last mapping to override on conflicts and skip column checks")

	if err := fs.Parse(args); err != nil {
		return err
	}

	for name, val := range map[string]string{"input": *input, "output": *output, "mapping": *mappingPath} {
		if val == "" {
			return fmt.Errorf("missing required flag -%s", name)
		}
	}

	if len(idCols) == 0 {
		return fmt.Errorf("missing required flag -id-cols")
	}

	sep, size := utf8.DecodeRuneInString(*csvSep)
	if size == 0 || size != len(*csvSep) || sep == utf8.RuneError {
		return fmt.Errorf("-csv-sep must be a single character, got %q", *csvSep)
	}

	tbl, err := tableio.Load(*input, sep, *sqliteTable)
	if err != nil {
		return err
	}

	slog.Info("loaded input", "path", *input, "rows", tbl.NumRows(), "columns", len(tbl.Columns()))

	assocs, err := mapping.LoadFile(*mappingPath)
	if err != nil {
		return err
	}

	slog.Info("loaded mapping", "path", *mappingPath, "associations", len(assocs))

	result, err := reshape.Convert(tbl, idCols, assocs, !*noValidate)
	if err != nil {
		return err
	}

	if err := tableio.Save(result, *output, *sqliteTable); err != nil {
		return err
	}

	fmt.Fprintf(out, "Saved %s.\n", *output)

	return nil
}
