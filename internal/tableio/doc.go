// Package tableio loads and saves tables at the process boundary.
//
// Two formats are supported, selected by file extension: delimited text
// (.csv, configurable separator) and SQLite database files (.sqlite/.db,
// configurable table name). The core is agnostic to which one produced or
// consumes a table.
package tableio
