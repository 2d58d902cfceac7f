// Package mapping provides loading, normalization, and merging of
// column-mapping files.
//
// A mapping declares, per wide-table column, which element and which output
// variable the column's values belong to. Three on-disk encodings are
// accepted and normalized into one canonical form, an ordered sequence of
// single-column associations:
//
// CSV (header may hold extra columns, order free):
//
//	source_col,element_id,variable_col
//	pre_i1,i1,pre
//	pst_i1,i1,pst
//
// JSON, named-block style (block names are organizational only):
//
//	{
//	  "block_a": [
//	    {"source_col": "pre_i1", "element_id": "i1", "variable_col": "pre"}
//	  ],
//	  "block_b": [ ... ]
//	}
//
// JSON, key-value style:
//
//	{"pre_i1": ["i1", "pre"], "pst_i1": ["i1", "pst"]}
//
// Format detection uses explicit shape predicates (block style checked
// first), never try-and-fall-through parsing, so error messages can name the
// shapes that were attempted. All fields are whitespace-trimmed in every
// format, so merge conflict detection never depends on the encoding a
// mapping arrived in.
//
// Merging folds the association sequence into a ColumnMap. In validated mode
// a source column mapped to two different targets is a conflict; in
// unvalidated mode the later association wins.
package mapping
