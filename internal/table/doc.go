// Package table provides the in-memory table model shared by the loaders,
// the reshape engine, and the savers.
//
// Key types:
//   - Table: explicit column order plus rows of cty.Value cells
//   - Null: the missing-cell sentinel, distinct from "", 0, and false
package table
