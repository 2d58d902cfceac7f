// Package reshape implements the wide to semi-long (block-diagonal)
// transformation.
//
// Convert is the single entry point: it merges the supplied associations
// into a column map, optionally validates column references, and pivots the
// input so that each output row is one (identifier tuple, element) pair with
// one column per mapped variable. Variables an element does not define stay
// null in its rows; elements share variable columns only where the mapping
// says so.
package reshape
