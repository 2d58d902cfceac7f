// Package diagnostic provides structured error collection for mapping
// validation.
//
// Key capabilities:
//   - Collect every problem in one pass instead of stopping at the first
//   - Attach the offending source column and mapping target to each message
//   - Fold the collection into a single error for the caller
package diagnostic
