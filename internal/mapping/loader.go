package mapping

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"wide2long/utils"
)

// LoadFile loads a mapping file and normalizes it into the canonical
// association sequence. The file extension selects the parser: .csv for the
// tabular form, .json for the two JSON forms. Any other extension is a
// format error.
func LoadFile(path string) ([]Assoc, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
		}
		defer f.Close()

		records, err := csv.NewReader(f).ReadAll()
		if err != nil {
			return nil, fmt.Errorf("failed to parse mapping CSV %s: %w", path, err)
		}

		return ParseTabular(records)
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
		}

		return ParseJSON(data)
	default:
		return nil, fmt.Errorf("%w: mapping must be .csv or .json, got %q", ErrFormat, filepath.Ext(path))
	}
}

// ParseTabular normalizes the tabular mapping form. The first record is the
// header; it must contain source_col, element_id, and variable_col in any
// order, extra columns are ignored.
func ParseTabular(records [][]string) ([]Assoc, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: mapping CSV has no header row", ErrFormat)
	}

	idx := make(map[string]int, len(requiredKeys))

	for i, name := range records[0] {
		name = strings.TrimSpace(name)
		for _, k := range requiredKeys {
			if name == k {
				idx[k] = i
			}
		}
	}

	var missing []string

	for _, k := range requiredKeys {
		if _, ok := idx[k]; !ok {
			missing = append(missing, k)
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: mapping CSV must have columns %s (missing %s)",
			ErrFormat, strings.Join(requiredKeys, ", "), strings.Join(missing, ", "))
	}

	assocs := make([]Assoc, 0, len(records)-1)
	for _, rec := range records[1:] {
		assocs = append(assocs, newAssoc(rec[idx[keySourceCol]], rec[idx[keyElementID]], rec[idx[keyVariableCol]]))
	}

	return assocs, nil
}

// ParseJSON normalizes either JSON mapping form. The block-style shape is
// checked first, then the key-value shape; content matching neither fails
// with a format error naming both.
func ParseJSON(data []byte) ([]Assoc, error) {
	entries, err := decodeObject(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	if isBlockStyle(entries) {
		return parseBlocks(entries)
	}

	if isKeyValueStyle(entries) {
		return parseKeyValues(entries)
	}

	return nil, fmt.Errorf(`%w: unrecognized JSON mapping shape; expected named blocks ({"block_a": [{...}, ...]}) or key-value style ({"pre_i1": ["i1", "pre"], ...})`, ErrFormat)
}

// objectEntry is one top-level JSON object member with its value still raw.
type objectEntry struct {
	key string
	raw json.RawMessage
}

// decodeObject decodes the top level of a JSON document as an object,
// preserving member order. encoding/json maps lose declaration order, which
// would make "first seen" ordering downstream nondeterministic, so the top
// level is walked token by token instead.
func decodeObject(data []byte) ([]objectEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %v", err)
	}

	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("top-level JSON value must be an object")
	}

	var entries []objectEntry

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("invalid JSON: %v", err)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("invalid JSON: %v", err)
		}

		entries = append(entries, objectEntry{key: keyTok.(string), raw: raw})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("invalid JSON: %v", err)
	}

	return entries, nil
}

// isBlockStyle reports whether every top-level value is a list of objects
// that all carry the three required keys, and the object is non-empty.
func isBlockStyle(entries []objectEntry) bool {
	if len(entries) == 0 {
		return false
	}

	for _, e := range entries {
		if !startsWith(e.raw, '[') {
			return false
		}

		var rows []map[string]json.RawMessage
		if err := json.Unmarshal(e.raw, &rows); err != nil {
			return false
		}

		for _, row := range rows {
			for _, k := range requiredKeys {
				if _, ok := row[k]; !ok {
					return false
				}
			}
		}
	}

	return true
}

// isKeyValueStyle reports whether every top-level value is an exactly
// 2-element array, and the object is non-empty.
func isKeyValueStyle(entries []objectEntry) bool {
	if len(entries) == 0 {
		return false
	}

	for _, e := range entries {
		if !startsWith(e.raw, '[') {
			return false
		}

		var pair []json.RawMessage
		if err := json.Unmarshal(e.raw, &pair); err != nil || len(pair) != 2 {
			return false
		}
	}

	return true
}

// parseBlocks flattens all blocks into one association sequence. Block names
// carry no meaning downstream; block order and row order are preserved.
func parseBlocks(entries []objectEntry) ([]Assoc, error) {
	var assocs []Assoc

	for _, e := range entries {
		var rows []map[string]json.RawMessage
		if err := json.Unmarshal(e.raw, &rows); err != nil {
			return nil, fmt.Errorf("%w: block %q: %v", ErrFormat, e.key, err)
		}

		for _, row := range rows {
			src, err := scalarString(row[keySourceCol])
			if err != nil {
				return nil, fmt.Errorf("%w: block %q: %s: %v", ErrFormat, e.key, keySourceCol, err)
			}

			ele, err := scalarString(row[keyElementID])
			if err != nil {
				return nil, fmt.Errorf("%w: block %q: %s: %v", ErrFormat, e.key, keyElementID, err)
			}

			variable, err := scalarString(row[keyVariableCol])
			if err != nil {
				return nil, fmt.Errorf("%w: block %q: %s: %v", ErrFormat, e.key, keyVariableCol, err)
			}

			assocs = append(assocs, newAssoc(src, ele, variable))
		}
	}

	return assocs, nil
}

// parseKeyValues turns each member into one association; the member key is
// the source column, the value pair is [element_id, variable_col].
func parseKeyValues(entries []objectEntry) ([]Assoc, error) {
	assocs := make([]Assoc, 0, len(entries))

	for _, e := range entries {
		var pair []json.RawMessage
		if err := json.Unmarshal(e.raw, &pair); err != nil || len(pair) != 2 {
			return nil, fmt.Errorf("%w: value for %q must be [element_id, variable_col]", ErrFormat, e.key)
		}

		eleRaw, varRaw := utils.Unpack2(pair)

		ele, err := scalarString(eleRaw)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %q: %v", ErrFormat, e.key, err)
		}

		variable, err := scalarString(varRaw)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %q: %v", ErrFormat, e.key, err)
		}

		assocs = append(assocs, newAssoc(e.key, ele, variable))
	}

	return assocs, nil
}

// scalarString coerces a raw JSON scalar to its string rendering, matching
// the loose string coercion mapping authors expect for numeric element
// labels like {"element_id": 1}.
func scalarString(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", fmt.Errorf("missing value")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return "", fmt.Errorf("invalid value: %v", err)
	}

	switch s := v.(type) {
	case string:
		return s, nil
	case json.Number:
		return s.String(), nil
	case bool:
		return strconv.FormatBool(s), nil
	default:
		return "", fmt.Errorf("value must be a string, number, or bool")
	}
}

// startsWith reports whether the first non-whitespace byte of raw is b.
func startsWith(raw json.RawMessage, b byte) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == b
}
