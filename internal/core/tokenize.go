package core

// tokenize.go turns CSV text into header-keyed row mappings.
//
// The dialect is small: a double quote toggles quoted mode,
// commas inside quotes do not split, and every cell is trimmed. Escaped
// quotes ("") and newlines inside quoted cells are not supported.

import (
	"iter"
	"slices"
	"strings"
)

// Row is an ordered mapping of header names to one line's cell values.
// It is immutable once built.
type Row struct {
	keys   []string
	values map[string]string
}

// NewRow pairs header names with cells. Missing trailing cells become "".
// When a header name repeats, the last occurrence's cell wins while the
// key keeps its first position.
func NewRow(header, cells []string) Row {
	r := Row{
		keys:   make([]string, 0, len(header)),
		values: make(map[string]string, len(header)),
	}
	for i, name := range header {
		if _, seen := r.values[name]; !seen {
			r.keys = append(r.keys, name)
		}
		if i < len(cells) {
			r.values[name] = cells[i]
		} else {
			r.values[name] = ""
		}
	}
	return r
}

// Has reports whether the row carries the key, whatever its value.
func (r Row) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Get returns the cell for key and whether the key exists.
func (r Row) Get(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Value returns the cell for key, or "" when absent.
func (r Row) Value(key string) string {
	return r.values[key]
}

// Keys returns the header names in order.
func (r Row) Keys() []string {
	return slices.Clone(r.keys)
}

// Len returns the number of distinct keys.
func (r Row) Len() int {
	return len(r.keys)
}

// Rows lazily yields one Row per data line of text.
//
// Lines that are blank after trimming are skipped. The first remaining
// line is the header. The sequence can be ranged over any number of times.
func Rows(text string) iter.Seq[Row] {
	return func(yield func(Row) bool) {
		var header []string
		for line := range strings.SplitSeq(text, "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			if header == nil {
				header = SplitLine(line)
				continue
			}
			if !yield(NewRow(header, SplitLine(line))) {
				return
			}
		}
	}
}

// Tokenize collects Rows into a slice.
func Tokenize(text string) []Row {
	return slices.Collect(Rows(text))
}

// SplitLine splits one CSV line into trimmed cells.
func SplitLine(line string) []string {
	var (
		cells    []string
		cur      strings.Builder
		inQuotes bool
	)
	for _, c := range line {
		switch {
		case c == '"':
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(c)
		}
	}
	return append(cells, strings.TrimSpace(cur.String()))
}
