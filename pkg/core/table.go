package core

import (
	"fmt"
	"sort"
	"strings"
)

// SampleNameColumn is the mandatory key column of every wide table.
const SampleNameColumn = "Sample_Name"

// WideTable is an instrument export: one row per sample, one column per
// measured quantity. Column names may repeat; the normalizer treats repeated
// names as ambiguous rather than picking one.
type WideTable struct {
	KeyColumn string   // Name of the first column, must be Sample_Name
	Samples   []string // Row keys
	Columns   []string // Column names excluding the key column
	Data      [][]Value
}

// NewWideTable creates a table with every cell null.
func NewWideTable(samples, columns []string) WideTable {
	t := WideTable{
		KeyColumn: SampleNameColumn,
		Samples:   append([]string(nil), samples...),
		Columns:   append([]string(nil), columns...),
		Data:      make([][]Value, len(columns)),
	}
	for i := range t.Data {
		t.Data[i] = Nulls(len(samples))
	}
	return t
}

// Validate checks the table shape the engine relies on.
func (t WideTable) Validate() error {
	if t.KeyColumn != SampleNameColumn {
		return &ValidationError{
			Field:   "WideTable",
			Message: fmt.Sprintf("first column is %q, expected %q", t.KeyColumn, SampleNameColumn),
			Err:     ErrMissingSampleKey,
		}
	}
	if dups := t.DuplicateSamples(); len(dups) > 0 {
		return &ValidationError{
			Field:   SampleNameColumn,
			Message: fmt.Sprintf("duplicate sample names: %s", strings.Join(dups, ", ")),
			Err:     ErrDuplicateSample,
		}
	}
	if len(t.Data) != len(t.Columns) {
		return &ValidationError{
			Field:   "WideTable",
			Message: fmt.Sprintf("%d columns but %d data vectors", len(t.Columns), len(t.Data)),
		}
	}
	for i, col := range t.Data {
		if len(col) != len(t.Samples) {
			return &ValidationError{
				Field:   t.Columns[i],
				Message: fmt.Sprintf("%d values for %d samples", len(col), len(t.Samples)),
			}
		}
	}
	return nil
}

// Occurrences returns the indexes of every column called name.
func (t WideTable) Occurrences(name string) []int {
	var idx []int
	for i, c := range t.Columns {
		if c == name {
			idx = append(idx, i)
		}
	}
	return idx
}

// Column returns a copy of the values of column i.
func (t WideTable) Column(i int) []Value {
	return append([]Value(nil), t.Data[i]...)
}

// UniqueColumns returns the column names in first-appearance order, without repeats.
func (t WideTable) UniqueColumns() []string {
	seen := make(map[string]bool, len(t.Columns))
	var out []string
	for _, c := range t.Columns {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// DuplicateColumns returns the sorted names of columns that occur more than once.
func (t WideTable) DuplicateColumns() []string {
	return duplicates(t.Columns)
}

// DuplicateSamples returns the sorted sample names that occur more than once.
func (t WideTable) DuplicateSamples() []string {
	return duplicates(t.Samples)
}

func duplicates(names []string) []string {
	counts := make(map[string]int, len(names))
	for _, n := range names {
		counts[n]++
	}
	var dups []string
	for n, c := range counts {
		if c > 1 {
			dups = append(dups, n)
		}
	}
	sort.Strings(dups)
	return dups
}

// PairKey identifies an output column: a transition and the internal standard
// it is normalized against. ISTD is empty when the transition has no usable pairing.
type PairKey struct {
	Transition string
	ISTD       string
}

// Label renders the key as a single column header. In single-ISTD mode the
// transition name alone identifies the column.
func (k PairKey) Label(multi bool) string {
	if !multi || k.ISTD == "" {
		return k.Transition
	}
	return k.Transition + " / " + k.ISTD
}

// Less orders keys by ISTD name, then transition name.
func (k PairKey) Less(o PairKey) bool {
	if k.ISTD != o.ISTD {
		return k.ISTD < o.ISTD
	}
	return k.Transition < o.Transition
}

func (k PairKey) String() string {
	return fmt.Sprintf("%s -> %s", k.Transition, k.ISTD)
}

// KeyedTable is a sample-keyed table whose columns are identified by PairKey.
// It is produced by the expansion, normalization and concentration stages.
type KeyedTable struct {
	Multi   bool
	Samples []string
	Keys    []PairKey
	Data    [][]Value
}

// NewKeyedTable creates a table with every cell null.
func NewKeyedTable(samples []string, keys []PairKey, multi bool) KeyedTable {
	t := KeyedTable{
		Multi:   multi,
		Samples: append([]string(nil), samples...),
		Keys:    append([]PairKey(nil), keys...),
		Data:    make([][]Value, len(keys)),
	}
	for i := range t.Data {
		t.Data[i] = Nulls(len(samples))
	}
	return t
}

// DuplicateKeys returns the keys that occur more than once, in table order.
func (t KeyedTable) DuplicateKeys() []PairKey {
	seen := make(map[PairKey]int, len(t.Keys))
	var dups []PairKey
	for _, k := range t.Keys {
		seen[k]++
		if seen[k] == 2 {
			dups = append(dups, k)
		}
	}
	return dups
}

// Empty reports whether the table has no columns.
func (t KeyedTable) Empty() bool {
	return len(t.Keys) == 0
}

// Index returns the position of key, or -1.
func (t KeyedTable) Index(key PairKey) int {
	for i, k := range t.Keys {
		if k == key {
			return i
		}
	}
	return -1
}

// Column returns the values stored under key.
func (t KeyedTable) Column(key PairKey) ([]Value, bool) {
	i := t.Index(key)
	if i < 0 {
		return nil, false
	}
	return t.Data[i], true
}

// Labels returns the rendered column headers.
func (t KeyedTable) Labels() []string {
	labels := make([]string, len(t.Keys))
	for i, k := range t.Keys {
		labels[i] = k.Label(t.Multi)
	}
	return labels
}

// Clone returns a deep copy of the table.
func (t KeyedTable) Clone() KeyedTable {
	c := KeyedTable{
		Multi:   t.Multi,
		Samples: append([]string(nil), t.Samples...),
		Keys:    append([]PairKey(nil), t.Keys...),
		Data:    make([][]Value, len(t.Data)),
	}
	for i, col := range t.Data {
		c.Data[i] = append([]Value(nil), col...)
	}
	return c
}
