// Package filter provides sample and column filtering for result tables
package filter

import (
	"strings"

	"github.com/ChrisMcGann/MSNorm/pkg/core"
)

// Config holds filtering configuration
type Config struct {
	SampleTypes      []string // Keep only samples of these Sample_Type values (nil = all)
	Transitions      []string // Keep only these transitions (nil = all)
	DropEmptyColumns bool     // Drop columns with no value in any kept sample
}

// Apply returns a filtered copy of the table. The input is left untouched.
func (c *Config) Apply(t core.KeyedTable, samples core.SampleAnnotation) core.KeyedTable {
	out := t.Clone()

	// Filter by sample type first
	if len(c.SampleTypes) > 0 {
		out = c.filterBySampleType(out, samples)
	}

	if len(c.Transitions) > 0 {
		out = c.filterByTransition(out)
	}

	if c.DropEmptyColumns {
		out = dropEmptyColumns(out)
	}

	return out
}

// filterBySampleType keeps only rows whose annotated Sample_Type is listed.
// Samples without annotation are dropped.
func (c *Config) filterBySampleType(t core.KeyedTable, samples core.SampleAnnotation) core.KeyedTable {
	idx := samples.Index()

	var keep []int
	for r, name := range t.Samples {
		s, ok := idx[name]
		if ok && matchesAny(s.SampleType, c.SampleTypes) {
			keep = append(keep, r)
		}
	}

	out := core.KeyedTable{Multi: t.Multi, Keys: t.Keys, Data: make([][]core.Value, len(t.Data))}
	for _, r := range keep {
		out.Samples = append(out.Samples, t.Samples[r])
	}
	for i, col := range t.Data {
		vals := make([]core.Value, len(keep))
		for j, r := range keep {
			vals[j] = col[r]
		}
		out.Data[i] = vals
	}
	return out
}

// filterByTransition keeps only columns whose transition is listed
func (c *Config) filterByTransition(t core.KeyedTable) core.KeyedTable {
	out := core.KeyedTable{Multi: t.Multi, Samples: t.Samples}
	for i, k := range t.Keys {
		if matchesAny(k.Transition, c.Transitions) {
			out.Keys = append(out.Keys, k)
			out.Data = append(out.Data, t.Data[i])
		}
	}
	return out
}

func dropEmptyColumns(t core.KeyedTable) core.KeyedTable {
	out := core.KeyedTable{Multi: t.Multi, Samples: t.Samples}
	for i, k := range t.Keys {
		if hasValue(t.Data[i]) {
			out.Keys = append(out.Keys, k)
			out.Data = append(out.Data, t.Data[i])
		}
	}
	return out
}

func hasValue(col []core.Value) bool {
	for _, v := range col {
		if v.Valid {
			return true
		}
	}
	return false
}

// matchesAny compares case-insensitively, ignoring surrounding spaces
func matchesAny(value string, allowed []string) bool {
	value = strings.TrimSpace(value)
	for _, a := range allowed {
		if strings.EqualFold(value, strings.TrimSpace(a)) {
			return true
		}
	}
	return false
}
