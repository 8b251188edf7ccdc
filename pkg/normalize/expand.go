// Package normalize divides transition peak areas by the areas of their
// internal standards.
package normalize

import (
	"github.com/ChrisMcGann/MSNorm/pkg/core"
	"github.com/ChrisMcGann/MSNorm/pkg/mapping"
)

// Expand lays the raw table out by mapping key: each (transition, ISTD) pair
// becomes its own column holding an unchanged copy of the transition's raw
// values. Row count is preserved. In single-ISTD mode every transition has a
// single key, so only column identity changes.
//
// A transition whose name occurs more than once in the raw data has no
// well-defined values and gets a null column.
func Expand(raw core.WideTable, m mapping.Mapping) core.KeyedTable {
	out := core.NewKeyedTable(raw.Samples, m.Keys(), m.Multi)
	for i, key := range out.Keys {
		occ := raw.Occurrences(key.Transition)
		if len(occ) != 1 {
			continue
		}
		out.Data[i] = raw.Column(occ[0])
	}
	return out
}
