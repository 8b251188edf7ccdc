package normalize

import (
	"github.com/ChrisMcGann/MSNorm/pkg/core"
	"github.com/ChrisMcGann/MSNorm/pkg/mapping"
	"github.com/ChrisMcGann/MSNorm/pkg/report"
)

// Normalize divides every mapped column of the expanded table by the raw
// column of its internal standard. Columns that cannot be normalized stay
// null. The returned report is the mapping report amended with the data-level
// problems found here; neither input is modified.
func Normalize(expanded core.KeyedTable, raw core.WideTable, m mapping.Mapping) (core.KeyedTable, report.Report) {
	out := core.NewKeyedTable(expanded.Samples, expanded.Keys, expanded.Multi)
	var recs []report.Record

	for i, key := range expanded.Keys {
		entry, ok := m.Lookup(key)
		if !ok || entry.Category != report.Mapped {
			continue
		}

		if len(raw.Occurrences(key.Transition)) > 1 {
			recs = append(recs, dataRecord(report.DuplicateTransitionInData, key))
			continue
		}

		istd := raw.Occurrences(key.ISTD)
		if len(istd) == 0 {
			recs = append(recs, dataRecord(report.MissingISTDInData, key))
			continue
		}
		if len(istd) > 1 {
			recs = append(recs, dataRecord(report.DuplicateISTDInData, key))
			continue
		}

		den := raw.Data[istd[0]]
		num := expanded.Data[i]
		col := out.Data[i]
		for r := range col {
			col[r] = num[r].Div(den[r])
		}
	}

	return out, m.Report.Amend(recs...)
}

func dataRecord(c report.Category, key core.PairKey) report.Record {
	return report.Record{Category: c, Transition: key.Transition, ISTD: key.ISTD}
}
