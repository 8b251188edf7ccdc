// Package report collects the consistency diagnostics produced while mapping
// transitions to internal standards and while normalizing.
package report

import (
	"sort"

	"github.com/ChrisMcGann/MSNorm/pkg/core"
)

// Category is the outcome recorded for a (transition, ISTD) pair.
type Category int

const (
	Mapped Category = iota
	MissingInMap
	DuplicateInMap
	BlankInMap
	SelfReference
	MissingISTDInData
	DuplicateISTDInData
	DuplicateTransitionInData
	// ISTDNotInAnnotation is the cross-check against the ISTD table. It is
	// reported alongside the per-pair outcome, never in place of it.
	ISTDNotInAnnotation
	// DuplicateColumnInData flags a raw column name that occurs more than
	// once. Like ISTDNotInAnnotation it sits alongside any pair outcome.
	DuplicateColumnInData
)

var categoryNames = map[Category]string{
	Mapped:                    "mapped",
	MissingInMap:              "missing-in-map",
	DuplicateInMap:            "duplicate-in-map",
	BlankInMap:                "blank-in-map",
	SelfReference:             "self-reference",
	MissingISTDInData:         "missing-istd-in-data",
	DuplicateISTDInData:       "duplicate-istd-in-data",
	DuplicateTransitionInData: "duplicate-transition-in-data",
	ISTDNotInAnnotation:       "istd-not-in-istd-annotation",
	DuplicateColumnInData:     "duplicate-column-in-data",
}

func (c Category) String() string {
	if n, ok := categoryNames[c]; ok {
		return n
	}
	return "unknown"
}

// IsOutcome reports whether c is one of the mutually exclusive per-pair outcomes.
func (c Category) IsOutcome() bool {
	return c != ISTDNotInAnnotation && c != DuplicateColumnInData
}

// Description is the human-readable sentence used when printing a category.
func (c Category) Description() string {
	switch c {
	case Mapped:
		return "Transitions normalized by their internal standard"
	case MissingInMap:
		return "Transitions missing from the Transition_Name_Annot sheet"
	case DuplicateInMap:
		return "Transitions with more than one Transition_Name_ISTD"
	case BlankInMap:
		return "Transitions with a blank Transition_Name_ISTD"
	case SelfReference:
		return "Transitions annotated with themselves as internal standard"
	case MissingISTDInData:
		return "Internal standards not found in the raw data"
	case DuplicateISTDInData:
		return "Internal standards found more than once in the raw data"
	case DuplicateTransitionInData:
		return "Transitions found more than once in the raw data"
	case ISTDNotInAnnotation:
		return "Internal standards missing from the ISTD_Annot sheet"
	case DuplicateColumnInData:
		return "Columns found more than once in the raw data"
	}
	return c.String()
}

// Record is one diagnostic entry.
type Record struct {
	Category   Category
	Transition string
	ISTD       string
}

// Key returns the pair the record refers to.
func (r Record) Key() core.PairKey {
	return core.PairKey{Transition: r.Transition, ISTD: r.ISTD}
}

// Report is an immutable, ordered list of records. Every method returns new
// slices; the zero value is an empty report.
type Report struct {
	records []Record
}

// New builds a report from records in the given order.
func New(records ...Record) Report {
	return Report{records: append([]Record(nil), records...)}
}

// Len returns the number of records.
func (r Report) Len() int {
	return len(r.records)
}

// Records returns the records in insertion order.
func (r Report) Records() []Record {
	return append([]Record(nil), r.records...)
}

// Amend returns a new report with recs applied. An outcome record replaces the
// existing outcome for the same pair; anything else is appended.
func (r Report) Amend(recs ...Record) Report {
	out := r.Records()
	for _, rec := range recs {
		replaced := false
		if rec.Category.IsOutcome() {
			for i, old := range out {
				if old.Category.IsOutcome() && old.Key() == rec.Key() {
					out[i] = rec
					replaced = true
					break
				}
			}
		}
		if !replaced {
			out = append(out, rec)
		}
	}
	return Report{records: out}
}

// Sorted returns the records ordered by ISTD name, transition name, then category.
func (r Report) Sorted() []Record {
	out := r.Records()
	sortRecords(out)
	return out
}

func sortRecords(recs []Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.ISTD != b.ISTD {
			return a.ISTD < b.ISTD
		}
		if a.Transition != b.Transition {
			return a.Transition < b.Transition
		}
		return a.Category < b.Category
	})
}

// ByCategory returns the sorted records of one category.
func (r Report) ByCategory(c Category) []Record {
	var out []Record
	for _, rec := range r.records {
		if rec.Category == c {
			out = append(out, rec)
		}
	}
	sortRecords(out)
	return out
}

// Count returns the number of records in category c.
func (r Report) Count(c Category) int {
	n := 0
	for _, rec := range r.records {
		if rec.Category == c {
			n++
		}
	}
	return n
}

// Has reports whether any record of category c exists.
func (r Report) Has(c Category) bool {
	return r.Count(c) > 0
}

// Issues returns every record except Mapped ones, sorted.
func (r Report) Issues() []Record {
	var out []Record
	for _, rec := range r.records {
		if rec.Category != Mapped {
			out = append(out, rec)
		}
	}
	sortRecords(out)
	return out
}

// Clean reports whether the report holds nothing but Mapped records.
func (r Report) Clean() bool {
	return len(r.Issues()) == 0
}
