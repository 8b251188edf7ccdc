// Package mapping builds the correspondence between measured transitions and
// their internal standards.
package mapping

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ChrisMcGann/MSNorm/pkg/core"
	"github.com/ChrisMcGann/MSNorm/pkg/report"
)

// ErrInvalidISTDLabel is returned when a Transition_Name_ISTD cell is neither
// a name nor a blank placeholder. It is the only fatal mapping condition.
var ErrInvalidISTDLabel = errors.New("invalid Transition_Name_ISTD value")

// LabelError names the transition whose annotation carried an invalid label.
type LabelError struct {
	Transition string
	Value      any
}

func (e *LabelError) Error() string {
	return fmt.Sprintf("transition %q has an invalid Transition_Name_ISTD value %v (%T)", e.Transition, e.Value, e.Value)
}

func (e *LabelError) Unwrap() error {
	return ErrInvalidISTDLabel
}

// Entry is one output column of the mapping and its outcome.
type Entry struct {
	Key      core.PairKey
	Category report.Category
}

// Mapping relates each data column to its internal standard(s).
type Mapping struct {
	Multi   bool
	Entries []Entry
	Report  report.Report
}

// Keys returns the output column keys in mapping order.
func (m Mapping) Keys() []core.PairKey {
	keys := make([]core.PairKey, len(m.Entries))
	for i, e := range m.Entries {
		keys[i] = e.Key
	}
	return keys
}

// Lookup returns the entry for an output column.
func (m Mapping) Lookup(key core.PairKey) (Entry, bool) {
	for _, e := range m.Entries {
		if e.Key == key {
			return e, true
		}
	}
	return Entry{}, false
}

// Mapped returns the keys whose outcome is report.Mapped.
func (m Mapping) Mapped() []core.PairKey {
	var keys []core.PairKey
	for _, e := range m.Entries {
		if e.Category == report.Mapped {
			keys = append(keys, e.Key)
		}
	}
	return keys
}

// ISTDs returns the internal standards mapped to a transition.
func (m Mapping) ISTDs(transition string) []string {
	var out []string
	for _, e := range m.Entries {
		if e.Key.Transition == transition && e.Category == report.Mapped {
			out = append(out, e.Key.ISTD)
		}
	}
	return out
}

// Build maps every data column to its internal standard(s) using the
// transition annotation, and cross-checks the referenced ISTD names against
// the ISTD annotation. Inputs are not modified.
//
// In single-ISTD mode every column yields exactly one entry. In multi-ISTD mode
// every distinct named pairing yields an entry; a column without any named
// pairing yields one entry with an empty ISTD.
//
// An invalid ISTD label on any annotation row is fatal, whether or not its
// transition occurs in the data.
func Build(columns []string, transitions core.TransitionAnnotation, istds core.ISTDAnnotation, multi bool) (Mapping, error) {
	for _, e := range transitions {
		if e.ISTD.Kind == core.LabelInvalid {
			return Mapping{}, &LabelError{Transition: strings.TrimSpace(e.TransitionName), Value: e.ISTD.Raw}
		}
	}

	byTransition := transitions.ByTransition()

	m := Mapping{Multi: multi}
	var records []report.Record
	seen := make(map[string]bool, len(columns))

	for _, col := range columns {
		if seen[col] {
			continue
		}
		seen[col] = true

		labels := byTransition[col]
		var entries []Entry
		var recs []report.Record
		if multi {
			entries, recs = mapMulti(col, labels)
		} else {
			entries, recs = mapSingle(col, labels)
		}
		m.Entries = append(m.Entries, entries...)
		records = append(records, recs...)
	}

	records = append(records, crossCheck(transitions, istds)...)
	m.Report = report.New(records...)
	return m, nil
}

func mapSingle(t string, labels []core.Label) ([]Entry, []report.Record) {
	var e Entry
	switch {
	case len(labels) == 0:
		e = Entry{Key: core.PairKey{Transition: t}, Category: report.MissingInMap}
	case len(labels) > 1:
		e = Entry{Key: core.PairKey{Transition: t}, Category: report.DuplicateInMap}
	default:
		e = classify(t, labels[0])
	}
	return []Entry{e}, []report.Record{record(e)}
}

func mapMulti(t string, labels []core.Label) ([]Entry, []report.Record) {
	if len(labels) == 0 {
		e := Entry{Key: core.PairKey{Transition: t}, Category: report.MissingInMap}
		return []Entry{e}, []report.Record{record(e)}
	}

	var entries []Entry
	index := make(map[core.PairKey]int)
	blank := false
	for _, l := range labels {
		e := classify(t, l)
		if e.Category == report.BlankInMap {
			blank = true
			continue
		}
		if i, ok := index[e.Key]; ok {
			entries[i].Category = report.DuplicateInMap
			continue
		}
		index[e.Key] = len(entries)
		entries = append(entries, e)
	}

	recs := make([]report.Record, 0, len(entries)+1)
	for _, e := range entries {
		recs = append(recs, record(e))
	}
	if blank {
		b := Entry{Key: core.PairKey{Transition: t}, Category: report.BlankInMap}
		recs = append(recs, record(b))
		if len(entries) == 0 {
			entries = append(entries, b)
		}
	}
	return entries, recs
}

func classify(t string, l core.Label) Entry {
	if l.Kind == core.LabelBlank {
		return Entry{Key: core.PairKey{Transition: t}, Category: report.BlankInMap}
	}
	key := core.PairKey{Transition: t, ISTD: l.Text}
	if l.Text == t {
		return Entry{Key: key, Category: report.SelfReference}
	}
	return Entry{Key: key, Category: report.Mapped}
}

func record(e Entry) report.Record {
	return report.Record{Category: e.Category, Transition: e.Key.Transition, ISTD: e.Key.ISTD}
}

// crossCheck reports every named ISTD in the transition annotation that has no
// row in the ISTD annotation, once per referencing transition.
func crossCheck(transitions core.TransitionAnnotation, istds core.ISTDAnnotation) []report.Record {
	known := istds.Names()
	seen := make(map[core.PairKey]bool)
	var recs []report.Record
	for _, e := range transitions {
		if e.ISTD.Kind != core.LabelText || known[e.ISTD.Text] {
			continue
		}
		key := core.PairKey{Transition: strings.TrimSpace(e.TransitionName), ISTD: e.ISTD.Text}
		if seen[key] {
			continue
		}
		seen[key] = true
		recs = append(recs, report.Record{
			Category:   report.ISTDNotInAnnotation,
			Transition: key.Transition,
			ISTD:       key.ISTD,
		})
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Key().Less(recs[j].Key())
	})
	return recs
}
