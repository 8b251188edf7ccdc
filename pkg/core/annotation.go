package core

import (
	"fmt"
	"math"
	"strings"
)

// LabelKind classifies a raw Transition_Name_ISTD cell.
type LabelKind int

const (
	LabelBlank   LabelKind = iota // empty, null or NaN placeholder
	LabelText                     // a usable ISTD name
	LabelInvalid                  // any other value, e.g. a number
)

// Label is a parsed Transition_Name_ISTD cell.
type Label struct {
	Kind LabelKind
	Text string
	Raw  any
}

// ParseLabel classifies an annotation cell as produced by the workbook
// readers: nil, string, or a numeric type.
func ParseLabel(raw any) Label {
	switch v := raw.(type) {
	case nil:
		return Label{Kind: LabelBlank, Raw: raw}
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return Label{Kind: LabelBlank, Raw: raw}
		}
		return Label{Kind: LabelText, Text: s, Raw: raw}
	case float64:
		if math.IsNaN(v) {
			return Label{Kind: LabelBlank, Raw: raw}
		}
	case float32:
		if math.IsNaN(float64(v)) {
			return Label{Kind: LabelBlank, Raw: raw}
		}
	}
	return Label{Kind: LabelInvalid, Raw: raw}
}

func (l Label) String() string {
	switch l.Kind {
	case LabelText:
		return l.Text
	case LabelBlank:
		return ""
	default:
		return fmt.Sprintf("%v", l.Raw)
	}
}

// TransitionAnnotationEntry links a measured transition to its internal standard.
type TransitionAnnotationEntry struct {
	TransitionName string
	ISTD           Label
	Extra          map[string]string
}

// TransitionAnnotation is the Transition_Name_Annot table.
type TransitionAnnotation []TransitionAnnotationEntry

// ByTransition groups the ISTD labels of every entry by transition name,
// keeping annotation order.
func (a TransitionAnnotation) ByTransition() map[string][]Label {
	out := make(map[string][]Label)
	for _, e := range a {
		name := strings.TrimSpace(e.TransitionName)
		out[name] = append(out[name], e.ISTD)
	}
	return out
}

// ISTDAnnotationEntry describes one internal standard.
type ISTDAnnotationEntry struct {
	TransitionNameISTD string
	Concentration      Value
	ConcentrationUnit  string
	Extra              map[string]string
}

// ISTDAnnotation is the ISTD_Annot table.
type ISTDAnnotation []ISTDAnnotationEntry

// Lookup returns the entry for an ISTD name.
func (a ISTDAnnotation) Lookup(name string) (ISTDAnnotationEntry, bool) {
	for _, e := range a {
		if e.TransitionNameISTD == name {
			return e, true
		}
	}
	return ISTDAnnotationEntry{}, false
}

// Names returns the set of ISTD names in the table.
func (a ISTDAnnotation) Names() map[string]bool {
	names := make(map[string]bool, len(a))
	for _, e := range a {
		names[e.TransitionNameISTD] = true
	}
	return names
}

// SampleAnnotationEntry carries the per-sample dilution parameters.
type SampleAnnotationEntry struct {
	DataFileName          string
	SampleName            string
	SampleType            string
	SampleAmount          Value
	SampleAmountUnit      string
	ISTDMixtureVolume     Value
	ISTDMixtureVolumeUnit string
}

// SampleAnnotation is the Sample_Annot table.
type SampleAnnotation []SampleAnnotationEntry

// ForFile returns the entries belonging to one raw data file. Entries with an
// empty Data_File_Name apply to every file.
func (a SampleAnnotation) ForFile(dataFileName string) SampleAnnotation {
	var out SampleAnnotation
	for _, e := range a {
		if e.DataFileName == "" || e.DataFileName == dataFileName {
			out = append(out, e)
		}
	}
	return out
}

// Index maps sample names to entries. Sample names that occur more than once
// are left out since the entry to use would be ambiguous.
func (a SampleAnnotation) Index() map[string]SampleAnnotationEntry {
	idx := make(map[string]SampleAnnotationEntry, len(a))
	dup := make(map[string]bool)
	for _, e := range a {
		if _, ok := idx[e.SampleName]; ok {
			dup[e.SampleName] = true
			continue
		}
		idx[e.SampleName] = e
	}
	for name := range dup {
		delete(idx, name)
	}
	return idx
}
