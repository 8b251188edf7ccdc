// Package concentration converts normalized peak areas into analyte
// concentrations using ISTD amounts and per-sample dilution parameters.
package concentration

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ChrisMcGann/MSNorm/pkg/core"
)

// ErrUnknownMedium is returned for an experiment medium with no formula.
var ErrUnknownMedium = errors.New("unknown experiment medium")

// Medium selects the concentration formula.
type Medium string

const (
	// Plasma and other liquids: Sample_Amount is a volume.
	Plasma Medium = "Plasma"
	// Tissue: Sample_Amount is a mass, reported per mg.
	Tissue Medium = "Tissue"
	// Cells: Sample_Amount is a cell count in the unit given by the annotation.
	Cells Medium = "Cells"
)

// ParseMedium matches a medium name case-insensitively.
func ParseMedium(s string) (Medium, error) {
	for _, m := range []Medium{Plasma, Tissue, Cells} {
		if strings.EqualFold(strings.TrimSpace(s), string(m)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMedium, s)
}

// Result is the outcome of one concentration calculation. When a required
// annotation field is wholly absent the table is empty and Skipped says why.
type Result struct {
	Table   core.KeyedTable
	Unit    string
	Skipped string
	// UnknownUnits lists, sorted, the ISTDs used by some column whose
	// concentration unit is not recognised. Their columns are null.
	UnknownUnits []string
}

// IsSkipped reports whether the calculation was skipped.
func (r Result) IsSkipped() bool {
	return r.Skipped != ""
}

func skipped(format string, args ...any) Result {
	return Result{Skipped: fmt.Sprintf(format, args...)}
}

// Calculate computes
//
//	concentration = normalized × ISTD concentration × ISTD_Mixture_Volume / Sample_Amount
//
// with units resolved per medium. Rows whose sample or ISTD parameters are
// missing or have unknown units are null; the rest of the table is still
// computed. Inputs are not modified.
func Calculate(normalized core.KeyedTable, istds core.ISTDAnnotation, samples core.SampleAnnotation, medium Medium) (Result, error) {
	if _, err := ParseMedium(string(medium)); err != nil {
		return Result{}, err
	}
	if reason := missingFields(istds, samples); reason != "" {
		return skipped("%s", reason), nil
	}

	outMolar, ok := referenceMolarUnit(istds)
	if !ok {
		return skipped("no ISTD concentration unit is recognised"), nil
	}

	f := newFormula(medium, outMolar, samples)
	out := core.NewKeyedTable(normalized.Samples, normalized.Keys, normalized.Multi)
	sampleIdx := samples.Index()

	rowFactor := make([]core.Value, len(normalized.Samples))
	for r, name := range normalized.Samples {
		rowFactor[r] = core.Null()
		if s, ok := sampleIdx[name]; ok {
			rowFactor[r] = f.dilution(s)
		}
	}

	unknown := make(map[string]bool)
	for c, key := range normalized.Keys {
		conc, ok := istdConcentration(istds, key.ISTD, outMolar)
		if !ok {
			unknown[key.ISTD] = true
		}
		if conc.IsNull() {
			continue
		}
		src := normalized.Data[c]
		dst := out.Data[c]
		for r := range dst {
			dst[r] = src[r].Mul(conc).Mul(rowFactor[r])
		}
	}

	res := Result{Table: out, Unit: f.unit}
	for name := range unknown {
		res.UnknownUnits = append(res.UnknownUnits, name)
	}
	sort.Strings(res.UnknownUnits)
	return res, nil
}

// missingFields returns a reason when a required field is null or blank in
// every row of its table.
func missingFields(istds core.ISTDAnnotation, samples core.SampleAnnotation) string {
	if len(istds) == 0 {
		return "ISTD annotation is empty"
	}
	if len(samples) == 0 {
		return "sample annotation is empty"
	}

	checks := []struct {
		field   string
		present bool
	}{
		{"ISTD concentration", anyISTD(istds, func(e core.ISTDAnnotationEntry) bool { return e.Concentration.Valid })},
		{"ISTD concentration unit", anyISTD(istds, func(e core.ISTDAnnotationEntry) bool { return strings.TrimSpace(e.ConcentrationUnit) != "" })},
		{"Sample_Amount", anySample(samples, func(e core.SampleAnnotationEntry) bool { return e.SampleAmount.Valid })},
		{"Sample_Amount_Unit", anySample(samples, func(e core.SampleAnnotationEntry) bool { return strings.TrimSpace(e.SampleAmountUnit) != "" })},
		{"ISTD_Mixture_Volume", anySample(samples, func(e core.SampleAnnotationEntry) bool { return e.ISTDMixtureVolume.Valid })},
		{"ISTD_Mixture_Volume_Unit", anySample(samples, func(e core.SampleAnnotationEntry) bool { return strings.TrimSpace(e.ISTDMixtureVolumeUnit) != "" })},
	}
	var missing []string
	for _, c := range checks {
		if !c.present {
			missing = append(missing, c.field)
		}
	}
	if len(missing) > 0 {
		return "missing for every row: " + strings.Join(missing, ", ")
	}
	return ""
}

func anyISTD(a core.ISTDAnnotation, pred func(core.ISTDAnnotationEntry) bool) bool {
	for _, e := range a {
		if pred(e) {
			return true
		}
	}
	return false
}

func anySample(a core.SampleAnnotation, pred func(core.SampleAnnotationEntry) bool) bool {
	for _, e := range a {
		if pred(e) {
			return true
		}
	}
	return false
}

// referenceMolarUnit picks the output concentration unit: the first
// recognised ISTD unit in annotation order.
func referenceMolarUnit(istds core.ISTDAnnotation) (string, bool) {
	for _, e := range istds {
		if _, ok := scale(molarUnits, e.ConcentrationUnit); ok {
			return strings.TrimSpace(e.ConcentrationUnit), true
		}
	}
	return "", false
}

// istdConcentration returns the ISTD concentration expressed in outMolar. The
// flag is false only when the ISTD has a concentration in an unknown unit.
func istdConcentration(istds core.ISTDAnnotation, name, outMolar string) (core.Value, bool) {
	if name == "" {
		return core.Null(), true
	}
	e, ok := istds.Lookup(name)
	if !ok || e.Concentration.IsNull() {
		return core.Null(), true
	}
	from, ok := scale(molarUnits, e.ConcentrationUnit)
	if !ok {
		return core.Null(), false
	}
	to, _ := scale(molarUnits, outMolar)
	return core.Of(e.Concentration.Float * from / to), true
}
