package concentration

import (
	"strings"

	"github.com/ChrisMcGann/MSNorm/pkg/core"
)

// formula turns a sample's dilution parameters into the factor applied on top
// of normalized area × ISTD concentration.
type formula struct {
	medium    Medium
	unit      string
	countUnit string
}

func newFormula(medium Medium, outMolar string, samples core.SampleAnnotation) formula {
	f := formula{medium: medium}
	switch medium {
	case Plasma:
		f.unit = outMolar
	case Tissue:
		f.unit = molPrefix(outMolar) + "/mg"
	case Cells:
		for _, s := range samples {
			if u := strings.TrimSpace(s.SampleAmountUnit); u != "" {
				f.countUnit = u
				break
			}
		}
		f.unit = molPrefix(outMolar) + "/" + f.countUnit
	}
	return f
}

// dilution returns the per-sample factor, or null when a parameter is missing
// or its unit does not fit the medium.
func (f formula) dilution(s core.SampleAnnotationEntry) core.Value {
	if s.SampleAmount.IsNull() || s.ISTDMixtureVolume.IsNull() {
		return core.Null()
	}
	istdVol, ok := scale(volumeUnits, s.ISTDMixtureVolumeUnit)
	if !ok {
		return core.Null()
	}
	vol := core.Of(s.ISTDMixtureVolume.Float * istdVol)

	switch f.medium {
	case Plasma:
		// (ISTD concentration × ISTD volume) / sample volume, both volumes in L
		amount, ok := scale(volumeUnits, s.SampleAmountUnit)
		if !ok {
			return core.Null()
		}
		return vol.Div(core.Of(s.SampleAmount.Float * amount))
	case Tissue:
		// ISTD concentration × ISTD volume in L is an amount, taken per mg
		amount, ok := scale(massUnits, s.SampleAmountUnit)
		if !ok {
			return core.Null()
		}
		return vol.Div(core.Of(s.SampleAmount.Float * amount))
	case Cells:
		if !strings.EqualFold(strings.TrimSpace(s.SampleAmountUnit), f.countUnit) {
			return core.Null()
		}
		return vol.Div(s.SampleAmount)
	}
	return core.Null()
}
