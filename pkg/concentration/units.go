package concentration

import "strings"

// Scale factors to the base unit of each dimension (L, mg, M).
var (
	volumeUnits = map[string]float64{
		"nl": 1e-9,
		"ul": 1e-6,
		"ml": 1e-3,
		"l":  1,
	}
	massUnits = map[string]float64{
		"ug": 1e-3,
		"mg": 1,
		"g":  1e3,
	}
	molarUnits = map[string]float64{
		"pm": 1e-12,
		"nm": 1e-9,
		"um": 1e-6,
		"mm": 1e-3,
		"m":  1,
	}
)

func normUnit(u string) string {
	u = strings.TrimSpace(u)
	u = strings.ReplaceAll(u, "µ", "u")
	u = strings.ReplaceAll(u, "μ", "u")
	return strings.ToLower(u)
}

func scale(table map[string]float64, unit string) (float64, bool) {
	f, ok := table[normUnit(unit)]
	return f, ok
}

// molPrefix turns a molar concentration unit such as "nM" into the matching
// amount unit "nmol".
func molPrefix(molarUnit string) string {
	u := strings.TrimSpace(molarUnit)
	if u == "" {
		return "mol"
	}
	return strings.TrimSuffix(u, u[len(u)-1:]) + "mol"
}
