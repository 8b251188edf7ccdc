// Package summary computes per-column descriptive statistics of result tables.
package summary

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ChrisMcGann/MSNorm/pkg/core"
)

// Stats describes the finite values of one column.
type Stats struct {
	Key  core.PairKey
	N    int     // Number of finite values
	Null int     // Number of null values
	Mean float64 // NaN when N == 0
	SD   float64 // Sample standard deviation, NaN when N < 2
	CV   float64 // Coefficient of variation in percent
	Min  float64
	Max  float64
}

// Columns returns the statistics of every column in table order. NaN and
// ±Inf values are not counted.
func Columns(t core.KeyedTable) []Stats {
	out := make([]Stats, len(t.Keys))
	for i, key := range t.Keys {
		out[i] = column(key, t.Data[i])
	}
	return out
}

func column(key core.PairKey, col []core.Value) Stats {
	s := Stats{Key: key, Mean: math.NaN(), SD: math.NaN(), CV: math.NaN(), Min: math.NaN(), Max: math.NaN()}

	xs := make([]float64, 0, len(col))
	for _, v := range col {
		if v.IsNull() {
			s.Null++
			continue
		}
		if v.IsFinite() {
			xs = append(xs, v.Float)
		}
	}
	s.N = len(xs)
	if s.N == 0 {
		return s
	}

	s.Min = floats.Min(xs)
	s.Max = floats.Max(xs)
	if s.N == 1 {
		s.Mean = xs[0]
		return s
	}

	s.Mean, s.SD = stat.MeanStdDev(xs, nil)
	if s.Mean != 0 {
		s.CV = s.SD / s.Mean * 100
	}
	return s
}
