package normalize

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ChrisMcGann/MSNorm/pkg/core"
	"github.com/ChrisMcGann/MSNorm/pkg/mapping"
	"github.com/ChrisMcGann/MSNorm/pkg/report"
)

// wide builds a raw table from column-major float data; NaN marks a null cell.
func wide(samples, columns []string, data ...[]float64) core.WideTable {
	t := core.NewWideTable(samples, columns)
	for c, col := range data {
		for r, v := range col {
			if !math.IsNaN(v) {
				t.Data[c][r] = core.Of(v)
			}
		}
	}
	return t
}

func build(t *testing.T, raw core.WideTable, multi bool, pairs ...string) mapping.Mapping {
	t.Helper()
	var annot core.TransitionAnnotation
	for i := 0; i+1 < len(pairs); i += 2 {
		annot = append(annot, core.TransitionAnnotationEntry{
			TransitionName: pairs[i],
			ISTD:           core.ParseLabel(pairs[i+1]),
		})
	}
	m, err := mapping.Build(raw.UniqueColumns(), annot, nil, multi)
	if err != nil {
		t.Fatalf("mapping.Build() error = %v", err)
	}
	return m
}

func run(t *testing.T, raw core.WideTable, m mapping.Mapping) (core.KeyedTable, report.Report) {
	t.Helper()
	return Normalize(Expand(raw, m), raw, m)
}

func column(t *testing.T, table core.KeyedTable, key core.PairKey) []core.Value {
	t.Helper()
	col, ok := table.Column(key)
	if !ok {
		t.Fatalf("column %v not in output %v", key, table.Keys)
	}
	return col
}

func TestNormalizeOneToOne(t *testing.T) {
	raw := wide([]string{"s1", "s2"}, []string{"A", "A_IS"}, []float64{10, 20}, []float64{2, 5})
	m := build(t, raw, false, "A", "A_IS")

	out, rep := run(t, raw, m)

	want := []core.Value{core.Of(5), core.Of(4)}
	if diff := cmp.Diff(want, column(t, out, core.PairKey{Transition: "A", ISTD: "A_IS"})); diff != "" {
		t.Errorf("normalized A mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"s1", "s2"}, out.Samples); diff != "" {
		t.Errorf("row index mismatch (-want +got):\n%s", diff)
	}
	if len(out.Keys) != 2 {
		t.Errorf("output has %d columns, want 2 (one per input transition)", len(out.Keys))
	}
	if got := rep.Count(report.Mapped); got != 1 {
		t.Errorf("mapped count = %d, want 1", got)
	}
}

func TestNormalizeFloatSemantics(t *testing.T) {
	nan := math.NaN()
	raw := wide([]string{"s1", "s2", "s3", "s4"}, []string{"A", "IS"},
		[]float64{3, 0, 1, nan},
		[]float64{0, 0, nan, 2},
	)
	m := build(t, raw, false, "A", "IS")

	out, _ := run(t, raw, m)
	col := column(t, out, core.PairKey{Transition: "A", ISTD: "IS"})

	if !col[0].Valid || !math.IsInf(col[0].Float, 1) {
		t.Errorf("3/0 = %v, want +Inf", col[0])
	}
	if !col[1].Valid || !math.IsNaN(col[1].Float) {
		t.Errorf("0/0 = %v, want NaN", col[1])
	}
	if !col[2].IsNull() || !col[3].IsNull() {
		t.Errorf("null operands should give null, got %v and %v", col[2], col[3])
	}
}

func TestNormalizeDuplicateISTDInData(t *testing.T) {
	raw := wide([]string{"s1", "s2"}, []string{"A", "A_IS", "A_IS"},
		[]float64{10, 20}, []float64{2, 5}, []float64{2, 5})
	m := build(t, raw, false, "A", "A_IS")

	out, rep := run(t, raw, m)

	if diff := cmp.Diff(core.Nulls(2), column(t, out, core.PairKey{Transition: "A", ISTD: "A_IS"})); diff != "" {
		t.Errorf("A should be all null (-want +got):\n%s", diff)
	}
	want := []report.Record{{Category: report.DuplicateISTDInData, Transition: "A", ISTD: "A_IS"}}
	if diff := cmp.Diff(want, rep.ByCategory(report.DuplicateISTDInData)); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
	if rep.Has(report.Mapped) {
		t.Error("A should no longer be reported as mapped")
	}
}

func TestNormalizeMissingISTDInData(t *testing.T) {
	raw := wide([]string{"s1", "s2"}, []string{"A", "A_IS", "B"},
		[]float64{10, 20}, []float64{2, 5}, []float64{7, 8})
	m := build(t, raw, false, "A", "A_IS", "B", "C")

	out, rep := run(t, raw, m)

	if diff := cmp.Diff(core.Nulls(2), column(t, out, core.PairKey{Transition: "B", ISTD: "C"})); diff != "" {
		t.Errorf("B should be all null (-want +got):\n%s", diff)
	}
	want := []report.Record{{Category: report.MissingISTDInData, Transition: "B", ISTD: "C"}}
	if diff := cmp.Diff(want, rep.ByCategory(report.MissingISTDInData)); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeUnmappedColumnsStayNull(t *testing.T) {
	raw := wide([]string{"s1"}, []string{"A", "B", "IS"}, []float64{1}, []float64{2}, []float64{4})
	m := build(t, raw, false, "B", "")

	out, rep := run(t, raw, m)

	for _, key := range out.Keys {
		if diff := cmp.Diff(core.Nulls(1), column(t, out, key)); diff != "" {
			t.Errorf("column %v should be null:\n%s", key, diff)
		}
	}
	if got := rep.Count(report.MissingInMap); got != 2 {
		t.Errorf("missing-in-map count = %d, want 2 (A and IS)", got)
	}
	if got := rep.Count(report.BlankInMap); got != 1 {
		t.Errorf("blank-in-map count = %d, want 1", got)
	}
	if rep.Len() != 3 {
		t.Errorf("normalization added records for unmapped columns: %v", rep.Records())
	}
}

func TestNormalizeDuplicateTransitionInData(t *testing.T) {
	raw := wide([]string{"s1"}, []string{"A", "A", "IS"}, []float64{1}, []float64{2}, []float64{4})
	m := build(t, raw, false, "A", "IS")

	out, rep := run(t, raw, m)

	if diff := cmp.Diff(core.Nulls(1), column(t, out, core.PairKey{Transition: "A", ISTD: "IS"})); diff != "" {
		t.Errorf("A should be null:\n%s", diff)
	}
	if got := rep.Count(report.DuplicateTransitionInData); got != 1 {
		t.Errorf("duplicate-transition-in-data count = %d, want 1", got)
	}
}

func TestNormalizeMultiISTD(t *testing.T) {
	raw := wide([]string{"s1", "s2"}, []string{"A", "IS1", "IS2"},
		[]float64{12, 30}, []float64{2, 3}, []float64{4, 10})
	m := build(t, raw, true, "A", "IS1", "A", "IS2")

	expanded := Expand(raw, m)
	if len(expanded.Samples) != 2 {
		t.Errorf("Expand() changed row count to %d", len(expanded.Samples))
	}
	k1 := core.PairKey{Transition: "A", ISTD: "IS1"}
	k2 := core.PairKey{Transition: "A", ISTD: "IS2"}
	for _, k := range []core.PairKey{k1, k2} {
		if diff := cmp.Diff(raw.Data[0], column(t, expanded, k)); diff != "" {
			t.Errorf("expanded %v should equal raw A (-want +got):\n%s", k, diff)
		}
	}
	// A gives 2 pairings, IS1 and IS2 one null column each
	if len(expanded.Keys) != 4 {
		t.Errorf("Expand() produced %d columns, want 4", len(expanded.Keys))
	}

	out, _ := Normalize(expanded, raw, m)
	if diff := cmp.Diff([]core.Value{core.Of(6), core.Of(10)}, column(t, out, k1)); diff != "" {
		t.Errorf("A/IS1 mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]core.Value{core.Of(3), core.Of(3)}, column(t, out, k2)); diff != "" {
		t.Errorf("A/IS2 mismatch (-want +got):\n%s", diff)
	}
	if !out.Multi {
		t.Error("output should be flagged as multi-ISTD")
	}
}

func TestNormalizeDoesNotMutateInputs(t *testing.T) {
	raw := wide([]string{"s1"}, []string{"A", "IS"}, []float64{10}, []float64{2})
	m := build(t, raw, false, "A", "IS")
	expanded := Expand(raw, m)
	before := expanded.Clone()

	Normalize(expanded, raw, m)

	if diff := cmp.Diff(before, expanded); diff != "" {
		t.Errorf("Normalize() modified expanded table:\n%s", diff)
	}
	if raw.Data[0][0] != core.Of(10) {
		t.Error("Normalize() modified raw table")
	}
	if m.Report.Count(report.Mapped) != 1 {
		t.Error("Normalize() modified the mapping report")
	}
}
