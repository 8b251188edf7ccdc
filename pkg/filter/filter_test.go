package filter

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ChrisMcGann/MSNorm/pkg/core"
)

func table() core.KeyedTable {
	keys := []core.PairKey{{Transition: "A", ISTD: "IS"}, {Transition: "B"}, {Transition: "C", ISTD: "IS"}}
	t := core.NewKeyedTable([]string{"qc1", "s1", "s2"}, keys, false)
	t.Data[0] = []core.Value{core.Of(1), core.Of(2), core.Of(3)}
	t.Data[2] = []core.Value{core.Null(), core.Of(5), core.Null()}
	return t
}

var samples = core.SampleAnnotation{
	{SampleName: "qc1", SampleType: "QC"},
	{SampleName: "s1", SampleType: "Sample"},
	{SampleName: "s2", SampleType: "Sample"},
}

func TestApplySampleTypes(t *testing.T) {
	in := table()
	cfg := &Config{SampleTypes: []string{"sample"}}

	out := cfg.Apply(in, samples)

	if diff := cmp.Diff([]string{"s1", "s2"}, out.Samples); diff != "" {
		t.Errorf("Samples mismatch (-want +got):\n%s", diff)
	}
	want := []core.Value{core.Of(2), core.Of(3)}
	if diff := cmp.Diff(want, out.Data[0]); diff != "" {
		t.Errorf("column A mismatch (-want +got):\n%s", diff)
	}
	if len(in.Samples) != 3 || in.Data[0][0] != core.Of(1) {
		t.Error("Apply() modified the input table")
	}
}

func TestApplyDropEmptyColumns(t *testing.T) {
	cfg := &Config{SampleTypes: []string{"QC"}, DropEmptyColumns: true}

	out := cfg.Apply(table(), samples)

	want := []core.PairKey{{Transition: "A", ISTD: "IS"}}
	if diff := cmp.Diff(want, out.Keys); diff != "" {
		t.Errorf("Keys mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyTransitions(t *testing.T) {
	cfg := &Config{Transitions: []string{"C", "B"}}

	out := cfg.Apply(table(), nil)

	want := []core.PairKey{{Transition: "B"}, {Transition: "C", ISTD: "IS"}}
	if diff := cmp.Diff(want, out.Keys); diff != "" {
		t.Errorf("Keys mismatch (-want +got):\n%s", diff)
	}
	if len(out.Data) != 2 || len(out.Samples) != 3 {
		t.Errorf("unexpected shape %d x %d", len(out.Samples), len(out.Data))
	}
}

func TestApplyNoop(t *testing.T) {
	in := table()
	out := (&Config{}).Apply(in, nil)
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("empty config changed the table:\n%s", diff)
	}
}
