package summary

import (
	"math"
	"testing"

	"github.com/ChrisMcGann/MSNorm/pkg/core"
)

func TestColumns(t *testing.T) {
	keys := []core.PairKey{{Transition: "A"}, {Transition: "B"}, {Transition: "C"}}
	table := core.NewKeyedTable([]string{"s1", "s2", "s3", "s4"}, keys, false)
	table.Data[0] = []core.Value{core.Of(2), core.Of(4), core.Of(6), core.Null()}
	table.Data[1] = []core.Value{core.Of(5), core.Of(math.Inf(1)), core.Of(math.NaN()), core.Null()}

	stats := Columns(table)
	if len(stats) != 3 {
		t.Fatalf("Columns() returned %d stats, want 3", len(stats))
	}

	a := stats[0]
	if a.N != 3 || a.Null != 1 {
		t.Errorf("A counts = %d/%d, want 3/1", a.N, a.Null)
	}
	if a.Mean != 4 || a.SD != 2 || a.CV != 50 {
		t.Errorf("A mean/sd/cv = %v/%v/%v, want 4/2/50", a.Mean, a.SD, a.CV)
	}
	if a.Min != 2 || a.Max != 6 {
		t.Errorf("A min/max = %v/%v, want 2/6", a.Min, a.Max)
	}

	b := stats[1]
	if b.N != 1 || b.Mean != 5 || !math.IsNaN(b.SD) {
		t.Errorf("B = %+v, want one finite value with NaN SD", b)
	}

	c := stats[2]
	if c.N != 0 || c.Null != 4 || !math.IsNaN(c.Mean) {
		t.Errorf("C = %+v, want all-null stats", c)
	}
}
