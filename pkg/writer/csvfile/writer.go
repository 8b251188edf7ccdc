// Package csvfile writes result tables as CSV
package csvfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/ChrisMcGann/MSNorm/pkg/core"
	"github.com/ChrisMcGann/MSNorm/pkg/report"
)

// Writer writes keyed tables. Precision < 0 writes values unrounded.
type Writer struct {
	Precision int
}

// WriteFile writes a table to path.
func (w *Writer) WriteFile(path string, t core.KeyedTable) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := w.Write(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write writes one header row in single-ISTD mode and two header rows
// (transition, then ISTD) in multi-ISTD mode, followed by one row per sample.
func (w *Writer) Write(out io.Writer, t core.KeyedTable) error {
	cw := csv.NewWriter(out)

	names := make([]string, 0, len(t.Keys)+1)
	names = append(names, core.SampleNameColumn)
	for _, k := range t.Keys {
		names = append(names, k.Transition)
	}
	if err := cw.Write(names); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	if t.Multi {
		istds := make([]string, 0, len(t.Keys)+1)
		istds = append(istds, "Transition_Name_ISTD")
		for _, k := range t.Keys {
			istds = append(istds, k.ISTD)
		}
		if err := cw.Write(istds); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for r, sample := range t.Samples {
		rec := make([]string, 0, len(t.Keys)+1)
		rec = append(rec, sample)
		for c := range t.Keys {
			rec = append(rec, w.format(t.Data[c][r]))
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("failed to write sample %s: %w", sample, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func (w *Writer) format(v core.Value) string {
	switch {
	case v.IsNull():
		return ""
	case math.IsNaN(v.Float):
		return "NaN"
	case math.IsInf(v.Float, 1):
		return "Inf"
	case math.IsInf(v.Float, -1):
		return "-Inf"
	}
	f := v.Float
	if w.Precision >= 0 {
		f = core.RoundFloat(f, w.Precision)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// WriteReport writes the report records sorted by ISTD and transition.
func WriteReport(out io.Writer, rep report.Report) error {
	cw := csv.NewWriter(out)
	if err := cw.Write([]string{"Category", "Transition_Name", "Transition_Name_ISTD"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, rec := range rep.Sorted() {
		if err := cw.Write([]string{rec.Category.String(), rec.Transition, rec.ISTD}); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
