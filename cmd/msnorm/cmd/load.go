package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/MSNorm/pkg/core"
	"github.com/ChrisMcGann/MSNorm/pkg/pipeline"
	"github.com/ChrisMcGann/MSNorm/pkg/reader/annotation"
	"github.com/ChrisMcGann/MSNorm/pkg/reader/widetable"
)

// annotationFlags are the annotation input paths shared by all commands.
type annotationFlags struct {
	workbook    string
	transitions string
	istds       string
	samples     string
}

func (f *annotationFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.workbook, "annotation", "a", "", "Annotation workbook (.xlsx)")
	cmd.Flags().StringVar(&f.transitions, "transitions", "", "Transition_Name_Annot CSV (instead of --annotation)")
	cmd.Flags().StringVar(&f.istds, "istds", "", "ISTD_Annot CSV")
	cmd.Flags().StringVar(&f.samples, "samples", "", "Sample_Annot CSV")
}

func (f *annotationFlags) load() (*annotation.Workbook, error) {
	switch {
	case f.workbook != "" && f.transitions != "":
		return nil, fmt.Errorf("--annotation and --transitions are mutually exclusive")
	case f.workbook != "":
		return annotation.ReadWorkbook(f.workbook)
	case f.transitions != "":
		return annotation.ReadCSVFiles(f.transitions, f.istds, f.samples)
	default:
		return nil, fmt.Errorf("one of --annotation or --transitions is required")
	}
}

// loadInput reads one raw data file and pairs it with the annotation rows
// that belong to it.
func loadInput(path string, wb *annotation.Workbook) (pipeline.Input, error) {
	raw, err := widetable.ReadFile(path)
	if err != nil {
		return pipeline.Input{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return pipeline.Input{
		Raw:         raw,
		Transitions: wb.Transitions,
		ISTDs:       wb.ISTDs,
		Samples:     samplesForFile(wb.Samples, path),
	}, nil
}

// samplesForFile selects the Sample_Annot rows of a raw file. Data_File_Name
// may be given with or without the file extension.
func samplesForFile(samples core.SampleAnnotation, path string) core.SampleAnnotation {
	base := filepath.Base(path)
	if rows := samples.ForFile(base); hasFile(rows, base) {
		return rows
	}
	return samples.ForFile(strings.TrimSuffix(base, filepath.Ext(base)))
}

func hasFile(rows core.SampleAnnotation, name string) bool {
	for _, r := range rows {
		if r.DataFileName == name {
			return true
		}
	}
	return false
}
