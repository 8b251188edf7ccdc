package cmd

import (
	"fmt"
	"io"
	"math"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/MSNorm/pkg/filter"
	"github.com/ChrisMcGann/MSNorm/pkg/summary"
)

func (a *app) summarizeCmd() *cobra.Command {
	var ann annotationFlags

	cmd := &cobra.Command{
		Use:   "summarize [raw file]",
		Short: "Summarize normalized peak areas",
		Long: `Print per-column statistics (count, mean, SD, %CV) of the normalized peak
areas of a raw data file, optionally restricted to some sample types, for
example QC samples.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.bindFlags(cmd); err != nil {
				return err
			}
			s, err := loadSettings(a.v)
			if err != nil {
				return err
			}
			wb, err := ann.load()
			if err != nil {
				return err
			}
			in, err := loadInput(args[0], wb)
			if err != nil {
				return err
			}

			res, err := s.pipeline().Run(in)
			if err != nil {
				return err
			}
			a.logReport(args[0], res.Report)

			f := &filter.Config{SampleTypes: s.SampleTypes, DropEmptyColumns: true}
			table := f.Apply(res.Normalized, in.Samples)
			printSummary(a.stdout, table.Multi, summary.Columns(table))
			return nil
		},
	}

	ann.register(cmd)
	cmd.Flags().Bool("multi", false, "Allow multiple ISTDs per transition")
	cmd.Flags().StringSlice("sample-type", nil, "Keep only samples of these Sample_Type values")

	return cmd
}

func printSummary(w io.Writer, multi bool, stats []summary.Stats) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-40s %6s %6s %12s %12s %8s", "Column", "N", "Null", "Mean", "SD", "CV%")))
	for _, s := range stats {
		fmt.Fprintf(w, "%-40s %6d %6d %12s %12s %8s\n",
			s.Key.Label(multi), s.N, s.Null, number(s.Mean, 4), number(s.SD, 4), number(s.CV, 1))
	}
}

func number(f float64, precision int) string {
	if math.IsNaN(f) {
		return "-"
	}
	return fmt.Sprintf("%.*f", precision, f)
}
