package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/MSNorm/pkg/pipeline"
)

func (a *app) validateCmd() *cobra.Command {
	var ann annotationFlags

	cmd := &cobra.Command{
		Use:   "validate [raw file]",
		Short: "Check a raw data file against the annotation",
		Long: `Build the transition to ISTD mapping for a raw data file and print the
consistency report. Inconsistencies are reported but do not fail the command;
only fatal input errors such as invalid ISTD labels do.`,
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

			cfg := &pipeline.Config{AllowMultipleISTD: s.AllowMultipleISTD}
			res, err := cfg.Run(in)
			if err != nil {
				return err
			}

			printReport(a.stdout, args[0], res.Report)
			if s.AllowMultipleISTD {
				printPairings(a.stdout, res.Mapping)
			}
			return nil
		},
	}

	ann.register(cmd)
	cmd.Flags().Bool("multi", false, "Allow multiple ISTDs per transition")

	return cmd
}
