package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ChrisMcGann/MSNorm/pkg/core"
	"github.com/ChrisMcGann/MSNorm/pkg/filter"
	"github.com/ChrisMcGann/MSNorm/pkg/pipeline"
	"github.com/ChrisMcGann/MSNorm/pkg/reader/annotation"
	"github.com/ChrisMcGann/MSNorm/pkg/report"
	"github.com/ChrisMcGann/MSNorm/pkg/summary"
	"github.com/ChrisMcGann/MSNorm/pkg/writer/csvfile"
	"github.com/ChrisMcGann/MSNorm/pkg/writer/sqlite"
)

// databaseName is the SQLite file written to the output directory.
const databaseName = "msnorm.db"

func (a *app) runCmd() *cobra.Command {
	var ann annotationFlags

	cmd := &cobra.Command{
		Use:   "run [raw files...]",
		Short: "Normalize raw data files and compute concentrations",
		Long: `Normalize each raw data file against its internal standards and, when an
experiment medium is set, convert normalized areas to concentrations.

Each file is processed independently. Outputs per file:
  <name>_normArea.csv, <name>_normConc.csv, <name>_report.csv
or, with --format sqlite, one run per file in msnorm.db.

Examples:
  msnorm run --annotation annot.xlsx --medium Plasma batch1.csv batch2.csv
  msnorm run --transitions t.csv --istds i.csv --samples s.csv --multi raw.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, &ann, args)
		},
	}

	ann.register(cmd)
	cmd.Flags().Bool("multi", false, "Allow multiple ISTDs per transition")
	cmd.Flags().String("medium", "", "Experiment medium: Plasma, Tissue or Cells (empty = no concentration)")
	cmd.Flags().StringP("out-dir", "o", ".", "Output directory")
	cmd.Flags().String("format", "csv", "Output format: csv or sqlite")
	cmd.Flags().Int("precision", -1, "Decimal places in CSV output (-1 = unrounded)")
	cmd.Flags().StringSlice("sample-type", nil, "Keep only samples of these Sample_Type values")

	return cmd
}

func (a *app) run(cmd *cobra.Command, ann *annotationFlags, files []string) error {
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

	if err := os.MkdirAll(s.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var db *sqlite.Writer
	if s.OutputFormat == "sqlite" {
		db, err = sqlite.NewWriter(filepath.Join(s.OutputDir, databaseName))
		if err != nil {
			return fmt.Errorf("failed to create output database: %w", err)
		}
		defer db.Close()
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(a.stderr),
		progressbar.OptionSetDescription("Normalizing"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
	)

	failed := 0
	for _, path := range files {
		if err := cmd.Context().Err(); err != nil {
			return err
		}
		if err := a.processFile(path, wb, s, db); err != nil {
			a.log.Error("failed to process file", zap.String("file", path), zap.Error(err))
			failed++
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", failed, len(files))
	}
	return nil
}

func (a *app) processFile(path string, wb *annotation.Workbook, s settings, db *sqlite.Writer) error {
	in, err := loadInput(path, wb)
	if err != nil {
		return err
	}

	res, err := s.pipeline().Run(in)
	if err != nil {
		return err
	}
	a.logReport(path, res.Report)

	conc := res.Concentration
	if s.Medium != "" && conc.IsSkipped() {
		a.log.Warn("concentration skipped", zap.String("file", path), zap.String("reason", conc.Skipped))
	}
	for _, istd := range conc.UnknownUnits {
		a.log.Warn("unrecognised ISTD concentration unit", zap.String("file", path), zap.String("istd", istd))
	}

	normalized := res.Normalized
	if len(s.SampleTypes) > 0 {
		f := &filter.Config{SampleTypes: s.SampleTypes}
		normalized = f.Apply(normalized, in.Samples)
		if res.State == pipeline.ConcentrationComputed {
			conc.Table = f.Apply(conc.Table, in.Samples)
		}
	}

	if db != nil {
		err = a.writeSQLite(db, path, s, res, normalized, conc.Table, conc.Unit)
	} else {
		err = a.writeCSV(path, s, res, normalized, conc.Table)
	}
	if err != nil {
		return err
	}

	a.log.Info("processed file",
		zap.String("file", path),
		zap.String("state", res.State.String()),
		zap.Int("samples", len(normalized.Samples)),
		zap.Int("columns", len(normalized.Keys)),
		zap.Int("issues", len(res.Report.Issues())),
	)
	return nil
}

// logReport logs every non-mapped report record.
func (a *app) logReport(path string, rep report.Report) {
	for _, rec := range rep.Issues() {
		a.log.Warn(rec.Category.Description(),
			zap.String("category", rec.Category.String()),
			zap.String("transition", rec.Transition),
			zap.String("istd", rec.ISTD),
			zap.String("file", path),
		)
	}
}

func (a *app) writeCSV(path string, s settings, res *pipeline.Result, normalized, conc core.KeyedTable) error {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	w := &csvfile.Writer{Precision: s.Precision}

	if err := w.WriteFile(filepath.Join(s.OutputDir, stem+"_normArea.csv"), normalized); err != nil {
		return err
	}
	if res.State == pipeline.ConcentrationComputed {
		if err := w.WriteFile(filepath.Join(s.OutputDir, stem+"_normConc.csv"), conc); err != nil {
			return err
		}
	}

	f, err := os.Create(filepath.Join(s.OutputDir, stem+"_report.csv"))
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := csvfile.WriteReport(f, res.Report); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (a *app) writeSQLite(db *sqlite.Writer, path string, s settings, res *pipeline.Result, normalized, conc core.KeyedTable, unit string) error {
	runID, err := db.BeginRun(sqlite.Run{
		SourceFile:        filepath.Base(path),
		Medium:            string(s.Medium),
		AllowMultipleISTD: s.AllowMultipleISTD,
	})
	if err != nil {
		return err
	}
	a.log.Debug("started run", zap.String("file", path), zap.String("run_id", runID))

	if err := db.WriteTable(sqlite.NormalizedArea, normalized, ""); err != nil {
		return err
	}
	if err := db.WriteSummary(sqlite.NormalizedArea, summary.Columns(normalized)); err != nil {
		return err
	}
	if res.State == pipeline.ConcentrationComputed {
		if err := db.WriteTable(sqlite.Concentration, conc, unit); err != nil {
			return err
		}
		if err := db.WriteSummary(sqlite.Concentration, summary.Columns(conc)); err != nil {
			return err
		}
	}
	return db.WriteReport(res.Report)
}
