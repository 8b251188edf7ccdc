package annotation

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
)

// ReadWorkbook reads the annotation tables from an .xlsx workbook. The
// Transition_Name_Annot sheet is required; ISTD_Annot and Sample_Annot are
// optional and come back empty when absent.
func ReadWorkbook(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open annotation workbook: %w", err)
	}
	defer f.Close()

	sheets := make(map[string]bool)
	for _, name := range f.GetSheetList() {
		sheets[name] = true
	}
	if !sheets[TransitionSheet] {
		return nil, fmt.Errorf("annotation workbook has no %s sheet", TransitionSheet)
	}

	wb := &Workbook{}

	rows, err := f.GetRows(TransitionSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", TransitionSheet, err)
	}
	if wb.Transitions, err = ParseTransitionRows(rows); err != nil {
		return nil, err
	}

	if sheets[ISTDSheet] {
		rows, err := f.GetRows(ISTDSheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", ISTDSheet, err)
		}
		if wb.ISTDs, err = ParseISTDRows(rows); err != nil {
			return nil, err
		}
	}

	if sheets[SampleSheet] {
		rows, err := f.GetRows(SampleSheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", SampleSheet, err)
		}
		if wb.Samples, err = ParseSampleRows(rows); err != nil {
			return nil, err
		}
	}

	return wb, nil
}

// ReadCSVFiles reads the annotation tables from separate CSV files. Empty
// paths for the ISTD and sample tables are allowed.
func ReadCSVFiles(transitionPath, istdPath, samplePath string) (*Workbook, error) {
	wb := &Workbook{}

	f, err := os.Open(transitionPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	wb.Transitions, err = ReadTransitionCSV(f)
	f.Close()
	if err != nil {
		return nil, err
	}

	if istdPath != "" {
		f, err := os.Open(istdPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
		wb.ISTDs, err = ReadISTDCSV(f)
		f.Close()
		if err != nil {
			return nil, err
		}
	}

	if samplePath != "" {
		f, err := os.Open(samplePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
		wb.Samples, err = ReadSampleCSV(f)
		f.Close()
		if err != nil {
			return nil, err
		}
	}

	return wb, nil
}
