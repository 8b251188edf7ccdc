// Package annotation reads the Transition_Name_Annot, ISTD_Annot and
// Sample_Annot tables from CSV files or an Excel workbook.
package annotation

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/ChrisMcGann/MSNorm/pkg/core"
)

// Sheet names of the annotation workbook.
const (
	TransitionSheet = "Transition_Name_Annot"
	ISTDSheet       = "ISTD_Annot"
	SampleSheet     = "Sample_Annot"
)

// Column headers.
const (
	colTransitionName     = "Transition_Name"
	colTransitionNameISTD = "Transition_Name_ISTD"
	colISTDConc           = "ISTD_Conc"
	colDataFileName       = "Data_File_Name"
	colSampleName         = "Sample_Name"
	colSampleType         = "Sample_Type"
	colSampleAmount       = "Sample_Amount"
	colISTDMixtureVolume  = "ISTD_Mixture_Volume"
	unitSuffix            = "_Unit"
)

// unitHeader matches headers that carry their unit, e.g. "ISTD_Conc_[nM]".
var unitHeader = regexp.MustCompile(`^(.+?)_?\s*\[(.+)\]$`)

// Workbook holds the three annotation tables.
type Workbook struct {
	Transitions core.TransitionAnnotation
	ISTDs       core.ISTDAnnotation
	Samples     core.SampleAnnotation
}

// readCSV returns all records of a CSV stream.
func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV: %w", err)
	}
	return rows, nil
}

// ReadTransitionCSV reads a Transition_Name_Annot table from CSV.
func ReadTransitionCSV(r io.Reader) (core.TransitionAnnotation, error) {
	rows, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	return ParseTransitionRows(rows)
}

// ReadISTDCSV reads an ISTD_Annot table from CSV.
func ReadISTDCSV(r io.Reader) (core.ISTDAnnotation, error) {
	rows, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	return ParseISTDRows(rows)
}

// ReadSampleCSV reads a Sample_Annot table from CSV.
func ReadSampleCSV(r io.Reader) (core.SampleAnnotation, error) {
	rows, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	return ParseSampleRows(rows)
}

// header indexes the columns of the first row.
type header struct {
	cols  map[string]int
	names []string
	units map[string]string // base name -> unit taken from a "[unit]" header
}

func newHeader(row []string) header {
	h := header{cols: make(map[string]int), units: make(map[string]string)}
	for i, name := range row {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		h.names = append(h.names, name)
		if m := unitHeader.FindStringSubmatch(name); m != nil {
			base := strings.TrimSpace(m[1])
			h.units[base] = strings.TrimSpace(m[2])
			if _, ok := h.cols[base]; !ok {
				h.cols[base] = i
			}
		}
		if _, ok := h.cols[name]; !ok {
			h.cols[name] = i
		}
	}
	return h
}

func (h header) require(sheet string, names ...string) error {
	var missing []string
	for _, n := range names {
		if _, ok := h.cols[n]; !ok {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s: missing column(s) %s", sheet, strings.Join(missing, ", "))
	}
	return nil
}

func (h header) get(row []string, name string) string {
	i, ok := h.cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// unit returns the unit of a value column: from its "_Unit" companion column
// when present, otherwise from a "[unit]" header.
func (h header) unit(row []string, name string) string {
	if _, ok := h.cols[name+unitSuffix]; ok {
		return h.get(row, name+unitSuffix)
	}
	return h.units[name]
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// cell types a raw cell the way a spreadsheet would: blank and NA tokens are
// nil, numbers are float64, anything else is a string.
func cell(s string) any {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "na", "nan", "n/a", "#n/a":
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func value(s string, line int, column string) (core.Value, error) {
	switch c := cell(s).(type) {
	case nil:
		return core.Null(), nil
	case float64:
		return core.Of(c), nil
	default:
		return core.Null(), fmt.Errorf("line %d: invalid %s value '%s'", line, column, s)
	}
}

// ParseTransitionRows builds a Transition_Name_Annot table; the first row is the header.
func ParseTransitionRows(rows [][]string) (core.TransitionAnnotation, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: empty table", TransitionSheet)
	}
	h := newHeader(rows[0])
	if err := h.require(TransitionSheet, colTransitionName, colTransitionNameISTD); err != nil {
		return nil, err
	}

	var out core.TransitionAnnotation
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		e := core.TransitionAnnotationEntry{
			TransitionName: h.get(row, colTransitionName),
			ISTD:           core.ParseLabel(cell(h.get(row, colTransitionNameISTD))),
		}
		e.Extra = extras(h, row, colTransitionName, colTransitionNameISTD)
		out = append(out, e)
	}
	return out, nil
}

// ParseISTDRows builds an ISTD_Annot table; the first row is the header.
func ParseISTDRows(rows [][]string) (core.ISTDAnnotation, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	h := newHeader(rows[0])
	if err := h.require(ISTDSheet, colTransitionNameISTD, colISTDConc); err != nil {
		return nil, err
	}

	var out core.ISTDAnnotation
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		conc, err := value(h.get(row, colISTDConc), i+2, colISTDConc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ISTDSheet, err)
		}
		out = append(out, core.ISTDAnnotationEntry{
			TransitionNameISTD: h.get(row, colTransitionNameISTD),
			Concentration:      conc,
			ConcentrationUnit:  h.unit(row, colISTDConc),
			Extra:              extras(h, row, colTransitionNameISTD, colISTDConc, colISTDConc+unitSuffix),
		})
	}
	return out, nil
}

// ParseSampleRows builds a Sample_Annot table; the first row is the header.
func ParseSampleRows(rows [][]string) (core.SampleAnnotation, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	h := newHeader(rows[0])
	if err := h.require(SampleSheet, colSampleName); err != nil {
		return nil, err
	}

	var out core.SampleAnnotation
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		amount, err := value(h.get(row, colSampleAmount), i+2, colSampleAmount)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", SampleSheet, err)
		}
		volume, err := value(h.get(row, colISTDMixtureVolume), i+2, colISTDMixtureVolume)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", SampleSheet, err)
		}
		out = append(out, core.SampleAnnotationEntry{
			DataFileName:          h.get(row, colDataFileName),
			SampleName:            h.get(row, colSampleName),
			SampleType:            h.get(row, colSampleType),
			SampleAmount:          amount,
			SampleAmountUnit:      h.unit(row, colSampleAmount),
			ISTDMixtureVolume:     volume,
			ISTDMixtureVolumeUnit: h.unit(row, colISTDMixtureVolume),
		})
	}
	return out, nil
}

func extras(h header, row []string, known ...string) map[string]string {
	skip := make(map[string]bool, len(known))
	for _, k := range known {
		skip[k] = true
	}
	var out map[string]string
	for i, name := range h.names {
		if skip[name] || name == "" || i >= len(row) {
			continue
		}
		if m := unitHeader.FindStringSubmatch(name); m != nil && skip[strings.TrimSpace(m[1])] {
			continue
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[name] = strings.TrimSpace(row[i])
	}
	return out
}
