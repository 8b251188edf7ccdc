// Package widetable reads instrument exports laid out as one row per sample
// and one column per measured quantity.
package widetable

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ChrisMcGann/MSNorm/pkg/core"
)

// nullTokens are cell values read as "no value".
var nullTokens = map[string]bool{
	"":     true,
	"na":   true,
	"nan":  true,
	"n/a":  true,
	"#n/a": true,
	"null": true,
	"nf":   true,
}

// Reader reads a delimited wide table
type Reader struct {
	csv     *csv.Reader
	lineNum int
}

// NewReader creates a new reader. comma is the field delimiter.
func NewReader(r io.Reader, comma rune) *Reader {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return &Reader{csv: cr}
}

// ReadFile reads a wide table from path, choosing the delimiter from the extension.
func ReadFile(path string) (core.WideTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return core.WideTable{}, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	comma := ','
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".txt":
		comma = '\t'
	}
	return NewReader(f, comma).Read()
}

// Read consumes the whole input. The first header cell becomes the key column
// name; it is not checked here so that the engine can report a missing key.
func (r *Reader) Read() (core.WideTable, error) {
	header, err := r.next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return core.WideTable{}, fmt.Errorf("empty input")
		}
		return core.WideTable{}, err
	}
	if len(header) == 0 {
		return core.WideTable{}, fmt.Errorf("line %d: empty header", r.lineNum)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	t := core.WideTable{
		KeyColumn: header[0],
		Columns:   header[1:],
		Data:      make([][]core.Value, len(header)-1),
	}

	for {
		rec, err := r.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return core.WideTable{}, err
		}
		if blankRecord(rec) {
			continue
		}
		if len(rec) > len(header) {
			return core.WideTable{}, fmt.Errorf("line %d: expected %d fields, got %d", r.lineNum, len(header), len(rec))
		}

		t.Samples = append(t.Samples, strings.TrimSpace(rec[0]))
		for c := range t.Columns {
			cell := ""
			if c+1 < len(rec) {
				cell = rec[c+1]
			}
			v, err := parseCell(cell)
			if err != nil {
				return core.WideTable{}, fmt.Errorf("line %d, column %q: %w", r.lineNum, t.Columns[c], err)
			}
			t.Data[c] = append(t.Data[c], v)
		}
	}

	return t, nil
}

func (r *Reader) next() ([]string, error) {
	rec, err := r.csv.Read()
	if err != nil {
		return nil, err
	}
	r.lineNum++
	return rec, nil
}

func blankRecord(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseCell(cell string) (core.Value, error) {
	s := strings.TrimSpace(cell)
	if nullTokens[strings.ToLower(s)] {
		return core.Null(), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return core.Null(), fmt.Errorf("invalid numeric value '%s': %w", s, err)
	}
	return core.Of(f), nil
}
