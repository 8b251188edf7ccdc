package widetable

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ChrisMcGann/MSNorm/pkg/core"
)

func TestRead(t *testing.T) {
	input := "Sample_Name,A,A_IS,A_IS\n" +
		"s1,10,2,2\n" +
		"\n" +
		"s2, 20 ,NA,\n"

	table, err := NewReader(strings.NewReader(input), ',').Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if table.KeyColumn != core.SampleNameColumn {
		t.Errorf("KeyColumn = %q", table.KeyColumn)
	}
	if diff := cmp.Diff([]string{"A", "A_IS", "A_IS"}, table.Columns); diff != "" {
		t.Errorf("Columns mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"s1", "s2"}, table.Samples); diff != "" {
		t.Errorf("Samples mismatch (-want +got):\n%s", diff)
	}
	want := [][]core.Value{
		{core.Of(10), core.Of(20)},
		{core.Of(2), core.Null()},
		{core.Of(2), core.Null()},
	}
	if diff := cmp.Diff(want, table.Data); diff != "" {
		t.Errorf("Data mismatch (-want +got):\n%s", diff)
	}
	if err := table.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestReadShortRowsAreNull(t *testing.T) {
	table, err := NewReader(strings.NewReader("Sample_Name\tA\tB\ns1\t1\n"), '\t').Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !table.Data[1][0].IsNull() {
		t.Errorf("missing trailing cell = %v, want null", table.Data[1][0])
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"bad number", "Sample_Name,A\ns1,abc\n"},
		{"too many fields", "Sample_Name,A\ns1,1,2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewReader(strings.NewReader(tt.input), ',').Read(); err == nil {
				t.Error("Read() error = nil, want error")
			}
		})
	}
}

func TestReadKeepsUnexpectedKeyColumn(t *testing.T) {
	table, err := NewReader(strings.NewReader("Name,A\ns1,1\n"), ',').Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if table.Validate() == nil {
		t.Error("Validate() should reject a table without Sample_Name")
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.tsv")
	if err := os.WriteFile(path, []byte("Sample_Name\tA\ns1\t1.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	table, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if table.Data[0][0] != core.Of(1.5) {
		t.Errorf("value = %v, want 1.5", table.Data[0][0])
	}
}
