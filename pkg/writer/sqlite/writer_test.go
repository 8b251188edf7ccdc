package sqlite

import (
	"database/sql"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/MSNorm/pkg/core"
	"github.com/ChrisMcGann/MSNorm/pkg/report"
	"github.com/ChrisMcGann/MSNorm/pkg/summary"
)

func TestWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")
	w, err := NewWriter(path)
	require.NoError(t, err)
	assert.Equal(t, path, w.Path())

	_, err = w.BeginRun(Run{SourceFile: "raw.csv", Medium: "Plasma"})
	require.NoError(t, err)

	keys := []core.PairKey{{Transition: "A", ISTD: "IS1"}, {Transition: "X"}}
	table := core.NewKeyedTable([]string{"s1", "s2"}, keys, false)
	table.Data[0] = []core.Value{core.Of(0.5), core.Of(math.NaN())}

	require.NoError(t, w.WriteTable(NormalizedArea, table, ""))
	require.NoError(t, w.WriteReport(report.New(
		report.Record{Category: report.Mapped, Transition: "A", ISTD: "IS1"},
		report.Record{Category: report.MissingInMap, Transition: "X"},
	)))
	require.NoError(t, w.WriteSummary(NormalizedArea, summary.Columns(table)))
	require.NoError(t, w.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var runs int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM RunTable").Scan(&runs))
	assert.Equal(t, 1, runs)

	var values, nulls int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM ValueTable").Scan(&values))
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM ValueTable WHERE Value IS NULL").Scan(&nulls))
	assert.Equal(t, 4, values)
	assert.Equal(t, 3, nulls)

	var v float64
	require.NoError(t, db.QueryRow(
		"SELECT Value FROM ValueTable WHERE SampleName = 's1' AND TransitionName = 'A'").Scan(&v))
	assert.Equal(t, 0.5, v)

	var istd sql.NullString
	require.NoError(t, db.QueryRow(
		"SELECT TransitionNameISTD FROM ValueTable WHERE TransitionName = 'X' LIMIT 1").Scan(&istd))
	assert.False(t, istd.Valid)

	var category string
	require.NoError(t, db.QueryRow(
		"SELECT Category FROM ReportTable WHERE TransitionName = 'X'").Scan(&category))
	assert.Equal(t, "missing-in-map", category)

	var n int
	require.NoError(t, db.QueryRow(
		"SELECT N FROM SummaryTable WHERE TransitionName = 'A'").Scan(&n))
	assert.Equal(t, 1, n)
}

func TestWriterRequiresRun(t *testing.T) {
	w, err := NewWriter(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	defer w.Close()

	table := core.NewKeyedTable([]string{"s1"}, []core.PairKey{{Transition: "A"}}, false)
	assert.Error(t, w.WriteTable(NormalizedArea, table, ""))
	assert.Error(t, w.WriteReport(report.New()))
}
