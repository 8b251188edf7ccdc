// Package sqlite provides SQLite database writing for normalization results
package sqlite

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ChrisMcGann/MSNorm/pkg/core"
	"github.com/ChrisMcGann/MSNorm/pkg/report"
	"github.com/ChrisMcGann/MSNorm/pkg/summary"
)

const (
	// Date format for RunTable (ISO 8601)
	runDateFormat = "2006-01-02T15:04:05Z07:00"
)

// Output names the kind of table written to ValueTable.
type Output string

const (
	NormalizedArea Output = "normArea"
	Concentration  Output = "normConc"
)

// Run describes one invocation stored in RunTable.
type Run struct {
	SourceFile        string
	Medium            string
	AllowMultipleISTD bool
}

// Writer handles writing result tables to SQLite database files. Each
// BeginRun starts a new run id; later writes are tagged with it.
type Writer struct {
	db          *sql.DB
	outputPath  string
	valueStmt   *sql.Stmt
	reportStmt  *sql.Stmt
	summaryStmt *sql.Stmt
	runID       string
	now         func() time.Time
}

// NewWriter creates a new SQLite writer
func NewWriter(outputPath string) (*Writer, error) {
	db, err := sql.Open("sqlite3", outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	w := &Writer{
		db:         db,
		outputPath: outputPath,
		now:        time.Now,
	}

	if err := w.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	if err := w.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}

	return w, nil
}

// createTables creates the required database schema
func (w *Writer) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS RunTable (
		RunId TEXT PRIMARY KEY,
		SourceFile TEXT,
		Medium TEXT,
		AllowMultipleISTD BOOL,
		CreationDate TEXT
	);

	CREATE TABLE IF NOT EXISTS ValueTable (
		RunId TEXT REFERENCES RunTable(RunId),
		Output TEXT,
		SampleName TEXT,
		TransitionName TEXT,
		TransitionNameISTD TEXT,
		Value DOUBLE,
		Unit TEXT
	);

	CREATE TABLE IF NOT EXISTS ReportTable (
		RunId TEXT REFERENCES RunTable(RunId),
		Category TEXT,
		TransitionName TEXT,
		TransitionNameISTD TEXT
	);

	CREATE TABLE IF NOT EXISTS SummaryTable (
		RunId TEXT REFERENCES RunTable(RunId),
		Output TEXT,
		TransitionName TEXT,
		TransitionNameISTD TEXT,
		N INTEGER,
		NullCount INTEGER,
		Mean DOUBLE,
		SD DOUBLE,
		CV DOUBLE,
		Min DOUBLE,
		Max DOUBLE
	);
	`

	_, err := w.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// prepareStatements prepares SQL statements for batch insertion
func (w *Writer) prepareStatements() error {
	var err error

	w.valueStmt, err = w.db.Prepare(`
		INSERT INTO ValueTable (
			RunId, Output, SampleName, TransitionName, TransitionNameISTD, Value, Unit
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare value statement: %w", err)
	}

	w.reportStmt, err = w.db.Prepare(`
		INSERT INTO ReportTable (RunId, Category, TransitionName, TransitionNameISTD)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare report statement: %w", err)
	}

	w.summaryStmt, err = w.db.Prepare(`
		INSERT INTO SummaryTable (
			RunId, Output, TransitionName, TransitionNameISTD,
			N, NullCount, Mean, SD, CV, Min, Max
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare summary statement: %w", err)
	}

	return nil
}

// BeginRun inserts a RunTable row and returns its id.
func (w *Writer) BeginRun(run Run) (string, error) {
	id := uuid.NewString()
	_, err := w.db.Exec(`
		INSERT INTO RunTable (RunId, SourceFile, Medium, AllowMultipleISTD, CreationDate)
		VALUES (?, ?, ?, ?, ?)
	`, id, run.SourceFile, run.Medium, run.AllowMultipleISTD, w.now().Format(runDateFormat))
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}
	w.runID = id
	return id, nil
}

func (w *Writer) requireRun() error {
	if w.runID == "" {
		return fmt.Errorf("no run started")
	}
	return nil
}

// WriteTable writes a result table in long format, one row per cell, inside
// a single transaction.
func (w *Writer) WriteTable(output Output, t core.KeyedTable, unit string) error {
	if err := w.requireRun(); err != nil {
		return err
	}

	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	stmt := tx.Stmt(w.valueStmt)
	defer stmt.Close()

	for c, key := range t.Keys {
		var istd any
		if key.ISTD != "" {
			istd = key.ISTD
		}
		for r, sample := range t.Samples {
			_, err := stmt.Exec(
				w.runID,                // RunId
				string(output),         // Output
				sample,                 // SampleName
				key.Transition,         // TransitionName
				istd,                   // TransitionNameISTD
				sqlValue(t.Data[c][r]), // Value
				unit,                   // Unit
			)
			if err != nil {
				tx.Rollback()
				return fmt.Errorf("failed to insert value %s/%s: %w", sample, key, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit values: %w", err)
	}
	return nil
}

// WriteReport writes every report record of the current run.
func (w *Writer) WriteReport(rep report.Report) error {
	if err := w.requireRun(); err != nil {
		return err
	}
	for _, rec := range rep.Sorted() {
		if _, err := w.reportStmt.Exec(w.runID, rec.Category.String(), rec.Transition, rec.ISTD); err != nil {
			return fmt.Errorf("failed to insert report record: %w", err)
		}
	}
	return nil
}

// WriteSummary writes per-column statistics of the current run.
func (w *Writer) WriteSummary(output Output, stats []summary.Stats) error {
	if err := w.requireRun(); err != nil {
		return err
	}
	for _, s := range stats {
		_, err := w.summaryStmt.Exec(
			w.runID,
			string(output),
			s.Key.Transition,
			s.Key.ISTD,
			s.N,
			s.Null,
			sqlFloat(s.Mean),
			sqlFloat(s.SD),
			sqlFloat(s.CV),
			sqlFloat(s.Min),
			sqlFloat(s.Max),
		)
		if err != nil {
			return fmt.Errorf("failed to insert summary for %s: %w", s.Key, err)
		}
	}
	return nil
}

// sqlValue maps null and NaN to SQL NULL. SQLite has no NaN; ±Inf is stored
// as is.
func sqlValue(v core.Value) any {
	if v.IsNull() {
		return nil
	}
	return sqlFloat(v.Float)
}

func sqlFloat(f float64) any {
	if math.IsNaN(f) {
		return nil
	}
	return f
}

// Finalize closes prepared statements and the database
func (w *Writer) Finalize() error {
	if w.valueStmt != nil {
		w.valueStmt.Close()
	}
	if w.reportStmt != nil {
		w.reportStmt.Close()
	}
	if w.summaryStmt != nil {
		w.summaryStmt.Close()
	}

	if err := w.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}

// Close closes the database connection (alias for Finalize)
func (w *Writer) Close() error {
	return w.Finalize()
}

// Path returns the database file path.
func (w *Writer) Path() string {
	return w.outputPath
}
