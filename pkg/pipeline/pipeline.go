// Package pipeline runs one normalization invocation: mapping, expansion,
// normalization and concentration, in that order.
package pipeline

import (
	"fmt"

	"github.com/ChrisMcGann/MSNorm/pkg/concentration"
	"github.com/ChrisMcGann/MSNorm/pkg/core"
	"github.com/ChrisMcGann/MSNorm/pkg/mapping"
	"github.com/ChrisMcGann/MSNorm/pkg/normalize"
	"github.com/ChrisMcGann/MSNorm/pkg/report"
)

// State is the stage an invocation reached.
type State int

const (
	Unmapped State = iota
	Mapped
	Normalized
	ConcentrationComputed
	// ReportedAsError is terminal: a fatal input problem stopped the invocation.
	ReportedAsError
)

func (s State) String() string {
	switch s {
	case Unmapped:
		return "unmapped"
	case Mapped:
		return "mapped"
	case Normalized:
		return "normalized"
	case ConcentrationComputed:
		return "concentration-computed"
	case ReportedAsError:
		return "reported-as-error"
	}
	return "unknown"
}

// Config holds the caller-supplied switches for an invocation.
type Config struct {
	AllowMultipleISTD bool                 // One output column per (transition, ISTD) pairing
	Medium            concentration.Medium // Empty = skip concentration
}

// Input groups the tables of one invocation. They are treated as read-only,
// so the same annotation tables can be reused across raw files.
type Input struct {
	Raw         core.WideTable
	Transitions core.TransitionAnnotation
	ISTDs       core.ISTDAnnotation
	Samples     core.SampleAnnotation
}

// Result holds everything an invocation produced.
type Result struct {
	State         State
	Mapping       mapping.Mapping
	Normalized    core.KeyedTable
	Concentration concentration.Result
	Report        report.Report
}

// Run executes one invocation. On a fatal error the returned result carries
// only the ReportedAsError state and no tables.
func (c *Config) Run(in Input) (*Result, error) {
	if c.Medium != "" {
		if _, err := concentration.ParseMedium(string(c.Medium)); err != nil {
			return &Result{State: ReportedAsError}, err
		}
	}

	if err := in.Raw.Validate(); err != nil {
		return &Result{State: ReportedAsError}, fmt.Errorf("invalid raw data: %w", err)
	}

	m, err := mapping.Build(in.Raw.UniqueColumns(), in.Transitions, in.ISTDs, c.AllowMultipleISTD)
	if err != nil {
		return &Result{State: ReportedAsError}, fmt.Errorf("failed to map transitions: %w", err)
	}
	res := &Result{State: Mapped, Mapping: m, Report: m.Report}

	expanded := normalize.Expand(in.Raw, m)
	if dups := expanded.DuplicateKeys(); len(dups) > 0 {
		return &Result{State: ReportedAsError}, &core.ValidationError{
			Field:   "mapping",
			Message: fmt.Sprintf("duplicate output columns %v", dups),
		}
	}
	res.Normalized, res.Report = normalize.Normalize(expanded, in.Raw, m)
	res.Report = res.Report.Amend(duplicateColumns(in.Raw, res.Report)...)
	res.State = Normalized

	if c.Medium == "" {
		return res, nil
	}

	conc, err := concentration.Calculate(res.Normalized, in.ISTDs, in.Samples, c.Medium)
	if err != nil {
		return &Result{State: ReportedAsError}, fmt.Errorf("failed to calculate concentration: %w", err)
	}
	res.Concentration = conc
	if !conc.IsSkipped() {
		res.State = ConcentrationComputed
	}

	return res, nil
}

// duplicateColumns records every raw column name that occurs more than once,
// unless normalization already reported it as a duplicated transition.
func duplicateColumns(raw core.WideTable, rep report.Report) []report.Record {
	reported := make(map[string]bool)
	for _, rec := range rep.ByCategory(report.DuplicateTransitionInData) {
		reported[rec.Transition] = true
	}
	var recs []report.Record
	for _, name := range raw.DuplicateColumns() {
		if !reported[name] {
			recs = append(recs, report.Record{Category: report.DuplicateColumnInData, Transition: name})
		}
	}
	return recs
}
