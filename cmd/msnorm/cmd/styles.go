package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ChrisMcGann/MSNorm/pkg/mapping"
	"github.com/ChrisMcGann/MSNorm/pkg/report"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// printReport writes the report grouped by category and ISTD.
func printReport(w io.Writer, title string, rep report.Report) {
	fmt.Fprintln(w, headerStyle.Render(title))

	mapped := rep.Count(report.Mapped)
	fmt.Fprintf(w, "  %s %d transition pairing(s) mapped\n", okStyle.Render("✓"), mapped)

	if rep.Clean() {
		fmt.Fprintln(w, mutedStyle.Render("  no issues"))
		return
	}

	for _, g := range rep.Groups() {
		if g.Category == report.Mapped {
			continue
		}
		fmt.Fprintf(w, "  %s %s %s: %s\n",
			warnStyle.Render("!"),
			g.Category.Description(),
			mutedStyle.Render(g.Key),
			strings.Join(g.Transitions, ", "))
	}
}

// printPairings lists the internal standards each transition is normalized
// against, one line per transition.
func printPairings(w io.Writer, m mapping.Mapping) {
	fmt.Fprintln(w, headerStyle.Render("ISTD pairings"))
	seen := make(map[string]bool)
	for _, key := range m.Keys() {
		if seen[key.Transition] {
			continue
		}
		seen[key.Transition] = true
		if istds := m.ISTDs(key.Transition); len(istds) > 0 {
			fmt.Fprintf(w, "  %s: %s\n", key.Transition, strings.Join(istds, ", "))
		}
	}
}
