// Package report renders engine outcome logs for human consumption.
package report

import (
	"fmt"
	"io"

	"ordercore/internal/engine"
)

// Summary aggregates one outcome log.
type Summary struct {
	Total    int                `json:"total"`
	Applied  int                `json:"applied"`
	Counts   map[engine.Tag]int `json:"counts"`
	Failures []engine.Outcome   `json:"failures,omitempty"`
}

// Summarize computes tag counts and collects failures from a result.
func Summarize(result engine.Result) Summary {
	return Summary{
		Total:    len(result.Outcomes),
		Applied:  result.Applied(),
		Counts:   result.Counts(),
		Failures: result.Failures(),
	}
}

// Render writes a line-per-rule report followed by a summary line.
func Render(w io.Writer, document string, result engine.Result) error {
	if document != "" {
		if _, err := fmt.Fprintf(w, "document %s\n", document); err != nil {
			return err
		}
	}
	for _, outcome := range result.Outcomes {
		line := fmt.Sprintf("  %-18s %s", outcome.Tag, outcome.Rule)
		if outcome.Value != "" {
			line += fmt.Sprintf(" value=%q", outcome.Value)
		}
		if outcome.Detail != "" {
			line += " (" + outcome.Detail + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	summary := Summarize(result)
	_, err := fmt.Fprintf(w, "  %d/%d rules applied, %d failed\n",
		summary.Applied, summary.Total, len(summary.Failures))
	return err
}
