// Package report prints scenario run results for humans.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/ozonqa/storefront-e2e/internal/models"
)

const (
	PassMark  = "✓"
	FlakyMark = "~"
	FailMark  = "✗"
	SkipMark  = "-"

	DetailsPrefix = "↳"
)

var (
	PassColor  = color.New(color.FgGreen)
	FlakyColor = color.New(color.FgYellow)
	FailColor  = color.New(color.FgRed)
	GrayColor  = color.New(color.Faint)
	ValueColor = color.New(color.FgCyan)
)

// Counts tallies runs by status.
type Counts struct {
	Passed, Flaky, Failed, Skipped int
}

// Total is the number of runs counted.
func (c Counts) Total() int {
	return c.Passed + c.Flaky + c.Failed + c.Skipped
}

// Count tallies runs by status. Runs still pending are ignored.
func Count(runs []*models.ScenarioRun) Counts {
	var c Counts
	for _, r := range runs {
		switch r.Status {
		case models.RunStatusPassed:
			c.Passed++
		case models.RunStatusFlaky:
			c.Flaky++
		case models.RunStatusFailed:
			c.Failed++
		case models.RunStatusSkipped:
			c.Skipped++
		}
	}
	return c
}

// Failed reports whether any run failed.
func Failed(runs []*models.ScenarioRun) bool {
	return Count(runs).Failed > 0
}

// SummarizeRun prints one line for run, plus its error when it did not pass.
func SummarizeRun(w io.Writer, indent string, run *models.ScenarioRun) {
	mark, c := markFor(run.Status)
	_, _ = c.Fprintf(w, "%s%s %s", indent, mark, run.Title())
	_, _ = GrayColor.Fprintf(w, " (%s", run.Duration().Round(time.Millisecond))
	if run.Attempts > 1 {
		_, _ = GrayColor.Fprintf(w, ", %d attempts", run.Attempts)
	}
	_, _ = GrayColor.Fprintln(w, ")")

	if run.Error != "" && run.Status != models.RunStatusPassed {
		for _, line := range strings.Split(run.Error, "\n") {
			_, _ = c.Fprintf(w, "%s  %s %s\n", indent, DetailsPrefix, line)
		}
	}
}

// Summarize prints every run followed by the totals.
func Summarize(w io.Writer, runs []*models.ScenarioRun) {
	for _, run := range runs {
		SummarizeRun(w, "  ", run)
	}
	_, _ = fmt.Fprintln(w)
	SummarizeCounts(w, Count(runs))
}

// SummarizeCounts prints the totals line, e.g. "5 passed, 1 flaky, 0 failed, 2 skipped (8 total)".
func SummarizeCounts(w io.Writer, c Counts) {
	_, _ = PassColor.Fprintf(w, "%d passed", c.Passed)
	_, _ = fmt.Fprint(w, ", ")
	_, _ = FlakyColor.Fprintf(w, "%d flaky", c.Flaky)
	_, _ = fmt.Fprint(w, ", ")
	failColor := GrayColor
	if c.Failed > 0 {
		failColor = FailColor
	}
	_, _ = failColor.Fprintf(w, "%d failed", c.Failed)
	_, _ = fmt.Fprint(w, ", ")
	_, _ = GrayColor.Fprintf(w, "%d skipped", c.Skipped)
	_, _ = ValueColor.Fprintf(w, " (%d total)\n", c.Total())
}

// History prints stored runs newest first, one per line with the run they belong to.
func History(w io.Writer, runs []*models.ScenarioRun) {
	if len(runs) == 0 {
		_, _ = GrayColor.Fprintln(w, "No recorded runs")
		return
	}
	for _, run := range runs {
		_, _ = GrayColor.Fprintf(w, "%s %s ", run.StartedAt.Format(time.DateTime), shortID(run.RunID))
		SummarizeRun(w, "", run)
	}
}

func markFor(status models.RunStatus) (string, *color.Color) {
	switch status {
	case models.RunStatusPassed:
		return PassMark, PassColor
	case models.RunStatusFlaky:
		return FlakyMark, FlakyColor
	case models.RunStatusFailed:
		return FailMark, FailColor
	default:
		return SkipMark, GrayColor
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
