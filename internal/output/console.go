// Package output renders run progress, the final summary, and the optional
// JSON report.
package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"attrsync/internal/results"
)

// WriteProgress prints a one-line heading before a repository is processed.
func WriteProgress(w io.Writer, index, total int, repo string) {
	fmt.Fprintf(w, "[%d/%d] %s\n", index, total, repo)
}

// WriteOutcome prints the recorded outcome of one repository.
func WriteOutcome(w io.Writer, o results.Outcome) {
	line := fmt.Sprintf("  %s", statusLabel(o.Status))
	if o.Message != "" {
		line = fmt.Sprintf("%s (%s)", line, o.Message)
	}
	fmt.Fprintln(w, line)
}

// WriteSummary prints the tally by status and a detail listing of every
// non-Success repository with its recorded message.
func WriteSummary(w io.Writer, outcomes []results.Outcome) {
	tally := results.TallyOutcomes(outcomes)

	bold := color.New(color.Bold)
	fmt.Fprintln(w)
	bold.Fprintln(w, "Summary")
	fmt.Fprintf(w, "  %s %d\n", color.GreenString("Success:"), tally.Success)
	fmt.Fprintf(w, "  %s %d\n", color.YellowString("Skipped:"), tally.Skipped)
	fmt.Fprintf(w, "  %s   %d\n", color.RedString("Error:"), tally.Error)

	var detail []results.Outcome
	for _, o := range outcomes {
		if o.Status != results.StatusSuccess {
			detail = append(detail, o)
		}
	}
	if len(detail) == 0 {
		return
	}

	fmt.Fprintln(w)
	bold.Fprintln(w, "Details")
	for _, o := range detail {
		fmt.Fprintf(w, "  %s %s: %s\n", statusLabel(o.Status), o.Repo, o.Message)
	}
}

func statusLabel(s results.Status) string {
	switch s {
	case results.StatusSuccess:
		return color.GreenString(string(s))
	case results.StatusSkipped:
		return color.YellowString(string(s))
	case results.StatusError:
		return color.RedString(string(s))
	default:
		return string(s)
	}
}
