// Package report renders validation results for the console: an aligned
// table of per-file verdicts followed by a pass/fail summary.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// Result is one data file's verdict, already flattened to display form.
type Result struct {
	File    string
	OK      bool
	Message string
}

// Failed counts the failing results.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.OK {
			n++
		}
	}
	return n
}

// Render writes the result table and summary. Messages are shown for
// failures always, and for passes only in verbose mode.
func Render(w io.Writer, results []Result, verbose bool) {
	if len(results) == 0 {
		fmt.Fprintln(w, "no documents validated")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tSTATUS\tDETAILS")
	for _, r := range results {
		status := "valid"
		if !r.OK {
			status = "INVALID"
		}
		msg := r.Message
		if r.OK && !verbose {
			msg = ""
		}
		if r := []rune(msg); len(r) > 80 {
			msg = string(r[:77]) + "..."
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.File, status, msg)
	}
	tw.Flush()

	failed := Failed(results)
	fmt.Fprintf(w, "\npassed %d/%d", len(results)-failed, len(results))
	if failed > 0 {
		fmt.Fprintf(w, ", failed %d/%d", failed, len(results))
	}
	fmt.Fprintln(w)
}
