package report

import (
	"fmt"
	"io"

	"userctl/internal/batch"
)

// BatchHeader writes the banner that opens a deletion run.
func BatchHeader(w io.Writer, dryRun bool) {
	fmt.Fprintf(w, "\n%s\n", rule)
	if dryRun {
		fmt.Fprintln(w, "DRY RUN: Simulating deletion...")
	} else {
		fmt.Fprintln(w, "Deleting users...")
	}
	fmt.Fprintf(w, "%s\n\n", rule)
}

// BatchSummary writes the aggregate result of a deletion run. Failures are
// listed per user; a dry run closes with a reminder that nothing happened.
func BatchSummary(w io.Writer, rep *batch.Report, dryRun bool) {
	fmt.Fprintf(w, "\n%s\n", rule)
	fmt.Fprintln(w, "SUMMARY")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Total users processed: %d\n", rep.Total)
	fmt.Fprintf(w, "Successfully deleted: %d\n", len(rep.Successful))
	fmt.Fprintf(w, "Failed: %d\n", len(rep.Failed))

	if len(rep.Failed) > 0 {
		fmt.Fprintln(w, "\nFailed deletions:")
		for _, f := range rep.Failed {
			fmt.Fprintf(w, "  - %s: %s\n", f.Username, f.Reason)
		}
	}

	if dryRun {
		fmt.Fprintln(w, "\nThis was a DRY RUN. No users were actually deleted.")
		fmt.Fprintln(w, "Remove --dry-run flag to perform actual deletions.")
	}
}
