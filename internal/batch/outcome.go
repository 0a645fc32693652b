// Package batch executes guarded bulk user deletions and classifies every
// per-user verdict into a final report.
package batch

import "fmt"

// Status classifies the terminal state of one deletion attempt.
type Status string

const (
	// StatusDeleted means the server confirmed the deletion.
	StatusDeleted Status = "deleted"
	// StatusSkipped means dry-run mode left the user untouched.
	StatusSkipped Status = "skipped"
	// StatusNotFound means the user did not exist; there was nothing to do.
	StatusNotFound Status = "not_found"
	// StatusRejected means the server refused the deletion.
	StatusRejected Status = "rejected"
	// StatusTransportError means the request never produced a server verdict.
	StatusTransportError Status = "transport_error"
)

// Outcome is the classified result for a single username. Each username in
// a run produces exactly one Outcome; nothing is retried.
type Outcome struct {
	Username string
	Status   Status
	Detail   string
}

// Succeeded reports whether the outcome counts toward the successful side
// of the report. Dry-run skips count as success, mirroring what the run
// would have done.
func (o Outcome) Succeeded() bool {
	return o.Status == StatusDeleted || o.Status == StatusSkipped
}

// Message renders the human-readable progress line for the outcome.
func (o Outcome) Message() string {
	switch o.Status {
	case StatusDeleted:
		return fmt.Sprintf("Successfully deleted user %q", o.Username)
	case StatusSkipped:
		return fmt.Sprintf("DRY RUN: Would delete user %q", o.Username)
	case StatusNotFound:
		return fmt.Sprintf("User %q not found", o.Username)
	case StatusTransportError:
		return fmt.Sprintf("Error deleting %q: %s", o.Username, o.Detail)
	default:
		return fmt.Sprintf("Cannot delete %q: %s", o.Username, o.Detail)
	}
}
