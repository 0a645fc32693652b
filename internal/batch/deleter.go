package batch

import (
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"

	"userctl/internal/ece"
)

// DeleteAPI is the remote surface the deleter calls.
type DeleteAPI interface {
	DeleteUser(username string) (*ece.DeleteResult, error)
}

// Options configures a Deleter.
type Options struct {
	// DryRun classifies every username as skipped without any remote call.
	DryRun bool
	// Workers caps in-flight deletes. Values below 2 mean sequential.
	Workers int
	// Progress, when set, is invoked once per classified outcome. Calls are
	// serialized even when deletes run in parallel.
	Progress func(Outcome)
}

// Deleter runs one batch of deletions against the API.
type Deleter struct {
	api  DeleteAPI
	opts Options
	mu   sync.Mutex
}

// NewDeleter creates a Deleter over the given API surface.
func NewDeleter(api DeleteAPI, opts Options) *Deleter {
	return &Deleter{api: api, opts: opts}
}

// Failure pairs a username with the reason its deletion did not happen.
type Failure struct {
	Username string `json:"username"`
	Reason   string `json:"reason"`
}

// Report is the aggregate result of one batch run. Successful and Failed
// preserve input order.
type Report struct {
	Total      int       `json:"total"`
	Successful []string  `json:"successful"`
	Failed     []Failure `json:"failed"`
}

// Run deletes the given usernames and classifies every outcome. The batch
// never stops early: each username gets exactly one outcome, and a failure
// for one user does not affect the others.
func (d *Deleter) Run(usernames []string) *Report {
	outcomes := make([]Outcome, len(usernames))

	if d.opts.Workers > 1 {
		var g errgroup.Group
		g.SetLimit(d.opts.Workers)
		for i := range usernames {
			idx := i
			name := usernames[i]
			g.Go(func() error {
				outcomes[idx] = d.deleteOne(name)
				d.notify(outcomes[idx])
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, name := range usernames {
			outcomes[i] = d.deleteOne(name)
			d.notify(outcomes[i])
		}
	}

	report := &Report{Total: len(usernames)}
	for _, o := range outcomes {
		if o.Succeeded() {
			report.Successful = append(report.Successful, o.Username)
		} else {
			report.Failed = append(report.Failed, Failure{Username: o.Username, Reason: o.Message()})
		}
	}
	return report
}

func (d *Deleter) notify(o Outcome) {
	if d.opts.Progress == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.opts.Progress(o)
}

// deleteOne classifies the server verdict for a single username.
func (d *Deleter) deleteOne(username string) Outcome {
	if d.opts.DryRun {
		return Outcome{Username: username, Status: StatusSkipped}
	}

	result, err := d.api.DeleteUser(username)
	if err != nil {
		return Outcome{Username: username, Status: StatusTransportError, Detail: err.Error()}
	}

	switch {
	case result.StatusCode >= 200 && result.StatusCode < 300:
		return Outcome{Username: username, Status: StatusDeleted}
	case result.StatusCode == http.StatusBadRequest:
		detail := result.ErrorCode
		if detail == "" {
			detail = "bad request (400)"
		}
		return Outcome{Username: username, Status: StatusRejected, Detail: detail}
	case result.StatusCode == http.StatusNotFound:
		return Outcome{Username: username, Status: StatusNotFound}
	default:
		return Outcome{Username: username, Status: StatusRejected, Detail: fmt.Sprintf("HTTP %d", result.StatusCode)}
	}
}
