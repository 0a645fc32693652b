// Package audit appends a JSONL record of destructive runs. The log is
// write-only from the tool's point of view: nothing ever reads it back.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"userctl/internal/batch"
)

// Log appends the entries for one deletion run to a file. Every entry
// carries the same run id so interleaved runs can be told apart.
type Log struct {
	f     *os.File
	runID string
	now   func() time.Time
}

type runStarted struct {
	RunID     string `json:"run_id"`
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	DryRun    bool   `json:"dry_run"`
	Targets   int    `json:"targets"`
}

type outcomeRecorded struct {
	RunID     string `json:"run_id"`
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Username  string `json:"username"`
	Status    string `json:"status"`
	Detail    string `json:"detail,omitempty"`
}

// Open opens or creates the audit file at path in append mode and assigns
// a fresh run id.
func Open(path string) (*Log, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	return &Log{f: f, runID: uuid.NewString(), now: time.Now}, nil
}

// RunID identifies this run in every entry.
func (l *Log) RunID() string {
	return l.runID
}

// Start records the entry that opens a run.
func (l *Log) Start(dryRun bool, targets int) error {
	return l.append(runStarted{
		RunID:     l.runID,
		Timestamp: l.timestamp(),
		Event:     "run_started",
		DryRun:    dryRun,
		Targets:   targets,
	})
}

// Record appends one classified outcome.
func (l *Log) Record(o batch.Outcome) error {
	return l.append(outcomeRecorded{
		RunID:     l.runID,
		Timestamp: l.timestamp(),
		Event:     "outcome",
		Username:  o.Username,
		Status:    string(o.Status),
		Detail:    o.Detail,
	})
}

// Close closes the underlying file.
func (l *Log) Close() error {
	return l.f.Close()
}

func (l *Log) append(entry interface{}) error {
	b, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode audit entry: %w", err)
	}
	b = append(b, '\n')
	if _, err := l.f.Write(b); err != nil {
		return fmt.Errorf("write audit entry: %w", err)
	}
	return nil
}

func (l *Log) timestamp() string {
	return l.now().UTC().Format(time.RFC3339)
}
