package runner

import (
	"time"

	"github.com/xuanyanwow/GoNavi-sub000/internal/database"
	"github.com/xuanyanwow/GoNavi-sub000/pkg/types"
)

// StatementRun represents a single executed statement
type StatementRun struct {
	Index     int    `json:"index"`           // 1-based position in the script
	SQL       string `json:"sql"`             // text as sent, row cap included
	Keyword   string `json:"keyword"`         // lowercased leading keyword
	Limited   bool   `json:"limited"`         // true when a row cap was injected
	Table     string `json:"table,omitempty"` // simple-table name when the result is editable
	StartTime time.Time
	EndTime   time.Time
	Status    RunStatus           `json:"status"`
	Result    *types.Result       `json:"result,omitempty"`
	Meta      *database.TableMeta `json:"meta,omitempty"` // attached by RunOutcome.Attach
	Error     error               `json:"-"`              // non-nil if the statement failed
}

// RunStatus represents the current state of a statement execution
type RunStatus int

const (
	RunPending RunStatus = iota
	RunRunning
	RunSucceeded
	RunFailed
	RunSkipped
)

// String returns a string representation of RunStatus
func (s RunStatus) String() string {
	switch s {
	case RunPending:
		return "pending"
	case RunRunning:
		return "running"
	case RunSucceeded:
		return "succeeded"
	case RunFailed:
		return "failed"
	case RunSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the status by name rather than ordinal.
func (s RunStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Duration returns the statement execution duration. Skipped statements
// never started and report zero.
func (r *StatementRun) Duration() time.Duration {
	if r.StartTime.IsZero() {
		return 0
	}
	if r.EndTime.IsZero() {
		return time.Since(r.StartTime)
	}
	return r.EndTime.Sub(r.StartTime)
}

// RunSummary summarizes one script execution
type RunSummary struct {
	TotalStatements int
	Succeeded       int
	Failed          int
	Skipped         int
	TotalDuration   time.Duration
}

// AllSucceeded returns true if every statement ran to completion
func (s *RunSummary) AllSucceeded() bool {
	return s.Failed == 0 && s.Skipped == 0
}

// ExitCode returns the appropriate exit code for the run
func (s *RunSummary) ExitCode() int {
	if s.AllSucceeded() {
		return 0
	}
	return 1
}
