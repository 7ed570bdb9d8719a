package report

import (
	"encoding/json" // For JSON encoding of the report file
	"fmt"
	"os" // For writing the report file
	"time"

	"github.com/google/uuid"

	"setup-automate/internal/logger" // Custom logger package for debug info
)

// Status is how a single step ended.
type Status string

const (
	StatusOK         Status = "ok"         // already satisfied
	StatusRemediated Status = "remediated" // satisfied after install or prompt
	StatusFailed     Status = "failed"     // terminated the run
)

// Step records one requirement check or the launch.
type Step struct {
	Section     string `json:"section"`
	Requirement string `json:"requirement"`
	Kind        string `json:"kind"`
	Status      Status `json:"status"`
	Detail      string `json:"detail,omitempty"`
}

// Report is a record of one run. It is written out for the operator and never read back.
type Report struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Steps      []Step    `json:"steps"`
	ExitCode   int       `json:"exit_code"`
	Error      string    `json:"error,omitempty"`

	now func() time.Time
}

// New starts a report at the current time.
func New() *Report {
	return newWithClock(time.Now)
}

func newWithClock(now func() time.Time) *Report {
	return &Report{RunID: uuid.NewString(), StartedAt: now(), Steps: []Step{}, now: now}
}

// Add appends a step. A nil Report ignores it, so callers need not check.
func (r *Report) Add(step Step) {
	if r == nil {
		return
	}
	r.Steps = append(r.Steps, step)
}

// Finish stamps the end time and the outcome of the run.
func (r *Report) Finish(exitCode int, err error) {
	if r == nil {
		return
	}
	r.FinishedAt = r.now()
	r.ExitCode = exitCode
	if err != nil {
		r.Error = err.Error()
	}
}

// Save writes the report to path as indented JSON.
func Save(path string, r *Report) error {
	file, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	logger.Debug("[DEBUG] Writing report to %s:\n%s\n", path, string(file))

	if err := os.WriteFile(path, append(file, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
