package orchestrator

import (
	"time"

	"csuite/internal/exec"
	"csuite/internal/harness"
)

// Outcome is the verdict of one run.
type Outcome string

const (
	OutcomePassed  Outcome = "PASSED"
	OutcomeFailed  Outcome = "FAILED"
	OutcomeErrored Outcome = "ERROR"
)

// PhaseRecord captures the execution of one phase.
type PhaseRecord struct {
	Phase      Phase       `json:"phase"`
	Status     PhaseStatus `json:"status"`
	StartedAt  time.Time   `json:"startedAt"`
	DurationMs int64       `json:"durationMs"`
	Detail     string      `json:"detail,omitempty"`
}

// Report describes a finished launch run.
type Report struct {
	ID          string    `json:"id"`
	Package     string    `json:"package"`
	Module      string    `json:"module,omitempty"`
	Serial      string    `json:"serial,omitempty"`
	StartedAt   time.Time `json:"startedAt"`
	CompletedAt time.Time `json:"completedAt"`
	DurationMs  int64     `json:"durationMs"`

	Phases    []PhaseRecord `json:"phases"`
	Artifacts []string      `json:"artifacts,omitempty"`

	Harness *exec.Result `json:"harness,omitempty"`
	// Counts is nil when the harness printed no summary.
	Counts *harness.Counts `json:"counts,omitempty"`

	LogMarker          string `json:"logMarker"`
	LogMarkerFound     bool   `json:"logMarkerFound"`
	LogSnippet         string `json:"logSnippet,omitempty"`
	PackageAbsentAfter bool   `json:"packageAbsentAfter"`

	Outcome Outcome `json:"outcome"`
	Error   string  `json:"error,omitempty"`
}

// Phase returns the record of phase p, if it ran.
func (r *Report) Phase(p Phase) (PhaseRecord, bool) {
	for _, rec := range r.Phases {
		if rec.Phase == p {
			return rec, true
		}
	}
	return PhaseRecord{}, false
}

// HarnessFailures returns the harness failure counter, or zero without a summary.
func (r *Report) HarnessFailures() int {
	if r.Counts == nil {
		return 0
	}
	return r.Counts.Failed
}
