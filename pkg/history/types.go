package history

import "time"

// RunKind distinguishes playbook runs from ad-hoc commands.
type RunKind string

const (
	RunKindPlaybook RunKind = "playbook"
	RunKindAdHoc    RunKind = "adhoc"
)

// RunStatus is the recorded lifecycle status of an execution session.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is one recorded execution session.
type Run struct {
	ID          string     `json:"id"`
	Kind        RunKind    `json:"kind"`
	Status      RunStatus  `json:"status"`
	ReturnCode  int        `json:"return_code"`
	Error       *string    `json:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
