// Package runner defines the boundary to the external automation engine:
// the invocation parameters, the raw run-event stream, and an
// implementation that drives the ansible-runner and ansible-inventory
// binaries.
package runner

import (
	"context"
	"time"
)

// Raw event kinds emitted by the engine. Kinds outside this set may
// appear in a stream and are ignored by consumers.
const (
	EventRunnerOK          = "runner_on_ok"
	EventRunnerChanged     = "runner_on_changed"
	EventRunnerFailed      = "runner_on_failed"
	EventRunnerSkipped     = "runner_on_skipped"
	EventRunnerUnreachable = "runner_on_unreachable"
	EventPlaybookStats     = "playbook_on_stats"
)

// Event is one entry of the engine's run-event stream.
type Event struct {
	// Kind is the raw engine event kind (e.g. "runner_on_ok").
	Kind string

	// Task is the task name the event belongs to.
	Task string

	// Host is the host the event was produced for.
	Host string

	// Changed reports whether the engine flagged the event as a change.
	Changed bool

	// Result is the arbitrary result payload attached to the event.
	Result map[string]any
}

// RunSpec assembles the invocation parameters for one engine run.
// Exactly one of Playbook and Module is set.
type RunSpec struct {
	// PrivateDataDir is the session's private working directory. The
	// engine writes its stdout/stderr captures and artifacts beneath it.
	PrivateDataDir string

	// Playbook is the playbook path for a playbook run.
	Playbook string

	// Module and ModuleArgs describe an ad-hoc invocation.
	Module     string
	ModuleArgs string

	// HostPattern selects target hosts for an ad-hoc invocation.
	HostPattern string

	// Inventory is the inventory source path, if any.
	Inventory string

	// Verbosity is the engine verbosity level, 0 through 4.
	Verbosity int

	// Timeout bounds the engine process; zero means no bound.
	Timeout time.Duration
}

// RunStatus is the engine's report for one completed invocation. Events
// is a lazily drained stream; it must be consumed (or abandoned) exactly
// once and is closed by the producer.
type RunStatus struct {
	ReturnCode int
	Events     <-chan Event
	Stats      map[string]map[string]int
}

// Succeeded reports whether the engine exited cleanly.
func (s *RunStatus) Succeeded() bool {
	return s.ReturnCode == 0
}

// Engine is the consumed interface of the external automation engine.
type Engine interface {
	// Run invokes the engine synchronously and reports its outcome.
	Run(ctx context.Context, spec RunSpec) (*RunStatus, error)

	// ListInventory asks the engine to render an inventory source as a
	// JSON listing. The return code, listing text, and stderr text are
	// reported even when the command fails.
	ListInventory(ctx context.Context, privateDataDir, source string) (int, string, string, error)
}
