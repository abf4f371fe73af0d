package session

import (
	"context"
	"time"

	"github.com/ansibridge/ansibridge/pkg/errs"
	"github.com/ansibridge/ansibridge/pkg/events"
	"github.com/ansibridge/ansibridge/pkg/history"
	"github.com/ansibridge/ansibridge/pkg/model"
	"github.com/ansibridge/ansibridge/pkg/runner"
	"github.com/ansibridge/ansibridge/pkg/telemetry"
)

// Notifier receives out-of-band progress messages during a run.
type Notifier interface {
	Info(message string)
}

// NopNotifier discards all progress messages.
type NopNotifier struct{}

// Info implements Notifier.
func (NopNotifier) Info(string) {}

// Option configures a Manager.
type Option func(*Manager)

// WithHistory records each run in the given store.
func WithHistory(store *history.Store) Option {
	return func(m *Manager) { m.history = store }
}

// WithMetrics publishes run metrics to the given collector.
func WithMetrics(metrics *telemetry.Metrics) Option {
	return func(m *Manager) { m.metrics = metrics }
}

// Manager runs playbooks and ad-hoc commands, giving each execution its
// own throwaway session directory under the private data root.
type Manager struct {
	root    string
	engine  runner.Engine
	logger  *telemetry.Logger
	history *history.Store
	metrics *telemetry.Metrics
}

// NewManager creates a Manager rooted at the given private data directory.
func NewManager(root string, engine runner.Engine, logger *telemetry.Logger, opts ...Option) *Manager {
	m := &Manager{
		root:   root,
		engine: engine,
		logger: logger.NewComponentLogger("session"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RunPlaybook executes a playbook run. Every failure mode, from a bad
// configuration to an engine crash, is folded into the result with the
// error text captured as stderr; the session directory is always removed.
func (m *Manager) RunPlaybook(ctx context.Context, cfg model.RunConfig, notify Notifier) model.RunResult {
	sess, err := newSession(m.root, m.logger)
	if err != nil {
		return model.FailedRun(err)
	}
	defer sess.Cleanup()

	start := time.Now()
	m.recordStart(ctx, sess.ID, history.RunKindPlaybook)
	if m.metrics != nil {
		m.metrics.RunStarted(string(history.RunKindPlaybook))
	}

	result := m.runPlaybook(ctx, sess, cfg, notify)

	m.recordFinish(ctx, sess.ID, result.Success, result.Stderr)
	if m.metrics != nil {
		m.metrics.RunCompleted(string(history.RunKindPlaybook), statusLabel(result.Success), time.Since(start))
	}
	return result
}

func (m *Manager) runPlaybook(ctx context.Context, sess *Session, cfg model.RunConfig, notify Notifier) model.RunResult {
	notify.Info("Preparing to run playbook...")

	inventoryPath, playbookPath, err := sess.configure(cfg, true, notify)
	if err != nil {
		sess.transition(StateFailed)
		return model.FailedRun(err)
	}

	sess.transition(StateExecuting)
	notify.Info("Starting playbook execution...")

	status, err := m.engine.Run(ctx, runner.RunSpec{
		PrivateDataDir: sess.Dir,
		Playbook:       playbookPath,
		Inventory:      inventoryPath,
		Verbosity:      cfg.Verbosity,
		Timeout:        time.Duration(cfg.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		sess.transition(StateFailed)
		return model.FailedRun(errs.NewEngineExecution("playbook run failed", err))
	}

	taskResults := events.Translate(status.Events)
	stdout, stderr := sess.readCapture()

	if status.Succeeded() {
		sess.transition(StateCompleted)
	} else {
		sess.transition(StateFailed)
	}

	return model.RunResult{
		Success:     status.Succeeded(),
		Stats:       status.Stats,
		TaskResults: taskResults,
		Stdout:      stdout,
		Stderr:      stderr,
	}
}

// RunAdHoc executes a single module invocation against a host pattern.
// Failure handling and cleanup mirror RunPlaybook.
func (m *Manager) RunAdHoc(ctx context.Context, req model.AdHocCommandRequest, notify Notifier) model.AdHocResult {
	sess, err := newSession(m.root, m.logger)
	if err != nil {
		return model.FailedAdHoc(err)
	}
	defer sess.Cleanup()

	start := time.Now()
	m.recordStart(ctx, sess.ID, history.RunKindAdHoc)
	if m.metrics != nil {
		m.metrics.RunStarted(string(history.RunKindAdHoc))
	}

	result := m.runAdHoc(ctx, sess, req, notify)

	m.recordFinish(ctx, sess.ID, result.Success, result.Stderr)
	if m.metrics != nil {
		m.metrics.RunCompleted(string(history.RunKindAdHoc), statusLabel(result.Success), time.Since(start))
	}
	return result
}

func (m *Manager) runAdHoc(ctx context.Context, sess *Session, req model.AdHocCommandRequest, notify Notifier) model.AdHocResult {
	notify.Info("Preparing to run ad-hoc command...")

	inventoryPath, _, err := sess.configure(req.Config, false, notify)
	if err != nil {
		sess.transition(StateFailed)
		return model.FailedAdHoc(err)
	}

	sess.transition(StateExecuting)
	notify.Info("Executing ad-hoc command...")

	status, err := m.engine.Run(ctx, runner.RunSpec{
		PrivateDataDir: sess.Dir,
		Module:         req.Module,
		ModuleArgs:     FormatModuleArgs(req.Args),
		HostPattern:    req.Hosts.Join(),
		Inventory:      inventoryPath,
		Verbosity:      req.Config.Verbosity,
		Timeout:        time.Duration(req.Config.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		sess.transition(StateFailed)
		return model.FailedAdHoc(errs.NewEngineExecution("ad-hoc command failed", err))
	}

	results := events.CollapseByHost(status.Events)
	stdout, stderr := sess.readCapture()

	if status.Succeeded() {
		sess.transition(StateCompleted)
	} else {
		sess.transition(StateFailed)
	}

	return model.AdHocResult{
		Success: status.Succeeded(),
		Results: results,
		Stdout:  stdout,
		Stderr:  stderr,
	}
}

// ListInventorySource renders an inventory source through the engine,
// using a throwaway session directory as the working directory.
func (m *Manager) ListInventorySource(ctx context.Context, source string) (int, string, string, error) {
	sess, err := newSession(m.root, m.logger)
	if err != nil {
		return -1, "", "", err
	}
	defer sess.Cleanup()

	return m.engine.ListInventory(ctx, sess.Dir, source)
}

func (m *Manager) recordStart(ctx context.Context, id string, kind history.RunKind) {
	if m.history == nil {
		return
	}
	if err := m.history.RecordStart(ctx, id, kind); err != nil {
		m.logger.WithError(err).Warn("failed to record run start")
	}
}

func (m *Manager) recordFinish(ctx context.Context, id string, success bool, stderr string) {
	if m.history == nil {
		return
	}
	status := history.RunStatusCompleted
	rc := 0
	var runErr *string
	if !success {
		status = history.RunStatusFailed
		rc = 1
		if stderr != "" {
			msg := stderr
			runErr = &msg
		}
	}
	if err := m.history.RecordFinish(ctx, id, status, rc, runErr); err != nil {
		m.logger.WithError(err).Warn("failed to record run finish")
	}
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
