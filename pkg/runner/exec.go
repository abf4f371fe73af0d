package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ansibridge/ansibridge/pkg/telemetry"
)

const runIdent = "job"

// ExecEngine drives the ansible-runner and ansible-inventory binaries.
// Process output is captured into stdout/stderr files inside the private
// data directory; run events are read back from the artifacts tree the
// engine writes there.
type ExecEngine struct {
	// RunnerPath is the ansible-runner binary; defaults to "ansible-runner".
	RunnerPath string

	// InventoryPath is the ansible-inventory binary; defaults to
	// "ansible-inventory".
	InventoryPath string

	logger *telemetry.Logger
}

// NewExecEngine creates an engine bound to the given binaries. Empty
// paths fall back to lookup on PATH.
func NewExecEngine(runnerPath, inventoryPath string, logger *telemetry.Logger) *ExecEngine {
	if runnerPath == "" {
		runnerPath = "ansible-runner"
	}
	if inventoryPath == "" {
		inventoryPath = "ansible-inventory"
	}
	return &ExecEngine{
		RunnerPath:    runnerPath,
		InventoryPath: inventoryPath,
		logger:        logger.NewComponentLogger("engine"),
	}
}

// Run implements Engine.
func (e *ExecEngine) Run(ctx context.Context, spec RunSpec) (*RunStatus, error) {
	if spec.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	args := []string{"run", spec.PrivateDataDir, "--ident", runIdent}
	if spec.Playbook != "" {
		args = append(args, "-p", spec.Playbook)
	} else {
		args = append(args, "-m", spec.Module, "--hosts", spec.HostPattern)
		if spec.ModuleArgs != "" {
			args = append(args, "-a", spec.ModuleArgs)
		}
	}
	if spec.Inventory != "" {
		args = append(args, "--inventory", spec.Inventory)
	}
	if spec.Verbosity > 0 {
		args = append(args, "-"+strings.Repeat("v", spec.Verbosity))
	}

	stdout, err := os.Create(filepath.Join(spec.PrivateDataDir, "stdout"))
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout capture: %w", err)
	}
	defer stdout.Close()
	stderr, err := os.Create(filepath.Join(spec.PrivateDataDir, "stderr"))
	if err != nil {
		return nil, fmt.Errorf("failed to create stderr capture: %w", err)
	}
	defer stderr.Close()

	e.logger.WithField("args", args).Debug("invoking automation engine")

	cmd := exec.CommandContext(ctx, e.RunnerPath, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	rc := 0
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			rc = exitErr.ExitCode()
		} else {
			return nil, fmt.Errorf("engine invocation failed: %w", err)
		}
	}

	events, stats, err := readArtifacts(filepath.Join(spec.PrivateDataDir, "artifacts", runIdent))
	if err != nil {
		return nil, err
	}

	return &RunStatus{
		ReturnCode: rc,
		Events:     streamEvents(events),
		Stats:      stats,
	}, nil
}

// ListInventory implements Engine.
func (e *ExecEngine) ListInventory(ctx context.Context, privateDataDir, source string) (int, string, string, error) {
	cmd := exec.CommandContext(ctx, e.InventoryPath, "--list", "--export", "-i", source)
	cmd.Dir = privateDataDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	rc := 0
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			rc = exitErr.ExitCode()
		} else {
			return -1, "", "", fmt.Errorf("inventory listing failed: %w", err)
		}
	}
	return rc, stdout.String(), stderr.String(), nil
}

// streamEvents exposes a finished run's events as the lazy stream the
// Engine contract promises.
func streamEvents(events []Event) <-chan Event {
	ch := make(chan Event)
	go func() {
		defer close(ch)
		for _, ev := range events {
			ch <- ev
		}
	}()
	return ch
}
