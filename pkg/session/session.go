// Package session owns the lifecycle of one engine execution: a private
// working directory is created, sources and credentials are materialized
// into it, the engine runs against it, and the directory is removed.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ansibridge/ansibridge/pkg/codec"
	"github.com/ansibridge/ansibridge/pkg/errs"
	"github.com/ansibridge/ansibridge/pkg/model"
	"github.com/ansibridge/ansibridge/pkg/telemetry"
)

// State is the lifecycle state of a session.
type State string

const (
	StateCreated     State = "created"
	StateConfiguring State = "configuring"
	StateExecuting   State = "executing"
	StateCompleted   State = "completed"
	StateFailed      State = "failed"
	StateCleaned     State = "cleaned"
)

// Session is one private working directory and its lifecycle state.
// Sessions are not safe for concurrent use; each run gets its own.
type Session struct {
	ID    string
	Dir   string
	state State

	logger *telemetry.Logger
}

func newSession(root string, logger *telemetry.Logger) (*Session, error) {
	id := "run_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	dir := filepath.Join(root, id)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return &Session{
		ID:     id,
		Dir:    dir,
		state:  StateCreated,
		logger: logger.WithSessionID(id),
	}, nil
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

func (s *Session) transition(next State) {
	s.logger.WithField("state", string(next)).Debug("session state changed")
	s.state = next
}

// Cleanup removes the session directory. It is best effort and runs
// regardless of how the session ended; a failed removal is logged, never
// surfaced to the caller.
func (s *Session) Cleanup() {
	if s.state == StateCleaned {
		return
	}
	if err := os.RemoveAll(s.Dir); err != nil {
		s.logger.WithError(err).Warn("failed to remove session directory")
	}
	s.transition(StateCleaned)
}

// configure materializes the run's sources and credentials into the
// session directory and returns the inventory and playbook paths the
// engine should use. An empty playbook path means no playbook source was
// requested (ad-hoc runs).
func (s *Session) configure(cfg model.RunConfig, wantPlaybook bool, notify Notifier) (inventoryPath, playbookPath string, err error) {
	s.transition(StateConfiguring)

	inventoryPath, err = s.materializeInventory(cfg, notify)
	if err != nil {
		return "", "", err
	}

	if wantPlaybook {
		playbookPath, err = s.materializePlaybook(cfg, notify)
		if err != nil {
			return "", "", err
		}
	}

	if err := s.materializeKey(cfg.SSH, notify); err != nil {
		return "", "", err
	}

	if err := s.materializeExtraVars(cfg.ExtraVars); err != nil {
		return "", "", err
	}

	return inventoryPath, playbookPath, nil
}

func (s *Session) materializeInventory(cfg model.RunConfig, notify Notifier) (string, error) {
	if cfg.InventoryPath != "" {
		if _, err := os.Stat(cfg.InventoryPath); err != nil {
			return "", errs.NewResourceNotFound(fmt.Sprintf("inventory path not found: %s", cfg.InventoryPath))
		}
		return cfg.InventoryPath, nil
	}
	if cfg.Inventory == nil {
		return "", nil
	}

	notify.Info("Creating temporary inventory from provided data...")
	data, err := codec.MarshalInventory(*cfg.Inventory)
	if err != nil {
		return "", fmt.Errorf("failed to render inventory: %w", err)
	}
	return s.writeFile(filepath.Join("inventory", "inventory.yml"), data, 0644)
}

func (s *Session) materializePlaybook(cfg model.RunConfig, notify Notifier) (string, error) {
	if cfg.PlaybookPath != "" {
		if _, err := os.Stat(cfg.PlaybookPath); err != nil {
			return "", errs.NewResourceNotFound(fmt.Sprintf("playbook path not found: %s", cfg.PlaybookPath))
		}
		return cfg.PlaybookPath, nil
	}
	if cfg.Playbook == nil {
		return "", errs.NewValidation("no playbook source provided")
	}

	notify.Info("Creating temporary playbook from provided data...")
	data, err := codec.MarshalPlaybook(*cfg.Playbook)
	if err != nil {
		return "", fmt.Errorf("failed to render playbook: %w", err)
	}
	return s.writeFile(filepath.Join("project", "playbook.yml"), data, 0644)
}

// materializeKey writes the run's SSH credential under env/. A path-based
// key is copied byte for byte; inline material gets a trailing newline if
// missing. Either way the copy is owner-readable only.
func (s *Session) materializeKey(cfg model.SSHKeyConfig, notify Notifier) error {
	if !cfg.HasKey() {
		return nil
	}

	var material []byte
	if cfg.PrivateKeyPath != "" {
		data, err := os.ReadFile(cfg.PrivateKeyPath)
		if err != nil {
			return errs.NewResourceNotFound(fmt.Sprintf("private key not found: %s", cfg.PrivateKeyPath))
		}
		material = data
	} else {
		notify.Info("Using provided SSH key content...")
		material = []byte(cfg.PrivateKeyContent)
		if len(material) > 0 && material[len(material)-1] != '\n' {
			material = append(material, '\n')
		}
	}

	if _, err := s.writeFile(filepath.Join("env", "ssh_key"), material, 0600); err != nil {
		return err
	}

	if cfg.KeyPassphrase != "" {
		passwords := fmt.Sprintf("---\n\"^Enter passphrase for .*:\": %q\n", cfg.KeyPassphrase)
		if _, err := s.writeFile(filepath.Join("env", "passwords"), []byte(passwords), 0600); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) materializeExtraVars(vars map[string]any) error {
	if len(vars) == 0 {
		return nil
	}
	data, err := json.MarshalIndent(vars, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render extra vars: %w", err)
	}
	_, err = s.writeFile(filepath.Join("env", "extravars"), data, 0644)
	return err
}

func (s *Session) writeFile(rel string, data []byte, perm os.FileMode) (string, error) {
	path := filepath.Join(s.Dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", filepath.Dir(rel), err)
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", rel, err)
	}
	return path, nil
}

// readCapture returns the engine's captured stdout and stderr text.
// Missing capture files read as empty.
func (s *Session) readCapture() (stdout, stderr string) {
	if data, err := os.ReadFile(filepath.Join(s.Dir, "stdout")); err == nil {
		stdout = string(data)
	}
	if data, err := os.ReadFile(filepath.Join(s.Dir, "stderr")); err == nil {
		stderr = string(data)
	}
	return stdout, stderr
}
