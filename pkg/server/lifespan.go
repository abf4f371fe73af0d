package server

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvDataDir selects the base data directory for playbooks, inventories,
// and private run state.
const EnvDataDir = "ANSIBRIDGE_DATA_DIR"

const defaultDataDirName = ".ansibridge"

// State is the process-scoped shared state handed to tool handlers. It
// is read-only after initialization and safe for concurrent reads.
type State struct {
	BaseDir        string
	PlaybooksDir   string
	InventoryDir   string
	PrivateDataDir string
}

// NewState initializes the data directory layout. An empty baseDir falls
// back to the environment variable, then to ~/.ansibridge.
func NewState(baseDir string) (*State, error) {
	if baseDir == "" {
		baseDir = os.Getenv(EnvDataDir)
	}
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		baseDir = filepath.Join(home, defaultDataDirName)
	}

	s := &State{
		BaseDir:        baseDir,
		PlaybooksDir:   filepath.Join(baseDir, "playbooks"),
		InventoryDir:   filepath.Join(baseDir, "inventory"),
		PrivateDataDir: filepath.Join(baseDir, "private"),
	}

	for _, dir := range []string{s.BaseDir, s.PlaybooksDir, s.InventoryDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	// Run state can hold credentials.
	if err := os.MkdirAll(s.PrivateDataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", s.PrivateDataDir, err)
	}
	return s, nil
}

// Close releases the lifespan state. Nothing is held open today; the
// method anchors the shutdown path so additions have a place to land.
func (s *State) Close() error {
	return nil
}
