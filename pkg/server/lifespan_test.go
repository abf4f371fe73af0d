package server

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewState(t *testing.T) {
	base := filepath.Join(t.TempDir(), "data")

	state, err := NewState(base)
	if err != nil {
		t.Fatalf("NewState() error = %v", err)
	}
	defer state.Close()

	for _, dir := range []string{state.PlaybooksDir, state.InventoryDir, state.PrivateDataDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Errorf("expected directory %s: %v", dir, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", dir)
		}
	}

	info, err := os.Stat(state.PrivateDataDir)
	if err != nil {
		t.Fatalf("stat private dir: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0700 {
		t.Errorf("private dir permissions = %o, want 0700", perm)
	}
}

func TestNewStateFromEnv(t *testing.T) {
	base := filepath.Join(t.TempDir(), "env-data")
	t.Setenv(EnvDataDir, base)

	state, err := NewState("")
	if err != nil {
		t.Fatalf("NewState() error = %v", err)
	}
	defer state.Close()

	if state.BaseDir != base {
		t.Errorf("BaseDir = %q, want env value %q", state.BaseDir, base)
	}
}
