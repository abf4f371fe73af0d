package model

// SSHKeyConfig selects how SSH credentials are materialized for a run.
// At most one of PrivateKeyPath and PrivateKeyContent is honored; a path
// wins when both are set.
type SSHKeyConfig struct {
	// UseSystemKeys keeps the engine on the invoking user's ~/.ssh keys.
	UseSystemKeys bool `json:"use_system_keys,omitempty" desc:"Whether to use system SSH keys from ~/.ssh"`

	// PrivateKeyPath points at an existing private key file to copy into
	// the session directory.
	PrivateKeyPath string `json:"private_key_path,omitempty" desc:"Path to a specific private key file"`

	// PrivateKeyContent is raw key material written into the session
	// directory with owner-only permissions.
	PrivateKeyContent string `json:"private_key_content,omitempty" desc:"Content of a private key to use (not recommended for production)"`

	// KeyPassphrase is the passphrase for the private key, if required.
	KeyPassphrase string `json:"key_passphrase,omitempty" desc:"Passphrase for the private key if required"`
}

// HasKey reports whether a credential needs materializing for a session.
func (c SSHKeyConfig) HasKey() bool {
	return c.PrivateKeyPath != "" || c.PrivateKeyContent != ""
}

// RunConfig carries everything needed to configure one automation run.
// Inventory and playbook may each be supplied by value or by path; a
// by-value source is rendered into the session directory.
type RunConfig struct {
	InventoryPath string     `json:"inventory_path,omitempty" desc:"Path to inventory file or directory"`
	Inventory     *Inventory `json:"inventory,omitempty" desc:"Inventory data if not using a file"`

	PlaybookPath string    `json:"playbook_path,omitempty" desc:"Path to playbook file"`
	Playbook     *Playbook `json:"playbook,omitempty" desc:"Playbook data if not using a file"`

	SSH SSHKeyConfig `json:"ssh_config,omitempty" desc:"SSH key configuration"`

	ExtraVars map[string]any `json:"extra_vars,omitempty" desc:"Extra variables to pass to the engine"`

	// Verbosity is the engine verbosity level, 0 through 4.
	Verbosity int `json:"verbosity,omitempty" validate:"min=0,max=4" desc:"Verbosity level (0-4)"`

	// TimeoutSeconds bounds the engine invocation; zero means no timeout.
	TimeoutSeconds int `json:"timeout,omitempty" validate:"min=0" desc:"Timeout in seconds"`
}

// TaskStatus is the translated status of a single task execution.
type TaskStatus string

const (
	TaskStatusOK          TaskStatus = "ok"
	TaskStatusChanged     TaskStatus = "changed"
	TaskStatusFailed      TaskStatus = "failed"
	TaskStatusSkipped     TaskStatus = "skipped"
	TaskStatusUnreachable TaskStatus = "unreachable"
)

// TaskResult is the outcome of one task on one host. A host re-executing
// a task produces multiple entries.
type TaskResult struct {
	TaskName string         `json:"task_name" desc:"Task name"`
	Host     string         `json:"host" desc:"Target host"`
	Status   TaskStatus     `json:"status" desc:"Task execution status"`
	Changed  bool           `json:"changed" desc:"Whether the task made changes"`
	Result   map[string]any `json:"result,omitempty" desc:"Task execution result data"`
}

// RunResult is the structured outcome of a playbook run.
type RunResult struct {
	Success     bool                      `json:"success" desc:"Whether the playbook run was successful"`
	Stats       map[string]map[string]int `json:"stats" desc:"Playbook run statistics by host"`
	TaskResults []TaskResult              `json:"task_results,omitempty" desc:"Results of individual tasks"`
	Stdout      string                    `json:"stdout" desc:"Standard output from the playbook run"`
	Stderr      string                    `json:"stderr" desc:"Standard error output from the playbook run"`
}

// AdHocResult is the structured outcome of an ad-hoc command: the last
// observed result payload per host.
type AdHocResult struct {
	Success bool                      `json:"success" desc:"Whether the command was successful"`
	Results map[string]map[string]any `json:"results" desc:"Results by host"`
	Stdout  string                    `json:"stdout" desc:"Standard output from the command"`
	Stderr  string                    `json:"stderr" desc:"Standard error output from the command"`
}

// FailedRun builds the RunResult for a run that never produced engine
// output: the error message is captured as stderr content.
func FailedRun(err error) RunResult {
	return RunResult{
		Success: false,
		Stats:   map[string]map[string]int{},
		Stderr:  err.Error(),
	}
}

// FailedAdHoc is the ad-hoc counterpart of FailedRun.
func FailedAdHoc(err error) AdHocResult {
	return AdHocResult{
		Success: false,
		Results: map[string]map[string]any{},
		Stderr:  err.Error(),
	}
}
