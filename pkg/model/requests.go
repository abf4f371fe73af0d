package model

// Tool request and response shapes. Each request type doubles as the
// source of the generated parameter schema, so required fields carry a
// validate:"required" tag and optional fields are omitempty.

// PlaybookRunRequest asks for one playbook run.
type PlaybookRunRequest struct {
	Config RunConfig `json:"config" validate:"required" desc:"Automation run configuration"`
}

// AdHocCommandRequest asks for a single module invocation against a host
// pattern without an accompanying playbook.
type AdHocCommandRequest struct {
	Hosts  HostPattern    `json:"hosts" validate:"required,min=1" desc:"Target hosts or groups"`
	Module string         `json:"module" validate:"required" desc:"Automation module to use"`
	Args   map[string]any `json:"args,omitempty" desc:"Module arguments"`
	Config RunConfig      `json:"config" desc:"Automation run configuration"`
}

// CreateInventoryRequest writes an inventory value to disk.
type CreateInventoryRequest struct {
	Inventory Inventory `json:"inventory" validate:"required" desc:"Inventory data"`
	Path      string    `json:"path,omitempty" desc:"Path to save the inventory file"`
}

// CreateInventoryResponse reports where the inventory landed.
type CreateInventoryResponse struct {
	Success bool   `json:"success" desc:"Whether the operation was successful"`
	Path    string `json:"path,omitempty" desc:"Path where the inventory was saved"`
	Message string `json:"message,omitempty" desc:"Informational or error message"`
}

// LoadInventoryRequest reads an inventory source from disk.
type LoadInventoryRequest struct {
	Path string `json:"path" validate:"required" desc:"Path to the inventory file or directory"`
}

// LoadInventoryResponse carries the decoded inventory.
type LoadInventoryResponse struct {
	Success   bool       `json:"success" desc:"Whether the operation was successful"`
	Inventory *Inventory `json:"inventory,omitempty" desc:"Loaded inventory data"`
	Message   string     `json:"message,omitempty" desc:"Informational or error message"`
}

// CreatePlaybookRequest writes a playbook value to disk.
type CreatePlaybookRequest struct {
	Playbook Playbook `json:"playbook" validate:"required" desc:"Playbook data"`
	Path     string   `json:"path,omitempty" desc:"Path to save the playbook file"`
}

// CreatePlaybookResponse reports where the playbook landed.
type CreatePlaybookResponse struct {
	Success bool   `json:"success" desc:"Whether the operation was successful"`
	Path    string `json:"path,omitempty" desc:"Path where the playbook was saved"`
	Message string `json:"message,omitempty" desc:"Informational or error message"`
}

// LoadPlaybookRequest reads a playbook file from disk.
type LoadPlaybookRequest struct {
	Path string `json:"path" validate:"required" desc:"Path to the playbook file"`
}

// LoadPlaybookResponse carries the decoded playbook.
type LoadPlaybookResponse struct {
	Success  bool      `json:"success" desc:"Whether the operation was successful"`
	Playbook *Playbook `json:"playbook,omitempty" desc:"Loaded playbook data"`
	Message  string    `json:"message,omitempty" desc:"Informational or error message"`
}

// GetSSHKeysRequest lists private keys available on this host.
type GetSSHKeysRequest struct{}

// SSHKeyInfo describes one discovered private key.
type SSHKeyInfo struct {
	Path    string `json:"path" desc:"Path to the SSH key"`
	Name    string `json:"name" desc:"Name/filename of the key"`
	Type    string `json:"type" desc:"Type of the key (e.g., rsa, ed25519)"`
	Comment string `json:"comment,omitempty" desc:"Comment or identifier for the key"`
}

// GetSSHKeysResponse lists discovered private keys.
type GetSSHKeysResponse struct {
	Success bool         `json:"success" desc:"Whether the operation was successful"`
	Keys    []SSHKeyInfo `json:"keys" desc:"List of available SSH keys"`
	Message string       `json:"message,omitempty" desc:"Informational or error message"`
}

// ListPlaybooksRequest lists playbook files under a directory.
type ListPlaybooksRequest struct {
	Directory string `json:"directory,omitempty" desc:"Directory to search for playbooks (defaults to the server playbooks directory)"`
}

// FileInfo describes one discovered playbook or inventory file.
type FileInfo struct {
	Path     string `json:"path" desc:"Path to the file"`
	Name     string `json:"name" desc:"Name of the file"`
	Size     int64  `json:"size" desc:"Size of the file in bytes"`
	Modified string `json:"modified" desc:"Last modified timestamp"`
}

// ListPlaybooksResponse lists discovered playbook files.
type ListPlaybooksResponse struct {
	Success   bool       `json:"success" desc:"Whether the operation was successful"`
	Playbooks []FileInfo `json:"playbooks" desc:"List of available playbooks"`
	Message   string     `json:"message,omitempty" desc:"Informational or error message"`
}

// ListInventoriesRequest lists inventory files under a directory.
type ListInventoriesRequest struct {
	Directory string `json:"directory,omitempty" desc:"Directory to search for inventories (defaults to the server inventory directory)"`
}

// ListInventoriesResponse lists discovered inventory files.
type ListInventoriesResponse struct {
	Success     bool       `json:"success" desc:"Whether the operation was successful"`
	Inventories []FileInfo `json:"inventories" desc:"List of available inventories"`
	Message     string     `json:"message,omitempty" desc:"Informational or error message"`
}
