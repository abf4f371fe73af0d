package model

// InventoryHost is one host entry in an inventory.
type InventoryHost struct {
	// Name is the host name or IP address, unique within an inventory.
	Name string `json:"name" yaml:"name" validate:"required" desc:"Host name or IP address"`

	// Variables are per-host variables of arbitrary shape.
	Variables map[string]any `json:"variables,omitempty" yaml:"variables,omitempty" desc:"Host variables"`

	// Groups lists the groups this host belongs to, in declaration order.
	Groups []string `json:"groups,omitempty" yaml:"groups,omitempty" desc:"Groups this host belongs to"`
}

// InventoryGroup is one group entry in an inventory. A group referenced
// only as a child of another group need not have its own entry.
type InventoryGroup struct {
	Name string `json:"name" yaml:"name" validate:"required" desc:"Group name"`

	Variables map[string]any `json:"variables,omitempty" yaml:"variables,omitempty" desc:"Group variables"`

	// Children lists child group names.
	Children []string `json:"children,omitempty" yaml:"children,omitempty" desc:"Child groups"`
}

// Inventory is the structured representation of an automation inventory.
type Inventory struct {
	Hosts  []InventoryHost  `json:"hosts,omitempty" yaml:"hosts,omitempty" validate:"dive" desc:"List of hosts in the inventory"`
	Groups []InventoryGroup `json:"groups,omitempty" yaml:"groups,omitempty" validate:"dive" desc:"List of groups in the inventory"`
}
