package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// HostPattern is a host selection that may arrive as a single pattern or
// as a list of patterns. It marshals back out in the same shape it came
// in: a lone pattern stays a scalar, anything else is a sequence.
type HostPattern []string

// UnmarshalJSON accepts either a string or a list of strings.
func (h *HostPattern) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*h = HostPattern{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("hosts must be a string or a list of strings")
	}
	*h = HostPattern(many)
	return nil
}

// MarshalJSON renders a single pattern as a scalar.
func (h HostPattern) MarshalJSON() ([]byte, error) {
	if len(h) == 1 {
		return json.Marshal(h[0])
	}
	return json.Marshal([]string(h))
}

// UnmarshalYAML accepts either a scalar or a sequence node.
func (h *HostPattern) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*h = HostPattern{value.Value}
		return nil
	}
	var many []string
	if err := value.Decode(&many); err != nil {
		return fmt.Errorf("hosts must be a string or a list of strings")
	}
	*h = HostPattern(many)
	return nil
}

// MarshalYAML renders a single pattern as a scalar.
func (h HostPattern) MarshalYAML() (any, error) {
	if len(h) == 1 {
		return h[0], nil
	}
	return []string(h), nil
}

// Join returns the engine-facing form: patterns joined with commas.
func (h HostPattern) Join() string {
	return strings.Join(h, ",")
}

// PlaybookTask is one module invocation inside a play. Exactly one module
// name is set per task.
type PlaybookTask struct {
	Name   string         `json:"name" yaml:"name" validate:"required" desc:"Task name"`
	Module string         `json:"module" yaml:"module" validate:"required" desc:"Automation module name"`
	Args   map[string]any `json:"args,omitempty" yaml:"args,omitempty" desc:"Module arguments"`

	Become       *bool  `json:"become,omitempty" yaml:"become,omitempty" desc:"Whether to use privilege escalation"`
	BecomeUser   string `json:"become_user,omitempty" yaml:"become_user,omitempty" desc:"User to become when using privilege escalation"`
	IgnoreErrors *bool  `json:"ignore_errors,omitempty" yaml:"ignore_errors,omitempty" desc:"Whether to ignore errors for this task"`
	When         any    `json:"when,omitempty" yaml:"when,omitempty" desc:"Conditional expression for when to run the task"`
	Register     string `json:"register,omitempty" yaml:"register,omitempty" desc:"Variable name to store the result"`
	Loop         any    `json:"loop,omitempty" yaml:"loop,omitempty" desc:"Items to loop over"`
}

// PlaybookPlay is one unit of a playbook: target hosts plus an ordered
// list of tasks.
type PlaybookPlay struct {
	Name  string         `json:"name" yaml:"name" validate:"required" desc:"Play name"`
	Hosts HostPattern    `json:"hosts" yaml:"hosts" validate:"required,min=1" desc:"Target hosts or groups"`
	Tasks []PlaybookTask `json:"tasks,omitempty" yaml:"tasks,omitempty" validate:"dive" desc:"List of tasks in the play"`

	Become      *bool          `json:"become,omitempty" yaml:"become,omitempty" desc:"Whether to use privilege escalation"`
	BecomeUser  string         `json:"become_user,omitempty" yaml:"become_user,omitempty" desc:"User to become when using privilege escalation"`
	Vars        map[string]any `json:"vars,omitempty" yaml:"vars,omitempty" desc:"Variables for the play"`
	Roles       []any          `json:"roles,omitempty" yaml:"roles,omitempty" desc:"Roles to include in the play"`
	GatherFacts *bool          `json:"gather_facts,omitempty" yaml:"gather_facts,omitempty" desc:"Whether to gather facts"`
}

// Playbook is an ordered sequence of plays.
type Playbook struct {
	Plays []PlaybookPlay `json:"plays" yaml:"plays" validate:"dive" desc:"List of plays in the playbook"`
}
