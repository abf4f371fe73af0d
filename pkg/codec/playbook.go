package codec

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/ansibridge/ansibridge/pkg/errs"
	"github.com/ansibridge/ansibridge/pkg/model"
)

// reservedTaskKeys are task-mapping keys that are modifiers rather than
// module names. The first key outside this set identifies the module.
var reservedTaskKeys = map[string]struct{}{
	"name":          {},
	"become":        {},
	"become_user":   {},
	"ignore_errors": {},
	"when":          {},
	"register":      {},
	"loop":          {},
	"loop_control":  {},
}

// EncodePlaybook renders a playbook value into the engine's
// list-of-plays document. Unset optional fields are omitted; each task
// mapping carries the module name as a key whose value is the argument
// mapping.
func EncodePlaybook(pb model.Playbook) []map[string]any {
	plays := make([]map[string]any, 0, len(pb.Plays))
	for _, play := range pb.Plays {
		entry := map[string]any{
			"name":  play.Name,
			"hosts": hostsValue(play.Hosts),
		}
		if play.Become != nil {
			entry["become"] = *play.Become
		}
		if play.BecomeUser != "" {
			entry["become_user"] = play.BecomeUser
		}
		if len(play.Vars) > 0 {
			entry["vars"] = play.Vars
		}
		if len(play.Roles) > 0 {
			entry["roles"] = play.Roles
		}
		if play.GatherFacts != nil {
			entry["gather_facts"] = *play.GatherFacts
		}
		if len(play.Tasks) > 0 {
			tasks := make([]map[string]any, 0, len(play.Tasks))
			for _, task := range play.Tasks {
				tasks = append(tasks, encodeTask(task))
			}
			entry["tasks"] = tasks
		}
		plays = append(plays, entry)
	}
	return plays
}

func hostsValue(h model.HostPattern) any {
	if len(h) == 1 {
		return h[0]
	}
	return []string(h)
}

func encodeTask(task model.PlaybookTask) map[string]any {
	args := task.Args
	if args == nil {
		args = map[string]any{}
	}
	entry := map[string]any{
		"name":      task.Name,
		task.Module: args,
	}
	if task.Become != nil {
		entry["become"] = *task.Become
	}
	if task.BecomeUser != "" {
		entry["become_user"] = task.BecomeUser
	}
	if task.IgnoreErrors != nil {
		entry["ignore_errors"] = *task.IgnoreErrors
	}
	if task.When != nil {
		entry["when"] = task.When
	}
	if task.Register != "" {
		entry["register"] = task.Register
	}
	if task.Loop != nil {
		entry["loop"] = task.Loop
	}
	return entry
}

// MarshalPlaybook renders a playbook value as a YAML document.
func MarshalPlaybook(pb model.Playbook) ([]byte, error) {
	return yaml.Marshal(EncodePlaybook(pb))
}

// DecodePlaybook parses an engine-format playbook document back into a
// playbook value. A task mapping with no key outside the reserved
// modifier set is dropped; a mapping with more than one such key is
// ambiguous and yields a codec error.
func DecodePlaybook(data []byte) (*model.Playbook, error) {
	var doc []map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errs.NewCodec("playbook is not a list of plays", err)
	}

	pb := &model.Playbook{}
	for i, playData := range doc {
		play := model.PlaybookPlay{
			Name:        stringOr(playData["name"], "Unnamed play"),
			Hosts:       decodeHosts(playData["hosts"]),
			Become:      boolPtr(playData["become"]),
			BecomeUser:  stringOr(playData["become_user"], ""),
			Vars:        mapOr(playData["vars"]),
			GatherFacts: boolPtr(playData["gather_facts"]),
		}
		if roles, ok := playData["roles"].([]any); ok {
			play.Roles = roles
		}

		rawTasks, _ := playData["tasks"].([]any)
		for _, rawTask := range rawTasks {
			taskData, ok := rawTask.(map[string]any)
			if !ok {
				return nil, errs.NewCodec(fmt.Sprintf("play %d: task entry is not a mapping", i), nil)
			}
			task, skip, err := decodeTask(taskData)
			if err != nil {
				return nil, err
			}
			if skip {
				continue
			}
			play.Tasks = append(play.Tasks, task)
		}
		pb.Plays = append(pb.Plays, play)
	}
	return pb, nil
}

func decodeTask(taskData map[string]any) (model.PlaybookTask, bool, error) {
	var moduleKeys []string
	for key := range taskData {
		if _, reserved := reservedTaskKeys[key]; !reserved {
			moduleKeys = append(moduleKeys, key)
		}
	}
	switch {
	case len(moduleKeys) == 0:
		// No module key: not a plain module task, silently dropped.
		return model.PlaybookTask{}, true, nil
	case len(moduleKeys) > 1:
		return model.PlaybookTask{}, false, errs.NewCodec(
			fmt.Sprintf("task %q has multiple candidate module keys %v", stringOr(taskData["name"], "Unnamed task"), moduleKeys), nil)
	}

	module := moduleKeys[0]
	var args map[string]any
	if m, ok := taskData[module].(map[string]any); ok {
		args = m
	} else {
		args = map[string]any{"_raw_params": taskData[module]}
	}

	task := model.PlaybookTask{
		Name:         stringOr(taskData["name"], "Unnamed task"),
		Module:       module,
		Args:         args,
		Become:       boolPtr(taskData["become"]),
		BecomeUser:   stringOr(taskData["become_user"], ""),
		IgnoreErrors: boolPtr(taskData["ignore_errors"]),
		When:         taskData["when"],
		Register:     stringOr(taskData["register"], ""),
		Loop:         taskData["loop"],
	}
	return task, false, nil
}

func decodeHosts(v any) model.HostPattern {
	switch hosts := v.(type) {
	case string:
		return model.HostPattern{hosts}
	case []any:
		out := make(model.HostPattern, 0, len(hosts))
		for _, h := range hosts {
			if s, ok := h.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func stringOr(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func boolPtr(v any) *bool {
	if b, ok := v.(bool); ok {
		return &b
	}
	return nil
}

func mapOr(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return nil
}

// LooksLikePlaybook reports whether a YAML document has the basic shape
// of a playbook: a list of mappings that each declare hosts.
func LooksLikePlaybook(data []byte) bool {
	var doc []map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return false
	}
	if len(doc) == 0 {
		return false
	}
	for _, play := range doc {
		if _, ok := play["hosts"]; !ok {
			return false
		}
	}
	return true
}
