package codec

import (
	"encoding/json"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ansibridge/ansibridge/pkg/errs"
	"github.com/ansibridge/ansibridge/pkg/model"
)

// UngroupedGroup is the synthetic group that collects hosts with no
// declared group membership.
const UngroupedGroup = "ungrouped"

// EncodeInventory renders an inventory value into the engine's
// group-keyed mapping. Hosts are merged into each of their groups'
// "hosts" entries; group variables and children merge into existing
// group entries rather than overwriting them.
func EncodeInventory(inv model.Inventory) map[string]any {
	out := map[string]any{}

	group := func(name string) map[string]any {
		g, ok := out[name].(map[string]any)
		if !ok {
			g = map[string]any{}
			out[name] = g
		}
		return g
	}
	hostsOf := func(name string) map[string]any {
		g := group(name)
		h, ok := g["hosts"].(map[string]any)
		if !ok {
			h = map[string]any{}
			g["hosts"] = h
		}
		return h
	}

	for _, host := range inv.Hosts {
		vars := host.Variables
		if vars == nil {
			vars = map[string]any{}
		}
		if len(host.Groups) == 0 {
			hostsOf(UngroupedGroup)[host.Name] = vars
			continue
		}
		for _, g := range host.Groups {
			hostsOf(g)[host.Name] = vars
		}
	}

	for _, g := range inv.Groups {
		entry := group(g.Name)
		if len(g.Variables) > 0 {
			entry["vars"] = g.Variables
		}
		if len(g.Children) > 0 {
			children, ok := entry["children"].(map[string]any)
			if !ok {
				children = map[string]any{}
				entry["children"] = children
			}
			for _, child := range g.Children {
				children[child] = map[string]any{}
			}
		}
	}

	return out
}

// MarshalInventory renders an inventory value as a YAML document in the
// engine's native format.
func MarshalInventory(inv model.Inventory) ([]byte, error) {
	return yaml.Marshal(EncodeInventory(inv))
}

// DecodeInventoryListing parses the engine's JSON inventory listing back
// into an inventory value. The "_meta" and "all" keys are structural and
// do not become groups; host membership is derived from each remaining
// group's "hosts" entry, and per-host variables come from
// "_meta.hostvars" when present.
func DecodeInventoryListing(listing []byte) (*model.Inventory, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(listing, &raw); err != nil {
		return nil, errs.NewCodec("inventory listing is not a JSON object", err)
	}

	inv := &model.Inventory{}
	allHosts := map[string]struct{}{}
	hostGroups := map[string][]string{}

	groupNames := make([]string, 0, len(raw))
	for name := range raw {
		if name == "_meta" || name == "all" {
			continue
		}
		groupNames = append(groupNames, name)
	}
	sort.Strings(groupNames)

	for _, name := range groupNames {
		var data struct {
			Hosts    json.RawMessage `json:"hosts"`
			Vars     map[string]any  `json:"vars"`
			Children json.RawMessage `json:"children"`
		}
		if err := json.Unmarshal(raw[name], &data); err != nil {
			return nil, errs.NewCodec("malformed group entry "+name, err)
		}

		for _, host := range decodeNameSet(data.Hosts) {
			allHosts[host] = struct{}{}
			hostGroups[host] = append(hostGroups[host], name)
		}

		inv.Groups = append(inv.Groups, model.InventoryGroup{
			Name:      name,
			Variables: orEmpty(data.Vars),
			Children:  decodeNameSet(data.Children),
		})
	}

	hostvars := decodeHostvars(raw["_meta"])
	if hostvars != nil {
		names := make([]string, 0, len(hostvars))
		for name := range hostvars {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			inv.Hosts = append(inv.Hosts, model.InventoryHost{
				Name:      name,
				Variables: orEmpty(hostvars[name]),
				Groups:    hostGroups[name],
			})
		}
		return inv, nil
	}

	// No hostvars: reconstruct hosts with empty variables purely from
	// group membership.
	names := make([]string, 0, len(allHosts))
	for name := range allHosts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		inv.Hosts = append(inv.Hosts, model.InventoryHost{
			Name:      name,
			Variables: map[string]any{},
			Groups:    hostGroups[name],
		})
	}
	return inv, nil
}

// decodeNameSet accepts the two shapes the engine emits for host and
// children entries: a list of names, or a mapping keyed by name.
func decodeNameSet(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func decodeHostvars(meta json.RawMessage) map[string]map[string]any {
	if len(meta) == 0 {
		return nil
	}
	var m struct {
		Hostvars map[string]map[string]any `json:"hostvars"`
	}
	if err := json.Unmarshal(meta, &m); err != nil {
		return nil
	}
	return m.Hostvars
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
