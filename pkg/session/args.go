package session

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// FormatModuleArgs serializes module arguments into the engine's
// key=value argument string. Keys are emitted in sorted order so the
// same arguments always produce the same string. Booleans become yes/no,
// numbers stay bare, and everything else is single-quoted.
func FormatModuleArgs(args map[string]any) string {
	if len(args) == 0 {
		return ""
	}

	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, formatArg(k, args[k]))
	}
	return strings.Join(parts, " ")
}

func formatArg(key string, value any) string {
	switch v := value.(type) {
	case bool:
		if v {
			return key + "=yes"
		}
		return key + "=no"
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return fmt.Sprintf("%s=%v", key, v)
	case json.Number:
		return fmt.Sprintf("%s=%s", key, v.String())
	default:
		return fmt.Sprintf("%s='%v'", key, v)
	}
}
