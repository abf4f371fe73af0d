package runner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// jobEvent is the on-disk shape of one engine event file.
type jobEvent struct {
	Counter   int            `json:"counter"`
	Event     string         `json:"event"`
	EventData map[string]any `json:"event_data"`
}

// statsData is the event_data payload of a playbook_on_stats event:
// per-category host→count mappings.
type statsData struct {
	OK          map[string]int `json:"ok"`
	Changed     map[string]int `json:"changed"`
	Failures    map[string]int `json:"failures"`
	Skipped     map[string]int `json:"skipped"`
	Dark        map[string]int `json:"dark"`
	Ignored     map[string]int `json:"ignored"`
	Rescued     map[string]int `json:"rescued"`
	Processed   map[string]int `json:"processed"`
}

// readArtifacts parses the engine's job_events directory into an ordered
// event slice plus the per-host statistics reported by the final stats
// event. A missing artifacts tree yields an empty stream, not an error:
// the engine may fail before producing any events.
func readArtifacts(dir string) ([]Event, map[string]map[string]int, error) {
	eventsDir := filepath.Join(dir, "job_events")
	entries, err := os.ReadDir(eventsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, map[string]map[string]int{}, nil
		}
		return nil, nil, fmt.Errorf("failed to read job events: %w", err)
	}

	type numbered struct {
		counter int
		name    string
	}
	var files []numbered
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		// Event files are named "<counter>-<uuid>.json".
		prefix, _, ok := strings.Cut(name, "-")
		counter, convErr := strconv.Atoi(prefix)
		if !ok || convErr != nil {
			continue
		}
		files = append(files, numbered{counter: counter, name: name})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].counter < files[j].counter })

	var events []Event
	stats := map[string]map[string]int{}
	for _, f := range files {
		data, err := os.ReadFile(filepath.Join(eventsDir, f.name))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read event file %s: %w", f.name, err)
		}
		var ev jobEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			// Partially written event files are skipped rather than
			// failing the whole run.
			continue
		}

		if ev.Event == EventPlaybookStats {
			stats = decodeStats(ev.EventData)
			continue
		}
		events = append(events, decodeEvent(ev))
	}
	return events, stats, nil
}

func decodeEvent(ev jobEvent) Event {
	out := Event{Kind: ev.Event}
	if task, ok := ev.EventData["task"].(string); ok {
		out.Task = task
	}
	if host, ok := ev.EventData["host"].(string); ok {
		out.Host = host
	}
	if changed, ok := ev.EventData["changed"].(bool); ok {
		out.Changed = changed
	}
	if res, ok := ev.EventData["res"].(map[string]any); ok {
		out.Result = res
	}
	return out
}

func decodeStats(data map[string]any) map[string]map[string]int {
	raw, err := json.Marshal(data)
	if err != nil {
		return map[string]map[string]int{}
	}
	var sd statsData
	if err := json.Unmarshal(raw, &sd); err != nil {
		return map[string]map[string]int{}
	}

	stats := map[string]map[string]int{}
	record := func(category string, byHost map[string]int) {
		for host, count := range byHost {
			if stats[host] == nil {
				stats[host] = map[string]int{}
			}
			stats[host][category] = count
		}
	}
	record("ok", sd.OK)
	record("changed", sd.Changed)
	record("failures", sd.Failures)
	record("skipped", sd.Skipped)
	record("unreachable", sd.Dark)
	record("ignored", sd.Ignored)
	record("rescued", sd.Rescued)
	return stats
}
