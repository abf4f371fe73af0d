package events

import (
	"reflect"
	"testing"

	"github.com/ansibridge/ansibridge/pkg/model"
	"github.com/ansibridge/ansibridge/pkg/runner"
)

func stream(evs ...runner.Event) <-chan runner.Event {
	ch := make(chan runner.Event, len(evs))
	for _, ev := range evs {
		ch <- ev
	}
	close(ch)
	return ch
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		ev   runner.Event
		want model.TaskResult
	}{
		{
			name: "ok keeps payload changed flag",
			ev:   runner.Event{Kind: runner.EventRunnerOK, Task: "install", Host: "web1", Changed: false, Result: map[string]any{"rc": 0}},
			want: model.TaskResult{TaskName: "install", Host: "web1", Status: model.TaskStatusOK, Changed: false, Result: map[string]any{"rc": 0}},
		},
		{
			name: "changed forces changed true",
			ev:   runner.Event{Kind: runner.EventRunnerChanged, Task: "install", Host: "web1", Changed: false, Result: map[string]any{"rc": 0}},
			want: model.TaskResult{TaskName: "install", Host: "web1", Status: model.TaskStatusChanged, Changed: true, Result: map[string]any{"rc": 0}},
		},
		{
			name: "failed",
			ev:   runner.Event{Kind: runner.EventRunnerFailed, Task: "install", Host: "web1", Result: map[string]any{"msg": "boom"}},
			want: model.TaskResult{TaskName: "install", Host: "web1", Status: model.TaskStatusFailed, Result: map[string]any{"msg": "boom"}},
		},
		{
			name: "skipped discards payload",
			ev:   runner.Event{Kind: runner.EventRunnerSkipped, Task: "install", Host: "web1", Result: map[string]any{"why": "condition"}},
			want: model.TaskResult{TaskName: "install", Host: "web1", Status: model.TaskStatusSkipped, Result: map[string]any{}},
		},
		{
			name: "unreachable",
			ev:   runner.Event{Kind: runner.EventRunnerUnreachable, Task: "install", Host: "web1", Result: map[string]any{"msg": "timeout"}},
			want: model.TaskResult{TaskName: "install", Host: "web1", Status: model.TaskStatusUnreachable, Result: map[string]any{"msg": "timeout"}},
		},
		{
			name: "missing task name defaults",
			ev:   runner.Event{Kind: runner.EventRunnerOK, Host: "web1"},
			want: model.TaskResult{TaskName: "unnamed task", Host: "web1", Status: model.TaskStatusOK, Result: map[string]any{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Translate(stream(tt.ev))
			if len(got) != 1 {
				t.Fatalf("got %d results, want 1", len(got))
			}
			if !reflect.DeepEqual(got[0], tt.want) {
				t.Errorf("Translate() = %+v, want %+v", got[0], tt.want)
			}
		})
	}
}

func TestTranslateIgnoresUnknownKinds(t *testing.T) {
	got := Translate(stream(
		runner.Event{Kind: "playbook_on_start"},
		runner.Event{Kind: "verbose"},
		runner.Event{Kind: runner.EventRunnerOK, Task: "t", Host: "h"},
	))
	if len(got) != 1 {
		t.Fatalf("got %d results, want 1 (unknown kinds must be ignored)", len(got))
	}
}

func TestTranslatePreservesOrderAndDuplicates(t *testing.T) {
	got := Translate(stream(
		runner.Event{Kind: runner.EventRunnerOK, Task: "t", Host: "h1"},
		runner.Event{Kind: runner.EventRunnerOK, Task: "t", Host: "h1"},
		runner.Event{Kind: runner.EventRunnerFailed, Task: "t", Host: "h2"},
	))
	if len(got) != 3 {
		t.Fatalf("got %d results, want 3", len(got))
	}
	if got[2].Status != model.TaskStatusFailed {
		t.Errorf("last status = %v, want failed", got[2].Status)
	}
}

func TestCollapseByHostLastWriteWins(t *testing.T) {
	got := CollapseByHost(stream(
		runner.Event{Kind: runner.EventRunnerOK, Host: "h1", Result: map[string]any{"attempt": 1}},
		runner.Event{Kind: runner.EventRunnerOK, Host: "h1", Result: map[string]any{"attempt": 2}},
		runner.Event{Kind: runner.EventRunnerFailed, Host: "h1", Result: map[string]any{"msg": "boom"}},
	))

	want := map[string]map[string]any{"h1": {"msg": "boom"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CollapseByHost() = %v, want %v", got, want)
	}
}

func TestCollapseByHost(t *testing.T) {
	got := CollapseByHost(stream(
		runner.Event{Kind: runner.EventRunnerOK, Host: "h1", Result: map[string]any{"rc": 0}},
		runner.Event{Kind: runner.EventRunnerSkipped, Host: "h1", Result: map[string]any{"ignored": true}},
		runner.Event{Kind: runner.EventRunnerUnreachable, Host: "h2", Result: map[string]any{"msg": "timeout"}},
		runner.Event{Kind: runner.EventRunnerOK, Host: "", Result: map[string]any{"no": "host"}},
	))

	want := map[string]map[string]any{
		"h1": {"rc": 0},
		"h2": {"msg": "timeout"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CollapseByHost() = %v, want %v", got, want)
	}
}
