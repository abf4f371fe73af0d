// Package events translates the engine's raw run-event stream into the
// structured result shapes the tool surface returns.
package events

import (
	"github.com/ansibridge/ansibridge/pkg/model"
	"github.com/ansibridge/ansibridge/pkg/runner"
)

// Translate drains a playbook run's event stream into an ordered task
// result list. Every recognized event appends one entry; order is
// preserved and duplicates are allowed (a host re-executing a task
// produces multiple entries). Unrecognized event kinds are ignored.
func Translate(stream <-chan runner.Event) []model.TaskResult {
	var results []model.TaskResult
	for ev := range stream {
		status, ok := statusFor(ev.Kind)
		if !ok {
			continue
		}

		result := model.TaskResult{
			TaskName: taskName(ev),
			Host:     ev.Host,
			Status:   status,
		}
		switch status {
		case model.TaskStatusChanged:
			result.Changed = true
			result.Result = orEmpty(ev.Result)
		case model.TaskStatusSkipped:
			// Skipped events discard their payload.
			result.Result = map[string]any{}
		case model.TaskStatusUnreachable:
			result.Result = orEmpty(ev.Result)
		default:
			result.Changed = ev.Changed
			result.Result = orEmpty(ev.Result)
		}
		results = append(results, result)
	}
	return results
}

// CollapseByHost drains an ad-hoc run's event stream into a host→payload
// mapping. Only ok, failed, and unreachable events participate; later
// events for the same host overwrite earlier ones, so the mapping holds
// each host's last observed result.
func CollapseByHost(stream <-chan runner.Event) map[string]map[string]any {
	results := map[string]map[string]any{}
	for ev := range stream {
		switch ev.Kind {
		case runner.EventRunnerOK, runner.EventRunnerFailed, runner.EventRunnerUnreachable:
			if ev.Host == "" {
				continue
			}
			results[ev.Host] = orEmpty(ev.Result)
		}
	}
	return results
}

func statusFor(kind string) (model.TaskStatus, bool) {
	switch kind {
	case runner.EventRunnerOK:
		return model.TaskStatusOK, true
	case runner.EventRunnerChanged:
		return model.TaskStatusChanged, true
	case runner.EventRunnerFailed:
		return model.TaskStatusFailed, true
	case runner.EventRunnerSkipped:
		return model.TaskStatusSkipped, true
	case runner.EventRunnerUnreachable:
		return model.TaskStatusUnreachable, true
	default:
		return "", false
	}
}

func taskName(ev runner.Event) string {
	if ev.Task == "" {
		return "unnamed task"
	}
	return ev.Task
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
