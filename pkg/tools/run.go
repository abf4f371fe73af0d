package tools

import (
	"github.com/ansibridge/ansibridge/pkg/model"
	"github.com/ansibridge/ansibridge/pkg/registry"
)

func registerRunTools(reg *registry.Registry, deps Deps) error {
	if err := registry.Register(reg, "run_playbook",
		"Run an Ansible playbook with the given configuration",
		func(tc *registry.Context, req model.PlaybookRunRequest) (model.RunResult, error) {
			return deps.Sessions.RunPlaybook(tc.Context(), req.Config, ctxNotifier{tc}), nil
		},
	); err != nil {
		return err
	}

	return registry.Register(reg, "run_ad_hoc_command",
		"Run an ad-hoc Ansible command against target hosts",
		func(tc *registry.Context, req model.AdHocCommandRequest) (model.AdHocResult, error) {
			return deps.Sessions.RunAdHoc(tc.Context(), req, ctxNotifier{tc}), nil
		},
	)
}
