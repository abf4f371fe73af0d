package tools

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ansibridge/ansibridge/pkg/codec"
	"github.com/ansibridge/ansibridge/pkg/model"
	"github.com/ansibridge/ansibridge/pkg/registry"
)

func registerPlaybookTools(reg *registry.Registry, deps Deps) error {
	if err := registry.Register(reg, "create_playbook",
		"Create an Ansible playbook file from structured playbook data",
		func(tc *registry.Context, req model.CreatePlaybookRequest) (model.CreatePlaybookResponse, error) {
			path := req.Path
			if path == "" {
				path = filepath.Join(deps.State.PlaybooksDir, generatedName("playbook"))
			}

			data, err := codec.MarshalPlaybook(req.Playbook)
			if err != nil {
				return model.CreatePlaybookResponse{
					Success: false,
					Message: fmt.Sprintf("failed to render playbook: %s", err),
				}, nil
			}

			if err := writeOut(path, data); err != nil {
				return model.CreatePlaybookResponse{
					Success: false,
					Message: err.Error(),
				}, nil
			}

			return model.CreatePlaybookResponse{
				Success: true,
				Path:    path,
				Message: fmt.Sprintf("Playbook saved to %s", path),
			}, nil
		},
	); err != nil {
		return err
	}

	return registry.Register(reg, "load_playbook",
		"Load and parse an Ansible playbook file",
		func(tc *registry.Context, req model.LoadPlaybookRequest) (model.LoadPlaybookResponse, error) {
			data, err := os.ReadFile(req.Path)
			if err != nil {
				return model.LoadPlaybookResponse{
					Success: false,
					Message: fmt.Sprintf("playbook not found: %s", req.Path),
				}, nil
			}

			pb, err := codec.DecodePlaybook(data)
			if err != nil {
				return model.LoadPlaybookResponse{
					Success: false,
					Message: fmt.Sprintf("failed to parse playbook: %s", err),
				}, nil
			}

			return model.LoadPlaybookResponse{
				Success:  true,
				Playbook: pb,
				Message:  fmt.Sprintf("Loaded playbook with %d plays", len(pb.Plays)),
			}, nil
		},
	)
}
