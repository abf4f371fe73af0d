package tools

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ansibridge/ansibridge/pkg/codec"
	"github.com/ansibridge/ansibridge/pkg/model"
	"github.com/ansibridge/ansibridge/pkg/registry"
)

func registerInventoryTools(reg *registry.Registry, deps Deps) error {
	if err := registry.Register(reg, "create_inventory",
		"Create an Ansible inventory file from structured inventory data",
		func(tc *registry.Context, req model.CreateInventoryRequest) (model.CreateInventoryResponse, error) {
			path := req.Path
			if path == "" {
				path = filepath.Join(deps.State.InventoryDir, generatedName("inventory"))
			}

			data, err := codec.MarshalInventory(req.Inventory)
			if err != nil {
				return model.CreateInventoryResponse{
					Success: false,
					Message: fmt.Sprintf("failed to render inventory: %s", err),
				}, nil
			}

			if err := writeOut(path, data); err != nil {
				return model.CreateInventoryResponse{
					Success: false,
					Message: err.Error(),
				}, nil
			}

			return model.CreateInventoryResponse{
				Success: true,
				Path:    path,
				Message: fmt.Sprintf("Inventory saved to %s", path),
			}, nil
		},
	); err != nil {
		return err
	}

	return registry.Register(reg, "load_inventory",
		"Load and parse an Ansible inventory from a file or directory",
		func(tc *registry.Context, req model.LoadInventoryRequest) (model.LoadInventoryResponse, error) {
			if _, err := os.Stat(req.Path); err != nil {
				return model.LoadInventoryResponse{
					Success: false,
					Message: fmt.Sprintf("inventory path not found: %s", req.Path),
				}, nil
			}

			rc, listing, stderr, err := deps.Sessions.ListInventorySource(tc.Context(), req.Path)
			if err != nil {
				return model.LoadInventoryResponse{
					Success: false,
					Message: fmt.Sprintf("failed to list inventory: %s", err),
				}, nil
			}
			if rc != 0 {
				return model.LoadInventoryResponse{
					Success: false,
					Message: fmt.Sprintf("inventory listing failed: %s", strings.TrimSpace(stderr)),
				}, nil
			}

			inv, err := codec.DecodeInventoryListing([]byte(listing))
			if err != nil {
				return model.LoadInventoryResponse{
					Success: false,
					Message: fmt.Sprintf("failed to parse inventory listing: %s", err),
				}, nil
			}

			return model.LoadInventoryResponse{
				Success:   true,
				Inventory: inv,
				Message:   fmt.Sprintf("Loaded inventory with %d hosts and %d groups", len(inv.Hosts), len(inv.Groups)),
			}, nil
		},
	)
}

// generatedName builds a unique file name for saved inventories and
// playbooks.
func generatedName(prefix string) string {
	return fmt.Sprintf("%s_%s.yml", prefix, uuid.NewString()[:8])
}

func writeOut(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %s", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %s", path, err)
	}
	return nil
}
