package tools

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/ansibridge/ansibridge/pkg/codec"
	"github.com/ansibridge/ansibridge/pkg/model"
	"github.com/ansibridge/ansibridge/pkg/registry"
)

var yamlExtensions = map[string]bool{".yml": true, ".yaml": true}

var inventoryExtensions = map[string]bool{
	".yml": true, ".yaml": true, ".json": true, ".ini": true,
}

func registerListingTools(reg *registry.Registry, deps Deps) error {
	if err := registry.Register(reg, "list_playbooks",
		"List playbook files available in the playbooks directory",
		func(tc *registry.Context, req model.ListPlaybooksRequest) (model.ListPlaybooksResponse, error) {
			dir := req.Directory
			if dir == "" {
				dir = deps.State.PlaybooksDir
			}

			files, err := scanFiles(dir, isPlaybookFile)
			if err != nil {
				return model.ListPlaybooksResponse{
					Success:   false,
					Playbooks: []model.FileInfo{},
					Message:   err.Error(),
				}, nil
			}

			return model.ListPlaybooksResponse{
				Success:   true,
				Playbooks: files,
				Message:   fmt.Sprintf("Found %d playbooks", len(files)),
			}, nil
		},
	); err != nil {
		return err
	}

	return registry.Register(reg, "list_inventories",
		"List inventory files available in the inventory directory",
		func(tc *registry.Context, req model.ListInventoriesRequest) (model.ListInventoriesResponse, error) {
			dir := req.Directory
			if dir == "" {
				dir = deps.State.InventoryDir
			}

			files, err := scanFiles(dir, isInventoryFile)
			if err != nil {
				return model.ListInventoriesResponse{
					Success:     false,
					Inventories: []model.FileInfo{},
					Message:     err.Error(),
				}, nil
			}

			return model.ListInventoriesResponse{
				Success:     true,
				Inventories: files,
				Message:     fmt.Sprintf("Found %d inventories", len(files)),
			}, nil
		},
	)
}

func scanFiles(dir string, match func(path string) bool) ([]model.FileInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("directory not found: %s", dir)
	}

	files := []model.FileInfo{}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if !match(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		files = append(files, model.FileInfo{
			Path:     path,
			Name:     d.Name(),
			Size:     info.Size(),
			Modified: info.ModTime().UTC().Format(time.RFC3339),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %s", dir, err)
	}
	return files, nil
}

// isPlaybookFile accepts YAML files whose top level looks like a list of
// plays.
func isPlaybookFile(path string) bool {
	if !yamlExtensions[filepath.Ext(path)] {
		return false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return codec.LooksLikePlaybook(data)
}

func isInventoryFile(path string) bool {
	return inventoryExtensions[filepath.Ext(path)]
}
