package tools

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh"

	"github.com/ansibridge/ansibridge/pkg/model"
	"github.com/ansibridge/ansibridge/pkg/registry"
)

// Files under ~/.ssh that are never private keys.
var skippedKeyFiles = map[string]bool{
	"known_hosts":     true,
	"authorized_keys": true,
	"config":          true,
	"environment":     true,
}

func registerKeyTools(reg *registry.Registry, deps Deps) error {
	return registry.Register(reg, "get_ssh_keys",
		"List SSH private keys available in the user's ~/.ssh directory",
		func(tc *registry.Context, req model.GetSSHKeysRequest) (model.GetSSHKeysResponse, error) {
			home, err := os.UserHomeDir()
			if err != nil {
				return model.GetSSHKeysResponse{
					Success: false,
					Keys:    []model.SSHKeyInfo{},
					Message: fmt.Sprintf("failed to resolve home directory: %s", err),
				}, nil
			}

			sshDir := filepath.Join(home, ".ssh")
			entries, err := os.ReadDir(sshDir)
			if err != nil {
				return model.GetSSHKeysResponse{
					Success: false,
					Keys:    []model.SSHKeyInfo{},
					Message: fmt.Sprintf("failed to read %s: %s", sshDir, err),
				}, nil
			}

			keys := []model.SSHKeyInfo{}
			for _, entry := range entries {
				if entry.IsDir() {
					continue
				}
				name := entry.Name()
				if skippedKeyFiles[name] || strings.HasSuffix(name, ".pub") || strings.HasPrefix(name, "known_hosts") {
					continue
				}

				path := filepath.Join(sshDir, name)
				if !isPrivateKey(path) {
					continue
				}

				keyType, comment := inspectPublicKey(path + ".pub")
				keys = append(keys, model.SSHKeyInfo{
					Path:    path,
					Name:    name,
					Type:    keyType,
					Comment: comment,
				})
			}

			return model.GetSSHKeysResponse{
				Success: true,
				Keys:    keys,
				Message: fmt.Sprintf("Found %d SSH keys", len(keys)),
			}, nil
		},
	)
}

// isPrivateKey checks for a PEM private key marker in the file head.
func isPrivateKey(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	head := make([]byte, 128)
	n, err := f.Read(head)
	if err != nil || n == 0 {
		return false
	}
	return bytes.Contains(head[:n], []byte("PRIVATE KEY"))
}

// inspectPublicKey derives the key type and comment from the adjacent
// .pub file. A missing or unparsable .pub yields ("unknown", "").
func inspectPublicKey(pubPath string) (keyType, comment string) {
	data, err := os.ReadFile(pubPath)
	if err != nil {
		return "unknown", ""
	}
	pub, comment, _, _, err := ssh.ParseAuthorizedKey(data)
	if err != nil {
		return "unknown", ""
	}
	return pub.Type(), comment
}
