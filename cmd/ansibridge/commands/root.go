package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Execute runs the root command.
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ansibridge",
		Short: "Ansibridge - Ansible tool server for LLM clients",
		Long: `Ansibridge exposes Ansible operations as tools over a line-delimited
JSON protocol on stdin/stdout, for consumption by an LLM client.

Tools cover playbook and ad-hoc execution, inventory and playbook file
management, and SSH key discovery. Each execution runs in a throwaway
private directory that is removed when the run finishes.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	}

	// Any flag can also be set via ANSIBRIDGE_<FLAG> in the environment.
	viper.SetEnvPrefix("ANSIBRIDGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(newServeCommand(version))
	rootCmd.AddCommand(newToolsCommand())
	rootCmd.AddCommand(newRunsCommand())

	return rootCmd
}

// flagOrEnv reads a flag value, falling back to its bound environment
// variable when the flag was not set on the command line.
func flagOrEnv(cmd *cobra.Command, name string) string {
	if cmd.Flags().Changed(name) {
		value, _ := cmd.Flags().GetString(name)
		return value
	}
	if viper.IsSet(name) {
		return viper.GetString(name)
	}
	value, _ := cmd.Flags().GetString(name)
	return value
}
