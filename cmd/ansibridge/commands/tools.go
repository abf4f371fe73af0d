package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ansibridge/ansibridge/pkg/registry"
	"github.com/ansibridge/ansibridge/pkg/runner"
	"github.com/ansibridge/ansibridge/pkg/server"
	"github.com/ansibridge/ansibridge/pkg/session"
	"github.com/ansibridge/ansibridge/pkg/telemetry"
	"github.com/ansibridge/ansibridge/pkg/tools"
)

func newToolsCommand() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the tools the server exposes",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := buildRegistry()
			if err != nil {
				return err
			}

			toolList := reg.ListTools()
			if jsonOutput {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(toolList)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDESCRIPTION")
			for _, tool := range toolList {
				fmt.Fprintf(w, "%s\t%s\n", tool.Name, tool.Description)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output the full tool schemas as JSON")
	return cmd
}

// buildRegistry assembles the tool table without touching the data
// directory, for local inspection.
func buildRegistry() (*registry.Registry, error) {
	logger, err := telemetry.NewLogger(telemetry.LoggingConfig{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		return nil, err
	}

	state := &server.State{}
	engine := runner.NewExecEngine("", "", logger)
	sessions := session.NewManager(os.TempDir(), engine, logger)

	reg := registry.New()
	if err := tools.RegisterAll(reg, tools.Deps{
		State:    state,
		Sessions: sessions,
		Logger:   logger,
	}); err != nil {
		return nil, err
	}
	return reg, nil
}
