package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ansibridge/ansibridge/pkg/history"
)

func newRunsCommand() *cobra.Command {
	var (
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded runs from the history database",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath := flagOrEnv(cmd, "history-db")
			if dbPath == "" {
				return fmt.Errorf("--history-db is required (or set ANSIBRIDGE_HISTORY_DB)")
			}

			store, err := history.NewStore(dbPath)
			if err != nil {
				return err
			}
			if err := store.Init(cmd.Context()); err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(runs)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tKIND\tSTATUS\tRC\tSTARTED\tCOMPLETED")
			for _, run := range runs {
				completed := "-"
				if run.CompletedAt != nil {
					completed = run.CompletedAt.Format("2006-01-02 15:04:05")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
					run.ID, run.Kind, run.Status, run.ReturnCode,
					run.StartedAt.Format("2006-01-02 15:04:05"), completed)
			}
			return w.Flush()
		},
	}

	cmd.Flags().String("history-db", "", "SQLite database recording run history")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of runs to list")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	_ = viper.BindPFlag("history-db", cmd.Flags().Lookup("history-db"))

	return cmd
}
