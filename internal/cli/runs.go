package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"xrpbootstrap/internal/notify"
	"xrpbootstrap/internal/store"
)

func (a *app) runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded bootstrap runs",
	}
	cmd.AddCommand(a.runsListCmd())
	return cmd
}

func (a *app) runsListCmd() *cobra.Command {
	var project string
	var limit int
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent bootstrap runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn, err := a.dsnOrErr()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			st, err := store.Open(ctx, dsn)
			if err != nil {
				return err
			}
			defer st.Close()

			runs, err := st.ListRuns(ctx, project, limit)
			if err != nil {
				return err
			}
			if asJSON {
				return writeRunsJSON(a.opts.Out, runs)
			}
			writeRuns(a.opts.Out, runs)
			return nil
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "only show runs for this project")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print runs as JSON")
	return cmd
}

func writeRunsJSON(w io.Writer, runs []store.Run) error {
	b, err := json.MarshalIndent(runs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode runs: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func writeRuns(w io.Writer, runs []store.Run) {
	if len(runs) == 0 {
		notify.Infof(w, "no runs recorded")
		return
	}
	for _, r := range runs {
		line := fmt.Sprintf("%s  %s  %s  created=%d existing=%d failed=%d",
			r.StartedAt.UTC().Format(time.RFC3339), r.Project, r.RunID, r.Created, r.Existing, r.Failed)
		switch {
		case r.Status == store.StatusOK && r.Failed == 0:
			notify.Successf(w, "%s", line)
		case r.Status == store.StatusRunning:
			notify.Activityf(w, "%s (unfinished)", line)
		default:
			notify.Warningf(w, "%s (%s)", line, r.Status)
		}
	}
}
