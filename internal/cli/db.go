package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"xrpbootstrap/internal/notify"
	"xrpbootstrap/internal/store"
)

func (a *app) dbCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Run history database utilities",
	}
	cmd.AddCommand(a.dbInitCmd())
	return cmd
}

func (a *app) dbInitCmd() *cobra.Command {
	var schemaPath string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the bootstrap.runs schema in PostgreSQL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn, err := a.dsnOrErr()
			if err != nil {
				return err
			}
			schema := store.Schema
			if schemaPath != "" {
				b, err := os.ReadFile(schemaPath)
				if err != nil {
					return fmt.Errorf("read schema: %w", err)
				}
				schema = string(b)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			st, err := store.Open(ctx, dsn)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.ExecSQL(ctx, schema); err != nil {
				return fmt.Errorf("apply schema: %w", err)
			}
			notify.Successf(a.opts.Out, "schema applied")
			return nil
		},
	}
	cmd.Flags().StringVar(&schemaPath, "schema", "", "Path to a schema SQL file (defaults to the built-in schema)")
	return cmd
}
