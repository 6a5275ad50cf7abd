package main

import (
	"fmt"

	"azellar-portal/internal/database/seeder"

	"github.com/spf13/cobra"
)

func newCheckCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify every portal table is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := e.withTimeout(cmd)
			defer cancel()

			db, err := e.connect(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			statuses, err := seeder.Check(ctx, db)
			out := cmd.OutOrStdout()
			for _, st := range statuses {
				if st.Err != nil {
					_, _ = fmt.Fprintf(out, "FAIL %-28s %v\n", st.Table, st.Err)
					continue
				}
				_, _ = fmt.Fprintf(out, "ok   %s\n", st.Table)
			}
			return err
		},
	}
}
