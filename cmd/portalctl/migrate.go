package main

import (
	"fmt"

	"azellar-portal/internal/database/migration"

	"github.com/spf13/cobra"
)

func newMigrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := e.withTimeout(cmd)
			defer cancel()

			db, err := e.connect(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			res, err := migration.Default(e.logger).Run(ctx, db.SQLDB())
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s), %d already up to date\n", len(res.Applied), res.Skipped)
			return nil
		},
	}
}
