package main

import (
	"fmt"

	"azellar-portal/internal/database/seeder"
	"azellar-portal/internal/infrastructure/authapi"

	"github.com/spf13/cobra"
)

func newSeedCmd(e *env) *cobra.Command {
	var printCreds bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert sample courses, test accounts, a company and an inquiry",
		Long:  "Idempotent: existing rows and already registered accounts are left in place.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := e.withTimeout(cmd)
			defer cancel()

			db, err := e.connect(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			users := authapi.NewClient(e.cfg.Backend, e.logger)
			runner := seeder.Runner{Seeders: seeder.Defaults(users, e.logger), Logger: e.logger}
			if err := runner.Run(ctx, db); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, "seed complete")
			if printCreds {
				for _, acc := range seeder.TestAccounts {
					_, _ = fmt.Fprintf(out, "  %-8s %s / %s\n", acc.Role, acc.Email, acc.Password)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&printCreds, "print-credentials", false, "print the test account credentials")
	return cmd
}
