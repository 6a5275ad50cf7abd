package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"azellar-portal/internal/config"
	dbpostgres "azellar-portal/internal/database/postgres"
	"azellar-portal/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// env is shared by every subcommand once the root pre-run succeeded.
type env struct {
	cfg     config.Config
	logger  *zap.Logger
	timeout time.Duration
}

func execute() int {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	e := &env{}

	rootCmd := &cobra.Command{
		Use:           "portalctl",
		Short:         "Azellar portal setup tooling",
		Long:          "Applies migrations, seeds sample data and checks the portal schema.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			lg, err := logger.New(cfg.App.Environment, cfg.App.LogLevel)
			if err != nil {
				return err
			}
			e.cfg = cfg
			e.logger = lg
			return nil
		},
	}
	rootCmd.PersistentFlags().DurationVar(&e.timeout, "timeout", 2*time.Minute, "overall timeout for the command")

	rootCmd.AddCommand(
		newMigrateCmd(e),
		newSeedCmd(e),
		newCheckCmd(e),
	)
	return rootCmd
}

func (e *env) connect(ctx context.Context) (*dbpostgres.Pool, error) {
	db, err := dbpostgres.Connect(ctx, e.cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return db, nil
}

func (e *env) withTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), e.timeout)
}
