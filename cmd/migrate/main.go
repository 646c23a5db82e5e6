// Package main provides the schema migration CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"backoffice/internal/infrastructure/config"
	"backoffice/internal/infrastructure/storage/postgres"
	"backoffice/pkg/logger"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var path string

	rootCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the backoffice database schema",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&path, "path", "", "migrations directory (default from config)")

	run := func(fn func(ctx context.Context, m *postgres.Migrator, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd.Context(), path, func(ctx context.Context, m *postgres.Migrator) error {
				return fn(ctx, m, args)
			})
		}
	}

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, m *postgres.Migrator, _ []string) error {
				return m.Up(ctx)
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back every migration",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, m *postgres.Migrator, _ []string) error {
				return m.Down(ctx)
			}),
		},
		&cobra.Command{
			Use:   "steps N",
			Short: "Apply N migrations (negative N rolls back)",
			Args:  cobra.ExactArgs(1),
			RunE: run(func(ctx context.Context, m *postgres.Migrator, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("steps must be an integer: %w", err)
				}
				return m.Steps(ctx, n)
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: run(func(_ context.Context, m *postgres.Migrator, _ []string) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				fmt.Printf("version %d (dirty: %t)\n", version, dirty)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "force V",
			Short: "Set the schema version without running migrations",
			Args:  cobra.ExactArgs(1),
			RunE: run(func(ctx context.Context, m *postgres.Migrator, args []string) error {
				v, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("version must be an integer: %w", err)
				}
				return m.Force(ctx, v)
			}),
		},
	)

	return rootCmd
}

func withMigrator(ctx context.Context, path string, fn func(ctx context.Context, m *postgres.Migrator) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if path == "" {
		path = cfg.Migrations.Path
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Development: true})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()
	ctx = logger.WithLogger(ctx, log)

	m, err := postgres.NewMigrator(cfg.Database.URL, path)
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }()

	return fn(ctx, m)
}
