package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/librarycatalog/library-api/internal/repository"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(
		migrateSubcommand("up", "Apply all pending migrations", func(ctx context.Context, m *repository.Migrator) error {
			return m.Up(ctx)
		}),
		migrateSubcommand("down", "Roll back the most recent migration", func(ctx context.Context, m *repository.Migrator) error {
			return m.Down(ctx)
		}),
		migrateSubcommand("status", "List migrations and whether they are applied", printStatus),
		migrateSubcommand("version", "Print the current schema version", func(ctx context.Context, m *repository.Migrator) error {
			v, err := m.Version(ctx)
			if err != nil {
				return err
			}
			fmt.Println(v)
			return nil
		}),
	)
	return cmd
}

func migrateSubcommand(use, short string, run func(context.Context, *repository.Migrator) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := repository.NewDB(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			m, err := repository.NewMigrator(db, log)
			if err != nil {
				return err
			}
			return run(ctx, m)
		},
	}
}

func printStatus(ctx context.Context, m *repository.Migrator) error {
	statuses, err := m.Status(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tNAME\tAPPLIED AT")
	for _, s := range statuses {
		applied := "pending"
		if s.Applied {
			applied = s.AppliedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", s.Version, s.Name, applied)
	}
	return tw.Flush()
}
