// Package commands implements the blogctl operator CLI.
package commands

import (
	"fmt"

	"github.com/blogicum/internal/config"
	"github.com/blogicum/internal/db"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// app carries the global flags and the lazily opened database.
type app struct {
	driver string
	dsn    string
	gdb    *gorm.DB
}

// database opens and migrates the configured database on first use.
func (a *app) database() (*gorm.DB, error) {
	if a.gdb != nil {
		return a.gdb, nil
	}
	if err := db.Init(a.driver, a.dsn); err != nil {
		return nil, err
	}
	a.gdb = db.DB
	return a.gdb, nil
}

// NewRootCommand builds the blogctl command tree. Database flags default
// to the same environment the server reads.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&app{})
}

func newRootCommand(a *app) *cobra.Command {
	cfg := config.Load()

	cmd := &cobra.Command{
		Use:   "blogctl",
		Short: "Blogicum operator tool",
		Long: `blogctl manages a Blogicum database from the command line.

It provides:
- schema migration
- user accounts (create, list, delete)
- categories and locations (create, list, publish, unpublish, delete)
- demo data generation`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&a.driver, "driver", cfg.DatabaseDriver, "Database driver (sqlite, postgres)")
	cmd.PersistentFlags().StringVar(&a.dsn, "dsn", cfg.DSN(), "Database DSN or sqlite file path")

	cmd.AddCommand(
		migrateCmd(a),
		userCmd(a),
		categoryCmd(a),
		locationCmd(a),
		pageCmd(a),
		seedCmd(a),
	)
	return cmd
}

func migrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := a.database()
			if err != nil {
				return err
			}
			if err := db.Migrate(gdb); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}
