package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"passvault/internal/infrastructure/migration"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	Long: `Applies every pending migration for DATABASE_DRIVER to DATABASE_URI.
Migrations are embedded in the binary unless MIGRATIONS_PATH points at a
directory.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		mg := migration.NewMigration(cfg, nil)
		if err := mg.Up(); err != nil {
			return err
		}

		version, dirty, err := mg.Version()
		if err != nil {
			return fmt.Errorf("read schema version: %w", err)
		}

		msg := Success.Sprintf("✓ schema at version %d", version)
		if dirty {
			msg = Warning.Sprintf("! schema at version %d is dirty", version)
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	},
}
