package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"
	"passvault/internal/app/server/app"
	"passvault/internal/app/server/config"
	"passvault/internal/utils/logger"
)

var (
	cfg *config.Config
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "vaultctl",
	Short: "Administration tool for the passvault credential store",
	Long: `vaultctl manages a passvault deployment: it generates and checks key
material, applies schema migrations, reads the audit trail and resets a
user's vault.

Configuration comes from the same environment variables and .env file as
the server.`,
	PersistentPreRunE: setup,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, Error.Sprint("Error: ")+err.Error())
		os.Exit(1)
	}
}

func setup(_ *cobra.Command, _ []string) error {
	cfg = config.MustLoad()
	log = logger.New(cfg.Env)
	return nil
}

// openVault opens the configured store and wires the services.
func openVault(ctx context.Context) (*app.App, error) {
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open vault: %w", err)
	}
	return a, nil
}

func init() {
	rootCmd.AddCommand(keygenCmd)
	rootCmd.AddCommand(keycheckCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(vaultCmd)
}
