package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"passvault/internal/app/server/app"
	"passvault/internal/app/server/crypto"
)

var keycheckCmd = &cobra.Command{
	Use:   "keycheck",
	Short: "Validate the configured key material",
	Long: `Reads the key material from the configured KEY_SOURCE and runs an
encrypt, tag, verify and decrypt round trip on a sample value. On a
terminal the sample is read without echo; otherwise a fixed sample is used.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		source, err := app.KeySource(cfg, log)
		if err != nil {
			return err
		}

		format, err := crypto.ParseFormat(cfg.Crypto.CipherFormat)
		if err != nil {
			return err
		}

		sample := "vaultctl-keycheck"
		if term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Fprint(cmd.OutOrStdout(), "Sample secret (leave empty for default): ")
			raw, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Fprintln(cmd.OutOrStdout())
			if err != nil {
				return fmt.Errorf("read sample: %w", err)
			}
			if len(raw) > 0 {
				sample = string(raw)
			}
		}

		enc := crypto.NewEncryptor(crypto.NewKeyProvider(source), format)
		if err := enc.SelfTest(cmd.Context(), sample); err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), Error.Sprint("✗ key material check failed"))
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), Success.Sprintf("✓ key material OK (source %s, format %s)", cfg.Crypto.KeySource, format))
		return nil
	},
}
