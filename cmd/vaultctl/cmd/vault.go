package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	resetUser string
	resetYes  bool
)

var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Administer user vaults",
}

var vaultResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every credential of one user",
	Long: `Deletes all credentials owned by the user and records an
AdminVaultReset audit entry in the same transaction. Copies the user shared
with others are not touched.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		a, err := openVault(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		u, err := resolveUser(cmd, a, resetUser)
		if err != nil {
			return err
		}

		if !resetYes {
			fmt.Fprint(cmd.OutOrStdout(), Warning.Sprintf("Delete every credential of %q (id %d)? [y/N] ", u.Login, u.ID))
			answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if reply := strings.ToLower(strings.TrimSpace(answer)); reply != "y" && reply != "yes" {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
				return nil
			}
		}

		n, err := a.Credentials.AdminResetVault(ctx, u.ID)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), Success.Sprintf("✓ deleted %d credentials of %s", n, u.Login))
		return nil
	},
}

func init() {
	vaultResetCmd.Flags().StringVarP(&resetUser, "user", "u", "", "user id, login or email")
	vaultResetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "skip the confirmation prompt")
	_ = vaultResetCmd.MarkFlagRequired("user")

	vaultCmd.AddCommand(vaultResetCmd)
}
