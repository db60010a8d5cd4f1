package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"passvault/internal/app/server/crypto"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Print a fresh AES_KEY, AES_IV and HMAC_KEY",
	Long: `Generates random key material in the base64 form the server reads.

Store the output in your secret manager or .env file. Changing AES_KEY or
HMAC_KEY on a populated vault makes existing credentials unreadable.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		keys, err := crypto.GenerateKeyMaterial()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s=%s\n", crypto.AESKeyName, keys.Key)
		fmt.Fprintf(out, "%s=%s\n", crypto.AESIVName, keys.IV)
		fmt.Fprintf(out, "%s=%s\n", crypto.HMACKeyName, keys.HMACKey)
		return nil
	},
}
