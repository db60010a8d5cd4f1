package cmd

import (
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"passvault/internal/app/server/app"
	"passvault/internal/domain/audit"
	"passvault/internal/domain/user"
)

var (
	auditUser   string
	auditAction string
	auditSince  time.Duration
	auditLimit  int
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Read the audit trail",
}

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List audit entries, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		a, err := openVault(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		filter := audit.Filter{
			Action: audit.Action(auditAction),
			Limit:  auditLimit,
		}
		if auditSince > 0 {
			filter.Since = time.Now().UTC().Add(-auditSince)
		}
		if auditUser != "" {
			u, err := resolveUser(cmd, a, auditUser)
			if err != nil {
				return err
			}
			filter.UserID = u.ID
		}

		entries, err := a.Audit.List(ctx, filter)
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No audit entries found")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tUSER\tACTION\tSITE\tCREDENTIAL\tIP")
		failures := 0
		for _, e := range entries {
			if e.Action == audit.ActionIntegrityFailure {
				failures++
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				e.Timestamp.Format(time.RFC3339), displayUser(e), e.Action, e.Site, e.CredentialID, e.IPAddress)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		if failures > 0 {
			fmt.Fprintln(cmd.OutOrStdout(), Error.Sprintf("! %d integrity failures in this listing", failures))
		}
		return nil
	},
}

func displayUser(e audit.Entry) string {
	if e.Username != "" {
		return e.Username
	}
	return "#" + strconv.Itoa(e.UserID)
}

// resolveUser accepts a numeric id, a login or an email.
func resolveUser(cmd *cobra.Command, a *app.App, ident string) (user.User, error) {
	if id, err := strconv.Atoi(ident); err == nil {
		return a.Users.FindByID(cmd.Context(), id)
	}
	return a.Users.Resolve(cmd.Context(), ident)
}

func init() {
	auditListCmd.Flags().StringVarP(&auditUser, "user", "u", "", "only entries of this user (id, login or email)")
	auditListCmd.Flags().StringVarP(&auditAction, "action", "a", "", "only entries with this action, e.g. RetrievePassword")
	auditListCmd.Flags().DurationVar(&auditSince, "since", 0, "only entries newer than this, e.g. 24h")
	auditListCmd.Flags().IntVarP(&auditLimit, "limit", "n", audit.DefaultLimit, "maximum number of entries")

	auditCmd.AddCommand(auditListCmd)
}
