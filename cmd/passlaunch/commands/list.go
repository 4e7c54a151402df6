package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func NewListCommand(rt *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [query]",
		Short: "List password store entries",
		Long: `List the entries of the password store, one per line.

With a query, entries are fuzzy-matched against it and printed best match
first.

Examples:
  # Everything in the store
  passlaunch list

  # Entries that look like "email work"
  passlaunch list ewrk`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := rt.openSession(cmd.Context())
			if err != nil {
				return err
			}

			ranked, err := session.Entries(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, r := range ranked {
				_, _ = fmt.Fprintln(out, r.Item.Label)
			}
			if len(ranked) == 0 && len(args) > 0 {
				rt.Config.Logger.Warn("No entries match %q", strings.Join(args, " "))
			}
			return nil
		},
	}
	return cmd
}
