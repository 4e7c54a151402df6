package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	dserrors "github.com/systmms/passlaunch/internal/errors"
)

func NewShowCommand(rt *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <entry>",
		Short: "Show the fields of an entry",
		Long: `Decrypt an entry and list its lines with their line numbers.

Secrets stay hidden: line 0 and any line whose key is not in safe_keys show
only the key (or ********). Use the line number with 'passlaunch copy --line'.

Examples:
  passlaunch show email/work
  passlaunch copy email/work --line 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry := args[0]
			session, err := rt.openSession(cmd.Context())
			if err != nil {
				return err
			}
			if !session.HasEntry(entry) {
				return dserrors.UserError{
					Message:    "Entry not found: " + entry,
					Suggestion: "Run 'passlaunch list' to see available entries",
				}
			}

			lines, err := session.Lines(cmd.Context(), entry)
			if err != nil {
				return err
			}
			if len(lines) == 0 {
				rt.Config.Logger.Warn("%s has no content", entry)
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintf(w, "LINE\tVALUE\n")
			_, _ = fmt.Fprintf(w, "----\t-----\n")
			for _, item := range lines {
				_, _ = fmt.Fprintf(w, "%d\t%s\n", item.Target.Line, item.Label)
			}
			return w.Flush()
		},
	}
	cmd.ValidArgsFunction = rt.completeEntries
	return cmd
}
