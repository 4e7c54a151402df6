package commands

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	dserrors "github.com/systmms/passlaunch/internal/errors"
	"github.com/systmms/passlaunch/internal/terminal"
)

func NewPickCommand(rt *Runtime) *cobra.Command {
	var noWait bool

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Interactively find an entry and copy it",
		Long: `Open an interactive picker over the password store.

Type to filter, tab to show an entry's fields, enter to copy, esc to go
back or quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return dserrors.UserError{
					Message:    "pick needs an interactive terminal",
					Suggestion: "Use 'passlaunch list' and 'passlaunch copy' in scripts",
				}
			}

			session, err := rt.openSession(cmd.Context())
			if err != nil {
				return err
			}

			ctx, stop := signalContext(cmd)
			defer stop()

			result, err := terminal.RunPicker(ctx, session, os.Stdin, os.Stderr)
			if err != nil {
				return err
			}
			if result.Copied == nil {
				return nil
			}

			rt.Config.Logger.Info("Copied %s to clipboard", result.Copied.Target.Entry)
			if noWait {
				return nil
			}
			return session.Wait(ctx)
		},
	}

	cmd.Flags().BoolVar(&noWait, "no-wait", false, "Exit right away instead of waiting to clear the clipboard")
	return cmd
}
