package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func NewCopyCommand(rt *Runtime) *cobra.Command {
	var (
		line   int
		noWait bool
	)

	cmd := &cobra.Command{
		Use:   "copy <entry>",
		Short: "Copy a password or field to the clipboard",
		Long: `Copy the password (line 0) of an entry, or another line with --line, to
the clipboard.

The previous clipboard content comes back after clip_time seconds unless
something else was copied in the meantime. The command waits for that
unless --no-wait is given, in which case the clipboard is left as is when
the process exits.

Examples:
  passlaunch copy bank
  passlaunch copy email/work --line 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry := args[0]
			session, err := rt.openSession(cmd.Context())
			if err != nil {
				return err
			}

			var target *int
			if cmd.Flags().Changed("line") {
				target = &line
			}
			if err := session.Copy(cmd.Context(), entry, target); err != nil {
				return err
			}

			delay := session.Plugin.Stager().Delay()
			if noWait {
				rt.Config.Logger.Info("Copied %s to clipboard", entry)
				return nil
			}
			rt.Config.Logger.Info("Copied %s to clipboard, clearing in %s", entry, delay)

			ctx, stop := signalContext(cmd)
			defer stop()
			if err := session.Wait(ctx); err != nil {
				if errors.Is(err, ctx.Err()) {
					return fmt.Errorf("interrupted before the clipboard was cleared: %w", err)
				}
				return err
			}
			rt.Config.Logger.Debug("Clipboard clear finished")
			return nil
		},
	}

	cmd.Flags().IntVarP(&line, "line", "l", 0, "Line number to copy (see 'passlaunch show')")
	cmd.Flags().BoolVar(&noWait, "no-wait", false, "Exit right away instead of waiting to clear the clipboard")
	cmd.ValidArgsFunction = rt.completeEntries
	return cmd
}
