package commands

import (
	"context"
	"os"
	"os/signal"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/systmms/passlaunch/internal/clipboard"
	"github.com/systmms/passlaunch/internal/config"
	"github.com/systmms/passlaunch/internal/launcher"
	"github.com/systmms/passlaunch/internal/metrics"
	"github.com/systmms/passlaunch/internal/terminal"
	pkgexec "github.com/systmms/passlaunch/pkg/exec"
)

// Runtime holds what every command builds a plugin session from. Nil
// fields get production defaults; tests replace them.
type Runtime struct {
	Config    *config.Config
	Executor  pkgexec.CommandExecutor
	Clipboard clipboard.Clipboard
	Clock     clockwork.Clock
	Metrics   *metrics.Recorder

	// LookupEnv and HomeDir are handed to the backend.
	LookupEnv func(string) (string, bool)
	HomeDir   func() (string, error)
}

// NewRuntime returns a Runtime over cfg with production collaborators.
func NewRuntime(cfg *config.Config) *Runtime {
	return &Runtime{Config: cfg}
}

func (rt *Runtime) clipboard() clipboard.Clipboard {
	if rt.Clipboard == nil {
		return clipboard.System{}
	}
	return rt.Clipboard
}

// openSession starts the plugin against the terminal host.
func (rt *Runtime) openSession(ctx context.Context) (*terminal.Session, error) {
	host := terminal.NewHost(rt.Config, rt.clipboard())
	plugin := launcher.New(host, launcher.Options{
		Executor:  rt.Executor,
		Logger:    rt.Config.Logger,
		Metrics:   rt.Metrics,
		Clock:     rt.Clock,
		LookupEnv: rt.LookupEnv,
		HomeDir:   rt.HomeDir,
	})
	return terminal.Open(ctx, host, plugin)
}

// signalContext is cancelled on interrupt so a waiting copy can exit.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt)
}

// completeEntries offers entry names for shell completion.
func (rt *Runtime) completeEntries(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	session, err := rt.openSession(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return session.Plugin.Entries(), cobra.ShellCompDirectiveNoFileComp
}
