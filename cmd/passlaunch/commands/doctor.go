package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/systmms/passlaunch/internal/backend"
	"github.com/systmms/passlaunch/internal/clipboard"
)

// CheckResult is one line of the doctor report.
type CheckResult struct {
	Name    string
	Status  string // ok, warn, error
	Message string
}

func NewDoctorCommand(rt *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check settings, tools and the password store",
		Long: `Verify that passlaunch can work on this machine.

This command checks:
- Settings file validity
- The configured backend and its external tools (pass, bash/WSL, gpg)
- The password store location and entry count
- Clipboard access`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := rt.Config.Logger
			var results []CheckResult

			logger.Info("Checking passlaunch configuration...")
			if err := rt.Config.Load(); err != nil {
				results = append(results, CheckResult{"settings", "error", err.Error()})
				displayCheckResults(cmd, results)
				return fmt.Errorf("failed to load settings: %w", err)
			}
			settingsMsg := rt.Config.Path
			if _, err := os.Stat(rt.Config.Path); err != nil {
				settingsMsg += " (not found, using defaults)"
			}
			results = append(results, CheckResult{"settings", "ok", settingsMsg})

			b, err := rt.newBackend()
			if err != nil {
				results = append(results, CheckResult{"backend", "error", err.Error()})
				displayCheckResults(cmd, results)
				return fmt.Errorf("some checks failed")
			}
			kind := b.Kind()
			if err := b.Validate(ctx); err != nil {
				results = append(results, CheckResult{"backend", "error", fmt.Sprintf("%s: %v", kind, err)})
			} else {
				results = append(results, CheckResult{"backend", "ok", string(kind)})
			}

			path := rt.Config.Settings.Path
			if path == "" {
				path = b.DefaultStorePath(ctx)
			}
			b.SetStorePath(ctx, path)
			results = append(results, checkStore(b))

			if sys, ok := rt.clipboard().(clipboard.System); ok && !sys.Available() {
				results = append(results, CheckResult{"clipboard", "error", "no clipboard tool found (install xclip, xsel or wl-clipboard)"})
			} else {
				results = append(results, CheckResult{"clipboard", "ok", fmt.Sprintf("clears after %s", rt.Config.Settings.ClipDelay())})
			}

			displayCheckResults(cmd, results)

			failed := 0
			for _, r := range results {
				if r.Status == "error" {
					failed++
				}
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\nSummary: %d/%d checks passed\n", len(results)-failed, len(results))
			if failed > 0 {
				return fmt.Errorf("some checks failed")
			}
			logger.Info("All checks passed")
			return nil
		},
	}
	return cmd
}

// newBackend builds the backend named by the loaded settings.
func (rt *Runtime) newBackend() (backend.Backend, error) {
	kind, err := backend.ParseKind(rt.Config.Settings.Backend)
	if err != nil {
		return nil, err
	}
	return backend.New(kind, backend.Options{
		Executor:  rt.Executor,
		Logger:    rt.Config.Logger,
		Metrics:   rt.Metrics,
		GPGBinary: rt.Config.Settings.GPGBinary,
		LookupEnv: rt.LookupEnv,
		HomeDir:   rt.HomeDir,
	})
}

func checkStore(b backend.Backend) CheckResult {
	root := b.StorePath()
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return CheckResult{"store", "error", root + " is not a directory"}
	}
	entries, err := b.ListEntries()
	if err != nil {
		return CheckResult{"store", "error", err.Error()}
	}
	if len(entries) == 0 {
		return CheckResult{"store", "warn", root + " has no entries"}
	}
	return CheckResult{"store", "ok", fmt.Sprintf("%s (%d entries)", root, len(entries))}
}

// displayCheckResults shows check results in a formatted table
func displayCheckResults(cmd *cobra.Command, results []CheckResult) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintf(w, "CHECK\tSTATUS\tMESSAGE\n")
	_, _ = fmt.Fprintf(w, "-----\t------\t-------\n")

	for _, r := range results {
		status := r.Status
		switch r.Status {
		case "ok":
			status = "✓ " + status
		case "error":
			status = "✗ " + status
		default:
			status = "⚠ " + status
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", r.Name, status, r.Message)
	}
	_ = w.Flush()
}
