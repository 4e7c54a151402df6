package commands

import (
	"github.com/spf13/cobra"

	"github.com/systmms/passlaunch/internal/config"
	"github.com/systmms/passlaunch/internal/logging"
	"github.com/systmms/passlaunch/internal/metrics"
)

// NewRootCommand wires every subcommand to rt. rt.Config is filled in from
// the persistent flags before any subcommand runs.
func NewRootCommand(rt *Runtime, version string) *cobra.Command {
	var (
		configFile  string
		noColor     bool
		debug       bool
		metricsFile string
	)

	if rt.Config == nil {
		rt.Config = &config.Config{}
	}

	rootCmd := &cobra.Command{
		Use:   "passlaunch",
		Short: "Find and copy entries from a pass password store",
		Long: `passlaunch searches a pass (password-store) store, decrypts entries with
pass, WSL or gpg, and puts passwords or single fields on the clipboard.
The previous clipboard content is restored after clip_time seconds.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := logging.New(debug, noColor)
			logger.SetOutput(cmd.ErrOrStderr())

			rt.Config.Path = configFile
			rt.Config.Logger = logger

			if metricsFile != "" {
				metrics.InitMetrics()
				if rt.Metrics == nil {
					rt.Metrics = metrics.NewRecorder()
				}
			}
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if metricsFile == "" {
				return nil
			}
			return metrics.WriteTextfile(metricsFile)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", config.DefaultPath(), "Settings file path")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit")

	rootCmd.AddCommand(
		NewListCommand(rt),
		NewShowCommand(rt),
		NewCopyCommand(rt),
		NewPickCommand(rt),
		NewDoctorCommand(rt),
		NewCompletionCommand(),
	)

	return rootCmd
}
