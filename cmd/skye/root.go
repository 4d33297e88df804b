package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/HNS-06/Skye-assistant/internal/config"
)

type rootOptions struct {
	configPath   string
	text         bool
	name         string
	logLevel     string
	noColor      bool
	pollInterval time.Duration
}

// overrides turns the flags the user actually set into config keys.
func (o *rootOptions) overrides(cmd *cobra.Command) map[string]any {
	flags := cmd.Flags()
	out := map[string]any{}

	if flags.Changed("text") && o.text {
		out["speech.input"] = config.InputText
	}
	if flags.Changed("name") {
		out["assistant.name"] = o.name
	}
	if flags.Changed("log-level") {
		out["log.level"] = o.logLevel
	}
	if flags.Changed("no-color") && o.noColor {
		out["ui.colored_output"] = false
	}
	if flags.Changed("poll-interval") {
		out["reminder.poll_interval"] = o.pollInterval.String()
	}
	return out
}

func NewRootCmd(version string) *cobra.Command {
	opts := &rootOptions{}
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "skye",
		Short: "Voice command assistant with spoken reminders",
		Long: `Skye listens for short commands, answers them out loud and reminds you
of things at the right time.

Run without arguments to start listening. Reminders are kept in a local
SQLite database and announced while the assistant is running.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd, opts)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer a.close()
			return a.runAssistant(cmd.Context(), cmd.OutOrStdout())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", config.GetDefaultConfigPath(), "Path to configuration file")
	flags.BoolVar(&opts.text, "text", false, "Type commands instead of speaking them")
	flags.StringVar(&opts.name, "name", "", "Assistant name (also used as a wake word)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	flags.DurationVar(&opts.pollInterval, "poll-interval", 0, "How often to check for due reminders")

	rootCmd.AddCommand(
		newRemindersCmd(a),
		newSayCmd(a),
	)

	return rootCmd
}
