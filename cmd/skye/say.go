package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/HNS-06/Skye-assistant/internal/command"
)

func newSayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "say <utterance...>",
		Short: "Run a single command and print the answer",
		Long: `Runs one utterance through the assistant as if it had been spoken,
prints the answer and exits. Follow-up questions go unanswered.`,
		Example: `  skye say what time is it
  skye say remind me to call mom in 10 minutes`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.close()

			router, err := a.router(nil)
			if err != nil {
				return err
			}

			text := command.NewNormalizer(a.cfg.Assistant.WakeWords).Normalize(strings.Join(args, " "))
			if text == "" {
				return errors.New("nothing to do: the utterance is only a wake word")
			}

			out := a.responseSink(cmd.OutOrStdout())
			for _, line := range router.Dispatch(cmd.Context(), text).Lines {
				out.Speak(cmd.Context(), line)
			}
			return nil
		},
	}
}
