package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/HNS-06/Skye-assistant/internal/reminder"
)

func newRemindersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reminders",
		Aliases: []string{"reminder", "rem"},
		Short:   "Manage stored reminders",
	}
	cmd.AddCommand(newRemindersListCmd(a), newRemindersAddCmd(a))
	return cmd
}

func newRemindersListCmd(a *app) *cobra.Command {
	var all, completed bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List reminders (pending by default)",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer a.close()

			store, err := a.openStore()
			if err != nil {
				return err
			}

			filter := reminder.FilterPending
			switch {
			case all:
				filter = reminder.FilterAll
			case completed:
				filter = reminder.FilterCompleted
			}

			reminders, err := store.List(cmd.Context(), filter)
			if err != nil {
				return fmt.Errorf("list reminders: %w", err)
			}
			if len(reminders) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), a.formatter.FormatInfo("No reminders."))
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), a.formatter.RenderMarkdown(reminderTable(reminders)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include completed reminders")
	cmd.Flags().BoolVar(&completed, "completed", false, "Only completed reminders")
	cmd.MarkFlagsMutuallyExclusive("all", "completed")
	return cmd
}

func reminderTable(reminders []reminder.Reminder) string {
	var b strings.Builder
	b.WriteString("| ID | Reminder | Due | Status |\n")
	b.WriteString("|---:|---|---|---|\n")
	for _, r := range reminders {
		status := "pending"
		if r.Completed {
			status = "done"
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s |\n",
			r.ID, strings.ReplaceAll(r.Text, "|", `\|`), r.DueTime.Local().Format("2006-01-02 15:04"), status)
	}
	return b.String()
}

func newRemindersAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <minutes> <text...>",
		Short: "Add a reminder due in the given number of minutes",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.close()

			minutes, err := strconv.ParseFloat(args[0], 64)
			if err != nil || minutes < 0 {
				return fmt.Errorf("invalid minutes %q: must be a non-negative number", args[0])
			}
			text := strings.Join(args[1:], " ")

			store, err := a.openStore()
			if err != nil {
				return err
			}

			now := time.Now()
			due := now.Add(time.Duration(minutes * float64(time.Minute)))
			id, err := store.Insert(cmd.Context(), text, due, now)
			if err != nil {
				return fmt.Errorf("add reminder: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), a.formatter.FormatInfo(
				fmt.Sprintf("Added reminder #%d: %s (due %s)", id, strings.TrimSpace(text), due.Format("15:04"))))
			return nil
		},
	}
}
