// Command skye is a voice command assistant with spoken reminders.
//
// Usage:
//
//	skye                          # listen for commands (voice or typed)
//	skye --text                   # typed input only
//	skye say what time is it      # run one command and exit
//	skye reminders list --all     # show stored reminders
//	skye reminders add 10 call mom
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
)

// version is set via ldflags at build time
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := fang.Execute(ctx, NewRootCmd(version))
	stop()
	if err != nil {
		os.Exit(1)
	}
}
