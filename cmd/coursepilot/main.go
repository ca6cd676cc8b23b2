// Package main provides the coursepilot command: it walks the selected course
// tasks in a logged-in browser, playing every unfinished video at the chosen
// speed and waiting out its duration.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// version is set via -ldflags at build time.
var version = "(devel)"

// errAcknowledged is returned after a fatal error has already been shown to
// the operator.
var errAcknowledged = errors.New("acknowledged")

var rootCmd = &cobra.Command{
	Use:           "coursepilot",
	Short:         "Study online course tasks unattended",
	Long:          "coursepilot walks the lessons of the selected course tasks, skips finished videos, and plays the rest at a chosen speed.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("settings", "", "Path to the settings file (default ~/.coursepilot/config.json)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	// Create context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go watchInterrupt(sigChan, cancel, os.Stdout)

	err := rootCmd.ExecuteContext(ctx)
	cancel()
	if err != nil {
		if !errors.Is(err, errAcknowledged) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// watchInterrupt cancels the run on the first signal and then unregisters
// sigChan, so a second interrupt kills the process even during a video wait.
func watchInterrupt(sigChan chan os.Signal, cancel context.CancelFunc, out io.Writer) {
	<-sigChan
	signal.Stop(sigChan)
	fmt.Fprintln(out, "\n\nShutting down gracefully, the current video finishes first. Press Ctrl+C again to quit now...")
	cancel()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("coursepilot", version)
	},
}
