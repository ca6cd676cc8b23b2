package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	appconfig "github.com/entrhq/coursepilot/pkg/config"
	"github.com/entrhq/coursepilot/pkg/course"
	"github.com/entrhq/coursepilot/pkg/executor/console"
	"github.com/entrhq/coursepilot/pkg/logging"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Log in and study the selected tasks",
	Example: `  # Prompt for tasks and speed
  coursepilot run

  # Study two tasks at double speed
  coursepilot run --tasks "消防安全,交通安全" --speed 2

  # Use a run file
  coursepilot run --config run.yaml`,
	RunE: runRun,
}

func init() {
	addRunFlags(runCmd)
	runCmd.Flags().String("tasks", "", "Comma separated task names (prompted when empty)")
	runCmd.Flags().Float64("speed", 0, "Playback speed multiplier (prompted when unset)")
}

// addRunFlags registers the flags shared by commands that drive a browser.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "Path to a YAML run file")
	cmd.Flags().Bool("plain", false, "Use plain line prompts instead of the interactive ones")
	cmd.Flags().Bool("headless", false, "Run the browser without a window")
	cmd.Flags().String("verbosity", "", "Console verbosity: quiet, normal, verbose, debug")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	app, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer app.close()

	summary, err := app.executor.Run(ctx)
	if err != nil {
		return app.handleError(err)
	}

	switch summary.Status {
	case console.StatusNothingToDo:
		fmt.Println("No tasks to run. Nothing to do.")
	case console.StatusFailed:
		return errAcknowledged
	case console.StatusInterrupted:
		fmt.Println("Cancelled.")
		return errAcknowledged
	}
	return nil
}

// app bundles what a browser-driving command needs.
type app struct {
	executor *console.Executor
	fileLog  *logging.Logger
}

func newApp(cmd *cobra.Command) (*app, error) {
	settingsPath, _ := cmd.Flags().GetString("settings")
	if err := appconfig.Initialize(settingsPath); err != nil {
		return nil, fmt.Errorf("failed to initialize configuration: %w", err)
	}

	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	fileLog, err := logging.NewLogger("coursepilot")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	log := console.NewLogger(console.ParseLogLevel(cfg.Logging.Verbosity))
	log.SetMirror(fileLog)
	log.SetColor(isatty.IsTerminal(os.Stdout.Fd()))

	var prompter console.Prompter
	if cfg.Plain || !isatty.IsTerminal(os.Stdin.Fd()) {
		prompter = console.NewLinePrompter(os.Stdin, os.Stdout)
	} else {
		prompter = console.NewTeaPrompter()
	}

	executor, err := console.NewExecutor(cfg, console.SettingsFromConfig(),
		console.WithPrompter(prompter),
		console.WithConsoleLogger(log),
		console.WithLogPath(fileLog.LogPath()),
	)
	if err != nil {
		fileLog.Close()
		return nil, err
	}
	return &app{executor: executor, fileLog: fileLog}, nil
}

func (a *app) close() {
	a.fileLog.Close()
}

// handleError shows fatal errors and waits for acknowledgement; an
// interrupt or a cancelled prompt exits quietly.
func (a *app) handleError(err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, console.ErrPromptCancelled):
		fmt.Println("Cancelled.")
		return errAcknowledged
	case errors.Is(err, course.ErrFatal):
		a.executor.Acknowledge(context.Background(), err)
		return errAcknowledged
	default:
		return err
	}
}

// loadRunConfig reads the run file and applies flag overrides.
func loadRunConfig(cmd *cobra.Command) (*console.RunConfig, error) {
	cfg := console.DefaultRunConfig()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		var err error
		if cfg, err = console.LoadRunConfig(path); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Lookup("tasks") != nil && flags.Changed("tasks") {
		raw, _ := flags.GetString("tasks")
		cfg.Tasks = console.ParseTaskNames(raw)
	}
	if flags.Lookup("speed") != nil && flags.Changed("speed") {
		speed, _ := flags.GetFloat64("speed")
		if _, err := console.ParseSpeed(fmt.Sprint(speed), 0); err != nil {
			return nil, fmt.Errorf("--speed: %w", err)
		}
		cfg.Speed = speed
	}
	if flags.Changed("plain") {
		cfg.Plain, _ = flags.GetBool("plain")
	}
	if flags.Changed("headless") {
		headless, _ := flags.GetBool("headless")
		cfg.Headless = &headless
	}
	if flags.Changed("verbosity") {
		cfg.Logging.Verbosity, _ = flags.GetString("verbosity")
	}
	return cfg, nil
}
