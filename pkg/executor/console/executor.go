package console

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/entrhq/coursepilot/pkg/browser"
	"github.com/entrhq/coursepilot/pkg/config"
	"github.com/entrhq/coursepilot/pkg/course"
	"github.com/entrhq/coursepilot/pkg/history"
	"github.com/entrhq/coursepilot/pkg/logging"
)

// Browser is a started browser the executor drives.
type Browser interface {
	course.Backend
	browser.PageSource
}

// BrowserStarter starts the browser for one run and shuts it down after.
type BrowserStarter interface {
	Start(ctx context.Context, settings config.BrowserSettings) (Browser, error)
	Stop() error
}

// PlaywrightStarter launches Chromium through Playwright.
type PlaywrightStarter struct {
	launcher *browser.Launcher
}

// NewPlaywrightStarter creates a starter with its own launcher.
func NewPlaywrightStarter() *PlaywrightStarter {
	return &PlaywrightStarter{launcher: browser.NewLauncher()}
}

// Start initializes Playwright and opens one page.
func (s *PlaywrightStarter) Start(ctx context.Context, settings config.BrowserSettings) (Browser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.launcher.Initialize(settings.SkipInstall); err != nil {
		return nil, err
	}
	session, err := s.launcher.Launch(browser.Options{
		Headless: settings.Headless,
		Viewport: &browser.Viewport{
			Width:  settings.ViewportWidth,
			Height: settings.ViewportHeight,
		},
		Timeout: settings.Timeout,
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Stop closes the browser and the driver.
func (s *PlaywrightStarter) Stop() error {
	return s.launcher.Shutdown()
}

// Settings are the values taken from the settings file.
type Settings struct {
	Browser config.BrowserSettings
	Pacing  course.Pacing
}

// SettingsFromConfig reads the playback and browser sections.
func SettingsFromConfig() Settings {
	return Settings{
		Browser: config.GetBrowser().Snapshot(),
		Pacing:  config.GetPlayback().Pacing(),
	}
}

// Executor runs one interactive session: login, task selection, traversal,
// then artifacts and history.
type Executor struct {
	config    *RunConfig
	settings  Settings
	selectors course.SelectorTable
	filter    *course.AssessmentFilter
	starter   BrowserStarter
	prompter  Prompter
	log       *Logger
	clock     course.Clock
	runID     string
	logPath   string
}

// ExecutorOption customises an Executor.
type ExecutorOption func(*Executor)

// WithStarter replaces the Playwright starter.
func WithStarter(starter BrowserStarter) ExecutorOption {
	return func(e *Executor) {
		e.starter = starter
	}
}

// WithPrompter sets how the operator is asked for input.
func WithPrompter(p Prompter) ExecutorOption {
	return func(e *Executor) {
		e.prompter = p
	}
}

// WithConsoleLogger sets the console logger.
func WithConsoleLogger(log *Logger) ExecutorOption {
	return func(e *Executor) {
		e.log = log
	}
}

// WithClock replaces the wall clock used for pacing.
func WithClock(clock course.Clock) ExecutorOption {
	return func(e *Executor) {
		e.clock = clock
	}
}

// WithRunID overrides the process run id.
func WithRunID(id string) ExecutorOption {
	return func(e *Executor) {
		e.runID = id
	}
}

// WithLogPath records the run's log file in the summary.
func WithLogPath(path string) ExecutorOption {
	return func(e *Executor) {
		e.logPath = path
	}
}

// NewExecutor validates cfg and builds an executor.
func NewExecutor(cfg *RunConfig, settings Settings, opts ...ExecutorOption) (*Executor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	selectors, err := cfg.SelectorTable()
	if err != nil {
		return nil, err
	}
	filter, err := course.NewAssessmentFilter(cfg.AssessmentPatterns)
	if err != nil {
		return nil, err
	}
	if cfg.Headless != nil {
		settings.Browser.Headless = *cfg.Headless
	}

	e := &Executor{
		config:    cfg,
		settings:  settings,
		selectors: selectors,
		filter:    filter,
		clock:     course.SystemClock{},
		runID:     logging.RunID(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.starter == nil {
		e.starter = NewPlaywrightStarter()
	}
	if e.prompter == nil {
		e.prompter = NewLinePrompter(os.Stdin, os.Stdout)
	}
	if e.log == nil {
		e.log = NewLogger(ParseLogLevel(cfg.Logging.Verbosity))
	}
	return e, nil
}

// Run executes a full session. Errors returned wrap course.ErrFatal or the
// context error; everything else ends up in the summary.
func (e *Executor) Run(ctx context.Context) (*RunSummary, error) {
	report := &course.RunReport{
		RunID:     e.runID,
		StartTime: e.clock.Now(),
	}
	e.log.Header(fmt.Sprintf("coursepilot run %s", e.runID))

	b, err := e.start(ctx)
	if err != nil {
		return nil, err
	}
	defer e.stop()

	if err := Login(ctx, b, e.prompter, e.selectors, e.settings.Browser.LoginURL, e.settings.Browser.VerificationText, e.log); err != nil {
		return nil, err
	}

	session := &course.Session{Backend: b, Pacing: e.settings.Pacing}
	catalog := e.newCatalog(session)
	available, err := e.listTasks(ctx, catalog)
	if err != nil {
		return nil, err
	}
	if len(available) == 0 {
		return e.nothingToDo(ctx, report, "the task list is empty"), nil
	}

	requested, err := e.requestedTasks(ctx, course.Names(available))
	if err != nil {
		return nil, err
	}
	if len(requested) == 0 {
		return e.nothingToDo(ctx, report, "no task names were entered"), nil
	}
	speed, err := e.speed(ctx)
	if err != nil {
		return nil, err
	}
	report.Requested = requested
	report.Speed = speed
	session.Tasks = requested
	session.Pacing.Speed = speed
	if err := session.Pacing.Validate(); err != nil {
		return nil, course.FatalError(err)
	}

	selected, unresolved := course.SelectTasks(available, requested, e.log)
	report.Unresolved = unresolved
	if len(selected) == 0 {
		return e.nothingToDo(ctx, report, "none of the requested tasks were found"), nil
	}

	opts := []course.Option{course.WithLogger(e.log), course.WithClock(e.clock)}
	var snapshots *browser.Snapshotter
	if e.config.Artifacts.Enabled && e.config.Artifacts.Snapshots {
		snapshots = browser.NewSnapshotter(b, e.artifactWriter().SnapshotDir(), e.log)
		opts = append(opts, course.WithDiagnostics(snapshots))
	}

	e.log.Section(fmt.Sprintf("Studying %d task(s) at %gx", len(selected), speed))
	orchestrator := course.NewOrchestrator(session, e.selectors, catalog, e.filter, opts...)
	report.Tasks = orchestrator.Run(ctx, selected)
	report.Interrupted = ctx.Err() != nil
	report.EndTime = e.clock.Now()

	return e.finish(ctx, report, snapshots), nil
}

// ListTasks logs in and returns the names on the task catalog.
func (e *Executor) ListTasks(ctx context.Context) ([]string, error) {
	b, err := e.start(ctx)
	if err != nil {
		return nil, err
	}
	defer e.stop()

	if err := Login(ctx, b, e.prompter, e.selectors, e.settings.Browser.LoginURL, e.settings.Browser.VerificationText, e.log); err != nil {
		return nil, err
	}

	session := &course.Session{Backend: b, Pacing: e.settings.Pacing}
	tasks, err := e.listTasks(ctx, e.newCatalog(session))
	if err != nil {
		return nil, err
	}
	return course.Names(tasks), nil
}

// Acknowledge shows err and waits for Enter before the process exits.
func (e *Executor) Acknowledge(ctx context.Context, err error) {
	e.log.Errorf("%v", err)
	if ackErr := e.prompter.Pause(ctx, "Press Enter to exit."); ackErr != nil && !errors.Is(ackErr, ErrPromptCancelled) {
		e.log.Debugf("Acknowledgement prompt failed: %v", ackErr)
	}
}

func (e *Executor) start(ctx context.Context) (Browser, error) {
	e.log.Step("Start browser")
	b, err := e.starter.Start(ctx, e.settings.Browser)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, course.FatalError(fmt.Errorf("start browser: %w", err))
	}
	return b, nil
}

func (e *Executor) stop() {
	if err := e.starter.Stop(); err != nil {
		e.log.Warnf("Failed to close browser: %v", err)
	}
}

func (e *Executor) newCatalog(session *course.Session) *course.Catalog {
	return course.NewCatalog(session, e.selectors, course.CatalogOptions{
		CatalogURL: e.settings.Browser.CatalogURL,
		// A signed-in session is redirected from the login page to home
		HomeURL: e.settings.Browser.LoginURL,
	}, course.WithLogger(e.log), course.WithClock(e.clock))
}

func (e *Executor) listTasks(ctx context.Context, catalog *course.Catalog) ([]course.Task, error) {
	e.log.Step("Open task catalog")
	if err := catalog.Open(ctx); err != nil {
		return nil, course.FatalError(err)
	}
	tasks, err := catalog.List(ctx)
	if err != nil {
		return nil, course.FatalError(err)
	}

	e.log.Infof("Found %d task(s)", len(tasks))
	for _, task := range tasks {
		e.log.Verbosef("Task: %s", task.Name)
	}
	return tasks, nil
}

func (e *Executor) requestedTasks(ctx context.Context, available []string) ([]string, error) {
	if len(e.config.Tasks) > 0 {
		return e.config.Tasks, nil
	}
	return AskTasks(ctx, e.prompter, available)
}

func (e *Executor) speed(ctx context.Context) (float64, error) {
	if e.config.Speed > 0 {
		return e.config.Speed, nil
	}
	return AskSpeed(ctx, e.prompter, e.settings.Pacing.Speed, e.log)
}

func (e *Executor) artifactWriter() *ArtifactWriter {
	return NewArtifactWriter(filepath.Join(e.config.Artifacts.OutputDir, e.runID))
}

// nothingToDo ends a run before any traversal.
func (e *Executor) nothingToDo(ctx context.Context, report *course.RunReport, reason string) *RunSummary {
	e.log.Warnf("%s: %v", reason, course.ErrNothingToDo)
	report.EndTime = e.clock.Now()
	return e.finish(ctx, report, nil)
}

func (e *Executor) finish(ctx context.Context, report *course.RunReport, snapshots *browser.Snapshotter) *RunSummary {
	summary := NewRunSummary(report)
	summary.LogPath = e.logPath
	if snapshots != nil {
		summary.Snapshots = snapshots.Written()
	}

	if e.config.Artifacts.Enabled {
		writer := e.artifactWriter()
		if err := writer.WriteAll(summary); err != nil {
			e.log.Warnf("Failed to write artifacts: %v", err)
		} else {
			summary.ArtifactDir = writer.Dir()
		}
	}

	// An interrupted run is still recorded
	e.recordHistory(context.WithoutCancel(ctx), report)

	e.log.Summary(summary)
	return summary
}

func (e *Executor) recordHistory(ctx context.Context, report *course.RunReport) {
	if !e.config.History.Enabled {
		return
	}

	path := e.config.History.Path
	if path == "" {
		var err error
		if path, err = history.DefaultPath(); err != nil {
			e.log.Warnf("Run not recorded: %v", err)
			return
		}
	}

	store, err := history.Open(ctx, path)
	if err != nil {
		e.log.Warnf("Run not recorded: %v", err)
		return
	}
	defer store.Close()

	if err := store.RecordRun(ctx, report); err != nil {
		e.log.Warnf("Run not recorded: %v", err)
		return
	}
	e.log.Debugf("Run recorded in %s", path)
}
