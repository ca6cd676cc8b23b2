package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/entrhq/coursepilot/pkg/course"
)

// LogLevel represents the console verbosity level
type LogLevel int

const (
	// LogLevelQuiet shows only critical information (errors, warnings, final summary)
	LogLevelQuiet LogLevel = iota
	// LogLevelNormal shows task, lesson and unit progress (default)
	LogLevelNormal
	// LogLevelVerbose adds readouts, waits and skipped nodes
	LogLevelVerbose
	// LogLevelDebug shows all internal details for debugging
	LogLevelDebug
)

// Logger prints run progress for the operator and mirrors every line,
// whatever the level, to the run's log file. It implements course.Logger.
type Logger struct {
	level  LogLevel
	writer io.Writer
	mirror course.Logger

	// ANSI color codes; empty when color is disabled
	colorReset     string
	colorGreen     string
	colorCyan      string
	colorSalmon    string
	colorYellow    string
	colorRed       string
	colorGray      string
	colorBoldGreen string
	colorBoldRed   string
	colorBoldWhite string

	stepCount int
}

var _ course.Logger = (*Logger)(nil)

// NewLogger creates a console logger writing to stdout.
func NewLogger(level LogLevel) *Logger {
	l := &Logger{
		level:  level,
		writer: os.Stdout,
		mirror: course.NopLogger(),
	}
	l.SetColor(true)
	return l
}

// SetWriter redirects console output.
func (l *Logger) SetWriter(w io.Writer) {
	l.writer = w
}

// SetMirror sets the logger that receives a copy of every line.
func (l *Logger) SetMirror(mirror course.Logger) {
	if mirror == nil {
		mirror = course.NopLogger()
	}
	l.mirror = mirror
}

// SetColor toggles ANSI colors.
func (l *Logger) SetColor(enabled bool) {
	if !enabled {
		l.colorReset, l.colorGreen, l.colorCyan, l.colorSalmon = "", "", "", ""
		l.colorYellow, l.colorRed, l.colorGray = "", "", ""
		l.colorBoldGreen, l.colorBoldRed, l.colorBoldWhite = "", "", ""
		return
	}
	l.colorReset = "\033[0m"
	l.colorGreen = "\033[32m"
	l.colorCyan = "\033[36m"
	l.colorSalmon = "\033[38;5;217m" // Salmon pink #FFB3BA
	l.colorYellow = "\033[33m"
	l.colorRed = "\033[31m"
	l.colorGray = "\033[90m"
	l.colorBoldGreen = "\033[1;32m"
	l.colorBoldRed = "\033[1;31m"
	l.colorBoldWhite = "\033[1;37m"
}

// Header prints a prominent header message
func (l *Logger) Header(message string) {
	l.mirror.Infof("== %s ==", message)
	if l.level >= LogLevelNormal {
		fmt.Fprintf(l.writer, "\n%s%s%s\n", l.colorBoldWhite, strings.Repeat("=", 70), l.colorReset)
		fmt.Fprintf(l.writer, "%s  %s%s\n", l.colorBoldWhite, message, l.colorReset)
		fmt.Fprintf(l.writer, "%s%s%s\n", l.colorBoldWhite, strings.Repeat("=", 70), l.colorReset)
	}
}

// Section prints a section divider
func (l *Logger) Section(title string) {
	l.mirror.Infof("-- %s --", title)
	if l.level >= LogLevelNormal {
		fmt.Fprintln(l.writer)
		fmt.Fprintf(l.writer, "%s▶ %s%s\n", l.colorCyan, title, l.colorReset)
		fmt.Fprintf(l.writer, "%s%s%s\n", l.colorGray, strings.Repeat("─", 50), l.colorReset)
	}
}

// Step prints a numbered step
func (l *Logger) Step(message string) {
	l.mirror.Infof("%s", message)
	if l.level >= LogLevelNormal {
		l.stepCount++
		fmt.Fprintf(l.writer, "\n%s[%d] %s%s\n", l.colorCyan, l.stepCount, message, l.colorReset)
	}
}

// Successf prints a success message with checkmark
func (l *Logger) Successf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.mirror.Infof("%s", msg)
	if l.level >= LogLevelNormal {
		fmt.Fprintf(l.writer, "%s✓ %s%s\n", l.colorBoldGreen, msg, l.colorReset)
	}
}

// Infof prints an informational message
func (l *Logger) Infof(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.mirror.Infof("%s", msg)
	if l.level >= LogLevelNormal {
		fmt.Fprintf(l.writer, "%s%s%s\n", l.colorSalmon, msg, l.colorReset)
	}
}

// Warnf prints a warning message
func (l *Logger) Warnf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.mirror.Warnf("%s", msg)
	if l.level >= LogLevelQuiet {
		fmt.Fprintf(l.writer, "%s⚠ Warning: %s%s\n", l.colorYellow, msg, l.colorReset)
	}
}

// Errorf prints an error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.mirror.Errorf("%s", msg)
	if l.level >= LogLevelQuiet {
		fmt.Fprintf(l.writer, "%s✗ Error: %s%s\n", l.colorBoldRed, msg, l.colorReset)
	}
}

// Verbosef prints detailed information (only in verbose mode)
func (l *Logger) Verbosef(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.mirror.Infof("%s", msg)
	if l.level >= LogLevelVerbose {
		fmt.Fprintf(l.writer, "%s→ %s%s\n", l.colorGray, msg, l.colorReset)
	}
}

// Debugf prints debug information (only in debug mode)
func (l *Logger) Debugf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.mirror.Debugf("%s", msg)
	if l.level >= LogLevelDebug {
		fmt.Fprintf(l.writer, "%s[DEBUG] %s%s\n", l.colorGray, msg, l.colorReset)
	}
}

// Summary prints the final run summary. It is shown at every level.
func (l *Logger) Summary(summary *RunSummary) {
	l.mirror.Infof("Run %s finished with status %s: %d played, %d skipped, %d failed",
		summary.RunID, summary.Status, summary.Counts.Played, summary.Counts.Skipped, summary.Counts.Failed)

	l.printSummaryHeader()
	l.printStatus(summary.Status)
	l.printRun(summary)
	l.printCounts(summary)
	l.printFailures(summary)
	l.printUnresolved(summary)
	l.printFiles(summary)
	l.printError(summary)
	l.printSummaryFooter()
}

func (l *Logger) printSummaryHeader() {
	fmt.Fprintln(l.writer)
	fmt.Fprintf(l.writer, "%s%s%s\n", l.colorBoldWhite, strings.Repeat("=", 70), l.colorReset)
	fmt.Fprintf(l.writer, "%s  RUN SUMMARY%s\n", l.colorBoldWhite, l.colorReset)
	fmt.Fprintf(l.writer, "%s%s%s\n", l.colorBoldWhite, strings.Repeat("=", 70), l.colorReset)
}

func (l *Logger) printStatus(status string) {
	fmt.Fprint(l.writer, "  Status: ")
	switch status {
	case StatusSuccess:
		fmt.Fprintf(l.writer, "%s✓ SUCCESS%s\n", l.colorBoldGreen, l.colorReset)
	case StatusPartialSuccess:
		fmt.Fprintf(l.writer, "%s⚠ PARTIAL SUCCESS%s\n", l.colorYellow, l.colorReset)
	case StatusInterrupted:
		fmt.Fprintf(l.writer, "%s⚠ INTERRUPTED%s\n", l.colorYellow, l.colorReset)
	case StatusNothingToDo:
		fmt.Fprintf(l.writer, "%s– NOTHING TO DO%s\n", l.colorGray, l.colorReset)
	case StatusFailed:
		fmt.Fprintf(l.writer, "%s✗ FAILED%s\n", l.colorBoldRed, l.colorReset)
	default:
		fmt.Fprintln(l.writer, status)
	}
}

func (l *Logger) printRun(summary *RunSummary) {
	fmt.Fprintf(l.writer, "  Run: %s\n", summary.RunID)
	if summary.Speed > 0 {
		fmt.Fprintf(l.writer, "  Speed: %gx\n", summary.Speed)
	}
	fmt.Fprintf(l.writer, "  Duration: %s\n", summary.Duration.Round(time.Second))
}

func (l *Logger) printCounts(summary *RunSummary) {
	c := summary.Counts
	if c.Tasks == 0 {
		return
	}
	fmt.Fprintf(l.writer, "\n  Tasks: %d  Lessons: %d\n", c.Tasks, c.Lessons)
	fmt.Fprintf(l.writer, "  Units: %s%d played%s, %d skipped, ", l.colorGreen, c.Played, l.colorReset, c.Skipped)
	if c.Failed > 0 {
		fmt.Fprintf(l.writer, "%s%d failed%s\n", l.colorRed, c.Failed, l.colorReset)
	} else {
		fmt.Fprintf(l.writer, "%d failed\n", c.Failed)
	}
	fmt.Fprintf(l.writer, "  Waited: %s\n", time.Duration(c.WaitSeconds)*time.Second)
}

func (l *Logger) printFailures(summary *RunSummary) {
	failures := summary.Failures()
	if len(failures) == 0 {
		return
	}
	fmt.Fprintf(l.writer, "\n  Failures:\n")
	for i, f := range failures {
		if l.level < LogLevelVerbose && i == 10 {
			fmt.Fprintf(l.writer, "%s    … %d more (see run.json)%s\n", l.colorGray, len(failures)-i, l.colorReset)
			break
		}
		fmt.Fprintf(l.writer, "%s    ✗ %s%s\n", l.colorBoldRed, f, l.colorReset)
	}
}

func (l *Logger) printUnresolved(summary *RunSummary) {
	if len(summary.Unresolved) == 0 {
		return
	}
	fmt.Fprintf(l.writer, "\n  Not found: %s\n", strings.Join(summary.Unresolved, ", "))
}

func (l *Logger) printFiles(summary *RunSummary) {
	if summary.ArtifactDir != "" {
		fmt.Fprintf(l.writer, "\n  Artifacts: %s\n", summary.ArtifactDir)
	}
	if summary.LogPath != "" {
		fmt.Fprintf(l.writer, "  Log: %s\n", summary.LogPath)
	}
	if l.level >= LogLevelVerbose {
		for _, path := range summary.Snapshots {
			fmt.Fprintf(l.writer, "    • %s\n", path)
		}
	}
}

func (l *Logger) printError(summary *RunSummary) {
	if summary.Error == "" {
		return
	}

	fmt.Fprintln(l.writer)
	fmt.Fprintf(l.writer, "%s  Error Details:%s\n", l.colorBoldRed, l.colorReset)
	fmt.Fprintf(l.writer, "%s    %s%s\n", l.colorRed, summary.Error, l.colorReset)
}

func (l *Logger) printSummaryFooter() {
	fmt.Fprintf(l.writer, "%s%s%s\n", l.colorBoldWhite, strings.Repeat("=", 70), l.colorReset)
	fmt.Fprintln(l.writer)
}

// ParseLogLevel converts a string log level to LogLevel type
func ParseLogLevel(level string) LogLevel {
	switch level {
	case "quiet":
		return LogLevelQuiet
	case "normal":
		return LogLevelNormal
	case "verbose":
		return LogLevelVerbose
	case "debug":
		return LogLevelDebug
	default:
		return LogLevelNormal
	}
}
