package console

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/entrhq/coursepilot/pkg/course"
)

// Run statuses
const (
	StatusSuccess        = "success"
	StatusPartialSuccess = "partial_success"
	StatusFailed         = "failed"
	StatusInterrupted    = "interrupted"
	StatusNothingToDo    = "nothing_to_do"
)

// RunSummary is the serialisable form of a run report.
type RunSummary struct {
	RunID       string        `json:"run_id"`
	Status      string        `json:"status"`
	Error       string        `json:"error,omitempty"`
	StartTime   time.Time     `json:"start_time"`
	EndTime     time.Time     `json:"end_time"`
	Duration    time.Duration `json:"duration"`
	Speed       float64       `json:"speed"`
	Requested   []string      `json:"requested"`
	Unresolved  []string      `json:"unresolved,omitempty"`
	Interrupted bool          `json:"interrupted"`
	Counts      SummaryCounts `json:"counts"`
	Tasks       []TaskSummary `json:"tasks"`
	Snapshots   []string      `json:"snapshots,omitempty"`
	ArtifactDir string        `json:"-"`
	LogPath     string        `json:"log_path,omitempty"`
}

// SummaryCounts tallies the run.
type SummaryCounts struct {
	Tasks       int   `json:"tasks"`
	Lessons     int   `json:"lessons"`
	Played      int   `json:"played"`
	Skipped     int   `json:"skipped"`
	Failed      int   `json:"failed"`
	WaitSeconds int64 `json:"wait_seconds"`
}

// TaskSummary is one task of the run.
type TaskSummary struct {
	Name     string          `json:"name"`
	Status   course.Status   `json:"status"`
	Error    string          `json:"error,omitempty"`
	Progress string          `json:"progress,omitempty"`
	Lessons  []LessonSummary `json:"lessons"`
}

// LessonSummary is one lesson of a task.
type LessonSummary struct {
	Index              int           `json:"index"`
	Name               string        `json:"name"`
	Status             course.Status `json:"status"`
	Error              string        `json:"error,omitempty"`
	ExitError          string        `json:"exit_error,omitempty"`
	AssessmentsSkipped int           `json:"assessments_skipped,omitempty"`
	Units              []UnitSummary `json:"units,omitempty"`
}

// UnitSummary is one video unit of a lesson.
type UnitSummary struct {
	Name           string        `json:"name"`
	Status         course.Status `json:"status"`
	Error          string        `json:"error,omitempty"`
	TotalSeconds   int           `json:"total_seconds,omitempty"`
	ElapsedSeconds int           `json:"elapsed_seconds,omitempty"`
	WaitSeconds    int64         `json:"wait_seconds,omitempty"`
	Unconfirmed    bool          `json:"unconfirmed,omitempty"`
}

// NewRunSummary converts report. The status is derived from the outcomes.
func NewRunSummary(report *course.RunReport) *RunSummary {
	counts := report.Counts()
	s := &RunSummary{
		RunID:       report.RunID,
		Status:      runStatus(report),
		StartTime:   report.StartTime,
		EndTime:     report.EndTime,
		Duration:    report.EndTime.Sub(report.StartTime),
		Speed:       report.Speed,
		Requested:   report.Requested,
		Unresolved:  report.Unresolved,
		Interrupted: report.Interrupted,
		Counts: SummaryCounts{
			Tasks:       counts.Tasks,
			Lessons:     counts.Lessons,
			Played:      counts.Played,
			Skipped:     counts.Skipped,
			Failed:      counts.Failed,
			WaitSeconds: int64(counts.Watched / time.Second),
		},
	}

	for _, task := range report.Tasks {
		ts := TaskSummary{
			Name:     task.Name,
			Status:   task.Status,
			Error:    errString(task.Err),
			Progress: task.Progress,
		}
		for _, lesson := range task.Lessons {
			ls := LessonSummary{
				Index:              lesson.Index,
				Name:               lesson.Name,
				Status:             lesson.Status,
				Error:              errString(lesson.Err),
				ExitError:          errString(lesson.ExitErr),
				AssessmentsSkipped: lesson.AssessmentsSkipped,
			}
			for _, unit := range lesson.Units {
				ls.Units = append(ls.Units, UnitSummary{
					Name:           unit.Name,
					Status:         unit.Status,
					Error:          errString(unit.Err),
					TotalSeconds:   unit.TotalSeconds,
					ElapsedSeconds: unit.ElapsedSeconds,
					WaitSeconds:    int64(unit.Wait / time.Second),
					Unconfirmed:    unit.Unconfirmed,
				})
			}
			ts.Lessons = append(ts.Lessons, ls)
		}
		s.Tasks = append(s.Tasks, ts)
	}
	return s
}

func runStatus(report *course.RunReport) string {
	switch {
	case report.Interrupted:
		return StatusInterrupted
	case len(report.Tasks) == 0:
		return StatusNothingToDo
	}

	allTasksFailed := true
	for _, task := range report.Tasks {
		if task.Status != course.StatusFailed {
			allTasksFailed = false
			break
		}
	}
	switch {
	case allTasksFailed:
		return StatusFailed
	case report.HasFailures():
		return StatusPartialSuccess
	default:
		return StatusSuccess
	}
}

// Failures lists every failed node as "task / lesson / unit: error".
func (s *RunSummary) Failures() []string {
	var out []string
	for _, task := range s.Tasks {
		if task.Status == course.StatusFailed {
			out = append(out, fmt.Sprintf("%s: %s", task.Name, task.Error))
		}
		for _, lesson := range task.Lessons {
			if lesson.Status == course.StatusFailed {
				out = append(out, fmt.Sprintf("%s / %s: %s", task.Name, lesson.Name, lesson.Error))
			}
			for _, unit := range lesson.Units {
				if unit.Status == course.StatusFailed {
					out = append(out, fmt.Sprintf("%s / %s / %s: %s", task.Name, lesson.Name, unit.Name, unit.Error))
				}
			}
		}
	}
	return out
}

// ArtifactWriter handles writing run artifacts
type ArtifactWriter struct {
	outputDir string
}

// NewArtifactWriter creates a new artifact writer
func NewArtifactWriter(outputDir string) *ArtifactWriter {
	return &ArtifactWriter{
		outputDir: outputDir,
	}
}

// Dir returns the directory artifacts are written to.
func (w *ArtifactWriter) Dir() string {
	return w.outputDir
}

// SnapshotDir returns where failure snapshots go.
func (w *ArtifactWriter) SnapshotDir() string {
	return filepath.Join(w.outputDir, "snapshots")
}

// WriteAll writes run.json and summary.md
func (w *ArtifactWriter) WriteAll(summary *RunSummary) error {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := w.WriteRunJSON(summary); err != nil {
		return fmt.Errorf("failed to write run JSON: %w", err)
	}

	if err := w.WriteSummaryMarkdown(summary); err != nil {
		return fmt.Errorf("failed to write summary markdown: %w", err)
	}

	return nil
}

// WriteRunJSON writes the full run summary as JSON
func (w *ArtifactWriter) WriteRunJSON(summary *RunSummary) error {
	path := filepath.Join(w.outputDir, "run.json")

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run summary: %w", err)
	}

	if writeErr := os.WriteFile(path, data, 0600); writeErr != nil {
		return fmt.Errorf("failed to write run JSON: %w", writeErr)
	}

	return nil
}

// WriteSummaryMarkdown writes a human-readable markdown summary
func (w *ArtifactWriter) WriteSummaryMarkdown(summary *RunSummary) error {
	path := filepath.Join(w.outputDir, "summary.md")

	var md strings.Builder

	md.WriteString("# Course Run Summary\n\n")
	md.WriteString(fmt.Sprintf("**Run:** %s\n\n", summary.RunID))
	md.WriteString(fmt.Sprintf("**Status:** %s\n\n", summary.Status))
	md.WriteString(fmt.Sprintf("**Speed:** %gx\n\n", summary.Speed))
	md.WriteString(fmt.Sprintf("**Started:** %s\n\n", summary.StartTime.Format(time.RFC3339)))
	md.WriteString(fmt.Sprintf("**Completed:** %s\n\n", summary.EndTime.Format(time.RFC3339)))
	md.WriteString(fmt.Sprintf("**Duration:** %s\n\n", summary.Duration.Round(time.Second)))

	if summary.Error != "" {
		md.WriteString(fmt.Sprintf("❌ **Error:** %s\n\n", summary.Error))
	}

	if len(summary.Unresolved) > 0 {
		md.WriteString("## Not Found\n\n")
		for _, name := range summary.Unresolved {
			md.WriteString(fmt.Sprintf("- %s\n", name))
		}
		md.WriteString("\n")
	}

	for _, task := range summary.Tasks {
		md.WriteString(fmt.Sprintf("## %s %s\n\n", statusMark(task.Status), task.Name))
		if task.Progress != "" {
			md.WriteString(fmt.Sprintf("Progress before run: %s\n\n", task.Progress))
		}
		if task.Error != "" {
			md.WriteString(fmt.Sprintf("Error: %s\n\n", task.Error))
		}
		for _, lesson := range task.Lessons {
			md.WriteString(fmt.Sprintf("- %s **%s** (%s)", statusMark(lesson.Status), lesson.Name, lesson.Status))
			if lesson.Error != "" {
				md.WriteString(fmt.Sprintf(": %s", lesson.Error))
			}
			md.WriteString("\n")
			for _, unit := range lesson.Units {
				md.WriteString(fmt.Sprintf("  - %s %s", statusMark(unit.Status), unit.Name))
				if unit.WaitSeconds > 0 {
					md.WriteString(fmt.Sprintf(" (waited %s)", time.Duration(unit.WaitSeconds)*time.Second))
				}
				if unit.Unconfirmed {
					md.WriteString(" (unconfirmed)")
				}
				if unit.Error != "" {
					md.WriteString(fmt.Sprintf(": %s", unit.Error))
				}
				md.WriteString("\n")
			}
		}
		md.WriteString("\n")
	}

	md.WriteString("## Totals\n\n")
	md.WriteString(fmt.Sprintf("- **Tasks:** %d\n", summary.Counts.Tasks))
	md.WriteString(fmt.Sprintf("- **Lessons:** %d\n", summary.Counts.Lessons))
	md.WriteString(fmt.Sprintf("- **Units Played:** %d\n", summary.Counts.Played))
	md.WriteString(fmt.Sprintf("- **Units Skipped:** %d\n", summary.Counts.Skipped))
	md.WriteString(fmt.Sprintf("- **Units Failed:** %d\n", summary.Counts.Failed))
	md.WriteString(fmt.Sprintf("- **Time Waited:** %s\n", time.Duration(summary.Counts.WaitSeconds)*time.Second))

	if writeErr := os.WriteFile(path, []byte(md.String()), 0600); writeErr != nil {
		return fmt.Errorf("failed to write summary markdown: %w", writeErr)
	}

	return nil
}

func statusMark(status course.Status) string {
	switch status {
	case course.StatusCompleted:
		return "✅"
	case course.StatusSkipped:
		return "⏭"
	default:
		return "❌"
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
