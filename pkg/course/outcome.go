package course

import (
	"time"
)

// Status is the result of processing one node.
type Status string

const (
	// StatusCompleted means the node was processed to the end
	StatusCompleted Status = "completed"
	// StatusSkipped means the node already carried a completion marker
	StatusSkipped Status = "skipped"
	// StatusFailed means processing raised an error, recorded in Err
	StatusFailed Status = "failed"
)

// UnitOutcome is the result of playing one VideoUnit.
type UnitOutcome struct {
	Name   string
	Status Status
	Err    error

	// TotalSeconds and ElapsedSeconds are the parsed readouts
	TotalSeconds   int
	ElapsedSeconds int

	// Wait is the pacing wait before the settle buffer
	Wait time.Duration

	// Unconfirmed is set when a confirmation poll ran and the completion
	// marker never appeared
	Unconfirmed bool
}

// LessonOutcome is the result of visiting one Lesson.
type LessonOutcome struct {
	Index  int
	Name   string
	Status Status
	Err    error

	// Units holds one outcome per non-assessment unit, in list order
	Units []UnitOutcome

	// AssessmentsSkipped counts units filtered out as assessments
	AssessmentsSkipped int

	// ExitErr records a failed return to the lesson list; the lesson still
	// counts as processed
	ExitErr error
}

// TaskOutcome is the result of walking one Task.
type TaskOutcome struct {
	Name     string
	Status   Status
	Err      error
	Progress string
	Lessons  []LessonOutcome
}

// RunReport aggregates a whole run.
type RunReport struct {
	RunID      string
	Speed      float64
	Requested  []string
	Unresolved []string
	Tasks      []TaskOutcome
	StartTime  time.Time
	EndTime    time.Time

	// Interrupted is set when the context was cancelled mid-run
	Interrupted bool
}

// Counts tallies unit outcomes across the report.
type Counts struct {
	Played  int
	Skipped int
	Failed  int
	Lessons int
	Tasks   int
	Watched time.Duration
}

// Counts summarises the report.
func (r *RunReport) Counts() Counts {
	var c Counts
	c.Tasks = len(r.Tasks)
	for _, task := range r.Tasks {
		c.Lessons += len(task.Lessons)
		for _, lesson := range task.Lessons {
			for _, unit := range lesson.Units {
				switch unit.Status {
				case StatusCompleted:
					c.Played++
					c.Watched += unit.Wait
				case StatusSkipped:
					c.Skipped++
				case StatusFailed:
					c.Failed++
				}
			}
		}
	}
	return c
}

// HasFailures reports whether any task, lesson or unit failed.
func (r *RunReport) HasFailures() bool {
	for _, task := range r.Tasks {
		if task.Status == StatusFailed {
			return true
		}
		for _, lesson := range task.Lessons {
			if lesson.Status == StatusFailed {
				return true
			}
			for _, unit := range lesson.Units {
				if unit.Status == StatusFailed {
					return true
				}
			}
		}
	}
	return false
}
