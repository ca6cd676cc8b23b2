package course

import (
	"context"
	"fmt"
)

// Orchestrator walks every lesson of each selected task.
//
// Per task the state machine is Entering → Listing → {Skipping | Walking}* →
// Done. A failure while entering or listing ends only that task; a lesson
// failure ends only that lesson.
type Orchestrator struct {
	session   *Session
	selectors SelectorTable
	catalog   *Catalog
	walker    *Walker
	opts      options
}

// NewOrchestrator creates an orchestrator. catalog is used to re-resolve
// task handles after the first task has navigated away from the list.
func NewOrchestrator(session *Session, selectors SelectorTable, catalog *Catalog, filter *AssessmentFilter, opts ...Option) *Orchestrator {
	return &Orchestrator{
		session:   session,
		selectors: selectors,
		catalog:   catalog,
		walker:    NewWalker(session, selectors, filter, opts...),
		opts:      buildOptions(opts),
	}
}

// Run walks tasks in the given order. The first task's handle comes from the
// listing the operator selected from; every later task is re-resolved by
// name because entering a task invalidates all earlier handles.
//
// Cancelling ctx stops the run between nodes; the outcomes gathered so far
// are returned.
func (o *Orchestrator) Run(ctx context.Context, tasks []Task) []TaskOutcome {
	log := o.opts.log
	if len(tasks) == 0 {
		log.Infof("No tasks to run")
		return nil
	}

	outcomes := make([]TaskOutcome, 0, len(tasks))
	for i, task := range tasks {
		if ctx.Err() != nil {
			log.Warnf("Run interrupted before task %s", task.Name)
			break
		}

		if i > 0 {
			fresh, ok, err := o.catalog.Resolve(ctx, task.Name)
			if err != nil || !ok {
				if err == nil {
					err = fmt.Errorf("task %q is no longer listed", task.Name)
				}
				outcomes = append(outcomes, o.failTask(ctx, TaskOutcome{Name: task.Name}, err))
				continue
			}
			task = fresh
		}

		outcomes = append(outcomes, o.RunTask(ctx, task))
	}
	return outcomes
}

// RunTask enters task and visits its lessons by position.
func (o *Orchestrator) RunTask(ctx context.Context, task Task) TaskOutcome {
	out := TaskOutcome{Name: task.Name, Status: StatusCompleted}
	log := o.opts.log
	backend := o.session.Backend

	// Entering
	log.Infof("Starting task: %s", task.Name)
	if err := clickAndSettle(ctx, o.session, o.opts.clock, task.Handle); err != nil {
		return o.failTask(ctx, out, fmt.Errorf("open task: %w", err))
	}
	if err := clickRole(ctx, o.session, o.opts.clock, o.selectors.Get(RoleStudyButton)); err != nil {
		return o.failTask(ctx, out, fmt.Errorf("enter study page: %w", err))
	}

	if progress, err := readOptionalText(ctx, backend, nil, o.selectors.Get(RoleTaskProgress)); err == nil && progress != "" {
		out.Progress = firstLine(progress)
		log.Infof("Task progress: %s", out.Progress)
	}

	// Listing
	lessons, err := backend.FindAll(ctx, nil, o.selectors.Get(RoleLessonItem))
	if err != nil {
		return o.failTask(ctx, out, fmt.Errorf("list lessons: %w", err))
	}
	count := len(lessons)
	if count == 0 {
		log.Infof("Task %s has no lessons", task.Name)
	}

	for i := 0; i < count; i++ {
		if ctx.Err() != nil {
			log.Warnf("Task %s interrupted at lesson %d of %d", task.Name, i+1, count)
			break
		}
		lesson, stop := o.visitLesson(ctx, i)
		if stop {
			break
		}
		out.Lessons = append(out.Lessons, lesson)
	}

	log.Infof("Finished task: %s", task.Name)
	return out
}

// visitLesson re-fetches the lesson list, probes the lesson at index and
// walks it when unfinished. stop is set when the list no longer reaches
// index.
func (o *Orchestrator) visitLesson(ctx context.Context, index int) (out LessonOutcome, stop bool) {
	log := o.opts.log
	backend := o.session.Backend
	out = LessonOutcome{Index: index, Name: fmt.Sprintf("lesson #%d", index+1)}

	lessons, err := backend.FindAll(ctx, nil, o.selectors.Get(RoleLessonItem))
	if err != nil {
		return o.failLesson(ctx, out, fmt.Errorf("list lessons: %w", err)), false
	}
	if index >= len(lessons) {
		log.Warnf("Lesson list shrank to %d entries, stopping before %s", len(lessons), out.Name)
		return out, true
	}

	handle := lessons[index]
	if name := o.lessonName(ctx, handle); name != "" {
		out.Name = name
	}

	done, err := Probe(ctx, backend, handle, o.selectors.Get(RoleLessonDone))
	if err != nil {
		return o.failLesson(ctx, out, err), false
	}
	if done {
		log.Infof("Skipping finished lesson: %s", out.Name)
		out.Status = StatusSkipped
		return out, false
	}

	walked := o.walker.Walk(ctx, Lesson{Index: index, Name: out.Name, Handle: handle})
	if walked.Status == StatusFailed {
		log.Errorf("Lesson %s failed: %v", walked.Name, walked.Err)
		o.opts.captureFailure(ctx, "lesson-"+walked.Name, walked.Err)
	}
	return walked, false
}

// lessonName reads the lesson title, falling back to the item text.
func (o *Orchestrator) lessonName(ctx context.Context, handle Handle) string {
	backend := o.session.Backend
	if title, err := readOptionalText(ctx, backend, handle, o.selectors.Get(RoleLessonTitle)); err == nil {
		if name := firstLine(title); name != "" {
			return name
		}
	}
	text, err := backend.ReadText(ctx, handle)
	if err != nil {
		return ""
	}
	return firstLine(text)
}

func (o *Orchestrator) failLesson(ctx context.Context, out LessonOutcome, err error) LessonOutcome {
	o.opts.log.Errorf("Lesson %s failed: %v", out.Name, err)
	o.opts.captureFailure(ctx, "lesson-"+out.Name, err)
	out.Status = StatusFailed
	out.Err = err
	return out
}

func (o *Orchestrator) failTask(ctx context.Context, out TaskOutcome, err error) TaskOutcome {
	o.opts.log.Errorf("Task %s failed: %v", out.Name, err)
	o.opts.captureFailure(ctx, "task-"+out.Name, err)
	out.Status = StatusFailed
	out.Err = err
	return out
}
