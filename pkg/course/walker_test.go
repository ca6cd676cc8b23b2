package course

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lessonOnList positions the site on task's lesson list and returns a fresh
// Lesson for index.
func lessonOnList(t *testing.T, site *fakeSite, task *fakeTask, index int) Lesson {
	t.Helper()
	site.task = task
	site.navigate("lessons")
	handles, err := site.FindAll(context.Background(), nil, string(RoleLessonItem))
	require.NoError(t, err)
	require.Greater(t, len(handles), index)
	return Lesson{Index: index, Name: task.lessons[index].name, Handle: handles[index]}
}

func TestWalker_PlaysVideosAndSkipsAssessments(t *testing.T) {
	task := &fakeTask{name: "Algebra", lessons: []*fakeLesson{{
		name: "Basics",
		units: []*fakeUnit{
			{name: "Lecture 1", duration: "01:00", current: "00:00"},
			{name: "Chapter Quiz", duration: "00:00", current: "00:00"},
			{name: "Lecture 2", duration: "02:00", current: "00:00", watched: true},
			{name: "Lecture 3", duration: "00:30", current: "00:10"},
		},
	}}}
	site := newFakeSite(task)
	clock := &fakeClock{}
	filter, err := NewAssessmentFilter(DefaultAssessmentPatterns)
	require.NoError(t, err)
	walker := NewWalker(newTestSession(site, quickPacing(1.0)), testSelectors(), filter, WithClock(clock))

	out := walker.Walk(context.Background(), lessonOnList(t, site, task, 0))

	require.Equal(t, StatusCompleted, out.Status, "err: %v", out.Err)
	assert.NoError(t, out.ExitErr)
	assert.Equal(t, 1, out.AssessmentsSkipped)
	require.Len(t, out.Units, 3)
	assert.Equal(t, StatusCompleted, out.Units[0].Status)
	assert.Equal(t, StatusSkipped, out.Units[1].Status)
	assert.Equal(t, "Lecture 2", out.Units[1].Name)
	assert.Equal(t, StatusCompleted, out.Units[2].Status)

	assert.NotContains(t, site.clicksFor(RoleVideoUnit), "Chapter Quiz\n00:00")
	assert.Equal(t, "lessons", site.page, "walker returns to the lesson list")
	assert.Equal(t, 60*time.Second+20*time.Second+2*DefaultSettleBuffer, clock.total())
}

func TestWalker_UnitFailureDoesNotStopLesson(t *testing.T) {
	task := &fakeTask{name: "Algebra", lessons: []*fakeLesson{{
		name: "Basics",
		units: []*fakeUnit{
			{name: "Lecture 1", duration: "01:00", current: "00:00", noControl: true},
			{name: "Lecture 2", duration: "01:00", current: "00:00"},
		},
	}}}
	site := newFakeSite(task)
	walker := NewWalker(newTestSession(site, quickPacing(1.0)), testSelectors(), nil, WithClock(&fakeClock{}))

	out := walker.Walk(context.Background(), lessonOnList(t, site, task, 0))

	assert.Equal(t, StatusCompleted, out.Status)
	require.Len(t, out.Units, 2)
	assert.Equal(t, StatusFailed, out.Units[0].Status)
	assert.Equal(t, StatusCompleted, out.Units[1].Status)
}

func TestWalker_EnterFailure(t *testing.T) {
	task := &fakeTask{name: "Algebra", lessons: []*fakeLesson{{name: "Basics", failEnter: true}}}
	site := newFakeSite(task)
	walker := NewWalker(newTestSession(site, quickPacing(1.0)), testSelectors(), nil, WithClock(&fakeClock{}))

	out := walker.Walk(context.Background(), lessonOnList(t, site, task, 0))

	assert.Equal(t, StatusFailed, out.Status)
	require.Error(t, out.Err)
	assert.Contains(t, out.Err.Error(), "enter lesson")
	assert.Empty(t, site.clicksFor(RoleBackToList))
}

func TestWalker_ExitFailureIsRecorded(t *testing.T) {
	task := &fakeTask{name: "Algebra", lessons: []*fakeLesson{{
		name:     "Basics",
		failExit: true,
		units:    []*fakeUnit{{name: "Lecture 1", duration: "00:10", current: "00:00"}},
	}}}
	site := newFakeSite(task)
	log := &recordingLogger{}
	walker := NewWalker(newTestSession(site, quickPacing(1.0)), testSelectors(), nil,
		WithClock(&fakeClock{}), WithLogger(log))

	out := walker.Walk(context.Background(), lessonOnList(t, site, task, 0))

	assert.Equal(t, StatusCompleted, out.Status)
	assert.Error(t, out.ExitErr)
	require.Len(t, log.warns, 1)
	assert.Contains(t, log.warns[0], "Basics")
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "Lecture 1", firstLine("\n  Lecture 1  \n10:00"))
	assert.Equal(t, "", firstLine(" \n\t"))
}
