package course

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalogURL = "https://learning.example.test/tasks"

type orchestratorFixture struct {
	site  *fakeSite
	clock *fakeClock
	log   *recordingLogger
	diag  *recordingDiagnostics
	cat   *Catalog
	orch  *Orchestrator
}

func newOrchestratorFixture(t *testing.T, tasks ...*fakeTask) *orchestratorFixture {
	t.Helper()
	f := &orchestratorFixture{
		site:  newFakeSite(tasks...),
		clock: &fakeClock{},
		log:   &recordingLogger{},
		diag:  &recordingDiagnostics{},
	}
	session := newTestSession(f.site, quickPacing(2.0))
	opts := []Option{WithClock(f.clock), WithLogger(f.log), WithDiagnostics(f.diag)}
	filter, err := NewAssessmentFilter(DefaultAssessmentPatterns)
	require.NoError(t, err)

	f.cat = NewCatalog(session, testSelectors(), CatalogOptions{CatalogURL: testCatalogURL}, opts...)
	f.orch = NewOrchestrator(session, testSelectors(), f.cat, filter, opts...)
	return f
}

// selected opens the catalog and selects names the way the executor does.
func (f *orchestratorFixture) selected(t *testing.T, names ...string) []Task {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.cat.Open(ctx))
	available, err := f.cat.List(ctx)
	require.NoError(t, err)
	tasks, _ := SelectTasks(available, names, f.log)
	return tasks
}

func video(name string) *fakeUnit {
	return &fakeUnit{name: name, duration: "02:00", current: "00:00"}
}

func TestOrchestrator_LessonFailureIsIsolated(t *testing.T) {
	task := &fakeTask{name: "Algebra", lessons: []*fakeLesson{
		{name: "Lesson 1", units: []*fakeUnit{video("L1 V1")}},
		{name: "Lesson 2", failEnter: true, units: []*fakeUnit{video("L2 V1")}},
		{name: "Lesson 3", units: []*fakeUnit{video("L3 V1"), video("L3 V2")}},
	}}
	f := newOrchestratorFixture(t, task)

	outcomes := f.orch.Run(context.Background(), f.selected(t, "Algebra"))

	require.Len(t, outcomes, 1)
	got := outcomes[0]
	assert.Equal(t, StatusCompleted, got.Status)
	require.Len(t, got.Lessons, 3)
	assert.Equal(t, StatusCompleted, got.Lessons[0].Status)
	assert.Equal(t, StatusFailed, got.Lessons[1].Status)
	assert.Equal(t, "Lesson 2", got.Lessons[1].Name)
	assert.Equal(t, StatusCompleted, got.Lessons[2].Status)
	require.Len(t, got.Lessons[2].Units, 2)
	assert.Equal(t, StatusCompleted, got.Lessons[2].Units[1].Status)

	assert.Equal(t, []string{"Lesson 1", "Lesson 2", "Lesson 3"}, f.site.lessonClicks())
	assert.Contains(t, f.diag.labels, "lesson-Lesson 2")
	assert.NotEmpty(t, f.log.errors)
}

func TestOrchestrator_SkipsFinishedLessons(t *testing.T) {
	task := &fakeTask{name: "Algebra", progress: "1/2", lessons: []*fakeLesson{
		{name: "Lesson 1", done: true, units: []*fakeUnit{video("L1 V1")}},
		{name: "Lesson 2", units: []*fakeUnit{video("L2 V1")}},
	}}
	f := newOrchestratorFixture(t, task)

	outcomes := f.orch.Run(context.Background(), f.selected(t, "Algebra"))

	require.Len(t, outcomes, 1)
	assert.Equal(t, "1/2", outcomes[0].Progress)
	require.Len(t, outcomes[0].Lessons, 2)
	assert.Equal(t, StatusSkipped, outcomes[0].Lessons[0].Status)
	assert.Equal(t, StatusCompleted, outcomes[0].Lessons[1].Status)
	assert.Equal(t, []string{"Lesson 2"}, f.site.lessonClicks(), "finished lesson must not be entered")
	assert.Equal(t, 60*time.Second+DefaultSettleBuffer, f.clock.total())
}

func TestOrchestrator_ReResolvesLaterTasks(t *testing.T) {
	algebra := &fakeTask{name: "Algebra", lessons: []*fakeLesson{{name: "A1", units: []*fakeUnit{video("A1 V1")}}}}
	geometry := &fakeTask{name: "Geometry", lessons: []*fakeLesson{{name: "G1", units: []*fakeUnit{video("G1 V1")}}}}
	f := newOrchestratorFixture(t, algebra, geometry)

	outcomes := f.orch.Run(context.Background(), f.selected(t, "Geometry", "Algebra"))

	require.Len(t, outcomes, 2)
	assert.Equal(t, "Geometry", outcomes[0].Name)
	assert.Equal(t, "Algebra", outcomes[1].Name)
	for _, out := range outcomes {
		assert.Equal(t, StatusCompleted, out.Status, "task %s: %v", out.Name, out.Err)
	}
	assert.Equal(t, []string{"G1", "A1"}, f.site.lessonClicks())
	assert.Len(t, f.site.navigations, 2, "initial open plus one re-resolve")
}

func TestOrchestrator_TaskGoneOnReResolve(t *testing.T) {
	algebra := &fakeTask{name: "Algebra", lessons: []*fakeLesson{{name: "A1", units: []*fakeUnit{video("A1 V1")}}}}
	geometry := &fakeTask{name: "Geometry", lessons: []*fakeLesson{{name: "G1", units: []*fakeUnit{video("G1 V1")}}}}
	f := newOrchestratorFixture(t, algebra, geometry)
	tasks := f.selected(t, "Algebra", "Geometry")
	f.site.tasks = f.site.tasks[:1]

	outcomes := f.orch.Run(context.Background(), tasks)

	require.Len(t, outcomes, 2)
	assert.Equal(t, StatusCompleted, outcomes[0].Status)
	assert.Equal(t, StatusFailed, outcomes[1].Status)
	assert.Contains(t, outcomes[1].Err.Error(), "no longer listed")
}

func TestOrchestrator_EmptySelection(t *testing.T) {
	f := newOrchestratorFixture(t, &fakeTask{name: "Algebra"})

	outcomes := f.orch.Run(context.Background(), nil)

	assert.Empty(t, outcomes)
	assert.Empty(t, f.site.clicks)
	assert.Empty(t, f.site.navigations)
	assert.Empty(t, f.clock.sleeps)
	assert.Contains(t, f.log.infos, "No tasks to run")
}

func TestOrchestrator_CancelledContext(t *testing.T) {
	task := &fakeTask{name: "Algebra", lessons: []*fakeLesson{{name: "A1", units: []*fakeUnit{video("A1 V1")}}}}
	f := newOrchestratorFixture(t, task)
	tasks := f.selected(t, "Algebra")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	outcomes := f.orch.Run(ctx, tasks)

	assert.Empty(t, outcomes)
	assert.Empty(t, f.site.lessonClicks())
}

func TestOrchestrator_StaleTaskHandle(t *testing.T) {
	task := &fakeTask{name: "Algebra"}
	f := newOrchestratorFixture(t, task)
	tasks := f.selected(t, "Algebra")
	f.site.navigate("catalog")

	outcomes := f.orch.Run(context.Background(), tasks)

	require.Len(t, outcomes, 1)
	assert.Equal(t, StatusFailed, outcomes[0].Status)
	assert.ErrorIs(t, outcomes[0].Err, errStaleHandle)
}

func TestOrchestrator_TaskWithoutLessons(t *testing.T) {
	f := newOrchestratorFixture(t, &fakeTask{name: "Algebra"})

	outcomes := f.orch.Run(context.Background(), f.selected(t, "Algebra"))

	require.Len(t, outcomes, 1)
	assert.Equal(t, StatusCompleted, outcomes[0].Status)
	assert.Empty(t, outcomes[0].Lessons)
}
