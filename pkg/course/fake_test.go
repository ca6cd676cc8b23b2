package course

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// errStaleHandle is returned when a handle from before a navigation is used.
var errStaleHandle = errors.New("stale element handle")

type fakeUnit struct {
	name      string
	duration  string
	current   string
	watched   bool
	noControl bool
	failOpen  bool

	// markOnPlay sets watched when the play control is clicked
	markOnPlay bool
}

type fakeLesson struct {
	name      string
	done      bool
	failEnter bool
	failExit  bool
	units     []*fakeUnit
}

type fakeTask struct {
	name     string
	progress string
	lessons  []*fakeLesson
}

type fakeNode struct {
	gen    int
	role   Role
	text   string
	task   *fakeTask
	lesson *fakeLesson
	unit   *fakeUnit
}

// fakeSite is an in-memory course platform. Clicking a task, a lesson or a
// navigation control bumps the generation and invalidates older handles;
// selecting a video inside a lesson does not.
type fakeSite struct {
	tasks []*fakeTask

	page   string
	gen    int
	task   *fakeTask
	lesson *fakeLesson
	unit   *fakeUnit

	clicks      []string
	navigations []string
	scriptArgs  [][]any
}

func newFakeSite(tasks ...*fakeTask) *fakeSite {
	return &fakeSite{tasks: tasks, page: "home"}
}

// testSelectors maps every role to a selector equal to its own name.
func testSelectors() SelectorTable {
	table := make(SelectorTable)
	for _, role := range Roles() {
		table[role] = string(role)
	}
	return table
}

func (s *fakeSite) node(role Role, text string) *fakeNode {
	return &fakeNode{gen: s.gen, role: role, text: text, task: s.task, lesson: s.lesson, unit: s.unit}
}

func (s *fakeSite) navigate(page string) {
	s.page = page
	s.gen++
}

func (s *fakeSite) check(h Handle) (*fakeNode, error) {
	n, ok := h.(*fakeNode)
	if !ok || n == nil {
		return nil, fmt.Errorf("not a fake handle: %v", h)
	}
	if n.gen != s.gen {
		return nil, fmt.Errorf("%s %q: %w", n.role, n.text, errStaleHandle)
	}
	return n, nil
}

func (s *fakeSite) Navigate(_ context.Context, url string) error {
	s.navigations = append(s.navigations, url)
	s.task, s.lesson, s.unit = nil, nil, nil
	s.navigate("catalog")
	return nil
}

func (s *fakeSite) FindOne(_ context.Context, scope Handle, selector string) (Lookup, error) {
	role := Role(selector)
	if scope != nil {
		n, err := s.check(scope)
		if err != nil {
			return Lookup{}, err
		}
		return s.findScoped(n, role), nil
	}

	switch role {
	case RolePersonalCenter:
		return Found(s.node(role, "个人中心")), nil
	case RoleMyTasksTab:
		if s.page == "personal" {
			return Found(s.node(role, "我的任务")), nil
		}
	case RoleStudyButton:
		if s.page == "task" {
			return Found(s.node(role, "开始学习")), nil
		}
	case RoleTaskProgress:
		if s.page == "lessons" && s.task.progress != "" {
			return Found(s.node(role, s.task.progress)), nil
		}
	case RoleBackToList:
		if s.page == "units" {
			return Found(s.node(role, "返回")), nil
		}
	case RoleDuration:
		if s.unit != nil && s.unit.duration != "" {
			return Found(s.node(role, s.unit.duration)), nil
		}
	case RoleCurrentTime:
		if s.unit != nil && s.unit.current != "" {
			return Found(s.node(role, s.unit.current)), nil
		}
	}
	return Absent(), nil
}

func (s *fakeSite) findScoped(n *fakeNode, role Role) Lookup {
	switch {
	case n.role == RoleTaskCard && role == RoleTaskName:
		return Found(s.node(role, n.task.name))
	case n.role == RoleLessonItem && role == RoleLessonTitle:
		return Found(s.node(role, n.lesson.name))
	case n.role == RoleLessonItem && role == RoleLessonDone && n.lesson.done:
		return Found(s.node(role, ""))
	case n.role == RoleVideoUnit && role == RoleUnitDone && n.unit.watched:
		return Found(s.node(role, ""))
	}
	return Absent()
}

func (s *fakeSite) FindAll(_ context.Context, scope Handle, selector string) ([]Handle, error) {
	if scope != nil {
		return nil, fmt.Errorf("scoped FindAll not supported by fake")
	}
	var out []Handle
	switch Role(selector) {
	case RoleTaskCard:
		if s.page == "catalog" {
			for _, task := range s.tasks {
				n := s.node(RoleTaskCard, task.name)
				n.task = task
				out = append(out, n)
			}
		}
	case RoleLessonItem:
		if s.page == "lessons" {
			for _, lesson := range s.task.lessons {
				n := s.node(RoleLessonItem, lesson.name)
				n.lesson = lesson
				out = append(out, n)
			}
		}
	case RoleVideoUnit:
		if s.page == "units" {
			for _, unit := range s.lesson.units {
				n := s.node(RoleVideoUnit, unit.name+"\n"+unit.duration)
				n.unit = unit
				out = append(out, n)
			}
		}
	}
	return out, nil
}

func (s *fakeSite) WaitUntil(_ context.Context, selector string, _ WaitState, timeout time.Duration) (Handle, error) {
	if Role(selector) == RolePlayControl && s.unit != nil && !s.unit.noControl {
		return s.node(RolePlayControl, ""), nil
	}
	return nil, fmt.Errorf("waiting for %q after %s: %w", selector, timeout, ErrWaitTimeout)
}

func (s *fakeSite) Click(_ context.Context, h Handle) error {
	n, err := s.check(h)
	if err != nil {
		return err
	}
	s.clicks = append(s.clicks, string(n.role)+":"+n.text)

	switch n.role {
	case RolePersonalCenter:
		s.navigate("personal")
	case RoleMyTasksTab:
		s.navigate("catalog")
	case RoleTaskCard:
		s.task = n.task
		s.navigate("task")
	case RoleStudyButton:
		s.navigate("lessons")
	case RoleLessonItem:
		if n.lesson.failEnter {
			return errors.New("lesson page did not load")
		}
		s.lesson = n.lesson
		s.navigate("units")
	case RoleVideoUnit:
		if n.unit.failOpen {
			return errors.New("video page did not load")
		}
		s.unit = n.unit
	case RolePlayControl:
		if s.unit.markOnPlay {
			s.unit.watched = true
		}
	case RoleBackToList:
		if s.lesson.failExit {
			return errors.New("back control detached")
		}
		s.lesson, s.unit = nil, nil
		s.navigate("lessons")
	}
	return nil
}

func (s *fakeSite) ReadText(_ context.Context, h Handle) (string, error) {
	n, err := s.check(h)
	if err != nil {
		return "", err
	}
	return n.text, nil
}

func (s *fakeSite) RunScript(_ context.Context, _ string, args ...any) (any, error) {
	if len(args) == 1 {
		if list, ok := args[0].([]any); ok {
			s.scriptArgs = append(s.scriptArgs, list)
		}
	}
	return s.unit != nil, nil
}

// lessonClicks returns the names of lessons that were entered.
func (s *fakeSite) lessonClicks() []string {
	return s.clicksFor(RoleLessonItem)
}

func (s *fakeSite) clicksFor(role Role) []string {
	var out []string
	prefix := string(role) + ":"
	for _, c := range s.clicks {
		if len(c) > len(prefix) && c[:len(prefix)] == prefix {
			out = append(out, c[len(prefix):])
		}
	}
	return out
}

// fakeClock records sleeps without blocking.
type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

func (c *fakeClock) total() time.Duration {
	var sum time.Duration
	for _, d := range c.sleeps {
		sum += d
	}
	return sum
}

// recordingLogger keeps formatted lines per level.
type recordingLogger struct {
	infos  []string
	warns  []string
	errors []string
}

func (l *recordingLogger) Debugf(string, ...interface{}) {}

func (l *recordingLogger) Infof(format string, args ...interface{}) {
	l.infos = append(l.infos, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Warnf(format string, args ...interface{}) {
	l.warns = append(l.warns, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Errorf(format string, args ...interface{}) {
	l.errors = append(l.errors, fmt.Sprintf(format, args...))
}

type recordingDiagnostics struct {
	labels []string
}

func (d *recordingDiagnostics) CaptureFailure(_ context.Context, label string, _ error) {
	d.labels = append(d.labels, label)
}

// quickPacing disables the navigation and readout pauses so only the
// pacing wait shows up in the clock.
func quickPacing(speed float64) Pacing {
	return Pacing{
		Speed:        speed,
		SettleBuffer: DefaultSettleBuffer,
		ReadyTimeout: DefaultReadyTimeout,
	}
}

func newTestSession(site *fakeSite, pacing Pacing) *Session {
	return &Session{Pacing: pacing, Backend: site}
}

// enterLesson puts the site on the unit list of lesson, as the walker would
// after clicking it.
func (s *fakeSite) enterLesson(task *fakeTask, lesson *fakeLesson) {
	s.task = task
	s.lesson = lesson
	s.navigate("units")
}

// unitHandles returns fresh handles for the current lesson's units.
func (s *fakeSite) unitHandles() []Handle {
	handles, _ := s.FindAll(context.Background(), nil, string(RoleVideoUnit))
	return handles
}
