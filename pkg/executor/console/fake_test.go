package console

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/entrhq/coursepilot/pkg/config"
	"github.com/entrhq/coursepilot/pkg/course"
)

const testLoginURL = "https://learning.example.test/login"

// fakeElement is a handle into fakeBrowser.
type fakeElement struct {
	role  course.Role
	index int
}

// fakeBrowser is a small portal: a home page with a personal center, a task
// tab, and task cards that open onto an empty study page.
type fakeBrowser struct {
	roles        map[string]course.Role
	personalText string
	tasks        []string
	page         string
	navigations  []string
	clicks       []course.Role
}

func newFakeBrowser(tasks ...string) *fakeBrowser {
	roles := make(map[string]course.Role)
	for role, sel := range course.DefaultSelectors() {
		roles[sel] = role
	}
	return &fakeBrowser{
		roles:        roles,
		personalText: "个人中心",
		tasks:        tasks,
		page:         "blank",
	}
}

func (b *fakeBrowser) role(selector string) course.Role {
	role, ok := b.roles[selector]
	if !ok {
		panic(fmt.Sprintf("unknown selector %q", selector))
	}
	return role
}

func (b *fakeBrowser) Navigate(_ context.Context, url string) error {
	b.navigations = append(b.navigations, url)
	b.page = "home"
	return nil
}

func (b *fakeBrowser) FindOne(_ context.Context, scope course.Handle, selector string) (course.Lookup, error) {
	switch role := b.role(selector); role {
	case course.RolePersonalCenter:
		if b.page == "blank" {
			return course.Absent(), nil
		}
		return course.Found(fakeElement{role: role}), nil
	case course.RoleMyTasksTab:
		if b.page != "personal" {
			return course.Absent(), nil
		}
		return course.Found(fakeElement{role: role}), nil
	case course.RoleTaskName:
		card, ok := scope.(fakeElement)
		if !ok || card.role != course.RoleTaskCard {
			return course.Absent(), nil
		}
		return course.Found(fakeElement{role: role, index: card.index}), nil
	case course.RoleStudyButton:
		if b.page != "task" {
			return course.Absent(), nil
		}
		return course.Found(fakeElement{role: role}), nil
	default:
		return course.Absent(), nil
	}
}

func (b *fakeBrowser) FindAll(_ context.Context, _ course.Handle, selector string) ([]course.Handle, error) {
	if b.role(selector) != course.RoleTaskCard || b.page != "catalog" {
		return nil, nil
	}
	cards := make([]course.Handle, len(b.tasks))
	for i := range b.tasks {
		cards[i] = fakeElement{role: course.RoleTaskCard, index: i}
	}
	return cards, nil
}

func (b *fakeBrowser) WaitUntil(context.Context, string, course.WaitState, time.Duration) (course.Handle, error) {
	return nil, course.ErrWaitTimeout
}

func (b *fakeBrowser) Click(_ context.Context, h course.Handle) error {
	el := h.(fakeElement)
	b.clicks = append(b.clicks, el.role)
	switch el.role {
	case course.RolePersonalCenter:
		b.page = "personal"
	case course.RoleMyTasksTab:
		b.page = "catalog"
	case course.RoleTaskCard:
		b.page = "task"
	case course.RoleStudyButton:
		b.page = "lessons"
	}
	return nil
}

func (b *fakeBrowser) ReadText(_ context.Context, h course.Handle) (string, error) {
	el := h.(fakeElement)
	switch el.role {
	case course.RolePersonalCenter:
		return b.personalText, nil
	case course.RoleTaskName:
		return b.tasks[el.index], nil
	}
	return "", errors.New("no text")
}

func (b *fakeBrowser) RunScript(context.Context, string, ...any) (any, error) {
	return nil, nil
}

func (b *fakeBrowser) Content(context.Context) (string, error) {
	return "<html><body>" + b.page + "</body></html>", nil
}

func (b *fakeBrowser) URL() string {
	return "https://learning.example.test/" + b.page
}

type fakeStarter struct {
	browser  *fakeBrowser
	startErr error
	started  int
	stopped  int
}

func (s *fakeStarter) Start(context.Context, config.BrowserSettings) (Browser, error) {
	s.started++
	if s.startErr != nil {
		return nil, s.startErr
	}
	return s.browser, nil
}

func (s *fakeStarter) Stop() error {
	s.stopped++
	return nil
}

// scriptedPrompter answers questions from a fixed list.
type scriptedPrompter struct {
	answers []string
	asked   []string
	pauses  []string
}

func (p *scriptedPrompter) Ask(_ context.Context, q Question) (string, error) {
	p.asked = append(p.asked, q.Title)
	if len(p.answers) == 0 {
		return "", ErrPromptCancelled
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

func (p *scriptedPrompter) Pause(_ context.Context, message string) error {
	p.pauses = append(p.pauses, message)
	return nil
}

type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

func testSettings() Settings {
	pacing := course.DefaultPacing()
	return Settings{
		Browser: config.BrowserSettings{
			LoginURL:         testLoginURL,
			VerificationText: "个人中心",
		},
		Pacing: pacing,
	}
}

func quietLogger() (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	log := NewLogger(LogLevelNormal)
	log.SetWriter(&buf)
	log.SetColor(false)
	return log, &buf
}

func countLines(s, substr string) int {
	n := 0
	for _, line := range strings.Split(s, "\n") {
		if strings.Contains(line, substr) {
			n++
		}
	}
	return n
}
