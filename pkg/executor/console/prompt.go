package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrPromptCancelled is returned when the operator aborts a prompt.
var ErrPromptCancelled = errors.New("prompt cancelled")

// Question is one operator prompt.
type Question struct {
	Title       string
	Hint        string
	Placeholder string
}

// Prompter asks the operator for input.
type Prompter interface {
	// Ask returns the operator's answer, without the trailing newline.
	Ask(ctx context.Context, q Question) (string, error)

	// Pause shows message and returns once the operator presses Enter.
	Pause(ctx context.Context, message string) error
}

var (
	salmonPink = lipgloss.Color("#FFB3BA")
	mintGreen  = lipgloss.Color("#A8E6CF")
	mutedGray  = lipgloss.Color("#6B7280")

	titleStyle = lipgloss.NewStyle().
			Foreground(salmonPink).
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	answerStyle = lipgloss.NewStyle().
			Foreground(mintGreen)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Italic(true)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(salmonPink).
			Padding(0, 1)
)

// TeaPrompter renders prompts with bubbletea on a terminal.
type TeaPrompter struct {
	in  io.Reader
	out io.Writer
}

// NewTeaPrompter creates a prompter on stdin and stdout.
func NewTeaPrompter() *TeaPrompter {
	return &TeaPrompter{in: os.Stdin, out: os.Stdout}
}

type promptModel struct {
	question  Question
	input     textinput.Model
	pause     bool
	value     string
	done      bool
	cancelled bool
}

func newPromptModel(q Question, pause bool) promptModel {
	ti := textinput.New()
	ti.Placeholder = q.Placeholder
	ti.Prompt = "› "
	ti.CharLimit = 1024
	ti.Width = 60
	ti.Focus()

	return promptModel{
		question: q,
		input:    ti,
		pause:    pause,
	}
}

func (m promptModel) Init() tea.Cmd {
	if m.pause {
		return nil
	}
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.value = m.input.Value()
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		}
	}
	if m.pause {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if m.done || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.question.Title))
	b.WriteString("\n")
	if m.question.Hint != "" {
		b.WriteString(hintStyle.Render(m.question.Hint))
		b.WriteString("\n")
	}
	if m.pause {
		b.WriteString(helpStyle.Render("press enter to continue"))
	} else {
		b.WriteString(inputBoxStyle.Render(m.input.View()))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter to confirm • esc to cancel"))
	}
	b.WriteString("\n")
	return b.String()
}

func (t *TeaPrompter) run(ctx context.Context, model promptModel) (promptModel, error) {
	program := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(t.in),
		tea.WithOutput(t.out),
	)
	final, err := program.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return model, ctxErr
	}
	if err != nil {
		return model, fmt.Errorf("prompt failed: %w", err)
	}

	result, ok := final.(promptModel)
	if !ok {
		return model, fmt.Errorf("prompt returned unexpected model %T", final)
	}
	if result.cancelled {
		return result, ErrPromptCancelled
	}
	return result, nil
}

// Ask shows q in an input box.
func (t *TeaPrompter) Ask(ctx context.Context, q Question) (string, error) {
	result, err := t.run(ctx, newPromptModel(q, false))
	if err != nil {
		return "", err
	}
	fmt.Fprintf(t.out, "%s %s\n", titleStyle.Render(q.Title), answerStyle.Render(result.value))
	return result.value, nil
}

// Pause shows message until Enter is pressed.
func (t *TeaPrompter) Pause(ctx context.Context, message string) error {
	_, err := t.run(ctx, newPromptModel(Question{Title: message}, true))
	return err
}

// LinePrompter reads answers line by line. It is used when stdin is not a
// terminal or plain output is requested. A single goroutine owns the reader;
// a line that arrives after a prompt was cancelled answers the next prompt.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer

	start sync.Once
	lines chan lineResult
}

type lineResult struct {
	line string
	err  error
}

// NewLinePrompter reads from in and writes prompts to out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{
		in:    bufio.NewReader(in),
		out:   out,
		lines: make(chan lineResult),
	}
}

// Ask prints q and reads one line.
func (p *LinePrompter) Ask(ctx context.Context, q Question) (string, error) {
	fmt.Fprintln(p.out, q.Title)
	if q.Hint != "" {
		fmt.Fprintln(p.out, q.Hint)
	}
	fmt.Fprint(p.out, "> ")
	return p.readLine(ctx)
}

// Pause prints message and waits for a line.
func (p *LinePrompter) Pause(ctx context.Context, message string) error {
	fmt.Fprintln(p.out, message)
	_, err := p.readLine(ctx)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (p *LinePrompter) readLine(ctx context.Context) (string, error) {
	p.start.Do(func() { go p.readLoop() })

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r, ok := <-p.lines:
		if !ok {
			return "", fmt.Errorf("failed to read input: %w", io.EOF)
		}
		line := strings.TrimRight(r.line, "\r\n")
		if r.err != nil {
			if errors.Is(r.err, io.EOF) && line != "" {
				return line, nil
			}
			return "", fmt.Errorf("failed to read input: %w", r.err)
		}
		return line, nil
	}
}

// readLoop feeds lines to readLine until the reader fails.
func (p *LinePrompter) readLoop() {
	defer close(p.lines)
	for {
		line, err := p.in.ReadString('\n')
		p.lines <- lineResult{line: line, err: err}
		if err != nil {
			return
		}
	}
}
