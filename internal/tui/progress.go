package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/traitforge/internal/generator"
)

// ErrInterrupted is returned when the user quits a running job.
var ErrInterrupted = errors.New("interrupted")

// EventMsg carries a generator progress event.
type EventMsg generator.Event

// RenderMsg reports rendered images.
type RenderMsg struct {
	Done  int
	Total int
}

type doneMsg struct {
	err error
}

// Events adapts send into a generator progress callback.
func Events(send func(tea.Msg)) func(generator.Event) {
	return func(e generator.Event) { send(EventMsg(e)) }
}

// Renders adapts send into an output progress callback.
func Renders(send func(tea.Msg)) func(done, total int) {
	return func(done, total int) { send(RenderMsg{Done: done, Total: total}) }
}

// ProgressModel shows the phase of a running job with a spinner and a
// progress bar.
type ProgressModel struct {
	title    string
	spinner  spinner.Model
	progress progress.Model

	phase       string
	done        int
	total       int
	finished    bool
	interrupted bool
	err         error
}

// NewProgress creates a progress model.
func NewProgress(title string) ProgressModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	return ProgressModel{
		title:    title,
		spinner:  sp,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		phase:    "Starting",
	}
}

// Init starts the spinner.
func (m ProgressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages.
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.interrupted = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.progress.Width = min(max(msg.Width-30, 10), 60)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case EventMsg:
		m.phase = generator.Phase(msg.Phase).String()
		m.done, m.total = msg.Done, msg.Total

	case RenderMsg:
		m.phase = "Rendering images"
		m.done, m.total = msg.Done, msg.Total

	case doneMsg:
		m.finished = true
		m.err = msg.err
		return m, tea.Quit
	}

	return m, nil
}

// Percent returns the completed share of the current phase.
func (m ProgressModel) Percent() float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.done) / float64(m.total)
}

// View renders the UI.
func (m ProgressModel) View() string {
	if m.finished || m.interrupted {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(m.title))
	b.WriteString("\n\n  ")
	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(PhaseStyle.Render(m.phase))
	if m.total > 0 {
		b.WriteString("\n  ")
		b.WriteString(m.progress.ViewAs(m.Percent()))
		b.WriteString(" ")
		b.WriteString(CountStyle.Render(fmt.Sprintf("%d/%d", m.done, m.total)))
	}
	b.WriteString("\n\n")
	b.WriteString(HelpStyle.Render("  ctrl+c: cancel"))
	b.WriteString("\n")
	return b.String()
}

// Run runs job while showing its progress. The job receives a send
// function for EventMsg and RenderMsg values; its context is canceled when
// the user quits.
func Run(ctx context.Context, title string, job func(ctx context.Context, send func(tea.Msg)) error, opts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewProgress(title), append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)...)

	errc := make(chan error, 1)
	go func() {
		err := job(ctx, p.Send)
		errc <- err
		p.Send(doneMsg{err: err})
	}()

	final, runErr := p.Run()
	if runErr != nil {
		cancel()
		if jobErr := <-errc; jobErr != nil && !errors.Is(jobErr, context.Canceled) {
			return jobErr
		}
		return fmt.Errorf("running progress display: %w", runErr)
	}

	if m, ok := final.(ProgressModel); ok && m.interrupted {
		cancel()
		<-errc
		return ErrInterrupted
	}
	return <-errc
}
