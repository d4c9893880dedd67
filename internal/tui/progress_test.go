package tui

import (
	"context"
	"errors"
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/traitforge/internal/generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func update(t *testing.T, m ProgressModel, msg tea.Msg) ProgressModel {
	t.Helper()
	next, _ := m.Update(msg)
	pm, ok := next.(ProgressModel)
	require.True(t, ok)
	return pm
}

func TestProgressModel(t *testing.T) {
	m := NewProgress("traitforge")
	assert.Contains(t, m.View(), "Starting")

	m = update(t, m, EventMsg(generator.Event{Phase: generator.PhaseSampling, Done: 5, Total: 20}))
	assert.Contains(t, m.View(), "Building compositions")
	assert.Contains(t, m.View(), "5/20")
	assert.InDelta(t, 0.25, m.Percent(), 1e-9)

	m = update(t, m, RenderMsg{Done: 3, Total: 4})
	assert.Contains(t, m.View(), "Rendering images")
	assert.InDelta(t, 0.75, m.Percent(), 1e-9)

	next, cmd := m.Update(doneMsg{})
	assert.NotNil(t, cmd)
	assert.Empty(t, next.View())
}

func TestProgressModelInterrupt(t *testing.T) {
	m := update(t, NewProgress("x"), tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, m.interrupted)
	assert.Empty(t, m.View())
}

func TestRun(t *testing.T) {
	opts := []tea.ProgramOption{tea.WithInput(nil), tea.WithOutput(io.Discard)}

	var seen int
	err := Run(context.Background(), "test", func(ctx context.Context, send func(tea.Msg)) error {
		progress := Events(send)
		for i := 0; i <= 3; i++ {
			progress(generator.Event{Phase: generator.PhaseSampling, Done: i, Total: 3})
			seen++
		}
		return nil
	}, opts...)
	require.NoError(t, err)
	assert.Equal(t, 4, seen)

	boom := errors.New("boom")
	err = Run(context.Background(), "test", func(context.Context, func(tea.Msg)) error {
		return boom
	}, opts...)
	assert.ErrorIs(t, err, boom)
}
