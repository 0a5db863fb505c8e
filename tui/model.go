// Package tui renders a terminal progress view while a video is being
// assembled.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mvenus2/RedditVideoMakerBot/types"
)

// State represents the render lifecycle shown on screen
type State string

const (
	StateRendering State = "rendering"
	StateComplete  State = "complete"
	StateError     State = "error"
)

// ProgressMsg carries a completion fraction from the render pipeline.
type ProgressMsg float64

// DoneMsg signals a finished render.
type DoneMsg struct{ Result *types.RenderResult }

// ErrMsg signals a failed render.
type ErrMsg struct{ Err error }

const barWidth = 40

// Model is the single-job progress screen.
type Model struct {
	Title    string
	ThreadID string

	State    State
	Fraction float64
	Result   *types.RenderResult
	Err      error
}

func NewModel(threadID, title string) Model {
	return Model{
		Title:    title,
		ThreadID: threadID,
		State:    StateRendering,
	}
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case ProgressMsg:
		m.Fraction = float64(msg)
	case DoneMsg:
		m.State = StateComplete
		m.Fraction = 1
		m.Result = msg.Result
		return m, tea.Quit
	case ErrMsg:
		m.State = StateError
		m.Err = msg.Err
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("🎬 " + m.Title))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render("thread " + m.ThreadID))
	b.WriteString("\n\n")

	switch m.State {
	case StateRendering:
		b.WriteString(m.renderBar())
		b.WriteString("\n\n")
		b.WriteString(statusStyle.Render(fmt.Sprintf("⏳ Rendering... %3.0f%%", m.Fraction*100)))
	case StateComplete:
		b.WriteString(m.renderBar())
		b.WriteString("\n\n")
		b.WriteString(highlightStyle.Render("✅ COMPLETE"))
		if m.Result != nil {
			b.WriteString("\n")
			b.WriteString(infoStyle.Render(m.Result.VideoPath))
		}
	case StateError:
		b.WriteString(errorStyle.Render(fmt.Sprintf("❌ Error: %v", m.Err)))
	}

	b.WriteString("\n\n")
	b.WriteString(infoStyle.Render("Press 'q' or Ctrl+C to quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderBar() string {
	f := m.Fraction
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	filled := int(f * barWidth)
	return barFilledStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", barWidth-filled))
}
