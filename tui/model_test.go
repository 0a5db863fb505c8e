package tui

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvenus2/RedditVideoMakerBot/types"
)

func TestModelProgressUpdates(t *testing.T) {
	m := NewModel("t3_abc", "My post")

	next, cmd := m.Update(ProgressMsg(0.42))
	assert.Nil(t, cmd)
	got := next.(Model)
	assert.Equal(t, StateRendering, got.State)
	assert.InDelta(t, 0.42, got.Fraction, 1e-9)
	assert.Contains(t, got.View(), "42%")
}

func TestModelDoneQuits(t *testing.T) {
	m := NewModel("t3_abc", "My post")

	res := &types.RenderResult{ThreadID: "t3_abc", VideoPath: "results/r/My post.mp4"}
	next, cmd := m.Update(DoneMsg{Result: res})
	require.NotNil(t, cmd, "completion quits the program")

	got := next.(Model)
	assert.Equal(t, StateComplete, got.State)
	assert.Equal(t, 1.0, got.Fraction)
	assert.Contains(t, got.View(), "My post.mp4")
}

func TestModelErrorQuits(t *testing.T) {
	m := NewModel("t3_abc", "My post")

	next, cmd := m.Update(ErrMsg{Err: fmt.Errorf("encoder exploded")})
	require.NotNil(t, cmd)

	got := next.(Model)
	assert.Equal(t, StateError, got.State)
	assert.Contains(t, got.View(), "encoder exploded")
}

func TestModelQuitKeys(t *testing.T) {
	m := NewModel("t3_abc", "My post")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.NotNil(t, cmd)
}

func TestBarClampsFraction(t *testing.T) {
	m := NewModel("t3_abc", "My post")
	m.Fraction = 1.3 // encoders can overshoot the probed duration
	bar := m.renderBar()
	assert.Equal(t, barWidth, strings.Count(bar, "█"))

	m.Fraction = -0.5
	bar = m.renderBar()
	assert.Equal(t, barWidth, strings.Count(bar, "░"))
}
