package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mvenus2/RedditVideoMakerBot/types"
)

// RequestProcessor runs one render end to end; satisfied by
// render.Processor.
type RequestProcessor interface {
	Process(req types.RenderRequest, onProgress func(float64)) (*types.RenderResult, error)
}

// Run drives one render behind a progress screen and returns the result
// once the program exits.
func Run(processor RequestProcessor, req types.RenderRequest) (*types.RenderResult, error) {
	p := tea.NewProgram(NewModel(req.ThreadID, req.Title))

	go func() {
		result, err := processor.Process(req, func(f float64) {
			p.Send(ProgressMsg(f))
		})
		if err != nil {
			p.Send(ErrMsg{Err: err})
			return
		}
		p.Send(DoneMsg{Result: result})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("progress display: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return nil, fmt.Errorf("unexpected final model %T", final)
	}
	switch m.State {
	case StateComplete:
		return m.Result, nil
	case StateError:
		return nil, m.Err
	default:
		return nil, fmt.Errorf("render interrupted")
	}
}
