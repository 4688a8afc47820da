package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"mirrorwalk/compare"
	"mirrorwalk/crawler"
)

// ProgressMsg reports progress for a single handled URL.
type ProgressMsg struct {
	Phase      crawler.Phase
	URL        string
	StatusCode int
	Done       int
}

// RunDoneMsg signals the crawl-and-compare run has completed.
type RunDoneMsg struct {
	Rows []compare.Row
	Err  error
}

// waitForProgress returns a tea.Cmd that reads one event from the progress
// channel. When the channel closes, it returns a RunDoneMsg with nil rows
// (the actual rows come from startRun).
func waitForProgress(ch <-chan crawler.Event) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return RunDoneMsg{}
		}
		return ProgressMsg{
			Phase:      evt.Phase,
			URL:        evt.URL,
			StatusCode: evt.StatusCode,
			Done:       evt.Done,
		}
	}
}
