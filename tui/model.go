// Package tui provides the Bubble Tea terminal UI for mirrorwalk, displaying
// live progress for the crawl and compare phases and a styled summary of
// status mismatches.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mirrorwalk/compare"
	"mirrorwalk/crawler"
)

// RunFunc executes the whole crawl-and-compare pipeline and returns the
// report rows. It must close the progress channel before returning.
type RunFunc func(ctx context.Context) ([]compare.Row, error)

// Model is the Bubble Tea model for a mirrorwalk run.
type Model struct {
	ctx        context.Context
	cancel     context.CancelFunc
	run        RunFunc
	spinner    spinner.Model
	progressCh <-chan crawler.Event

	phase    crawler.Phase
	crawled  int
	compared int
	current  string
	quitting bool
	done     bool
	rows     []compare.Row
	err      error
	width    int
}

// NewModel creates a TUI model wired to the given pipeline and progress
// channel.
func NewModel(ctx context.Context, cancel context.CancelFunc, run RunFunc, progressCh <-chan crawler.Event) Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{
		ctx:        ctx,
		cancel:     cancel,
		run:        run,
		spinner:    spin,
		progressCh: progressCh,
	}
}

// Init starts the spinner, the pipeline, and the progress listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startRun(), waitForProgress(m.progressCh))
}

// startRun returns a tea.Cmd that runs the pipeline and sends RunDoneMsg.
func (m Model) startRun() tea.Cmd {
	return func() tea.Msg {
		rows, err := m.run(m.ctx)
		return RunDoneMsg{Rows: rows, Err: err}
	}
}

// Update handles messages from the Bubble Tea runtime.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			m.cancel()
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case ProgressMsg:
		m.phase = msg.Phase
		m.current = msg.URL
		switch msg.Phase {
		case crawler.PhaseCrawl:
			m.crawled = msg.Done
		case crawler.PhaseCompare:
			m.compared = msg.Done
		}
		return m, waitForProgress(m.progressCh)

	case RunDoneMsg:
		if m.done {
			return m, nil
		}
		if msg.Rows == nil && msg.Err == nil {
			// Progress channel closed; the pipeline result follows.
			return m, nil
		}
		m.done = true
		m.rows = msg.Rows
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the current TUI state.
func (m Model) View() string {
	if m.done && m.err != nil {
		return errorStyle.Render("Error: "+m.err.Error()) + "\n"
	}
	if m.done {
		return RenderSummary(m.rows)
	}
	label := "Crawling original site"
	count := m.crawled
	if m.phase == crawler.PhaseCompare {
		label = "Checking target site"
		count = m.compared
	}
	return fmt.Sprintf("%s %s... %d pages\n%s\n",
		m.spinner.View(), label, count,
		dimStyle.Render("  "+m.current))
}

// Err returns the pipeline error, if any.
func (m Model) Err() error {
	return m.err
}

// Rows returns the report rows for output formatting.
func (m Model) Rows() []compare.Row {
	return m.rows
}

// HasMismatches reports whether any compared path changed status code.
func (m Model) HasMismatches() bool {
	return len(compare.Mismatches(m.rows)) > 0
}
