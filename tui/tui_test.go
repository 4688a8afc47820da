package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"mirrorwalk/compare"
	"mirrorwalk/crawler"
)

func testRun(rows []compare.Row, err error) RunFunc {
	return func(context.Context) ([]compare.Row, error) { return rows, err }
}

func TestNewModel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	progressCh := make(chan crawler.Event, 10)
	model := NewModel(ctx, cancel, testRun(nil, nil), progressCh)

	if model.ctx != ctx {
		t.Error("expected ctx to be stored in model")
	}
	if model.cancel == nil {
		t.Error("expected cancel to be stored in model")
	}
	if model.crawled != 0 || model.compared != 0 {
		t.Error("expected initial counters to be zero")
	}
	if model.done {
		t.Error("expected done to be false initially")
	}
}

func TestUpdateProgress(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	progressCh := make(chan crawler.Event, 1)
	model := NewModel(ctx, cancel, testRun(nil, nil), progressCh)

	updated, _ := model.Update(ProgressMsg{
		Phase: crawler.PhaseCrawl,
		URL:   "https://old.example/a",
		Done:  3,
	})
	m := updated.(Model)
	if m.crawled != 3 {
		t.Errorf("crawled = %d, want 3", m.crawled)
	}

	updated, _ = m.Update(ProgressMsg{
		Phase: crawler.PhaseCompare,
		URL:   "https://new.example/a",
		Done:  2,
	})
	m = updated.(Model)
	if m.compared != 2 {
		t.Errorf("compared = %d, want 2", m.compared)
	}
	if !strings.Contains(m.View(), "target") {
		t.Errorf("compare-phase view should mention the target:\n%s", m.View())
	}
}

func TestUpdateRunDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	model := NewModel(ctx, cancel, testRun(nil, nil), make(chan crawler.Event))

	// Channel-close placeholder must not mark the run as done.
	updated, _ := model.Update(RunDoneMsg{})
	m := updated.(Model)
	if m.done {
		t.Error("placeholder RunDoneMsg should not complete the run")
	}

	rows := []compare.Row{{OriginalPath: "/", OriginalStatus: 200, TargetStatus: 200}}
	updated, cmd := m.Update(RunDoneMsg{Rows: rows})
	m = updated.(Model)
	if !m.done {
		t.Error("expected done after RunDoneMsg with rows")
	}
	if cmd == nil {
		t.Error("expected a quit command")
	}
	if len(m.Rows()) != 1 {
		t.Errorf("Rows() = %v, want 1 row", m.Rows())
	}

	// A late placeholder after completion must not clobber the rows.
	updated, _ = m.Update(RunDoneMsg{})
	m = updated.(Model)
	if len(m.Rows()) != 1 {
		t.Error("late placeholder RunDoneMsg overwrote the result")
	}
}

func TestUpdateRunError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	model := NewModel(ctx, cancel, testRun(nil, nil), make(chan crawler.Event))

	wantErr := errors.New("boom")
	updated, _ := model.Update(RunDoneMsg{Err: wantErr})
	m := updated.(Model)
	if !m.done || m.Err() == nil {
		t.Error("expected done with error")
	}
	if !strings.Contains(m.View(), "boom") {
		t.Errorf("error view should include the message:\n%s", m.View())
	}
}

func TestQuitCancelsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	model := NewModel(ctx, cancel, testRun(nil, nil), make(chan crawler.Event))

	_, _ = model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	select {
	case <-ctx.Done():
	default:
		t.Error("ctrl+c should cancel the run context")
	}
}

func TestHasMismatches(t *testing.T) {
	tests := []struct {
		name string
		rows []compare.Row
		want bool
	}{
		{name: "no rows", rows: nil, want: false},
		{
			name: "all matching",
			rows: []compare.Row{{OriginalStatus: 200, TargetStatus: 200}},
			want: false,
		},
		{
			name: "one mismatch",
			rows: []compare.Row{
				{OriginalStatus: 200, TargetStatus: 200},
				{OriginalPath: "/missing", OriginalStatus: 200, TargetStatus: 404},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := Model{rows: tt.rows}
			if got := model.HasMismatches(); got != tt.want {
				t.Errorf("HasMismatches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRenderSummary(t *testing.T) {
	rows := []compare.Row{
		{OriginalPath: "/", OriginalStatus: 200, TargetStatus: 200},
		{OriginalPath: "/missing", OriginalStatus: 200, TargetStatus: 404},
		{OriginalPath: "/down", OriginalStatus: 200, TargetStatus: 0},
	}

	out := RenderSummary(rows)
	if !strings.Contains(out, "/missing") {
		t.Error("summary should list the mismatched path")
	}
	if !strings.Contains(out, "404") {
		t.Error("summary should show the target status")
	}
	if !strings.Contains(out, "fetch failed") {
		t.Error("summary should label sentinel statuses")
	}
	if strings.Contains(out, "\n/\n") {
		t.Error("summary should not list matching paths")
	}

	matching := RenderSummary(rows[:1])
	if !strings.Contains(matching, "All paths match") {
		t.Errorf("matching summary = %q", matching)
	}
}
