package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestLoadModelProgress(t *testing.T) {
	updates := make(chan loadProgressMsg, 1)
	m := NewLoadModel(updates)

	next, _ := m.Update(loadProgressMsg{done: 3, total: 10, file: "c.png"})
	m = next.(LoadModel)
	if m.done != 3 || m.total != 10 {
		t.Errorf("progress = %d/%d, want 3/10", m.done, m.total)
	}
	if !strings.Contains(m.View(), "3/10") {
		t.Error("view should show progress counter")
	}
	if !strings.Contains(m.View(), "c.png") {
		t.Error("view should show current file")
	}
}

func TestLoadModelDone(t *testing.T) {
	m := NewLoadModel(make(chan loadProgressMsg))
	next, cmd := m.Update(loadDoneMsg{})
	m = next.(LoadModel)
	if !m.finished {
		t.Error("model should be finished")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if m.View() != "" {
		t.Error("finished view should be empty")
	}
}

func TestLoadModelAbort(t *testing.T) {
	m := NewLoadModel(make(chan loadProgressMsg))
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = next.(LoadModel)
	if !m.Aborted {
		t.Error("ctrl+c should abort")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}

func TestRenderBar(t *testing.T) {
	if got := renderBar(0, 0); !strings.Contains(got, "░") {
		t.Error("zero total should render an empty bar")
	}
	full := renderBar(10, 10)
	if strings.Contains(full, "░") {
		t.Error("complete bar should have no empty cells")
	}
	half := renderBar(5, 10)
	if !strings.Contains(half, "█") || !strings.Contains(half, "░") {
		t.Error("half bar should mix filled and empty cells")
	}
}
