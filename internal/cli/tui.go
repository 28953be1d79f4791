package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// barWidth is the character width of the progress bar.
const barWidth = 30

var (
	barFilledStyle = lipgloss.NewStyle().Foreground(colorCyan)
	barEmptyStyle  = lipgloss.NewStyle().Foreground(colorDim)
)

// loadProgressMsg reports one processed file.
type loadProgressMsg struct {
	done  int
	total int
	file  string
}

// loadDoneMsg signals that the loader has finished.
type loadDoneMsg struct{}

// LoadModel is the bubbletea model showing image loading progress. It
// consumes progress events from a channel fed by the loader's
// OnProgress callback.
type LoadModel struct {
	updates <-chan loadProgressMsg

	done     int
	total    int
	file     string
	Aborted  bool
	finished bool
}

// NewLoadModel creates a progress model reading from updates. The
// channel must be closed when loading completes.
func NewLoadModel(updates <-chan loadProgressMsg) LoadModel {
	return LoadModel{updates: updates}
}

func (m LoadModel) Init() tea.Cmd {
	return m.wait()
}

func (m LoadModel) wait() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-m.updates
		if !ok {
			return loadDoneMsg{}
		}
		return msg
	}
}

func (m LoadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Aborted = true
			return m, tea.Quit
		}
	case loadProgressMsg:
		m.done = msg.done
		m.total = msg.total
		m.file = msg.file
		return m, m.wait()
	case loadDoneMsg:
		m.finished = true
		return m, tea.Quit
	}
	return m, nil
}

func (m LoadModel) View() string {
	if m.finished {
		return ""
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Loading images"))
	b.WriteString("\n\n")
	b.WriteString("  " + renderBar(m.done, m.total))
	b.WriteString(fmt.Sprintf(" %d/%d", m.done, m.total))
	if m.file != "" {
		b.WriteString("  " + StyleDim.Render(m.file))
	}
	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render("  q to abort"))
	b.WriteString("\n")
	return b.String()
}

func renderBar(done, total int) string {
	if total <= 0 {
		return barEmptyStyle.Render(strings.Repeat("░", barWidth))
	}
	filled := done * barWidth / total
	if filled > barWidth {
		filled = barWidth
	}
	return barFilledStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", barWidth-filled))
}
