// Package browse renders the knowledge base as a scrollable,
// filterable BubbleTea list.
package browse

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fyrsmithlabs/sage/internal/knowledge"
)

// Lipgloss styles for the browser
var (
	// Outer container with rounded border
	containerStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("238")).
		Padding(1, 2)
)

// item adapts a knowledge entry to the list widget.
type item struct {
	entry knowledge.Entry
}

func (i item) Title() string       { return i.entry.Question }
func (i item) Description() string { return i.entry.Answer }
func (i item) FilterValue() string { return i.entry.Question }

// Model represents the BubbleTea browser model
type Model struct {
	list     list.Model
	quitting bool
}

// NewModel creates a browser model over the given entries.
func NewModel(entries []knowledge.Entry) Model {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = item{entry: e}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Knowledge base"

	return Model{list: l}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Typed characters belong to the filter input while it is open
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		h, v := containerStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the browser
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return containerStyle.Render(m.list.View())
}

// Run opens the browser and blocks until the user quits.
func Run(entries []knowledge.Entry) error {
	p := tea.NewProgram(NewModel(entries), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
