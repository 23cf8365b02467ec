// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

package footer

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/fleetmaster/ui/tui/models/components/keyhelp"
	"github.com/toeirei/fleetmaster/ui/tui/util"
)

// Model shows the announced key map merged with the global bindings.
type Model struct {
	baseKeyMap help.KeyMap
	size       util.Size
	help       *keyhelp.Model
}

func New(baseKeyMap help.KeyMap) *Model {
	return &Model{baseKeyMap: baseKeyMap, help: keyhelp.New()}
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(util.AnnounceKeyMapMsg); ok {
		return m.help.Update(util.AnnounceKeyMapMsg{
			KeyMap: util.MergeKeyMaps(msg.KeyMap, m.baseKeyMap),
		})
	}
	m.size.Update(msg)
	return m.help.Update(msg)
}

// Height is the number of rows View renders including the border.
func (m *Model) Height() int {
	return lipgloss.Height(m.help.View()) + 1
}

func (m *Model) View() string {
	pos := lipgloss.Left
	if m.help.Expanded {
		pos = lipgloss.Center
	}
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		Render(lipgloss.PlaceHorizontal(m.size.Width, pos, m.help.View()))
}

func (m *Model) Focus() (tea.Cmd, help.KeyMap) { return nil, nil }
func (m *Model) Blur()                         {}

var _ util.Model = (*Model)(nil)

func (m *Model) ToggleExpanded() {
	m.help.ToggleExpanded()
}
