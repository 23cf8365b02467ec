// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

package header

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/fleetmaster/ui/tui/models/components/router"
	"github.com/toeirei/fleetmaster/ui/tui/styles"
	"github.com/toeirei/fleetmaster/ui/tui/util"
)

const logo string = "🚗 Fleetmaster"

// Model is the one-line title bar: logo, version, current route and the
// sign-in status on the right.
type Model struct {
	Version string
	// Status renders the auth status; it is polled on every View.
	Status func() string

	path string
	size util.Size
}

func New(version string, status func() string) *Model {
	return &Model{Version: version, Status: status}
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) tea.Cmd {
	if m.size.Update(msg) {
		return nil
	}
	if msg, ok := msg.(router.ChangedMsg); ok {
		m.path = msg.Path
	}
	return nil
}

// Height is the number of rows View renders.
func (m *Model) Height() int { return 2 }

func (m *Model) View() string {
	left := styles.Title.Render(logo) + styles.Subtle.Render(m.Version)
	if m.path != "" {
		left += styles.Subtle.Render("  " + m.path)
	}
	right := ""
	if m.Status != nil {
		right = m.Status()
	}
	gap := max(m.size.Width-lipgloss.Width(left)-lipgloss.Width(right)-1, 1)
	line := left + lipgloss.NewStyle().Width(gap).Render("") + right

	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false).
		BorderBottom(true).
		Width(m.size.Width).
		MaxWidth(m.size.Width).
		Render(line)
}

func (m *Model) Focus() (tea.Cmd, help.KeyMap) { return nil, nil }
func (m *Model) Blur()                         {}

var _ util.Model = (*Model)(nil)
