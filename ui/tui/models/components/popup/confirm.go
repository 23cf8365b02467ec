// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

package popup

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/fleetmaster/internal/i18n"
	"github.com/toeirei/fleetmaster/ui/tui/styles"
	"github.com/toeirei/fleetmaster/ui/tui/util"
)

type ConfirmKeyMap struct {
	Toggle key.Binding
	Accept key.Binding
	Yes    key.Binding
	No     key.Binding
}

func (k ConfirmKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Accept, k.Yes, k.No}
}

func (k ConfirmKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Toggle, k.Accept}, {k.Yes, k.No}}
}

var DefaultConfirmKeyMap = ConfirmKeyMap{
	Toggle: key.NewBinding(key.WithKeys("left", "right", "tab", "h", "l"), key.WithHelp("←/→", "switch")),
	Accept: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "choose")),
	Yes:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
	No:     key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n/esc", "no")),
}

// Confirm is a two-button dialog. No is preselected.
type Confirm struct {
	Prompt string

	reply    chan<- bool
	yes      bool
	answered bool
	size     util.Size
}

func NewConfirm(prompt string, reply chan<- bool) *Confirm {
	return &Confirm{Prompt: prompt, reply: reply}
}

func (c *Confirm) Init() tea.Cmd { return nil }

func (c *Confirm) Update(msg tea.Msg) tea.Cmd {
	if c.size.Update(msg) {
		return nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch {
	case key.Matches(kmsg, DefaultConfirmKeyMap.Toggle):
		c.yes = !c.yes
	case key.Matches(kmsg, DefaultConfirmKeyMap.Accept):
		return c.answer(c.yes)
	case key.Matches(kmsg, DefaultConfirmKeyMap.Yes):
		return c.answer(true)
	case key.Matches(kmsg, DefaultConfirmKeyMap.No):
		return c.answer(false)
	}
	return nil
}

func (c *Confirm) answer(yes bool) tea.Cmd {
	if c.answered {
		return nil
	}
	c.answered = true
	if c.reply != nil {
		c.reply <- yes
	}
	return Close()
}

func (c *Confirm) View() string {
	width := util.Clamp(20, 60, c.size.Width)
	yes, no := styles.Button, styles.ActiveButton
	if c.yes {
		yes, no = styles.ActiveButton, styles.Button
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Center,
		yes.Render(i18n.T("dialog.yes")), "  ", no.Render(i18n.T("dialog.no")))
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.Title.Render(i18n.T("dialog.confirm_title")),
		lipgloss.NewStyle().Width(width).Padding(1, 1).Render(c.Prompt),
		lipgloss.NewStyle().Padding(0, 1).Render(buttons),
	)
}

func (c *Confirm) Focus() (tea.Cmd, help.KeyMap) { return nil, DefaultConfirmKeyMap }
func (c *Confirm) Blur()                         {}

var _ util.Model = (*Confirm)(nil)
