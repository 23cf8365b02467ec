// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

package forminput

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/fleetmaster/ui/tui/models/helpers/form"
	"github.com/toeirei/fleetmaster/ui/tui/styles"
)

type Button struct {
	Label    string
	Disabled bool
	KeyMap   ButtonKeyMap

	BlurredStyle lipgloss.Style
	FocusedStyle lipgloss.Style

	focused bool
}

type ButtonKeyMap struct {
	Click  key.Binding
	Cancel key.Binding
}

func (k ButtonKeyMap) ShortHelp() []key.Binding { return []key.Binding{k.Click, k.Cancel} }

func (k ButtonKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{{k.Click, k.Cancel}} }

func NewButton(label string) *Button {
	border := lipgloss.NewStyle().Padding(0, 2).Border(lipgloss.RoundedBorder())
	return &Button{
		Label: label,
		KeyMap: ButtonKeyMap{
			Click: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", strings.ToLower(label)),
			),
			Cancel: key.NewBinding(
				key.WithKeys("esc"),
				key.WithHelp("esc", "cancel"),
			),
		},
		BlurredStyle: border.
			BorderForeground(styles.ColorSubtle).
			Foreground(styles.ColorSubtle),
		FocusedStyle: border.
			BorderForeground(styles.ColorHighlight).
			Foreground(styles.ColorHighlight).
			Bold(true),
	}
}

func (b *Button) Focus() (tea.Cmd, help.KeyMap) {
	b.focused = true
	return nil, b.KeyMap
}

func (b *Button) Blur() { b.focused = false }

func (b *Button) Update(msg tea.Msg) (tea.Cmd, form.Action) {
	keyMsg, ok := msg.(tea.KeyMsg)
	switch {
	case !ok:
	case key.Matches(keyMsg, b.KeyMap.Cancel):
		return nil, form.ActionCancel
	case !b.Disabled && key.Matches(keyMsg, b.KeyMap.Click):
		return nil, form.ActionSubmit
	}
	return nil, form.ActionNone
}

func (b *Button) View(width int) string {
	style := b.BlurredStyle
	if b.focused && !b.Disabled {
		style = b.FocusedStyle
	}
	if width > 2 {
		style = style.MaxWidth(width - 2)
	}
	return style.Render(b.Label)
}

func (b *Button) Get() any      { return nil }
func (b *Button) Init() tea.Cmd { return nil }
func (b *Button) Reset()        {}
func (b *Button) Set(any)       {}

var _ form.FormInput = (*Button)(nil)
