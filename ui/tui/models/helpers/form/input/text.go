// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

package forminput

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/fleetmaster/ui/tui/models/helpers/form"
	"github.com/toeirei/fleetmaster/ui/tui/styles"
)

type Text struct {
	Label       string
	Placeholder string
	KeyMap      TextKeyMap

	input   textinput.Model
	focused bool
}

type TextKeyMap struct {
	Next   key.Binding
	Cancel key.Binding
}

func (k TextKeyMap) ShortHelp() []key.Binding { return []key.Binding{k.Next, k.Cancel} }

func (k TextKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{{k.Next, k.Cancel}} }

func NewText(label, placeholder string) *Text {
	return &Text{
		Label:       label,
		Placeholder: placeholder,
		KeyMap: TextKeyMap{
			Next: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "next"),
			),
			Cancel: key.NewBinding(
				key.WithKeys("esc"),
				key.WithHelp("esc", "cancel"),
			),
		},
		input: textinput.New(),
	}
}

func (t *Text) Focus() (tea.Cmd, help.KeyMap) {
	t.focused = true
	return t.input.Focus(), t.KeyMap
}

func (t *Text) Blur() {
	t.input.Blur()
	t.focused = false
}

func (t *Text) Get() any      { return t.input.Value() }
func (t *Text) Init() tea.Cmd { return nil }
func (t *Text) Reset()        { t.input.SetValue("") }

func (t *Text) Set(value any) {
	if value, ok := value.(string); ok {
		t.input.SetValue(value)
	}
}

func (t *Text) Update(msg tea.Msg) (tea.Cmd, form.Action) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, t.KeyMap.Next):
			return nil, form.ActionNext
		case key.Matches(msg, t.KeyMap.Cancel):
			return nil, form.ActionCancel
		}
	}
	var cmd tea.Cmd
	t.input, cmd = t.input.Update(msg)
	return cmd, form.ActionNone
}

func (t *Text) View(width int) string {
	label := styles.Subtle.Render(t.Label)
	if t.focused {
		label = lipgloss.NewStyle().Foreground(styles.ColorHighlight).Bold(true).Render(t.Label)
	}
	if width > 2 {
		t.input.Width = width - 2
	}
	t.input.Placeholder = t.Placeholder
	return lipgloss.JoinVertical(lipgloss.Left, label, t.input.View())
}

var _ form.FormInput = (*Text)(nil)
