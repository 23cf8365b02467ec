// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package popup overlays modal models on top of the shell content.
package popup

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/toeirei/fleetmaster/ui/tui/util"
)

const (
	reservedHeight int = 2
	reservedWidth  int = 6
)

type popup struct {
	model   *util.Model
	onClose func(*util.Model) tea.Cmd
}

// Injector renders its child and, while popups are open, the topmost popup
// centered above a dimmed copy of the child. Input goes to the topmost popup.
type Injector struct {
	child  *util.Model
	popups []popup
	size   util.Size
}

func NewInjector(child *util.Model) *Injector {
	return &Injector{child: child}
}

func (m *Injector) Init() tea.Cmd {
	return (*m.child).Init()
}

func (m *Injector) Update(msg tea.Msg) tea.Cmd {
	if m.size.Update(msg) {
		cmds := []tea.Cmd{(*m.child).Update(msg)}
		for _, p := range m.popups {
			cmds = append(cmds, (*p.model).Update(m.popupSize().ToMsg()))
		}
		return tea.Batch(cmds...)
	}

	switch msg := msg.(type) {
	case openMsg:
		return m.open(popup{model: msg.Model, onClose: msg.OnClose})
	case AskMsg:
		return m.open(popup{model: util.ModelPointer(NewConfirm(msg.Prompt, msg.Reply))})
	case closeMsg:
		return m.close()
	case tea.KeyMsg, tea.MouseMsg:
		return (*m.activeModel()).Update(msg)
	}

	// non-input messages reach the content even below a popup
	cmd := (*m.child).Update(msg)
	if len(m.popups) > 0 {
		cmd = tea.Batch(cmd, (*m.activeModel()).Update(msg))
	}
	return cmd
}

func (m *Injector) View() string {
	childView := (*m.child).View()
	if len(m.popups) == 0 {
		return childView
	}

	popupView := lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.NormalBorder()).
		Margin(0, 1).
		Render((*m.activeModel()).View())

	childView = lipgloss.NewStyle().
		Width(m.size.Width).
		Height(m.size.Height).
		Foreground(lipgloss.AdaptiveColor{Light: "#DDDADA", Dark: "#3C3C3C"}).
		Render(ansi.Strip(childView))

	return overlay(childView, popupView)
}

func (m *Injector) Focus() (tea.Cmd, help.KeyMap) {
	return (*m.activeModel()).Focus()
}

func (m *Injector) Blur() {
	(*m.activeModel()).Blur()
}

var _ util.Model = (*Injector)(nil)

// IsOpen reports whether a popup is shown.
func (m *Injector) IsOpen() bool { return len(m.popups) > 0 }

func (m *Injector) popupSize() util.Size {
	return m.size.Shrink(reservedWidth, reservedHeight)
}

func (m *Injector) open(p popup) tea.Cmd {
	m.Blur()
	m.popups = append(m.popups, p)
	return tea.Batch(
		(*p.model).Init(),
		(*p.model).Update(m.popupSize().ToMsg()),
		util.FocusCmd(m),
	)
}

func (m *Injector) close() tea.Cmd {
	if len(m.popups) == 0 {
		return nil
	}
	m.Blur()
	top := m.popups[len(m.popups)-1]
	m.popups = m.popups[:len(m.popups)-1]
	var onClose tea.Cmd
	if top.onClose != nil {
		onClose = top.onClose(top.model)
	}
	return tea.Batch(util.FocusCmd(m), onClose)
}

func (m *Injector) activeModel() *util.Model {
	if len(m.popups) > 0 {
		return m.popups[len(m.popups)-1].model
	}
	return m.child
}

// overlay centers fg above bg, cutting bg lines around it.
func overlay(bg, fg string) string {
	bgWidth, bgHeight := lipgloss.Size(bg)
	fg = lipgloss.NewStyle().MaxWidth(bgWidth).MaxHeight(bgHeight).Render(fg)
	fgWidth, fgHeight := lipgloss.Size(fg)

	left := (bgWidth - fgWidth) / 2
	top := (bgHeight - fgHeight) / 2

	bgLines := strings.Split(bg, "\n")
	for i, line := range strings.Split(fg, "\n") {
		row := i + top
		if row < 0 || row >= len(bgLines) {
			continue
		}
		l := ansi.Truncate(bgLines[row], left, "")
		r := ansi.TruncateLeft(bgLines[row], left+fgWidth, "")
		bgLines[row] = l + line + r
	}
	return strings.Join(bgLines, "\n")
}
