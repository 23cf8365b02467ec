// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

package popup

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/toeirei/fleetmaster/ui/tui/util"
)

type openMsg struct {
	Model   *util.Model
	OnClose func(*util.Model) tea.Cmd
}

type closeMsg struct{}

// AskMsg opens a yes/no dialog. The answer is delivered once on Reply.
type AskMsg struct {
	Prompt string
	Reply  chan<- bool
}

func Open(m *util.Model) tea.Cmd {
	return func() tea.Msg { return openMsg{Model: m} }
}

func OpenWithCallback(m *util.Model, cb func(*util.Model) tea.Cmd) tea.Cmd {
	return func() tea.Msg { return openMsg{Model: m, OnClose: cb} }
}

func Close() tea.Cmd {
	return func() tea.Msg { return closeMsg{} }
}

func Ask(prompt string, reply chan<- bool) tea.Cmd {
	return func() tea.Msg { return AskMsg{Prompt: prompt, Reply: reply} }
}
