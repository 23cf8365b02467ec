// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package windowtitle keeps the terminal title in sync with the active view.
package windowtitle

import tea "github.com/charmbracelet/bubbletea"

func NewHandler(base string, delimiter string) *TitleHandler {
	return &TitleHandler{Base: base, Delimiter: delimiter}
}

type TitleHandler struct {
	Base      string
	Delimiter string
	current   string
}

// Title is the full window title.
func (t *TitleHandler) Title() string {
	if t.current == "" {
		return t.Base
	}
	return t.Base + t.Delimiter + t.current
}

func (t *TitleHandler) Init() tea.Cmd {
	return tea.SetWindowTitle(t.Title())
}

// Handle consumes title messages and returns the command that applies them.
func (t *TitleHandler) Handle(msg tea.Msg) tea.Cmd {
	title, ok := msg.(titleMsg)
	if !ok || t.current == string(title) {
		return nil
	}
	t.current = string(title)
	return tea.SetWindowTitle(t.Title())
}
