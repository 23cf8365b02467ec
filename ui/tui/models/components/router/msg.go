// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

package router

import tea "github.com/charmbracelet/bubbletea"

// NavigateMsg pushes Path onto the history.
type NavigateMsg struct{ Path string }

// ReplaceMsg swaps the current entry for Path.
type ReplaceMsg struct{ Path string }

// BackMsg pops one history entry.
type BackMsg struct{}

// ResumeMsg replaces the current entry with the path the guard intercepted,
// or Fallback when nothing was intercepted.
type ResumeMsg struct{ Fallback string }

// ChangedMsg is emitted after the active route changed.
type ChangedMsg struct {
	Path  string
	Title string
}

func Navigate(path string) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Path: path} }
}

func Replace(path string) tea.Cmd {
	return func() tea.Msg { return ReplaceMsg{Path: path} }
}

func Back() tea.Cmd {
	return func() tea.Msg { return BackMsg{} }
}

func Resume(fallback string) tea.Cmd {
	return func() tea.Msg { return ResumeMsg{Fallback: fallback} }
}

// IsRouterMsg reports whether msg is consumed by the router itself.
func IsRouterMsg(msg tea.Msg) bool {
	switch msg.(type) {
	case NavigateMsg, ReplaceMsg, BackMsg, ResumeMsg:
		return true
	}
	return false
}
