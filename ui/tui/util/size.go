// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

package util

import tea "github.com/charmbracelet/bubbletea"

// Size tracks the area a component was given.
type Size struct {
	Width  int
	Height int
}

// Update records a WindowSizeMsg and reports whether msg was one.
func (s *Size) Update(msg tea.Msg) bool {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		s.Width, s.Height = msg.Width, msg.Height
		return true
	}
	return false
}

func (s Size) ToMsg() tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: s.Width, Height: s.Height}
}

// Shrink returns the size left after reserving w columns and h rows.
func (s Size) Shrink(w, h int) Size {
	return Size{Width: max(s.Width-w, 0), Height: max(s.Height-h, 0)}
}
