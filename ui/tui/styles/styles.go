// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package styles is the fixed palette of the terminal shell.
package styles

import "github.com/charmbracelet/lipgloss"

const (
	ColorSubtle    = lipgloss.Color("240")
	ColorHighlight = lipgloss.Color("81")
	ColorSpecial   = lipgloss.Color("208")
	ColorError     = lipgloss.Color("196")
	ColorSuccess   = lipgloss.Color("40")
	ColorWhite     = lipgloss.Color("231")
	ColorAccent    = lipgloss.Color("60")
)

var (
	Subtle  = lipgloss.NewStyle().Foreground(ColorSubtle)
	Error   = lipgloss.NewStyle().Foreground(ColorError)
	Success = lipgloss.NewStyle().Foreground(ColorSuccess)
	Special = lipgloss.NewStyle().Foreground(ColorSpecial)

	Title = lipgloss.NewStyle().
		Foreground(ColorHighlight).
		Bold(true).
		Padding(0, 1)

	Item         = lipgloss.NewStyle().PaddingLeft(2)
	SelectedItem = lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Bold(true).
			PaddingLeft(1).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(ColorHighlight)

	ErrorBar = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Background(ColorError).
			Padding(0, 1)

	Button = lipgloss.NewStyle().
		Foreground(ColorWhite).
		Background(lipgloss.Color("239")).
		Padding(0, 3)
	ActiveButton = Button.
			Background(ColorAccent).
			Bold(true)
)
